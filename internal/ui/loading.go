package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// LoadingStep is one stage of the start-up sequence.
type LoadingStep struct {
	Text     string
	Duration time.Duration
}

// DefaultLoadingSteps is the start-up sequence shown before the orrery.
var DefaultLoadingSteps = []LoadingStep{
	{"Initializing 3D Engine...", 500 * time.Millisecond},
	{"Setting up cosmic environment...", 600 * time.Millisecond},
	{"Creating celestial bodies...", 800 * time.Millisecond},
	{"Calculating orbital mechanics...", 700 * time.Millisecond},
	{"Adding atmospheric effects...", 600 * time.Millisecond},
	{"Generating asteroid belt...", 500 * time.Millisecond},
	{"Spawning comets...", 400 * time.Millisecond},
	{"Finalizing solar system...", 300 * time.Millisecond},
}

type (
	// loadingStepMsg marks the end of step index.
	loadingStepMsg struct {
		step int
	}

	// LoadingDoneMsg signals that the start-up sequence has finished.
	LoadingDoneMsg struct{}
)

// LoadingModel shows the start-up sequence with a progress bar.
type LoadingModel struct {
	width   int
	height  int
	steps   []LoadingStep
	current int // Index of the running step; len(steps) when done
}

// NewLoadingModel creates a loading sequence over steps.
func NewLoadingModel(steps []LoadingStep) LoadingModel {
	return LoadingModel{steps: steps}
}

// Init starts the first step.
func (m LoadingModel) Init() tea.Cmd {
	return m.stepCmd()
}

// SetSize updates the viewport size.
func (m LoadingModel) SetSize(width, height int) LoadingModel {
	m.width = width
	m.height = height
	return m
}

// Done reports whether every step has finished.
func (m LoadingModel) Done() bool {
	return m.current >= len(m.steps)
}

// Progress returns the completed fraction in [0, 1].
func (m LoadingModel) Progress() float64 {
	if len(m.steps) == 0 {
		return 1
	}
	return float64(m.current) / float64(len(m.steps))
}

// Update advances the sequence.
func (m LoadingModel) Update(msg tea.Msg) (LoadingModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loadingStepMsg:
		if msg.step != m.current || m.Done() {
			return m, nil
		}
		m.current++
		if m.Done() {
			return m, loadingDone
		}
		return m, m.stepCmd()

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "esc":
			m.current = len(m.steps)
			return m, loadingDone
		}
	}
	return m, nil
}

func (m LoadingModel) stepCmd() tea.Cmd {
	if m.Done() {
		return loadingDone
	}
	step := m.current
	return tea.Tick(m.steps[step].Duration, func(time.Time) tea.Msg {
		return loadingStepMsg{step: step}
	})
}

func loadingDone() tea.Msg {
	return LoadingDoneMsg{}
}

// View renders the step list and progress bar.
func (m LoadingModel) View() string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	doneStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	b.WriteString(headerStyle.Render("Loading Solar System"))
	b.WriteString("\n\n")

	for i, step := range m.steps {
		switch {
		case i < m.current:
			b.WriteString(doneStyle.Render("  ✓ " + step.Text))
		case i == m.current:
			b.WriteString(activeStyle.Render("  ▸ " + step.Text))
		default:
			b.WriteString(dimStyle.Render("    " + step.Text))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	barWidth := 40
	if m.width > 0 && m.width-12 < barWidth {
		barWidth = max(10, m.width-12)
	}
	b.WriteString("  ")
	b.WriteString(renderProgressBar(m.Progress(), barWidth))
	b.WriteString(dimStyle.Render(fmt.Sprintf(" %3.0f%%", m.Progress()*100)))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("  enter: skip"))

	content := b.String()
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}

func renderProgressBar(frac float64, width int) string {
	filled := int(frac * float64(width))
	if filled > width {
		filled = width
	}

	var b strings.Builder
	for i := 0; i < width; i++ {
		if i < filled {
			color := gradientColor(i, 0, width, 1)
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("█"))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("237")).Render("░"))
		}
	}
	return b.String()
}
