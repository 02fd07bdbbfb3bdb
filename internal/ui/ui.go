// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-orrery/internal/orbit"
	"github.com/litescript/ls-orrery/internal/scene"
	"github.com/litescript/ls-orrery/internal/state"
	"github.com/litescript/ls-orrery/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewOrrery ViewMode = iota
	ViewBodies
)

// Msg types for Bubble Tea
type (
	// FrameMsg advances the simulation one frame.
	FrameMsg time.Time

	// AnimTickMsg drives the footer spinner.
	AnimTickMsg time.Time
)

// Options configures the root model.
type Options struct {
	Quality       scene.Quality
	Light         bool          // Start with the light theme
	SkipLoading   bool          // Go straight to the orrery
	LoadingSteps  []LoadingStep // Defaults to DefaultLoadingSteps
	FrameInterval time.Duration // Defaults to 33ms
}

// DefaultOptions returns the interactive defaults.
func DefaultOptions() Options {
	return Options{
		Quality:       scene.QualityHigh,
		LoadingSteps:  DefaultLoadingSteps,
		FrameInterval: 33 * time.Millisecond,
	}
}

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	state *state.Manager

	// UI state
	viewMode      ViewMode
	width         int
	height        int
	ready         bool
	loaded        bool
	theme         Theme
	animTick      int
	frameInterval time.Duration
	statusMsg     string

	// Sub-models
	loading LoadingModel
	orrery  OrreryModel
	bodies  BodiesModel

	// Data snapshot (updated on FrameMsg)
	snapshot state.Snapshot
}

// New creates a new root UI model. starfield may be nil.
func New(stateMgr *state.Manager, starfield *scene.Starfield, opts Options) Model {
	theme := DarkTheme
	if opts.Light {
		theme = LightTheme
	}
	steps := opts.LoadingSteps
	if steps == nil {
		steps = DefaultLoadingSteps
	}
	interval := opts.FrameInterval
	if interval <= 0 {
		interval = 33 * time.Millisecond
	}

	m := Model{
		state:         stateMgr,
		viewMode:      ViewOrrery,
		theme:         theme,
		frameInterval: interval,
		loading:       NewLoadingModel(steps),
		orrery:        NewOrreryModel(starfield, opts.Quality, theme),
		bodies:        NewBodiesModel(stateMgr, theme),
		loaded:        opts.SkipLoading,
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if !m.loaded {
		return m.loading.Init()
	}
	return tea.Batch(m.frameCmd(), animTickCmd())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if !m.loaded {
			var cmd tea.Cmd
			m.loading, cmd = m.loading.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "1":
			m.viewMode = ViewOrrery
		case "2":
			m.viewMode = ViewBodies
		case "tab":
			m.viewMode = (m.viewMode + 1) % 2

		case " ":
			if m.state.TogglePause() {
				m.statusMsg = "Paused"
			} else {
				m.statusMsg = "Resumed"
			}
		case "+", "=":
			m.statusMsg = fmt.Sprintf("Speed %.1fx", m.state.AdjustGlobalSpeed(speedStep))
		case "-", "_":
			m.statusMsg = fmt.Sprintf("Speed %.1fx", m.state.AdjustGlobalSpeed(-speedStep))

		case "T":
			m.theme = m.theme.Toggle()
			m.orrery = m.orrery.SetTheme(m.theme)
			m.bodies = m.bodies.SetTheme(m.theme)
			m.statusMsg = m.theme.Name + " theme"

		default:
			cmds = append(cmds, m.updateActiveView(msg))
		}
		// Key handlers mutate state; show it without waiting for a frame.
		m.refresh()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		contentHeight := msg.Height - m.chromeHeight()
		m.loading = m.loading.SetSize(msg.Width, msg.Height)
		m.orrery = m.orrery.SetSize(msg.Width, contentHeight)
		m.bodies = m.bodies.SetSize(msg.Width, contentHeight)

	case loadingStepMsg:
		var cmd tea.Cmd
		m.loading, cmd = m.loading.Update(msg)
		cmds = append(cmds, cmd)

	case LoadingDoneMsg:
		if !m.loaded {
			m.loaded = true
			cmds = append(cmds, m.frameCmd(), animTickCmd())
		}

	case FrameMsg:
		cmds = append(cmds, m.frameCmd())
		m.state.Tick(time.Time(msg))
		m.refresh()

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++

	case FocusBodyMsg:
		m.orrery.FocusOn(msg.Index)
		m.viewMode = ViewOrrery
	}

	return m, tea.Batch(cmds...)
}

// refresh pulls a fresh snapshot and hands it to the views.
func (m *Model) refresh() {
	m.snapshot = m.state.Snapshot()
	m.orrery = m.orrery.UpdateData(m.snapshot)
	m.bodies = m.bodies.UpdateData(m.snapshot)
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewOrrery:
		m.orrery, cmd = m.orrery.Update(msg)
	case ViewBodies:
		m.bodies, cmd = m.bodies.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if !m.loaded {
		return m.loading.View()
	}

	var content string
	switch m.viewMode {
	case ViewOrrery:
		content = m.orrery.View()
	case ViewBodies:
		content = m.bodies.View()
	}

	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

// showLogo reports whether there is room for the full logo.
func (m Model) showLogo() bool {
	return m.height >= 40
}

// chromeHeight is the number of lines taken by header and footer.
func (m Model) chromeHeight() int {
	if m.showLogo() {
		return 13
	}
	return 4
}

func (m Model) renderHeader() string {
	var b strings.Builder
	if m.showLogo() {
		b.WriteString(m.renderLogo())
	} else {
		title := lipgloss.NewStyle().Foreground(lipgloss.Color(gradientColor(0, 0, 2, 1))).Bold(true)
		b.WriteString(title.Render("  LS-ORRERY"))
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("60")).Render(fmt.Sprintf(" v%s", version.Version)))
		b.WriteString("\n")
	}
	b.WriteString(m.renderTabs())
	return b.String()
}

func (m Model) renderLogo() string {
	logo := []string{
		`  ██╗     ███████╗       ██████╗ ██████╗ ██████╗ ███████╗██████╗ ██╗   ██╗`,
		`  ██║     ██╔════╝      ██╔═══██╗██╔══██╗██╔══██╗██╔════╝██╔══██╗╚██╗ ██╔╝`,
		`  ██║     ███████╗█████╗██║   ██║██████╔╝██████╔╝█████╗  ██████╔╝ ╚████╔╝`,
		`  ██║     ╚════██║╚════╝██║   ██║██╔══██╗██╔══██╗██╔══╝  ██╔══██╗  ╚██╔╝`,
		`  ███████╗███████║      ╚██████╔╝██║  ██║██║  ██║███████╗██║  ██║   ██║`,
		`  ╚══════╝╚══════╝       ╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝   ╚═╝`,
	}

	var b strings.Builder
	b.WriteString("\n")

	for row, line := range logo {
		runes := []rune(line)
		for col, r := range runes {
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(gradientColor(col, row, len(runes), len(logo))))
			b.WriteString(style.Render(string(r)))
		}
		b.WriteString("\n")
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render("  Solar System Orrery · Terminal Visualization"))
	b.WriteString("\n")
	b.WriteString(muted.Render(fmt.Sprintf("  (c) 2025 litescript.net | v%s", version.Version)))
	b.WriteString("\n\n")

	return b.String()
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Orrery", "[2] Bodies"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(m.theme.Dim)
	valueStyle := lipgloss.NewStyle().Foreground(m.theme.Text)
	accentStyle := lipgloss.NewStyle().Foreground(m.theme.Accent)
	pausedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)

	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

	var status string
	if m.snapshot.Paused {
		status = pausedStyle.Render("⏸ PAUSED")
	} else {
		status = accentStyle.Render(spinnerFrames[m.animTick%len(spinnerFrames)]) + valueStyle.Render(" running")
	}

	objects, particles := 0, 0
	if sys := m.snapshot.System; sys != nil {
		objects = sys.Len()
		particles = scene.ParticleCount(sys.Count(orbit.KindAsteroid))
	}
	stats := dimStyle.Render("Speed ") + valueStyle.Render(fmt.Sprintf("%.1fx", m.snapshot.GlobalSpeed)) +
		dimStyle.Render("  FPS ") + valueStyle.Render(fmt.Sprintf("%.0f", m.snapshot.FPS)) +
		dimStyle.Render("  Objects ") + valueStyle.Render(formatThousands(objects)) +
		dimStyle.Render("  Particles ") + valueStyle.Render(formatThousands(particles))

	var help string
	switch m.viewMode {
	case ViewBodies:
		help = "↑↓: select | ←/→: speed | 0: reset | enter: focus"
	default:
		help = "wasd: rotate | i/o: zoom | j/k: focus | r: reset | m: scale | l: labels | n/b/c/e/p/t: layers | Q: quality"
	}
	help += " | space: pause | +/-: speed | T: theme | q: quit"

	footer := "  " + status + "  " + stats + "\n  " + dimStyle.Render(help)
	if m.statusMsg != "" {
		footer += "  " + accentStyle.Render(m.statusMsg)
	}
	return footer
}

func (m Model) frameCmd() tea.Cmd {
	return tea.Tick(m.frameInterval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

// formatThousands formats n with comma separators.
func formatThousands(n int) string {
	if n < 0 {
		return "-" + formatThousands(-n)
	}
	s := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteRune(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Orrery returns the orrery sub-model.
func (m Model) Orrery() OrreryModel {
	return m.orrery
}

// ActiveView returns the active view.
func (m Model) ActiveView() ViewMode {
	return m.viewMode
}

// Loaded reports whether the loading sequence has finished.
func (m Model) Loaded() bool {
	return m.loaded
}
