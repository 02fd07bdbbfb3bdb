package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-orrery/internal/orbit"
	"github.com/litescript/ls-orrery/internal/state"
)

// speedStep is the per-key change of a body's speed.
const speedStep = 0.1

// recentEvents is how many control changes the panel lists.
const recentEvents = 5

// FocusBodyMsg asks the orrery view to focus a body.
type FocusBodyMsg struct {
	Index int
}

// BodiesModel lists the star, planets, moons and comets with per-body speed
// controls and an info panel for the selection.
type BodiesModel struct {
	width    int
	height   int
	snapshot state.Snapshot
	state    *state.Manager
	theme    Theme

	selected int // Index into entries()
	scroll   int
	err      error // Last speed change error
}

// NewBodiesModel creates the bodies panel. mgr receives speed changes.
func NewBodiesModel(mgr *state.Manager, theme Theme) BodiesModel {
	return BodiesModel{state: mgr, theme: theme}
}

// SetSize updates the viewport size.
func (m BodiesModel) SetSize(width, height int) BodiesModel {
	m.width = width
	m.height = height
	return m
}

// SetTheme switches the palette.
func (m BodiesModel) SetTheme(t Theme) BodiesModel {
	m.theme = t
	return m
}

// UpdateData updates the model with a new snapshot.
func (m BodiesModel) UpdateData(snapshot state.Snapshot) BodiesModel {
	m.snapshot = snapshot
	if n := len(m.entries()); m.selected >= n {
		m.selected = max(n-1, 0)
	}
	return m
}

// entries lists body indices in display order: the update order without
// the belt.
func (m BodiesModel) entries() []int {
	sys := m.snapshot.System
	if sys == nil {
		return nil
	}
	var out []int
	for _, i := range sys.Order() {
		if sys.Bodies[i].Kind != orbit.KindAsteroid {
			out = append(out, i)
		}
	}
	return out
}

// SelectedIndex returns the body index of the selection, or -1.
func (m BodiesModel) SelectedIndex() int {
	list := m.entries()
	if m.selected < 0 || m.selected >= len(list) {
		return -1
	}
	return list[m.selected]
}

// Update handles input messages.
func (m BodiesModel) Update(msg tea.Msg) (BodiesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		n := len(m.entries())
		switch msg.String() {
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
		case "down", "j":
			if m.selected < n-1 {
				m.selected++
			}
		case "home", "g":
			m.selected = 0
		case "end", "G":
			m.selected = max(n-1, 0)
		case "left", "h":
			m.adjustSpeed(-speedStep)
		case "right", "l":
			m.adjustSpeed(speedStep)
		case "0", "backspace":
			if idx := m.SelectedIndex(); idx >= 0 && m.state != nil {
				m.err = m.state.ResetBodySpeed(idx)
			}
		case "enter", "f":
			if idx := m.SelectedIndex(); idx >= 0 {
				return m, func() tea.Msg { return FocusBodyMsg{Index: idx} }
			}
		}
		m.ensureVisible()
	}
	return m, nil
}

func (m *BodiesModel) adjustSpeed(delta float64) {
	idx := m.SelectedIndex()
	if idx < 0 || m.state == nil {
		return
	}
	_, m.err = m.state.AdjustBodySpeed(idx, delta)
}

func (m *BodiesModel) listHeight() int {
	return max(m.height-2, 3)
}

func (m *BodiesModel) ensureVisible() {
	h := m.listHeight()
	if m.selected < m.scroll {
		m.scroll = m.selected
	}
	if m.selected >= m.scroll+h {
		m.scroll = m.selected - h + 1
	}
}

// View renders the list and the info panel side by side.
func (m BodiesModel) View() string {
	if m.snapshot.System == nil {
		return "Waiting for first frame..."
	}
	listWidth := min(48, max(m.width/2, 30))
	list := lipgloss.NewStyle().Width(listWidth).Render(m.renderList())
	info := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Dim).
		Padding(0, 1).
		Render(m.renderInfo())
	right := lipgloss.JoinVertical(lipgloss.Left, info, "", m.renderEvents())
	return lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", right)
}

// renderEvents lists the latest control changes, newest first.
func (m BodiesModel) renderEvents() string {
	headerStyle := lipgloss.NewStyle().Foreground(m.theme.Header).Bold(true)
	timeStyle := lipgloss.NewStyle().Foreground(m.theme.Dim)
	textStyle := lipgloss.NewStyle().Foreground(m.theme.Text)

	var b strings.Builder
	b.WriteString(headerStyle.Render("Recent"))
	b.WriteString("\n")

	events := m.snapshot.Events
	if len(events) == 0 {
		b.WriteString(timeStyle.Render("No changes yet"))
		return b.String()
	}
	start := max(len(events)-recentEvents, 0)
	for i := len(events) - 1; i >= start; i-- {
		e := events[i]
		b.WriteString(timeStyle.Render(e.Timestamp.Format("15:04:05")))
		b.WriteString(" ")
		b.WriteString(textStyle.Render(formatEvent(e)))
		if i > start {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func formatEvent(e state.Event) string {
	switch e.Type {
	case state.EventPaused:
		return "Paused"
	case state.EventResumed:
		return "Resumed"
	case state.EventSpeedChanged:
		return fmt.Sprintf("Speed %.2fx → %.2fx", e.OldValue, e.NewValue)
	case state.EventBodySpeed:
		return fmt.Sprintf("%s speed %.2fx → %.2fx", e.Body, e.OldValue, e.NewValue)
	case state.EventBodySpeedReset:
		return fmt.Sprintf("%s speed reset to %.2fx", e.Body, e.NewValue)
	default:
		return string(e.Type)
	}
}

func (m BodiesModel) renderList() string {
	var b strings.Builder
	sys := m.snapshot.System

	headerStyle := lipgloss.NewStyle().Foreground(m.theme.Header).Bold(true)
	selectedStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	nameStyle := lipgloss.NewStyle().Foreground(m.theme.Text)
	dimStyle := lipgloss.NewStyle().Foreground(m.theme.Dim)
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))

	b.WriteString(headerStyle.Render("Bodies"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %d planets · %d moons · %d asteroids · %d comets",
		sys.Count(orbit.KindPlanet), sys.Count(orbit.KindMoon), sys.Count(orbit.KindAsteroid), sys.Count(orbit.KindComet))))
	b.WriteString("\n")

	list := m.entries()
	end := min(len(list), m.scroll+m.listHeight())
	for row := m.scroll; row < end; row++ {
		body := sys.Bodies[list[row]]

		indent := ""
		if body.Kind == orbit.KindMoon {
			indent = "  └ "
		}
		name := fmt.Sprintf("%-14s", indent+displayName(body))
		dot := lipgloss.NewStyle().Foreground(m.theme.Body(body.Color)).Render("●")

		line := dot + " "
		if row == m.selected {
			line += selectedStyle.Render(name)
		} else {
			line += nameStyle.Render(name)
		}
		if body.Kind != orbit.KindStar {
			line += " " + renderSpeedBar(body.CurrentSpeed, 10, 10)
			line += dimStyle.Render(fmt.Sprintf(" %5.2fx", body.CurrentSpeed))
			if body.CurrentSpeed != body.BaseSpeed {
				line += dimStyle.Render("*")
			}
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(errStyle.Render(m.err.Error()))
	}
	return b.String()
}

// renderSpeedBar draws v out of maxV as a slider of width cells.
func renderSpeedBar(v, maxV float64, width int) string {
	filled := int(v / maxV * float64(width))
	filled = min(max(filled, 0), width)
	var b strings.Builder
	for i := 0; i < width; i++ {
		if i < filled {
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(gradientColor(i, 0, width, 1))).Render("━"))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("237")).Render("─"))
		}
	}
	return b.String()
}

// renderInfo describes the selected body.
func (m BodiesModel) renderInfo() string {
	idx := m.SelectedIndex()
	if idx < 0 {
		return "No body selected"
	}
	sys := m.snapshot.System
	body := sys.Bodies[idx]

	headerStyle := lipgloss.NewStyle().Foreground(m.theme.Header).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(m.theme.Dim).Width(22)
	valueStyle := lipgloss.NewStyle().Foreground(m.theme.Text)

	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}

	switch body.Kind {
	case orbit.KindStar:
		b.WriteString(headerStyle.Render("☀ " + displayName(body)))
		b.WriteString("\n\n")
		row("Type:", "G-type main-sequence star")
		row("Temperature:", "~5,778 K surface")
		row("Mass:", "1.989 × 10³⁰ kg")
	case orbit.KindPlanet:
		b.WriteString(headerStyle.Render("● " + displayName(body)))
		b.WriteString("\n\n")
		row("Distance from Sun:", fmt.Sprintf("%g AU", body.Distance))
		row("Size:", fmt.Sprintf("%g Earth radii", body.Size))
		row("Orbital Speed:", fmt.Sprintf("%g km/s", body.BaseSpeed))
		row("Moons:", fmt.Sprintf("%d", len(sys.Moons(idx))))
	case orbit.KindMoon:
		parent := "?"
		if body.Parent >= 0 && body.Parent < sys.Len() {
			parent = sys.Bodies[body.Parent].Name
		}
		b.WriteString(headerStyle.Render("∘ " + displayName(body)))
		b.WriteString("\n\n")
		row("Parent Planet:", parent)
		row("Distance from Planet:", fmt.Sprintf("%g planetary radii", body.Distance))
		row("Size:", fmt.Sprintf("%g relative units", body.Size))
		row("Orbital Speed:", fmt.Sprintf("%g km/s", body.BaseSpeed))
	case orbit.KindComet:
		b.WriteString(headerStyle.Render("✦ " + displayName(body)))
		b.WriteString("\n\n")
		row("Semi-major axis:", fmt.Sprintf("%.1f", body.Distance))
		row("Eccentricity:", fmt.Sprintf("%.2f", body.Eccentricity))
		row("Perihelion:", fmt.Sprintf("%.1f", body.Perihelion()))
		row("Aphelion:", fmt.Sprintf("%.1f", body.Aphelion()))
	default:
		b.WriteString(headerStyle.Render(displayName(body)))
		b.WriteString("\n\n")
	}

	if body.Kind != orbit.KindStar {
		row("Current Speed:", fmt.Sprintf("%.2fx (base %.2f)", body.CurrentSpeed, body.BaseSpeed))
	}
	if body.Info != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(m.theme.Text).Width(44).Render(body.Info))
	}
	return b.String()
}
