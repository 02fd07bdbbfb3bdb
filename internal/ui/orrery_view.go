package ui

import (
	"fmt"
	"math"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/litescript/ls-orrery/internal/orbit"
	"github.com/litescript/ls-orrery/internal/scene"
	"github.com/litescript/ls-orrery/internal/state"
)

// LabelMode controls which bodies are labelled on the canvas.
type LabelMode int

const (
	LabelNone    LabelMode = iota // No labels
	LabelFocused                  // Only the focused body
	LabelAll                      // Star and planets
)

func (l LabelMode) String() string {
	switch l {
	case LabelNone:
		return "off"
	case LabelFocused:
		return "focus"
	case LabelAll:
		return "all"
	default:
		return "?"
	}
}

// Layers groups the visibility toggles of the orrery view.
type Layers struct {
	Moons       bool
	Asteroids   bool
	Comets      bool
	Atmospheres bool
	Particles   bool // Dust and comet tails
	Stars       bool
}

// AllLayers has every layer switched on.
var AllLayers = Layers{Moons: true, Asteroids: true, Comets: true, Atmospheres: true, Particles: true, Stars: true}

// zoomStep is the camera distance change per zoom key press.
const zoomStep = 10.0

// OrreryModel renders the system through the orbit camera.
type OrreryModel struct {
	width     int
	height    int
	snapshot  state.Snapshot
	starfield *scene.Starfield

	camera    scene.Camera
	scaleMode scene.ScaleMode
	quality   scene.Quality
	theme     Theme
	labelMode LabelMode
	layers    Layers
	focus     int // Body index, orbit.NoParent when looking at the origin
}

// NewOrreryModel creates the orrery view. starfield may be nil.
func NewOrreryModel(starfield *scene.Starfield, quality scene.Quality, theme Theme) OrreryModel {
	return OrreryModel{
		starfield: starfield,
		camera:    scene.NewCamera(),
		scaleMode: scene.ScaleLinear,
		quality:   quality,
		theme:     theme,
		labelMode: LabelFocused,
		layers:    AllLayers,
		focus:     orbit.NoParent,
	}
}

// SetSize updates the viewport size.
func (m OrreryModel) SetSize(width, height int) OrreryModel {
	m.width = width
	m.height = height
	return m
}

// SetTheme switches the palette.
func (m OrreryModel) SetTheme(t Theme) OrreryModel {
	m.theme = t
	return m
}

// UpdateData takes a new snapshot, eases the camera one step and keeps it
// on the focused body.
func (m OrreryModel) UpdateData(snapshot state.Snapshot) OrreryModel {
	m.snapshot = snapshot
	if m.focus == orbit.NoParent {
		if idx := m.starIndex(); idx >= 0 {
			m.focus = idx
		}
	}
	m.camera.Step()
	if b := m.focusedBody(); b != nil {
		m.camera.Target = b.Position
	}
	return m
}

// Update handles input messages.
func (m OrreryModel) Update(msg tea.Msg) (OrreryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		// Camera rotation
		case "w":
			m.camera.Rotate(0, -scene.RotateStep)
		case "s":
			m.camera.Rotate(0, scene.RotateStep)
		case "a":
			m.camera.Rotate(-scene.RotateStep, 0)
		case "d":
			m.camera.Rotate(scene.RotateStep, 0)

		// Zoom
		case "i":
			m.camera.Zoom(-zoomStep)
		case "o":
			m.camera.Zoom(zoomStep)

		// Reset camera and focus
		case "r":
			m.camera.Reset()
			m.focus = m.starIndex()

		// Focus navigation
		case "j", "[":
			m.focusStep(-1)
		case "k", "]":
			m.focusStep(1)

		case "m":
			m.scaleMode = (m.scaleMode + 1) % 2
		case "l":
			m.labelMode = (m.labelMode + 1) % 3
		case "Q":
			m.quality = m.quality.Next()

		// Layers
		case "t":
			m.layers.Stars = !m.layers.Stars
		case "n":
			m.layers.Moons = !m.layers.Moons
			if !m.layers.Moons && m.focusedKind() == orbit.KindMoon {
				m.FocusOn(m.snapshot.System.Bodies[m.focus].Parent)
			}
		case "b":
			m.layers.Asteroids = !m.layers.Asteroids
		case "c":
			m.layers.Comets = !m.layers.Comets
			if !m.layers.Comets && m.focusedKind() == orbit.KindComet {
				m.FocusOn(m.starIndex())
			}
		case "e":
			m.layers.Atmospheres = !m.layers.Atmospheres
		case "p":
			m.layers.Particles = !m.layers.Particles
		}
	}
	return m, nil
}

// FocusOn points the camera at body index at its focus distance.
func (m *OrreryModel) FocusOn(index int) {
	sys := m.snapshot.System
	if sys == nil || index < 0 || index >= sys.Len() {
		return
	}
	b := sys.Bodies[index]
	var parent *orbit.Body
	if b.Kind == orbit.KindMoon && b.Parent >= 0 && b.Parent < sys.Len() {
		parent = &sys.Bodies[b.Parent]
	}
	m.focus = index
	m.camera.Focus(b.Position, scene.FocusDistance(b, parent))
}

// focusables lists the bodies focus cycles through: the star, each planet
// followed by its moons, then comets. Hidden layers are skipped.
func (m OrreryModel) focusables() []int {
	sys := m.snapshot.System
	if sys == nil {
		return nil
	}
	var out []int
	for _, i := range sys.Order() {
		switch sys.Bodies[i].Kind {
		case orbit.KindStar, orbit.KindPlanet:
			out = append(out, i)
		case orbit.KindMoon:
			if m.layers.Moons {
				out = append(out, i)
			}
		case orbit.KindComet:
			if m.layers.Comets {
				out = append(out, i)
			}
		}
	}
	return out
}

func (m *OrreryModel) focusStep(dir int) {
	list := m.focusables()
	if len(list) == 0 {
		return
	}
	pos := -1
	for i, idx := range list {
		if idx == m.focus {
			pos = i
			break
		}
	}
	pos = (pos + dir + len(list)) % len(list)
	m.FocusOn(list[pos])
}

func (m OrreryModel) starIndex() int {
	if m.snapshot.System == nil {
		return orbit.NoParent
	}
	if idx := m.snapshot.System.Indices(orbit.KindStar); len(idx) > 0 {
		return idx[0]
	}
	return orbit.NoParent
}

func (m OrreryModel) focusedBody() *orbit.Body {
	sys := m.snapshot.System
	if sys == nil || m.focus < 0 || m.focus >= sys.Len() {
		return nil
	}
	return &sys.Bodies[m.focus]
}

func (m OrreryModel) focusedKind() orbit.Kind {
	if b := m.focusedBody(); b != nil {
		return b.Kind
	}
	return -1
}

// View renders the orrery view.
func (m OrreryModel) View() string {
	if m.width < 40 || m.height < 10 {
		return "Terminal too small for orrery view"
	}
	if m.snapshot.System == nil {
		return "Waiting for first frame..."
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.buildCanvas(), m.renderHUD())
}

// cell is one character of the canvas.
type cell struct {
	ch    rune
	color lipgloss.Color
	bold  bool
}

// canvas is a character grid with a screen mapping for projected points.
type canvas struct {
	cells  [][]cell
	w, h   int
	cx, cy float64
	sx, sy float64 // Cells per normalized unit
}

func newCanvas(w, h int) *canvas {
	cells := make([][]cell, h)
	for y := range cells {
		cells[y] = make([]cell, w)
		for x := range cells[y] {
			cells[y][x].ch = ' '
		}
	}
	sy := float64(h) / 2
	return &canvas{
		cells: cells,
		w:     w,
		h:     h,
		cx:    float64(w) / 2,
		cy:    float64(h) / 2,
		sy:    sy,
		sx:    sy * 2, // Terminal cells are about twice as tall as wide
	}
}

func (c *canvas) toScreen(p scene.ProjectedPoint) (int, int, bool) {
	if !p.Visible {
		return 0, 0, false
	}
	x := int(math.Round(c.cx + p.X*c.sx))
	y := int(math.Round(c.cy - p.Y*c.sy))
	if x < 0 || x >= c.w || y < 0 || y >= c.h {
		return 0, 0, false
	}
	return x, y, true
}

func (c *canvas) set(x, y int, ch rune, color lipgloss.Color, bold bool) {
	c.cells[y][x] = cell{ch: ch, color: color, bold: bold}
}

func (c *canvas) empty(x, y int) bool {
	return c.cells[y][x].ch == ' '
}

// drawable is a glyph with a depth, painted far to near.
type drawable struct {
	x, y  int
	depth float64
	ch    rune
	color lipgloss.Color
	bold  bool
	index int // Body index, -1 for particles
}

// bodyPos tracks a body's screen position for label rendering.
type bodyPos struct {
	x, y      int
	name      string
	kind      orbit.Kind
	isFocused bool
}

func (m OrreryModel) buildCanvas() string {
	// Reserve space for HUD (2 lines)
	canvasH := m.height - 2
	if canvasH < 5 {
		canvasH = 5
	}
	c := newCanvas(m.width, canvasH)

	cfg := scene.DefaultProjectionConfig()
	cfg.Mode = m.scaleMode
	view := scene.NewView(m.camera, cfg)
	detail := m.quality.Detail()
	sys := m.snapshot.System

	if m.layers.Stars && m.starfield != nil {
		m.drawStarfield(c, view, detail, sys.StarfieldRotation)
	}
	if m.layers.Particles && m.starfield != nil {
		m.drawDust(c, view, detail, sys.DustRotation)
	}
	if detail.OrbitRings {
		m.drawOrbitRings(c, view, sys)
	}

	items := m.collectDrawables(c, view, detail, sys)
	sort.SliceStable(items, func(i, j int) bool { return items[i].depth > items[j].depth })

	var positions []bodyPos
	for _, it := range items {
		c.set(it.x, it.y, it.ch, it.color, it.bold)
		if it.index < 0 {
			continue
		}
		b := sys.Bodies[it.index]
		if b.Kind == orbit.KindAsteroid {
			continue
		}
		positions = append(positions, bodyPos{x: it.x, y: it.y, name: b.Name, kind: b.Kind, isFocused: it.index == m.focus})
	}

	m.renderLabels(c, positions)
	return m.renderGrid(c)
}

func (m OrreryModel) drawStarfield(c *canvas, view scene.View, detail scene.Detail, rotation float64) {
	stride := max(detail.StarStride, 1)
	for i := 0; i < len(m.starfield.Stars); i += stride {
		star := m.starfield.Stars[i]
		x, y, ok := c.toScreen(view.Direction(scene.RotateY(star.Pos, rotation)))
		if !ok || !c.empty(x, y) {
			continue
		}
		glyph := '˙'
		switch {
		case star.Size >= 3.5:
			glyph = '∗'
		case star.Size >= 2.5:
			glyph = '·'
		}
		c.set(x, y, glyph, m.theme.Fade(star.Tint.Color().Hex(), 0.25+star.Size/10), false)
	}
}

func (m OrreryModel) drawDust(c *canvas, view scene.View, detail scene.Detail, rotation float64) {
	stride := max(detail.DustStride, 1)
	for i := 0; i < len(m.starfield.Dust); i += stride {
		x, y, ok := c.toScreen(view.Project(scene.RotateY(m.starfield.Dust[i], rotation)))
		if ok && c.empty(x, y) {
			c.set(x, y, '.', m.theme.Dust, false)
		}
	}
}

func (m OrreryModel) drawOrbitRings(c *canvas, view scene.View, sys *orbit.System) {
	for _, i := range sys.Indices(orbit.KindPlanet) {
		r := sys.Bodies[i].Distance
		steps := int(math.Min(math.Max(2*math.Pi*r, 48), 360))
		for s := 0; s < steps; s++ {
			theta := 2 * math.Pi * float64(s) / float64(steps)
			p := r3.Vec{X: math.Cos(theta) * r, Z: math.Sin(theta) * r}
			x, y, ok := c.toScreen(view.Project(p))
			if ok && c.empty(x, y) {
				c.set(x, y, '·', m.theme.Orbit, false)
			}
		}
	}
}

func (m OrreryModel) collectDrawables(c *canvas, view scene.View, detail scene.Detail, sys *orbit.System) []drawable {
	var items []drawable
	add := func(p r3.Vec, ch rune, color lipgloss.Color, bold bool, index int) {
		proj := view.Project(p)
		if x, y, ok := c.toScreen(proj); ok {
			items = append(items, drawable{x: x, y: y, depth: proj.Depth, ch: ch, color: color, bold: bold, index: index})
		}
	}

	beltSeen := 0
	for i, b := range sys.Bodies {
		focused := i == m.focus
		color := m.theme.Body(b.Color)
		if focused {
			color = m.theme.Focus
		}

		switch b.Kind {
		case orbit.KindStar:
			add(b.Position, '☉', m.theme.Body(b.Color), true, i)

		case orbit.KindPlanet:
			glyph := '●'
			if scene.HasRings(b) {
				glyph = '⊖'
			}
			add(b.Position, glyph, color, focused, i)
			if m.layers.Atmospheres && detail.Atmospheres && scene.HasAtmosphere(b) {
				m.addHalo(&items, c, view, b)
			}

		case orbit.KindMoon:
			if m.layers.Moons {
				add(b.Position, '∘', color, focused, i)
			}

		case orbit.KindAsteroid:
			if !m.layers.Asteroids {
				continue
			}
			beltSeen++
			if beltSeen%max(detail.BeltStride, 1) != 0 {
				continue
			}
			add(b.Position, '·', m.theme.Fade(b.Color, 0.9), false, i)

		case orbit.KindComet:
			if !m.layers.Comets {
				continue
			}
			if m.layers.Particles {
				for _, tp := range scene.CometTail(b, detail.TailPoints) {
					tail := m.theme.Fade(colorHex(scene.TailColor), tp.Alpha)
					add(tp.Pos, '.', tail, false, -1)
				}
			}
			add(b.Position, '✦', color, focused, i)
		}
	}
	return items
}

// addHalo puts a faint glow on either side of a large planet.
func (m OrreryModel) addHalo(items *[]drawable, c *canvas, view scene.View, b orbit.Body) {
	proj := view.Project(b.Position)
	x, y, ok := c.toScreen(proj)
	if !ok {
		return
	}
	glow := m.theme.Fade(b.Color, 0.4)
	for _, dx := range []int{-1, 1} {
		if hx := x + dx; hx >= 0 && hx < c.w {
			*items = append(*items, drawable{x: hx, y: y, depth: proj.Depth + 0.01, ch: '░', color: glow, index: -1})
		}
	}
}

// renderLabels draws body labels on the canvas based on label mode.
func (m OrreryModel) renderLabels(c *canvas, positions []bodyPos) {
	if m.labelMode == LabelNone {
		return
	}
	labelColor := m.theme.Text

	for _, pos := range positions {
		show := false
		switch m.labelMode {
		case LabelFocused:
			show = pos.isFocused
		case LabelAll:
			show = pos.isFocused || pos.kind == orbit.KindStar || pos.kind == orbit.KindPlanet
		}
		if !show {
			continue
		}

		text := pos.name
		color := labelColor
		if pos.isFocused {
			text = "◄ " + pos.name
			color = m.theme.Focus
		}
		x := pos.x + 2
		for _, r := range text {
			if x >= c.w {
				break
			}
			if cur := c.cells[pos.y][x].ch; cur == ' ' || cur == '·' || cur == '.' || cur == '˙' || cur == '∗' {
				c.set(x, pos.y, r, color, pos.isFocused)
			}
			x++
		}
	}
}

// renderGrid styles runs of same-coloured cells together.
func (m OrreryModel) renderGrid(c *canvas) string {
	var b strings.Builder
	for _, row := range c.cells {
		var run strings.Builder
		var runStyle cell
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runStyle.color == "" {
				b.WriteString(run.String())
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(runStyle.color).Bold(runStyle.bold).Render(run.String()))
			}
			run.Reset()
		}
		for _, cl := range row {
			style := cell{color: cl.color, bold: cl.bold}
			if cl.ch == ' ' {
				style = cell{}
			}
			if style != runStyle {
				flush()
				runStyle = style
			}
			run.WriteRune(cl.ch)
		}
		flush()
		b.WriteRune('\n')
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m OrreryModel) renderHUD() string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().Foreground(m.theme.Header).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(m.theme.Text)
	dimStyle := lipgloss.NewStyle().Foreground(m.theme.Dim)

	if f := m.focusedBody(); f != nil {
		b.WriteString(headerStyle.Render(fmt.Sprintf("◆ %s", displayName(*f))))
		b.WriteString(dimStyle.Render(fmt.Sprintf(" (%s)", f.Kind)))
		if f.Kind != orbit.KindStar {
			b.WriteString("  ")
			b.WriteString(dimStyle.Render("Distance: "))
			b.WriteString(valueStyle.Render(fmt.Sprintf("%.1f", r3.Norm(r3.Vec{X: f.Position.X, Z: f.Position.Z}))))
			b.WriteString("  ")
			b.WriteString(dimStyle.Render("Angle: "))
			b.WriteString(valueStyle.Render(fmt.Sprintf("%.0f°", normalizeDeg(f.Angle*180/math.Pi))))
			b.WriteString("  ")
			b.WriteString(dimStyle.Render("Speed: "))
			b.WriteString(valueStyle.Render(fmt.Sprintf("%.2fx", f.CurrentSpeed)))
		}
	} else {
		b.WriteString(headerStyle.Render("◆ Origin"))
	}
	b.WriteString("\n")

	onOff := func(v bool) string {
		if v {
			return "on"
		}
		return "off"
	}
	fields := []struct{ label, value string }{
		{"Mode:", m.scaleMode.String()},
		{"Dist:", fmt.Sprintf("%.0f", m.camera.Distance)},
		{"Quality:", m.quality.String()},
		{"Labels:", m.labelMode.String()},
		{"Moons:", onOff(m.layers.Moons)},
		{"Belt:", onOff(m.layers.Asteroids)},
		{"Comets:", onOff(m.layers.Comets)},
		{"Glow:", onOff(m.layers.Atmospheres)},
		{"Dust:", onOff(m.layers.Particles)},
		{"Stars:", onOff(m.layers.Stars)},
	}
	for i, f := range fields {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(dimStyle.Render(f.label))
		b.WriteString(valueStyle.Render(f.value))
	}
	return b.String()
}

// Camera returns the current camera.
func (m OrreryModel) Camera() scene.Camera {
	return m.camera
}

// Focus returns the focused body index.
func (m OrreryModel) Focus() int {
	return m.focus
}

// Layers returns the visibility toggles.
func (m OrreryModel) Layers() Layers {
	return m.layers
}

// Quality returns the current quality level.
func (m OrreryModel) Quality() scene.Quality {
	return m.quality
}

func displayName(b orbit.Body) string {
	if b.Name != "" {
		return b.Name
	}
	return strings.ToUpper(b.Kind.String()[:1]) + b.Kind.String()[1:]
}

func normalizeDeg(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

func colorHex(rgb [3]float64) string {
	return fmt.Sprintf("#%02x%02x%02x", int(rgb[0]*255+0.5), int(rgb[1]*255+0.5), int(rgb[2]*255+0.5))
}
