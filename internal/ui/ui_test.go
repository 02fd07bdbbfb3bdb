package ui

import (
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-orrery/internal/orbit"
	"github.com/litescript/ls-orrery/internal/scene"
	"github.com/litescript/ls-orrery/internal/state"
)

// testManager builds Sun (0), Earth (1), Moon (2), one asteroid (3) and
// one comet (4).
func testManager(t *testing.T) *state.Manager {
	t.Helper()
	comet, err := orbit.NewComet("Comet 1", 150, 0, 0, 0.1, 0.8)
	if err != nil {
		t.Fatal(err)
	}
	sys, err := orbit.NewSystem([]orbit.Body{
		orbit.NewStar("Sun", 4, "#ffaa00"),
		orbit.NewPlanet("Earth", 1.3, 22, 2.98, 0, "#6b93d6"),
		orbit.NewMoon("Moon", 1, 0.35, 3, 13.2, 0, "#aaaaaa"),
		orbit.NewAsteroid(35, 1, 0, 0.4, 0.05, "#806040"),
		comet,
	})
	if err != nil {
		t.Fatal(err)
	}
	return state.NewManager(sys, state.DefaultConfig())
}

func testStarfield() *scene.Starfield {
	f := scene.GenerateStarfield(1, 200, 50)
	return &f
}

func newTestModel(t *testing.T) (Model, *state.Manager) {
	t.Helper()
	mgr := testManager(t)
	opts := DefaultOptions()
	opts.SkipLoading = true
	m := New(mgr, testStarfield(), opts)
	return sendMsg(m, tea.WindowSizeMsg{Width: 120, Height: 40}), mgr
}

func sendMsg(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

// runCmd executes cmd, flattening a batch into its first non-nil message.
func runCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if m := runCmd(c); m != nil {
				return m
			}
		}
		return nil
	}
	return msg
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_LoadingSequence(t *testing.T) {
	mgr := testManager(t)
	opts := DefaultOptions()
	opts.LoadingSteps = []LoadingStep{
		{"one", time.Millisecond},
		{"two", time.Millisecond},
	}
	m := New(mgr, nil, opts)
	m = sendMsg(m, tea.WindowSizeMsg{Width: 100, Height: 30})

	if m.Loaded() {
		t.Fatal("should start in the loading sequence")
	}
	if !strings.Contains(m.View(), "one") {
		t.Error("loading view should list steps")
	}

	m = sendMsg(m, loadingStepMsg{step: 0})
	next, cmd := m.Update(loadingStepMsg{step: 1})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("finishing the last step should return a command")
	}
	if msg := runCmd(cmd); msg != (LoadingDoneMsg{}) {
		t.Fatalf("cmd() = %T, want LoadingDoneMsg", msg)
	}

	m = sendMsg(m, LoadingDoneMsg{})
	if !m.Loaded() {
		t.Error("model should be loaded after LoadingDoneMsg")
	}
}

func TestModel_LoadingIgnoresControls(t *testing.T) {
	mgr := testManager(t)
	m := New(mgr, nil, DefaultOptions())
	m = sendMsg(m, key(" "))
	if mgr.Paused() {
		t.Error("space during loading should not pause")
	}
}

func TestModel_PauseKey(t *testing.T) {
	m, mgr := newTestModel(t)

	m = sendMsg(m, key(" "))
	if !mgr.Paused() {
		t.Fatal("space should pause")
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("footer should show PAUSED")
	}

	sendMsg(m, key(" "))
	if mgr.Paused() {
		t.Error("second space should resume")
	}
}

func TestModel_SpeedKeys(t *testing.T) {
	m, mgr := newTestModel(t)
	m = sendMsg(m, key("+"))
	m = sendMsg(m, key("+"))
	if got := mgr.GlobalSpeed(); got != 1.2 {
		t.Errorf("speed after ++ = %v, want 1.2", got)
	}
	sendMsg(m, key("-"))
	if got := mgr.GlobalSpeed(); got != 1.1 {
		t.Errorf("speed after - = %v, want 1.1", got)
	}
}

func TestModel_ViewSwitch(t *testing.T) {
	m, _ := newTestModel(t)
	if m.ActiveView() != ViewOrrery {
		t.Fatal("should start on the orrery")
	}
	m = sendMsg(m, key("2"))
	if m.ActiveView() != ViewBodies {
		t.Errorf("after 2: view = %d", m.ActiveView())
	}
	m = sendMsg(m, key("tab"))
	if m.ActiveView() != ViewOrrery {
		t.Errorf("after tab: view = %d", m.ActiveView())
	}
}

func TestModel_FrameAdvances(t *testing.T) {
	m, mgr := newTestModel(t)
	t0 := time.Unix(1000, 0)
	m = sendMsg(m, FrameMsg(t0))
	sendMsg(m, FrameMsg(t0.Add(time.Second)))

	earth := mgr.Snapshot().System.Bodies[1]
	if math.Abs(earth.Angle-0.298) > 1e-9 {
		t.Errorf("Earth angle = %v, want 0.298", earth.Angle)
	}
}

func TestModel_FocusFromBodies(t *testing.T) {
	m, _ := newTestModel(t)
	m = sendMsg(m, key("2"))
	m = sendMsg(m, key("down"))

	next, cmd := m.Update(key("enter"))
	m = next.(Model)
	if cmd == nil {
		t.Fatal("enter should return a focus command")
	}
	m = sendMsg(m, runCmd(cmd))

	if m.ActiveView() != ViewOrrery {
		t.Error("focusing should switch to the orrery")
	}
	if m.Orrery().Focus() != 1 {
		t.Errorf("focus = %d, want Earth (1)", m.Orrery().Focus())
	}
}

func TestModel_ThemeToggle(t *testing.T) {
	m, _ := newTestModel(t)
	m = sendMsg(m, key("T"))
	if m.theme.Dark {
		t.Error("T should switch to the light theme")
	}
	if m.orrery.theme.Dark || m.bodies.theme.Dark {
		t.Error("theme should propagate to the views")
	}
}

func TestModel_View(t *testing.T) {
	m, _ := newTestModel(t)
	view := m.View()

	for _, want := range []string{"Orrery", "Bodies", "Objects", "Particles", "5", "☉"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("cmd() = %T, want tea.QuitMsg", cmd())
	}
}

func TestModel_NotReady(t *testing.T) {
	m := New(testManager(t), nil, DefaultOptions())
	if m.View() != "Initializing..." {
		t.Errorf("View before size = %q", m.View())
	}
}

func TestFormatThousands(t *testing.T) {
	tests := map[int]string{
		0:       "0",
		999:     "999",
		1000:    "1,000",
		220000:  "220,000",
		1234567: "1,234,567",
		-4500:   "-4,500",
	}
	for n, want := range tests {
		if got := formatThousands(n); got != want {
			t.Errorf("formatThousands(%d) = %q, want %q", n, got, want)
		}
	}
}
