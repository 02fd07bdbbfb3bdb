package ui

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/litescript/ls-orrery/internal/state"
)

func newTestBodies(t *testing.T) (BodiesModel, *state.Manager) {
	t.Helper()
	mgr := testManager(t)
	m := NewBodiesModel(mgr, DarkTheme).SetSize(120, 30)
	return m.UpdateData(mgr.Snapshot()), mgr
}

func pressBodies(m BodiesModel, mgr *state.Manager, keys ...string) BodiesModel {
	for _, k := range keys {
		m, _ = m.Update(key(k))
		m = m.UpdateData(mgr.Snapshot())
	}
	return m
}

func TestBodiesModelEntriesSkipBelt(t *testing.T) {
	m, _ := newTestBodies(t)

	got := m.entries()
	want := []int{0, 1, 2, 4}
	if len(got) != len(want) {
		t.Fatalf("entries = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entries[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestBodiesModelNavigation(t *testing.T) {
	m, mgr := newTestBodies(t)

	tests := []struct {
		key  string
		want int
	}{
		{"down", 1},
		{"j", 2},
		{"down", 4},
		{"down", 4}, // stays at the end
		{"up", 2},
		{"g", 0},
		{"up", 0}, // stays at the top
		{"G", 4},
	}
	for _, tt := range tests {
		m = pressBodies(m, mgr, tt.key)
		if got := m.SelectedIndex(); got != tt.want {
			t.Errorf("after %q: selected = %d, want %d", tt.key, got, tt.want)
		}
	}
}

func TestBodiesModelSpeedControls(t *testing.T) {
	m, mgr := newTestBodies(t)
	m = pressBodies(m, mgr, "down") // Earth

	m = pressBodies(m, mgr, "right", "right")
	earth := mgr.Snapshot().System.Bodies[1]
	if math.Abs(earth.CurrentSpeed-3.18) > 1e-9 {
		t.Errorf("Earth speed after ++ = %v, want 3.18", earth.CurrentSpeed)
	}

	m = pressBodies(m, mgr, "left")
	earth = mgr.Snapshot().System.Bodies[1]
	if math.Abs(earth.CurrentSpeed-3.08) > 1e-9 {
		t.Errorf("Earth speed after - = %v, want 3.08", earth.CurrentSpeed)
	}
	if !strings.Contains(m.View(), "3.08x") {
		t.Error("list should show the adjusted speed")
	}

	pressBodies(m, mgr, "0")
	earth = mgr.Snapshot().System.Bodies[1]
	if earth.CurrentSpeed != earth.BaseSpeed {
		t.Errorf("speed after reset = %v, want %v", earth.CurrentSpeed, earth.BaseSpeed)
	}
}

func TestBodiesModelRecentEvents(t *testing.T) {
	m, mgr := newTestBodies(t)
	if !strings.Contains(m.View(), "No changes yet") {
		t.Error("empty event log should say so")
	}

	m = pressBodies(m, mgr, "down", "right")
	mgr.SetPaused(true)
	m = m.UpdateData(mgr.Snapshot())

	view := m.View()
	for _, want := range []string{"Recent", "Earth speed 2.98x → 3.08x", "Paused"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Index(view, "Paused") > strings.Index(view, "Earth speed") {
		t.Error("newest event should be listed first")
	}
}

func TestFormatEvent(t *testing.T) {
	tests := []struct {
		event state.Event
		want  string
	}{
		{state.Event{Type: state.EventPaused}, "Paused"},
		{state.Event{Type: state.EventResumed}, "Resumed"},
		{state.Event{Type: state.EventSpeedChanged, OldValue: 1, NewValue: 1.5}, "Speed 1.00x → 1.50x"},
		{state.Event{Type: state.EventBodySpeed, Body: "Mars", OldValue: 2.41, NewValue: 2.51}, "Mars speed 2.41x → 2.51x"},
		{state.Event{Type: state.EventBodySpeedReset, Body: "Mars", NewValue: 2.41}, "Mars speed reset to 2.41x"},
	}
	for _, tt := range tests {
		if got := formatEvent(tt.event); got != tt.want {
			t.Errorf("formatEvent(%s) = %q, want %q", tt.event.Type, got, tt.want)
		}
	}
}

func TestBodiesModelStarIsFixed(t *testing.T) {
	m, mgr := newTestBodies(t)
	m = pressBodies(m, mgr, "right")

	if !errors.Is(m.err, state.ErrFixedBody) {
		t.Errorf("err = %v, want ErrFixedBody", m.err)
	}
	if !strings.Contains(m.View(), state.ErrFixedBody.Error()) {
		t.Error("view should show the error")
	}
}

func TestBodiesModelFocus(t *testing.T) {
	m, mgr := newTestBodies(t)
	m = pressBodies(m, mgr, "down", "down")

	_, cmd := m.Update(key("enter"))
	if cmd == nil {
		t.Fatal("enter should return a command")
	}
	msg, ok := cmd().(FocusBodyMsg)
	if !ok {
		t.Fatalf("cmd() = %T, want FocusBodyMsg", cmd())
	}
	if msg.Index != 2 {
		t.Errorf("focus index = %d, want the Moon (2)", msg.Index)
	}
}

func TestBodiesModelInfo(t *testing.T) {
	m, mgr := newTestBodies(t)

	tests := []struct {
		keys []string
		want []string
	}{
		{nil, []string{"Sun", "G-type main-sequence star", "5,778 K"}},
		{[]string{"down"}, []string{"Earth", "Distance from Sun:", "22 AU", "Moons:"}},
		{[]string{"down"}, []string{"Moon", "Parent Planet:", "Earth"}},
		{[]string{"down"}, []string{"Comet 1", "Eccentricity:", "0.80", "Perihelion:", "30.0", "Aphelion:", "270.0"}},
	}
	for _, tt := range tests {
		m = pressBodies(m, mgr, tt.keys...)
		info := m.renderInfo()
		for _, want := range tt.want {
			if !strings.Contains(info, want) {
				t.Errorf("info for %d missing %q", m.SelectedIndex(), want)
			}
		}
	}
}

func TestBodiesModelWaiting(t *testing.T) {
	m := NewBodiesModel(nil, DarkTheme)
	if got := m.View(); !strings.Contains(got, "Waiting") {
		t.Errorf("view without data = %q", got)
	}
	if m.SelectedIndex() != -1 {
		t.Error("no selection without data")
	}
}

func TestRenderSpeedBar(t *testing.T) {
	tests := []struct {
		v          float64
		wantFilled int
	}{
		{0, 0},
		{5, 5},
		{10, 10},
		{20, 10},
	}
	for _, tt := range tests {
		bar := renderSpeedBar(tt.v, 10, 10)
		if got := strings.Count(bar, "━"); got != tt.wantFilled {
			t.Errorf("renderSpeedBar(%v): filled = %d, want %d", tt.v, got, tt.wantFilled)
		}
		if got := strings.Count(bar, "─"); got != 10-tt.wantFilled {
			t.Errorf("renderSpeedBar(%v): empty = %d, want %d", tt.v, got, 10-tt.wantFilled)
		}
	}
}
