package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestDefaultLoadingSteps(t *testing.T) {
	if len(DefaultLoadingSteps) != 8 {
		t.Fatalf("got %d steps, want 8", len(DefaultLoadingSteps))
	}
	var total time.Duration
	for _, s := range DefaultLoadingSteps {
		total += s.Duration
	}
	if total != 4400*time.Millisecond {
		t.Errorf("total duration = %v, want 4.4s", total)
	}
	if DefaultLoadingSteps[0].Text != "Initializing 3D Engine..." {
		t.Errorf("first step = %q", DefaultLoadingSteps[0].Text)
	}
}

func TestLoadingModelSteps(t *testing.T) {
	m := NewLoadingModel([]LoadingStep{
		{"alpha", time.Millisecond},
		{"beta", time.Millisecond},
		{"gamma", time.Millisecond},
	})

	if m.Done() || m.Progress() != 0 {
		t.Fatal("new model should be at step 0")
	}

	// A stale step message is ignored.
	m, cmd := m.Update(loadingStepMsg{step: 2})
	if cmd != nil || m.current != 0 {
		t.Error("out-of-order step should be ignored")
	}

	m, cmd = m.Update(loadingStepMsg{step: 0})
	if m.current != 1 || cmd == nil {
		t.Fatalf("current = %d, want 1 with a follow-up tick", m.current)
	}
	if got := m.Progress(); got < 0.33 || got > 0.34 {
		t.Errorf("progress = %v, want 1/3", got)
	}

	view := m.View()
	if !strings.Contains(view, "✓ alpha") || !strings.Contains(view, "▸ beta") {
		t.Errorf("view should mark alpha done and beta active:\n%s", view)
	}

	m, _ = m.Update(loadingStepMsg{step: 1})
	m, cmd = m.Update(loadingStepMsg{step: 2})
	if !m.Done() {
		t.Fatal("model should be done after the last step")
	}
	if _, ok := cmd().(LoadingDoneMsg); !ok {
		t.Error("last step should emit LoadingDoneMsg")
	}
	if strings.Count(m.View(), "█") != 40 {
		t.Error("finished progress bar should be full")
	}
}

func TestLoadingModelSkip(t *testing.T) {
	m := NewLoadingModel(DefaultLoadingSteps)
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Done() {
		t.Error("enter should skip the sequence")
	}
	if cmd == nil {
		t.Fatal("skip should return a command")
	}
	if _, ok := cmd().(LoadingDoneMsg); !ok {
		t.Error("skip should emit LoadingDoneMsg")
	}
}

func TestLoadingModelEmpty(t *testing.T) {
	m := NewLoadingModel(nil)
	if !m.Done() || m.Progress() != 1 {
		t.Error("empty sequence is already done")
	}
	if _, ok := m.Init()().(LoadingDoneMsg); !ok {
		t.Error("Init of an empty sequence should finish immediately")
	}
}

func TestRenderProgressBar(t *testing.T) {
	bar := renderProgressBar(0.5, 20)
	if got := strings.Count(bar, "█"); got != 10 {
		t.Errorf("filled = %d, want 10", got)
	}
	if got := strings.Count(bar, "░"); got != 10 {
		t.Errorf("empty = %d, want 10", got)
	}
}
