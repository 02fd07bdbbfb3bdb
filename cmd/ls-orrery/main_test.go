package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/litescript/ls-orrery/internal/catalog"
	"github.com/litescript/ls-orrery/internal/orbit"
	"github.com/litescript/ls-orrery/internal/state"
	"github.com/litescript/ls-orrery/internal/stream"
	"github.com/litescript/ls-orrery/internal/version"
)

// run executes the command line in a clean environment and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	wd, wdErr := os.Getwd()
	if wdErr != nil {
		t.Fatal(wdErr)
	}
	if cdErr := os.Chdir(t.TempDir()); cdErr != nil {
		t.Fatal(cdErr)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	var out bytes.Buffer
	cmd := newRootCmd(&app{})
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, version.Version) {
		t.Errorf("output = %q, want version %s", out, version.Version)
	}
}

func TestConfigCmd(t *testing.T) {
	out, err := run(t, "config", "--seed", "9")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"seed: 9", "belt:", "count: 2000", "name: Jupiter"} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q", want)
		}
	}
}

func TestConfigCmd_EnvOverride(t *testing.T) {
	t.Setenv("ORRERY_BELT_COUNT", "12")
	out, err := run(t, "config")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "count: 12") {
		t.Errorf("env override not applied:\n%s", out)
	}
}

func TestSnapshotCmd(t *testing.T) {
	out, err := run(t, "snapshot", "--seed", "3", "--after", "1s")
	if err != nil {
		t.Fatal(err)
	}

	var frame stream.Frame
	if err := json.Unmarshal([]byte(out), &frame); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	// Star, 8 planets, 13 moons and 5 comets; the belt is left out.
	if len(frame.Bodies) != 27 {
		t.Errorf("bodies = %d, want 27", len(frame.Bodies))
	}
	if frame.Elapsed != 1 {
		t.Errorf("elapsed = %v, want 1", frame.Elapsed)
	}
}

func TestSnapshotCmd_FileWithBelt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.json")
	if _, err := run(t, "snapshot", "--seed", "3", "--belt", "-o", path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var frame stream.Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatal(err)
	}
	if len(frame.Bodies) != 2027 {
		t.Errorf("bodies = %d, want 2027", len(frame.Bodies))
	}
}

func TestSummaryCmd(t *testing.T) {
	out, err := run(t, "summary", "--seed", "4")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Orrery @", "planet", "Saturn", "Total: 2027 bodies"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q", want)
		}
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orrery.yaml")
	yaml := "seed: 11\nbelt:\n  count: 0\ncomets:\n  count: 1\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "summary", "--config", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Total: 23 bodies") {
		t.Errorf("config file not applied:\n%s", out)
	}
}

func TestBadConfig(t *testing.T) {
	if _, err := run(t, "summary", "--config", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestBadQuality(t *testing.T) {
	if _, err := run(t, "--quality", "extreme"); err == nil {
		t.Error("expected an error for an unknown quality")
	}
}

func TestLogFile(t *testing.T) {
	tests := []struct {
		level      string
		wantConfig bool
	}{
		{"debug", true},
		{"info", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "orrery.log")
			if _, err := run(t, "summary", "--seed", "2", "--log-file", path, "--log-level", tt.level); err != nil {
				t.Fatal(err)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			log := string(data)
			if !strings.Contains(log, "Built system: 2027 bodies (seed 2)") {
				t.Errorf("log file = %q", log)
			}
			if got := strings.Contains(log, "Effective config:"); got != tt.wantConfig {
				t.Errorf("config dump logged = %v, want %v", got, tt.wantConfig)
			}
		})
	}
}

func TestRegisterRuntimeCollectors(t *testing.T) {
	sys, err := catalog.Build(catalog.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	srv := stream.NewServer(state.NewManager(sys, state.DefaultConfig()), stream.DefaultConfig(), nil)
	registerRuntimeCollectors(srv.Metrics().Registry())

	mfs, _ := srv.Metrics().Registry().Gather()
	names := make(map[string]bool, len(mfs))
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	for _, want := range []string{"go_goroutines", "orrery_ticks_total"} {
		if !names[want] {
			t.Errorf("registry missing %s", want)
		}
	}
}

func TestSimulate(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
	}{
		{"zero", 0},
		{"one second", time.Second},
		{"half second", 500 * time.Millisecond},
		{"partial step", 10 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys, err := catalog.Build(catalog.DefaultConfig())
			if err != nil {
				t.Fatal(err)
			}
			mgr := state.NewManager(sys, state.DefaultConfig())

			start := time.Unix(0, 0)
			end := simulate(mgr, start, tt.d)
			snap := mgr.Snapshot()

			if !end.Equal(start.Add(tt.d)) {
				t.Errorf("clock advanced %v, want %v", end.Sub(start), tt.d)
			}
			if snap.Elapsed != tt.d.Seconds() {
				t.Errorf("elapsed = %v, want %v", snap.Elapsed, tt.d.Seconds())
			}
			if i, ok := snap.System.Find("Earth"); !ok || snap.System.Bodies[i].Kind != orbit.KindPlanet {
				t.Error("Earth should be in the default system")
			}
		})
	}
}
