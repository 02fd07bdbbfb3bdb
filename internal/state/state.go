// Package state provides thread-safe simulation state for the application.
package state

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/litescript/ls-orrery/internal/orbit"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventPaused         EventType = "PAUSED"
	EventResumed        EventType = "RESUMED"
	EventSpeedChanged   EventType = "SPEED"
	EventBodySpeed      EventType = "BODY_SPEED"
	EventBodySpeedReset EventType = "BODY_SPEED_RESET"
)

// Event represents a user-visible change to the simulation controls.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Body      string    `json:"body,omitempty"`
	OldValue  float64   `json:"old_value"`
	NewValue  float64   `json:"new_value"`
}

var (
	// ErrUnknownBody is returned for an index or name outside the system.
	ErrUnknownBody = errors.New("unknown body")
	// ErrFixedBody is returned when adjusting the speed of a body that does not orbit.
	ErrFixedBody = errors.New("body has no orbital speed")
)

// Config holds configuration for the state manager.
type Config struct {
	MaxEvents    int
	MinSpeed     float64 // Global speed range
	MaxSpeed     float64
	MaxBodySpeed float64 // Per-body speed upper bound, lower bound is 0
	FPSWindow    time.Duration
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxEvents:    50,
		MinSpeed:     0,
		MaxSpeed:     5,
		MaxBodySpeed: 10,
		FPSWindow:    time.Second,
	}
}

// Manager owns the body collection and the controls that drive it.
type Manager struct {
	mu sync.RWMutex

	system      *orbit.System
	paused      bool
	globalSpeed float64

	// Frame clock
	last    time.Time     // Zero until the first tick after start or resume
	elapsed time.Duration // Unpaused time
	ticks   uint64

	// FPS counter
	fpsStart  time.Time
	fpsFrames int
	fps       float64

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	minSpeed     float64
	maxSpeed     float64
	maxBodySpeed float64
	fpsWindow    time.Duration
}

// NewManager creates a state manager driving sys at global speed 1.
func NewManager(sys *orbit.System, cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	window := cfg.FPSWindow
	if window <= 0 {
		window = time.Second
	}
	maxSpeed := cfg.MaxSpeed
	if maxSpeed <= cfg.MinSpeed {
		maxSpeed = cfg.MinSpeed + 1
	}
	return &Manager{
		system:       sys,
		globalSpeed:  clamp(1, cfg.MinSpeed, maxSpeed),
		maxEvents:    maxEvents,
		events:       make([]Event, 0, maxEvents),
		minSpeed:     cfg.MinSpeed,
		maxSpeed:     maxSpeed,
		maxBodySpeed: cfg.MaxBodySpeed,
		fpsWindow:    window,
	}
}

// Tick advances the simulation to wall time now and returns the delta applied.
// The first tick, and the first tick after a resume, only anchors the clock.
func (m *Manager) Tick(now time.Time) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	var step time.Duration
	if !m.last.IsZero() && !m.paused {
		step = max(now.Sub(m.last), 0)
	}
	m.last = now
	m.elapsed += step

	dt := step.Seconds()
	m.system.Update(orbit.SimulationState{Paused: m.paused, GlobalSpeed: m.globalSpeed}, dt, m.elapsed.Seconds())
	m.ticks++
	m.countFrame(now)
	return dt
}

func (m *Manager) countFrame(now time.Time) {
	if m.fpsStart.IsZero() {
		m.fpsStart = now
	}
	m.fpsFrames++
	span := now.Sub(m.fpsStart)
	if span >= m.fpsWindow {
		m.fps = float64(m.fpsFrames) / span.Seconds()
		m.fpsFrames = 0
		m.fpsStart = now
	}
}

// TogglePause flips the pause flag and returns the new value.
func (m *Manager) TogglePause() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setPaused(!m.paused)
	return m.paused
}

// SetPaused sets the pause flag.
func (m *Manager) SetPaused(paused bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setPaused(paused)
}

func (m *Manager) setPaused(paused bool) {
	if paused == m.paused {
		return
	}
	m.paused = paused
	if paused {
		m.addEvent(Event{Type: EventPaused, Timestamp: time.Now(), NewValue: 1})
		return
	}
	// Re-anchor so wall time spent paused is never simulated.
	m.last = time.Time{}
	m.addEvent(Event{Type: EventResumed, Timestamp: time.Now(), OldValue: 1})
}

// Paused reports whether the simulation is paused.
func (m *Manager) Paused() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.paused
}

// GlobalSpeed returns the global speed multiplier.
func (m *Manager) GlobalSpeed() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.globalSpeed
}

// SetGlobalSpeed sets the global speed multiplier, clamped to the configured
// range, and returns the value applied.
func (m *Manager) SetGlobalSpeed(v float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setGlobalSpeed(v)
}

// AdjustGlobalSpeed adds delta to the global speed multiplier.
func (m *Manager) AdjustGlobalSpeed(delta float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setGlobalSpeed(m.globalSpeed + delta)
}

func (m *Manager) setGlobalSpeed(v float64) float64 {
	if math.IsNaN(v) {
		return m.globalSpeed
	}
	v = clamp(round2(v), m.minSpeed, m.maxSpeed)
	if v != m.globalSpeed {
		m.addEvent(Event{Type: EventSpeedChanged, Timestamp: time.Now(), OldValue: m.globalSpeed, NewValue: v})
		m.globalSpeed = v
	}
	return v
}

// SetBodySpeed overrides the current speed of body index, clamped to
// [0, MaxBodySpeed]. The base speed is left untouched.
func (m *Manager) SetBodySpeed(index int, v float64) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setBodySpeed(index, func(float64) float64 { return v })
}

// AdjustBodySpeed adds delta to the current speed of body index.
func (m *Manager) AdjustBodySpeed(index int, delta float64) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setBodySpeed(index, func(cur float64) float64 { return cur + delta })
}

// SetBodySpeedByName is SetBodySpeed addressed by body name.
func (m *Manager) SetBodySpeedByName(name string, v float64) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx, ok := m.system.Find(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownBody, name)
	}
	return m.setBodySpeed(idx, func(float64) float64 { return v })
}

// setBodySpeed applies next to the current speed of body index. Callers
// hold the write lock.
func (m *Manager) setBodySpeed(index int, next func(cur float64) float64) (float64, error) {
	b, err := m.adjustable(index)
	if err != nil {
		return 0, err
	}
	v := next(b.CurrentSpeed)
	if math.IsNaN(v) {
		return b.CurrentSpeed, nil
	}
	v = clamp(round2(v), 0, m.maxBodySpeed)
	if v != b.CurrentSpeed {
		m.addEvent(Event{Type: EventBodySpeed, Timestamp: time.Now(), Body: b.Name, OldValue: b.CurrentSpeed, NewValue: v})
		b.CurrentSpeed = v
	}
	return v, nil
}

// ResetBodySpeed restores the current speed of body index to its base speed.
func (m *Manager) ResetBodySpeed(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, err := m.adjustable(index)
	if err != nil {
		return err
	}
	if b.CurrentSpeed != b.BaseSpeed {
		m.addEvent(Event{Type: EventBodySpeedReset, Timestamp: time.Now(), Body: b.Name, OldValue: b.CurrentSpeed, NewValue: b.BaseSpeed})
		b.CurrentSpeed = b.BaseSpeed
	}
	return nil
}

func (m *Manager) adjustable(index int) (*orbit.Body, error) {
	if index < 0 || index >= m.system.Len() {
		return nil, fmt.Errorf("%w: index %d", ErrUnknownBody, index)
	}
	b := &m.system.Bodies[index]
	if b.Kind == orbit.KindStar {
		return nil, fmt.Errorf("%w: %s", ErrFixedBody, b.Name)
	}
	return b, nil
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	System      *orbit.System
	Paused      bool
	GlobalSpeed float64
	Elapsed     float64
	Ticks       uint64
	FPS         float64
	Events      []Event
}

// Snapshot returns a consistent deep copy of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot{
		System:      m.system.Clone(),
		Paused:      m.paused,
		GlobalSpeed: m.globalSpeed,
		Elapsed:     m.elapsed.Seconds(),
		Ticks:       m.ticks,
		FPS:         m.fps,
		Events:      m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// BodyCount returns the number of bodies in the system.
func (m *Manager) BodyCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.system.Len()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// round2 keeps repeated 0.1 steps from accumulating float noise.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
