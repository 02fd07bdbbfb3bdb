package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/state"
)

// Config holds server configuration.
type Config struct {
	Addr         string
	TickInterval time.Duration // Simulation step of the ticker goroutine
	MaxFPS       float64       // Per-client frame rate limit
	Burst        int
	IncludeBelt  bool // Send asteroids in frames
	WriteTimeout time.Duration
	SendBuffer   int // Queued messages per client
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:         ":8642",
		TickInterval: 33 * time.Millisecond,
		MaxFPS:       30,
		Burst:        1,
		IncludeBelt:  false,
		WriteTimeout: 5 * time.Second,
		SendBuffer:   4,
	}
}

// Control message types.
const (
	ControlPause       = "pause"
	ControlResume      = "resume"
	ControlTogglePause = "toggle_pause"
	ControlSpeed       = "speed"
	ControlBodySpeed   = "body_speed"
)

// ErrUnknownControl is returned for a control message of unknown type.
var ErrUnknownControl = errors.New("unknown control message")

// Control is a message sent by a client to steer the simulation.
type Control struct {
	Type  string  `json:"type"`
	Value float64 `json:"value,omitempty"`
	Body  string  `json:"body,omitempty"` // Body name for body_speed
}

// Reply acknowledges a control message.
type Reply struct {
	Type    string  `json:"type"` // "ack" or "error"
	Control string  `json:"control"`
	Value   float64 `json:"value"`
	Error   string  `json:"error,omitempty"`
}

// Server drives the simulation on a ticker and fans frames out to
// websocket clients.
type Server struct {
	cfg      Config
	state    *state.Manager
	logger   *logging.Logger
	metrics  *Metrics
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{}
	limiter *rate.Limiter
	once    sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// NewServer creates a server over mgr. logger may be nil.
func NewServer(mgr *state.Manager, cfg Config, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultConfig().TickInterval
	}
	if cfg.MaxFPS <= 0 {
		cfg.MaxFPS = DefaultConfig().MaxFPS
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultConfig().WriteTimeout
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = DefaultConfig().SendBuffer
	}

	s := &Server{
		cfg:     cfg,
		state:   mgr,
		logger:  logger,
		metrics: NewMetrics(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
	s.metrics.SetBodies(mgr.Snapshot().System)
	return s
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Handler returns the HTTP routes: /ws, /frame and /metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/frame", s.handleFrame)
	mux.Handle("/metrics", s.metrics.Handler())
	return mux
}

// Run serves HTTP on cfg.Addr and ticks the simulation until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Listening on %s", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()
	go s.tickLoop(ctx)

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down")
		s.closeClients()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		s.closeClients()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	}
}

func (s *Server) tickLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Tick loop shutting down")
			return
		case now := <-ticker.C:
			s.Step(now)
		}
	}
}

// Step advances the simulation to now and offers the new frame to every
// client whose rate limit allows it.
func (s *Server) Step(now time.Time) {
	start := time.Now()
	s.state.Tick(now)
	s.metrics.RecordTick(time.Since(start))

	s.mu.Lock()
	n := len(s.clients)
	s.mu.Unlock()
	if n == 0 {
		return
	}

	frame := NewFrame(s.state.Snapshot(), now)
	if !s.cfg.IncludeBelt {
		frame = frame.WithoutBelt()
	}
	data, err := json.Marshal(frame)
	if err != nil {
		s.logger.Error("Encode frame: %v", err)
		return
	}
	s.broadcast(data, now)
}

func (s *Server) broadcast(data []byte, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for c := range s.clients {
		if !c.limiter.AllowN(now, 1) {
			s.metrics.framesDropped.WithLabelValues("rate").Inc()
			continue
		}
		select {
		case c.send <- data:
			s.metrics.framesSent.Inc()
		default:
			// Client backlog is full.
			s.metrics.framesDropped.WithLabelValues("backlog").Inc()
		}
	}
}

// ClientCount returns the number of connected websocket clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) register(c *client) {
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	s.metrics.clients.Inc()
}

func (s *Server) unregister(c *client) {
	s.mu.Lock()
	_, ok := s.clients[c]
	delete(s.clients, c)
	s.mu.Unlock()
	if ok {
		s.metrics.clients.Dec()
	}
	c.close()
}

func (s *Server) closeClients() {
	s.mu.Lock()
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()
	for _, c := range clients {
		s.unregister(c)
	}
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	frame := NewFrame(s.state.Snapshot(), time.Now())
	if r.URL.Query().Get("belt") != "1" {
		frame = frame.WithoutBelt()
	}
	w.Header().Set("Content-Type", "application/json")
	if err := frame.WriteJSON(w); err != nil {
		s.logger.Warn("Write frame: %v", err)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Websocket upgrade from %s: %v", r.RemoteAddr, err)
		return
	}

	c := &client{
		conn:    conn,
		send:    make(chan []byte, s.cfg.SendBuffer),
		done:    make(chan struct{}),
		limiter: rate.NewLimiter(rate.Limit(s.cfg.MaxFPS), s.cfg.Burst),
	}
	s.register(c)
	s.logger.Info("Client %s connected", r.RemoteAddr)

	go s.writePump(c)
	s.readPump(c)

	s.unregister(c)
	s.logger.Info("Client %s disconnected", r.RemoteAddr)
}

// writePump is the only writer on c.conn.
func (s *Server) writePump(c *client) {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.logger.Debug("Write to client: %v", err)
				s.unregister(c)
				return
			}
		}
	}
}

func (s *Server) readPump(c *client) {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("Read from client: %v", err)
			}
			return
		}

		var ctl Control
		reply := Reply{Type: "ack"}
		if err := json.Unmarshal(data, &ctl); err != nil {
			reply.Type = "error"
			reply.Error = fmt.Sprintf("decode control: %v", err)
		} else {
			reply.Control = ctl.Type
			v, err := s.Apply(ctl)
			reply.Value = v
			if err != nil {
				reply.Type = "error"
				reply.Error = err.Error()
			}
		}

		out, err := json.Marshal(reply)
		if err != nil {
			continue
		}
		select {
		case c.send <- out:
		case <-c.done:
			return
		}
	}
}

// Apply executes a control message against the state manager. It returns
// the resulting value: 1 or 0 for the pause state, otherwise the new speed.
func (s *Server) Apply(ctl Control) (float64, error) {
	v, err := s.apply(ctl)
	s.metrics.RecordControl(ctl.Type, err)
	if err != nil {
		s.logger.Debug("Control %q rejected: %v", ctl.Type, err)
	}
	return v, err
}

func (s *Server) apply(ctl Control) (float64, error) {
	switch ctl.Type {
	case ControlPause:
		s.state.SetPaused(true)
		return 1, nil
	case ControlResume:
		s.state.SetPaused(false)
		return 0, nil
	case ControlTogglePause:
		if s.state.TogglePause() {
			return 1, nil
		}
		return 0, nil
	case ControlSpeed:
		return s.state.SetGlobalSpeed(ctl.Value), nil
	case ControlBodySpeed:
		return s.state.SetBodySpeedByName(ctl.Body, ctl.Value)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownControl, ctl.Type)
	}
}
