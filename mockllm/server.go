package mockllm

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/xiaot623/llmreplay/replay"
	"github.com/xiaot623/llmreplay/store"
	"github.com/xiaot623/llmreplay/trajectory"
)

const shutdownTimeout = 5 * time.Second

// Server owns the lifecycle of one mock LLM server: it builds the replay
// state from a trajectory at start time, serves the chat-completions surface,
// and tears the listener down on stop.
type Server struct {
	host      string
	port      int
	traj      *trajectory.Trajectory
	replayLog store.ReplayLog

	mu      sync.Mutex
	echo    *echo.Echo
	state   *replay.State
	baseURL string
}

// NewServer creates a server for traj. traj may be nil, in which case every
// chat-completions call serves the default response. Port 0 binds an
// ephemeral port. replayLog may be nil to disable recording.
func NewServer(traj *trajectory.Trajectory, host string, port int, replayLog store.ReplayLog) *Server {
	if host == "" {
		host = "127.0.0.1"
	}
	return &Server{
		host:      host,
		port:      port,
		traj:      traj,
		replayLog: replayLog,
	}
}

// Start binds the listener, installs the request handler, and begins serving.
// It returns the base URL with the concrete bound port.
func (s *Server) Start() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.echo != nil {
		return s.baseURL, nil
	}

	var events []trajectory.Event
	if s.traj != nil {
		events = s.traj.LLMResponses()
	}
	s.state = replay.New(events)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	handler := NewHandler(s.state, s.replayLog)
	handler.RegisterRoutes(e)

	ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", s.host, s.port))
	if err != nil {
		return "", fmt.Errorf("failed to bind %s:%d: %w", s.host, s.port, err)
	}
	e.Listener = ln
	s.port = ln.Addr().(*net.TCPAddr).Port

	go func() {
		if err := e.Start(""); err != nil && err != http.ErrServerClosed {
			log.Printf("ERROR: mock LLM server stopped: %v", err)
		}
	}()

	s.echo = e
	s.baseURL = fmt.Sprintf("http://%s:%d", s.host, s.port)
	return s.baseURL, nil
}

// Stop shuts the server down. It is idempotent: calling it before Start or
// twice in a row is a no-op.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.echo == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.echo.Shutdown(ctx)
	s.echo = nil
	return err
}

// Reset rewinds the replay state, if the server has one.
func (s *Server) Reset() {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	if state != nil {
		state.Reset()
	}
}

// BaseURL returns the last resolved base URL. Empty before the first Start.
func (s *Server) BaseURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseURL
}

// State exposes the replay state for test inspection. Nil before Start.
func (s *Server) State() *replay.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Scoped starts the server, runs fn with the resolved base URL, and
// guarantees Stop runs exactly once whether fn succeeds or fails.
func (s *Server) Scoped(fn func(baseURL string) error) error {
	baseURL, err := s.Start()
	if err != nil {
		return err
	}
	defer s.Stop()
	return fn(baseURL)
}
