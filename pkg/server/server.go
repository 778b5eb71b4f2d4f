package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/niels/static-server/pkg/logging"
	"github.com/rs/zerolog"
)

var (
	// ErrServerStarted is returned when Start is called twice
	ErrServerStarted = errors.New("server already started")
	// ErrServerNotStarted is returned when Stop is called before Start
	ErrServerNotStarted = errors.New("server not started")
)

// Options configures a Server
type Options struct {
	// Port to listen on, on all interfaces. Zero picks a free port.
	Port int
	// Root is the directory files are served from. Empty means the working directory.
	Root string
	// ConfineRoot refuses files that resolve outside Root.
	ConfineRoot bool
	// Out receives the startup and shutdown messages. Defaults to os.Stdout.
	Out io.Writer
	// NoColor disables colored console output.
	NoColor bool
}

// Server wraps an http.Server around the file Handler with a start/stop lifecycle
type Server struct {
	opts    Options
	handler *Handler
	logger  zerolog.Logger
	out     io.Writer
	urlText *color.Color

	mu         sync.Mutex
	httpServer *http.Server
	listener   net.Listener
	done       chan error
}

// New creates a server; nothing is bound until Start
func New(opts Options) *Server {
	var files FileReader = Dir(opts.Root)
	if opts.ConfineRoot {
		files = ConfinedDir(opts.Root)
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	urlText := color.New(color.FgCyan, color.Bold)
	if opts.NoColor {
		urlText.DisableColor()
	}

	logger := logging.WithComponent("server")

	return &Server{
		opts:    opts,
		handler: NewHandler(files, logger),
		logger:  logger,
		out:     out,
		urlText: urlText,
		done:    make(chan error, 1),
	}
}

// Handler returns the request handler used by the server
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start binds the listener and serves in the background
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.httpServer != nil {
		return ErrServerStarted
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.opts.Port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.opts.Port, err)
	}

	s.listener = ln
	s.httpServer = &http.Server{Handler: s.handler}

	go func(srv *http.Server) {
		err := srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.done <- err
		close(s.done)
	}(s.httpServer)

	url := s.url()
	fmt.Fprintf(s.out, "Server is running on %s\n", s.urlText.Sprint(url))
	s.logger.Info().
		Str("url", url).
		Str("addr", ln.Addr().String()).
		Str("root", s.opts.Root).
		Bool("confine_root", s.opts.ConfineRoot).
		Msg("Server started")

	return nil
}

// Addr returns the bound listener address, or "" before Start
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// URL returns the local URL the server answers on, or "" before Start
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return ""
	}
	return s.url()
}

func (s *Server) url() string {
	port := s.opts.Port
	if addr, ok := s.listener.Addr().(*net.TCPAddr); ok {
		port = addr.Port
	}
	return fmt.Sprintf("http://localhost:%d", port)
}

// Done delivers the serve loop's terminal error, nil after a clean Stop
func (s *Server) Done() <-chan error {
	return s.done
}

// Stop closes the listener and waits for in-flight requests until ctx expires
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.httpServer == nil {
		return ErrServerNotStarted
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Server shutdown incomplete")
		return fmt.Errorf("failed to stop server: %w", err)
	}

	fmt.Fprintln(s.out, "Server Stopped")
	s.logger.Info().Msg("Server stopped")
	return nil
}
