package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/custodia-labs/starsearch/internal/core/ports/driving"
	"github.com/custodia-labs/starsearch/internal/logger"
)

// Server serves the web routes.
type Server struct {
	mu       sync.Mutex
	addr     string
	handler  http.Handler
	server   *http.Server
	listener net.Listener
	errChan  chan error
}

// NewServer creates a server for addr backed by stars. An empty
// adminPassword disables /admin.
func NewServer(addr string, stars driving.StarService, adminPassword string) *Server {
	return &Server{
		addr:    addr,
		handler: NewHandler(stars, adminPassword),
		errChan: make(chan error, 1),
	}
}

// NewHandler returns the route multiplexer on its own.
func NewHandler(stars driving.StarService, adminPassword string) http.Handler {
	h := &handlers{stars: stars, adminPassword: adminPassword}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+indexPath+"{$}", h.index)
	mux.HandleFunc("GET "+callbackPath, h.callback)
	mux.HandleFunc("GET "+loadPath, h.load)
	mux.HandleFunc("GET "+statusPath, h.status)
	mux.HandleFunc("GET "+searchPath, h.search)
	mux.HandleFunc("GET "+adminPath, h.admin)
	return logRequests(mux)
}

// Start begins listening. It returns once the listener is bound.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = listener
	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case s.errChan <- err:
			default:
			}
		}
	}()

	logger.Info("Web server listening on %s", listener.Addr())
	return nil
}

// Errors delivers a fatal serve error, if one occurs.
func (s *Server) Errors() <-chan error {
	return s.errChan
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Stop shuts the server down, waiting for in-flight requests until ctx ends.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debug("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
