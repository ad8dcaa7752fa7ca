// Package httpapi is the reference HTTP backend: account endpoints under
// /auth and a token-protected API under /api. Every response body is the
// JSON envelope {code, data, msg}.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
)

const (
	maxRequestBody  = 64 << 10
	shutdownTimeout = 5 * time.Second
)

type HTTPServer struct {
	address string
	logger  logging.Logger
	users   *services.UserService
	notes   *services.NoteService
}

func NewHTTPServer(a string, l logging.Logger, users *services.UserService, notes *services.NoteService) *HTTPServer {
	return &HTTPServer{
		address: a,
		logger:  l.With("module", "http_server"),
		users:   users,
		notes:   notes,
	}
}

// Handler returns the routed API with request ID and logging middleware.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/register", s.register)
	mux.HandleFunc("POST /auth/login", s.login)
	mux.HandleFunc("POST /auth/refresh", s.refresh)
	mux.HandleFunc("POST /auth/logout", s.logout)

	mux.HandleFunc("GET /api/profile", s.requireAccessToken(s.getProfile))
	mux.HandleFunc("PUT /api/profile", s.requireAccessToken(s.changePassword))
	mux.HandleFunc("GET /api/notes", s.requireAccessToken(s.listNotes))
	mux.HandleFunc("POST /api/notes", s.requireAccessToken(s.createNote))
	mux.HandleFunc("DELETE /api/notes/{id}", s.requireAccessToken(s.deleteNote))
	mux.HandleFunc("GET /api/admin", s.requireAccessToken(s.admin))

	return s.withRequestID(s.withLogging(mux))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

func (s *HTTPServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
