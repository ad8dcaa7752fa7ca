package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/google/uuid"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// UserIDFromContext returns the user authenticated by the access token
// middleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withRequestID keeps the caller's X-Request-ID or assigns a fresh one and
// echoes it back.
func (s *HTTPServer) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(common.RequestIDHeaderName)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(common.RequestIDHeaderName, id)
		next.ServeHTTP(w, r.WithContext(logging.ContextWith(r.Context(), "request_id", id)))
	})
}

func (s *HTTPServer) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// requireAccessToken answers an expired token with HTTP 401, which clients
// treat as a cue to refresh, and a missing or invalid one with HTTP 403,
// which ends the client session.
func (s *HTTPServer) requireAccessToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(header, common.BearerPrefix)
		if !ok || token == "" {
			writeJSON(w, http.StatusForbidden, envelope{Code: common.CodeForbidden, Msg: "missing token"})
			return
		}

		userID, err := s.users.Authenticate(token)
		if errors.Is(err, common.ErrTokenExpired) {
			writeJSON(w, http.StatusUnauthorized, envelope{Code: common.CodeUnauthorized, Msg: common.ErrTokenExpired.Error()})
			return
		}
		if err != nil {
			writeJSON(w, http.StatusForbidden, envelope{Code: common.CodeForbidden, Msg: common.ErrInvalidToken.Error()})
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	}
}
