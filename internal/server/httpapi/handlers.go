package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type passwordChangeRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type noteRequest struct {
	Text string `json:"text"`
}

type profileResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *HTTPServer) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	u, err := s.users.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		s.logFailure(r, "register failed", err)
		writeServiceError(w, err)
		return
	}
	writeOK(w, profileResponse{ID: u.ID, Username: u.UserName, Role: u.Role, CreatedAt: u.CreatedAt})
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	pair, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.logFailure(r, "login failed", err)
		writeServiceError(w, err)
		return
	}
	writeOK(w, pair)
}

// refresh answers every failure to rotate with HTTP 401 and code 401 so the
// client ends its session.
func (s *HTTPServer) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusUnauthorized, envelope{Code: common.CodeUnauthorized, Msg: "malformed refresh request"})
		return
	}

	pair, err := s.users.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		s.logFailure(r, "refresh failed", err)
		msg := "invalid refresh token"
		if errors.Is(err, common.ErrRefreshTokenExpired) {
			msg = common.ErrRefreshTokenExpired.Error()
		}
		writeJSON(w, http.StatusUnauthorized, envelope{Code: common.CodeUnauthorized, Msg: msg})
		return
	}
	writeOK(w, pair)
}

func (s *HTTPServer) logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := s.users.Logout(r.Context(), req.RefreshToken); err != nil {
		writeServiceError(w, err)
		return
	}
	writeOK(w, nil)
}

func (s *HTTPServer) getProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	u, err := s.users.Profile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeOK(w, profileResponse{ID: u.ID, Username: u.UserName, Role: u.Role, CreatedAt: u.CreatedAt})
}

func (s *HTTPServer) changePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordChangeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	userID, _ := UserIDFromContext(r.Context())
	if err := s.users.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, err)
		return
	}
	writeOK(w, nil)
}

func (s *HTTPServer) listNotes(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	list, err := s.notes.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeOK(w, list)
}

func (s *HTTPServer) createNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	userID, _ := UserIDFromContext(r.Context())
	n, err := s.notes.Create(r.Context(), userID, req.Text)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeOK(w, n)
}

func (s *HTTPServer) deleteNote(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	if err := s.notes.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeOK(w, nil)
}

// admin denies non-admin users with business code 401. The session stays
// valid; only this operation is refused.
func (s *HTTPServer) admin(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	u, err := s.users.Profile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !u.IsAdmin() {
		writeBusiness(w, common.CodeUnauthorized, "admin role required")
		return
	}
	writeOK(w, map[string]string{"message": "welcome, " + u.UserName})
}

func (s *HTTPServer) logFailure(r *http.Request, msg string, err error) {
	s.logger.Warn(r.Context(), msg, "error", err)
}
