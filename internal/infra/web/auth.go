package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"alumni-portal/internal/domain"
	"alumni-portal/internal/infra/logging"
)

type ctxKey string

const ctxAuthUserID ctxKey = "auth_user_id"

// requireAuth validates the Bearer JWT and stores the caller's user id on the
// request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			writeError(w, domain.ErrInvalidCredentials, "")
			return
		}
		userID, err := s.authUC.ParseToken(parts[1])
		if err != nil {
			writeError(w, err, "")
			return
		}
		ctx := context.WithValue(r.Context(), ctxAuthUserID, userID)
		ctx = logging.WithUserID(ctx, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func authUserID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxAuthUserID).(string); ok {
		return v
	}
	return ""
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
}

type authResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidArgument, "")
		return
	}
	user, token, err := s.authUC.Signup(r.Context(), req.Email, req.Password, req.FullName, req.Phone)
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{UserID: user.ID, Email: user.Email, Token: token})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidArgument, "")
		return
	}
	user, token, err := s.authUC.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, authResponse{UserID: user.ID, Email: user.Email, Token: token})
}
