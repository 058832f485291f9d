package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ForgeStore/pkg/kit"
)

const defaultSessionTTL = 12 * time.Hour

type Server struct {
	Log      *zap.Logger
	Users    UserStore
	Sessions Sessions
	JWT      *TokenMaker
	TTL      time.Duration
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResp struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type sessionResp struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

func (s *Server) ttl() time.Duration {
	if s.TTL <= 0 {
		return defaultSessionTTL
	}
	return s.TTL
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteRequestError(w, r, err)
		return
	}

	u, err := s.Users.Verify(r.Context(), req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, ErrInvalidCredentials) {
			s.Log.Error("verify credentials", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusUnauthorized, ErrInvalidCredentials.Error(), nil)
		return
	}
	if u.Role != RoleAdmin {
		kit.WriteError(w, r, http.StatusForbidden, "admin only", nil)
		return
	}

	ttl := s.ttl()
	sid := uuid.NewString()
	if err := s.Sessions.Create(r.Context(), sid, u.ID, ttl); err != nil {
		s.Log.Error("session create", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	tok, err := s.JWT.New(sid, u, ttl)
	if err != nil {
		s.Log.Error("token issue", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	s.Log.Info("admin signed in", zap.String("user_id", u.ID))
	kit.WriteJSON(w, http.StatusOK, loginResp{AccessToken: tok, ExpiresAt: time.Now().Add(ttl).UTC()})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	c, _ := ClaimsFrom(r.Context())
	if err := s.Sessions.Delete(r.Context(), c.SessionID()); err != nil {
		s.Log.Error("session delete", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	c, _ := ClaimsFrom(r.Context())
	kit.WriteJSON(w, http.StatusOK, sessionResp{UserID: c.UserID, Email: c.Email, Role: c.Role})
}

type ctxKey struct{}

func WithClaims(ctx context.Context, c Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

func ClaimsFrom(ctx context.Context) (Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(Claims)
	return c, ok
}

// RequireSession rejects requests without a valid admin token whose session
// is still live.
func (s *Server) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := kit.BearerToken(r)
		if !ok {
			kit.WriteError(w, r, http.StatusUnauthorized, "missing token", nil)
			return
		}

		c, err := s.JWT.Parse(raw)
		if err != nil {
			kit.WriteError(w, r, http.StatusUnauthorized, "invalid token", nil)
			return
		}
		if c.Role != RoleAdmin {
			kit.WriteError(w, r, http.StatusForbidden, "admin only", nil)
			return
		}

		live, err := s.Sessions.Exists(r.Context(), c.SessionID())
		if err != nil {
			s.Log.Error("session lookup", zap.Error(err))
			kit.WriteError(w, r, http.StatusServiceUnavailable, "session store unavailable", nil)
			return
		}
		if !live {
			kit.WriteError(w, r, http.StatusUnauthorized, "session expired", nil)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), c)))
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.Users.Ping(ctx); err != nil {
		kit.WriteError(w, r, http.StatusServiceUnavailable, "user store not ready", nil)
		return
	}
	if p, ok := s.Sessions.(interface{ Ping(context.Context) error }); ok {
		if err := p.Ping(ctx); err != nil {
			kit.WriteError(w, r, http.StatusServiceUnavailable, "session store not ready", nil)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}
