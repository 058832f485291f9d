package gateway

import (
	"context"
	"net/http"
	"net/http/httputil"
	"net/url"

	"go.uber.org/zap"

	"ForgeStore/internal/auth"
	"ForgeStore/pkg/kit"
)

type ctxKey string

const (
	adminIDKey ctxKey = "admin_id"
	sessionKey ctxKey = "session_id"
)

func AdminIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(adminIDKey).(string)
	return v, ok
}

// AuthJWT turns away requests without a valid admin token before they reach
// the admin service. Session liveness is still checked there.
func AuthJWT(jwt *auth.TokenMaker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := kit.BearerToken(r)
			if !ok {
				kit.WriteError(w, r, http.StatusUnauthorized, "missing token", nil)
				return
			}
			claims, err := jwt.Parse(raw)
			if err != nil {
				kit.WriteError(w, r, http.StatusUnauthorized, "invalid token", nil)
				return
			}
			if claims.Role != auth.RoleAdmin {
				kit.WriteError(w, r, http.StatusForbidden, "admin only", nil)
				return
			}

			ctx := context.WithValue(r.Context(), adminIDKey, claims.UserID)
			ctx = context.WithValue(ctx, sessionKey, claims.SessionID())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// InjectHeaders forwards the verified admin id. Client-supplied values are
// dropped.
func InjectHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Header.Del("X-Admin-Id")

		if id, ok := AdminIDFromContext(r.Context()); ok && id != "" {
			r.Header.Set("X-Admin-Id", id)
		}

		next.ServeHTTP(w, r)
	})
}

func NewReverseProxy(target string, log *zap.Logger) (*httputil.ReverseProxy, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	p := httputil.NewSingleHostReverseProxy(u)
	p.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Warn("upstream failed", zap.String("upstream", u.Host), zap.String("path", r.URL.Path), zap.Error(err))
		kit.WriteError(w, r, http.StatusBadGateway, "upstream unavailable", nil)
	}
	return p, nil
}
