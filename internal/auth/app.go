package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ForgeStore/pkg/kit"
)

const (
	loginLimitPerMin = 5
	limitWindow      = 60 * time.Second
)

// Mount registers the sign-in routes under /auth. Logout and session
// lookups sit behind RequireSession.
func (s *Server) Mount(r chi.Router) {
	loginLimiter := kit.NewIPRateLimiter(loginLimitPerMin, limitWindow)

	r.Route("/auth", func(rr chi.Router) {
		rr.With(loginLimiter.Middleware).Post("/login", s.handleLogin)

		rr.Group(func(g chi.Router) {
			g.Use(s.RequireSession)
			g.Post("/logout", s.handleLogout)
			g.Get("/session", s.handleSession)
		})
	})
}

// Ready reports whether the user and session stores answer.
func (s *Server) Ready() http.HandlerFunc {
	return s.handleReady
}
