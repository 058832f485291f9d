package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"ForgeStore/internal/auth"
	"ForgeStore/internal/catalog"
	"ForgeStore/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry
	Store    catalog.Store

	MetricsEnabled bool
	MetricsToken   string
}

// NewHandler serves sign-in under /auth and the session-gated panel under
// /admin.
func NewHandler(a *auth.Server, s *Server, deps HTTPDeps) http.Handler {
	r := chi.NewRouter()

	metricsOn := deps.MetricsEnabled && deps.Registry != nil
	if deps.MetricsEnabled && deps.Registry == nil && deps.Log != nil {
		deps.Log.Warn("metrics enabled but Registry is nil")
	}

	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
	if metricsOn {
		metrics := kit.NewMetrics(deps.Registry)
		r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))
	}

	a.Mount(r)
	r.Route("/admin", func(rr chi.Router) {
		rr.Use(a.RequireSession)
		s.Mount(rr)
	})

	r.Get("/healthz", kit.OK)
	r.Get("/readyz", readyz(a, deps.Store))

	if metricsOn {
		r.With(kit.MetricsAuth(deps.MetricsToken)).Handle(
			"/metrics",
			promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}),
		)
	}
	return r
}

func readyz(a *auth.Server, store catalog.Store) http.HandlerFunc {
	authReady := a.Ready()
	return func(w http.ResponseWriter, r *http.Request) {
		if store != nil {
			ctx, cancel := context.WithTimeout(r.Context(), time.Second)
			defer cancel()
			if err := store.Ping(ctx); err != nil {
				kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog store not ready", nil)
				return
			}
		}
		authReady(w, r)
	}
}
