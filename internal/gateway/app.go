package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"ForgeStore/internal/auth"
	"ForgeStore/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string
}

type Deps struct {
	StorefrontURL string
	AdminURL      string
	JWTSecret     string
	// HiddenPath is the only prefix under which the admin service is
	// reachable, e.g. "/forge-gate".
	HiddenPath string
}

const (
	readyTimeout      = 2 * time.Second
	readyProbeTimeout = 700 * time.Millisecond
)

var readyClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     30 * time.Second,
	},
}

func NewHandler(deps Deps, httpDeps HTTPDeps) (http.Handler, error) {
	hidden, err := normalizeHiddenPath(deps.HiddenPath)
	if err != nil {
		return nil, err
	}

	storefrontProxy, err := NewReverseProxy(deps.StorefrontURL, httpDeps.Log)
	if err != nil {
		return nil, err
	}
	adminProxy, err := NewReverseProxy(deps.AdminURL, httpDeps.Log)
	if err != nil {
		return nil, err
	}

	jwt := auth.NewTokenMaker(deps.JWTSecret)

	r := chi.NewRouter()
	setupMiddleware(r, httpDeps)
	setupMetrics(r, httpDeps)

	r.Get("/healthz", healthz)
	r.Get("/readyz", readyz(deps, httpDeps.Log))

	r.Get("/catalog", storefrontProxy.ServeHTTP)
	r.Get("/status", storefrontProxy.ServeHTTP)
	r.Get("/afk/*", storefrontProxy.ServeHTTP)
	r.Post("/checkout", storefrontProxy.ServeHTTP)

	toAdmin := http.StripPrefix(hidden, adminProxy)
	r.Route(hidden, func(hr chi.Router) {
		hr.Post("/auth/login", toAdmin.ServeHTTP)

		hr.Group(func(pr chi.Router) {
			pr.Use(AuthJWT(jwt))
			pr.Use(InjectHeaders)
			pr.Handle("/auth/*", toAdmin)
			pr.Handle("/admin/*", toAdmin)
		})
	})

	return r, nil
}

func normalizeHiddenPath(p string) (string, error) {
	p = "/" + strings.Trim(strings.TrimSpace(p), "/")
	if p == "/" {
		return "", fmt.Errorf("admin hidden path is required")
	}
	return p, nil
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func readyz(deps Deps, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		for _, up := range []struct{ name, url string }{
			{"storefront", deps.StorefrontURL},
			{"admin", deps.AdminURL},
		} {
			if err := checkReady(ctx, up.url+"/readyz"); err != nil {
				if log != nil {
					log.Warn("readyz failed: "+up.name, zap.Error(err))
				}
				kit.WriteError(w, r, http.StatusServiceUnavailable, up.name+" not ready", nil)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
	}
}

func checkReady(ctx context.Context, url string) error {
	cctx, cancel := context.WithTimeout(ctx, readyProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(cctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := readyClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status=%d", resp.StatusCode)
	}

	return nil
}
