package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"ForgeStore/internal/config"
	"ForgeStore/internal/gateway"
	"ForgeStore/pkg/kit"
)

func main() {
	service := "gateway"

	cfg, err := config.Load("8080")
	if err != nil {
		panic(err)
	}

	log := kit.NewLogger(service, cfg.App.LogLevel)
	defer func() { _ = log.Sync() }()

	if cfg.App.Env != "dev" && len(cfg.JWT.Secret) < 32 {
		log.Fatal("FORGESTORE_JWT_SECRET must be at least 32 chars outside dev")
	}

	deps := gateway.Deps{
		StorefrontURL: cfg.Gateway.StorefrontURL,
		AdminURL:      cfg.Gateway.AdminURL,
		JWTSecret:     cfg.JWT.Secret,
		HiddenPath:    cfg.Admin.HiddenPath,
	}

	h, err := gateway.NewHandler(deps, gateway.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsToken:   cfg.Metrics.Token,
	})
	if err != nil {
		log.Fatal("init gateway handler failed", zap.Error(err))
	}

	if err := kit.RunHTTPServer(cfg.App.Addr(), h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
