package main

import (
	"context"
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"ForgeStore/internal/cart"
	"ForgeStore/internal/catalog"
	"ForgeStore/internal/config"
	"ForgeStore/internal/orderfeed"
	"ForgeStore/internal/storefront"
	"ForgeStore/pkg/kit"
)

func main() {
	service := "storefront"

	cfg, err := config.Load("8082")
	if err != nil {
		panic(err)
	}

	log := kit.NewLogger(service, cfg.App.LogLevel)
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	var closers []kit.Closer

	store, db := openCatalog(ctx, cfg, log)
	if db != nil {
		closers = append(closers, func(context.Context) error { return db.Close() })
	}

	var clip cart.Clipboard = orderfeed.Log{Log: log}
	if cfg.Kafka.Enabled() {
		feed := orderfeed.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic, service)
		clip = feed
		closers = append([]kit.Closer{feed.Close}, closers...)
		log.Info("order feed on kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	loader := catalog.NewLoader(store, log)
	loader.StatusID = cfg.Shop.StatusID

	s := &storefront.Server{
		Log:        log,
		Loader:     loader,
		Clipboard:  clip,
		ContactURL: cfg.Shop.ContactURL,
	}

	h := storefront.NewHandler(s, storefront.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsToken:   cfg.Metrics.Token,
	})

	if err := kit.RunHTTPServer(cfg.App.Addr(), h, log, closers...); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func openCatalog(ctx context.Context, cfg *config.Config, log *zap.Logger) (catalog.Store, *sql.DB) {
	if cfg.DB.DSN == "" {
		log.Warn("no database configured, serving the demo catalog from memory")
		return catalog.NewSeededMemStore(), nil
	}

	db, err := kit.OpenPostgres(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal("database unavailable", zap.Error(err))
	}
	return catalog.NewPostgresStore(db), db
}
