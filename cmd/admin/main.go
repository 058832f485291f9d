package main

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"ForgeStore/internal/admin"
	"ForgeStore/internal/auth"
	"ForgeStore/internal/catalog"
	"ForgeStore/internal/config"
	"ForgeStore/pkg/kit"
)

func main() {
	service := "admin"

	cfg, err := config.Load("8081")
	if err != nil {
		panic(err)
	}

	log := kit.NewLogger(service, cfg.App.LogLevel)
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	var closers []kit.Closer

	var (
		store catalog.Store
		users auth.UserStore
	)
	if cfg.DB.DSN == "" {
		log.Warn("no database configured, using in-memory stores")
		store = catalog.NewSeededMemStore()
		users = auth.NewMemStore()
	} else {
		db, err := kit.OpenPostgres(ctx, cfg.DB.DSN)
		if err != nil {
			log.Fatal("database unavailable", zap.Error(err))
		}
		closers = append(closers, closeDB(db))
		store = catalog.NewPostgresStore(db)
		users = auth.NewPostgresStore(db)
	}

	var sessions auth.Sessions = auth.NewMemSessions()
	if cfg.Redis.Enabled() {
		rc, err := auth.OpenRedis(ctx, cfg.Redis.URL, cfg.Redis.Addr)
		if err != nil {
			log.Fatal("redis unavailable", zap.Error(err))
		}
		closers = append(closers, func(context.Context) error { return rc.Close() })
		sessions = auth.NewRedisSessions(rc)
	}

	if cfg.Admin.Email != "" {
		created, err := auth.EnsureAdmin(ctx, users, cfg.Admin.Email, cfg.Admin.Password, "u_"+uuid.NewString())
		if err != nil {
			log.Fatal("bootstrap admin failed", zap.Error(err))
		}
		log.Info("admin account ready", zap.String("email", cfg.Admin.Email), zap.Bool("created", created))
	} else {
		log.Warn("FORGESTORE_ADMIN_EMAIL not set, no admin account bootstrapped")
	}

	a := &auth.Server{
		Log:      log,
		Users:    users,
		Sessions: sessions,
		JWT:      auth.NewTokenMaker(cfg.JWT.Secret),
		TTL:      cfg.JWT.SessionTTL,
	}

	s := &admin.Server{
		Log:   log,
		Panel: admin.NewPanel(store, log).WithStatusID(cfg.Shop.StatusID),
	}

	h := admin.NewHandler(a, s, admin.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       prometheus.NewRegistry(),
		Store:          store,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsToken:   cfg.Metrics.Token,
	})

	if err := kit.RunHTTPServer(cfg.App.Addr(), h, log, closers...); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func closeDB(db *sql.DB) kit.Closer {
	return func(context.Context) error { return db.Close() }
}
