package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Spok95/bakery-ledger/internal/api"
	"github.com/Spok95/bakery-ledger/internal/config"
	"github.com/Spok95/bakery-ledger/internal/domain/ledger"
	"github.com/Spok95/bakery-ledger/internal/infra/db"
	httpx "github.com/Spok95/bakery-ledger/internal/infra/http"
	"github.com/Spok95/bakery-ledger/internal/infra/logger"
	"github.com/Spok95/bakery-ledger/internal/infra/notify"
	"github.com/Spok95/bakery-ledger/internal/infra/store/jsonfile"
	pgstore "github.com/Spok95/bakery-ledger/internal/infra/store/postgres"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/subosito/gotenv"
)

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func configPath() string {
	if p := os.Getenv("APP_CONFIG"); p != "" {
		return p
	}
	return "config/example.yaml"
}

func main() {
	_ = gotenv.Load()

	cfg, err := config.Load(configPath())
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store ledger.Store
	switch cfg.Storage.Backend {
	case "postgres":
		if err := runMigrations(cfg.Storage.Postgres.DSN); err != nil {
			log.Error("migrations failed", "err", err)
			return
		}
		log.Info("migrations applied")

		pool, err := db.Connect(ctx, cfg.Storage.Postgres.DSN)
		if err != nil {
			log.Error("db connect failed", "err", err)
			return
		}
		defer pool.Close()
		store = pgstore.New(pool)
		log.Info("using postgres store")
	default:
		store = jsonfile.New(cfg.Storage.File.Path)
		log.Info("using file store", "path", cfg.Storage.File.Path)
	}

	var sink ledger.AlertSink
	if cfg.Telegram.Enabled {
		tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.AdminChatID, log)
		if err != nil {
			log.Error("telegram init failed", "err", err)
			return
		}
		sink = tg
		log.Info("telegram alerts enabled", "chat_id", cfg.Telegram.AdminChatID)
	}

	led, err := ledger.Open(ctx, store, sink)
	if err != nil {
		log.Error("ledger open failed", "err", err)
		return
	}

	if alerts := led.LowStock(); len(alerts) > 0 {
		for _, a := range alerts {
			log.Warn("low stock", "material", a.Material, "current", a.Current, "threshold", a.Threshold)
		}
	}

	handler := api.New(led, log)
	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled, handler.Router())
	go func() {
		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
