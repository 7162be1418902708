package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/mkravets/wb-slots-bot/internal/bot"
	"github.com/mkravets/wb-slots-bot/internal/config"
	"github.com/mkravets/wb-slots-bot/internal/dialog"
	"github.com/mkravets/wb-slots-bot/internal/domain/catalog"
	"github.com/mkravets/wb-slots-bot/internal/domain/tasks"
	"github.com/mkravets/wb-slots-bot/internal/domain/users"
	"github.com/mkravets/wb-slots-bot/internal/infra/db"
	httpx "github.com/mkravets/wb-slots-bot/internal/infra/http"
	"github.com/mkravets/wb-slots-bot/internal/infra/logger"
	"github.com/mkravets/wb-slots-bot/internal/wizard"
)

func runMigrations(dsn string, log *slog.Logger) error {
	sqlDB, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	if err := runMigrations(cfg.Postgres.DSN, log); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Error("telegram auth failed", "err", err)
		return
	}
	log.Info("telegram authorized", "bot", api.Self.UserName)

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled, pool.Ping)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	wiz := wizard.New(
		catalog.NewRepo(pool),
		tasks.NewRepo(pool),
		dialog.NewRepo(pool),
		log,
	)
	b := bot.New(api, log, users.NewRepo(pool), wiz)

	if err := b.Run(ctx, cfg.Telegram.PollTimeoutSec); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("bot stopped", "err", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
