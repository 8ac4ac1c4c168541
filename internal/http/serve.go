package http

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/http/handlers"
	applog "storefront/internal/log"
	"storefront/internal/ratelimit"
	"storefront/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// Run drives one service binary from config load to shutdown. Everything it
// opened is released on SIGINT or SIGTERM.
func Run(service string, mounts ...Mounter) {
	cfg, err := config.Load()
	if err != nil {
		applog.Logger().Fatal().Err(err).Msg("load config")
	}
	closer, err := applog.Init(service, cfg.LogLevel, cfg.LogFile)
	if err != nil {
		applog.Logger().Warn().Err(err).Str("file", cfg.LogFile).Msg("could not open log file")
	}
	defer closer.Close()
	applog.Logger().Info().Fields(cfg.Fields()).Msg("config loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := storage.Open(ctx, cfg)
	if err != nil {
		applog.Logger().Fatal().Err(err).Msg("store unavailable")
	}

	opts := Options{Service: service, Config: cfg}
	if cfg.RedisAddr != "" {
		rs, err := ratelimit.NewRedisStorage(cfg.RedisAddr, service+":limiter:")
		if err != nil {
			applog.Logger().Warn().Err(err).Msg("redis unavailable, rate limits kept in memory")
		} else {
			opts.Storage = rs
			defer rs.Close()
		}
	}

	deps := handlers.NewDeps(st, cfg)
	app := Build(opts, deps, mounts...)

	errc := make(chan error, 1)
	go func() {
		applog.Logger().Info().Str("addr", ":"+cfg.Port).Msg("listening")
		errc <- app.Listen(":" + cfg.Port)
	}()

	select {
	case <-ctx.Done():
		applog.Logger().Info().Msg("shutting down")
	case err := <-errc:
		if err != nil {
			applog.Logger().Error().Err(err).Msg("listener stopped")
		}
	}

	shutdown(app, st)
}

func shutdown(app *fiber.App, st *storage.Store) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		applog.Logger().Error().Err(err).Msg("http shutdown")
	}
	if err := st.Close(ctx); err != nil {
		applog.Logger().Error().Err(err).Msg("store close")
	}
}
