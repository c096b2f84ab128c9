package main

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	zlog "github.com/rs/zerolog/log"

	"github.com/eventmanager/admin-bff/internal/api"
	"github.com/eventmanager/admin-bff/internal/api/handlers"
	"github.com/eventmanager/admin-bff/internal/backend"
	"github.com/eventmanager/admin-bff/internal/config"
	"github.com/eventmanager/admin-bff/internal/logger"
	"github.com/eventmanager/admin-bff/internal/session"
	"github.com/eventmanager/admin-bff/internal/tracing"
	"github.com/eventmanager/admin-bff/internal/viacep"
	"github.com/eventmanager/admin-bff/middleware"
)

func main() {
	cfg := config.Load()

	logger.Init()
	zlog.Info().Msg("logger initialized")

	ctx := context.Background()
	tp, err := tracing.Init(ctx, tracing.Config{
		ServiceName:    "admin-bff",
		ServiceVersion: "1.0.0",
		OTLPEndpoint:   cfg.OTLPEndpoint,
	})
	if err != nil {
		zlog.Fatal().Err(err).Msg("tracing init failed")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(shutdownCtx)
	}()

	var (
		sessions session.Store
		rdb      *redis.Client
	)
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		sessions = session.NewRedisStore(rdb, cfg.SessionTTL)
		zlog.Info().Str("addr", cfg.RedisAddr).Msg("sessions backed by redis")
	} else {
		sessions = session.NewMemoryStore(cfg.SessionTTL)
		zlog.Warn().Msg("REDIS_ADDR not set, sessions held in memory")
	}

	// A 401 from the backend means the token died server-side; drop the
	// session so the gate sends the browser back to login.
	client := backend.New(cfg.APIBaseURL, backend.WithUnauthorizedHook(func(ctx context.Context) {
		if sid := middleware.GetSessionID(ctx); sid != "" {
			_ = sessions.Clear(ctx, sid)
		}
	}))

	events := backend.NewEventsService(client)
	places := backend.NewPlacesService(client)
	auth := backend.NewAuthService(client)
	cep := viacep.New(cfg.ViaCepBaseURL)

	checkers := []handlers.DependencyChecker{
		handlers.NewHTTPChecker("backend", cfg.APIBaseURL+"/actuator/health"),
	}
	if rdb != nil {
		checkers = append(checkers, handlers.NewRedisChecker(rdb))
	}

	r := api.NewRouter(api.Deps{
		Config:   cfg,
		Sessions: sessions,
		Identity: auth,
		Auth: &handlers.AuthHandler{
			Sessions:   sessions,
			LoginURL:   cfg.LoginURL(),
			CookieName: cfg.SessionCookie,
			SessionTTL: cfg.SessionTTL,
		},
		Events:    handlers.NewEventsHandler(events, places),
		Places:    handlers.NewPlacesHandler(places, cep),
		ViaCEP:    handlers.NewViaCEPHandler(cep),
		Readiness: handlers.NewReadinessHandler(checkers...),
	})

	zlog.Info().Str("port", cfg.Port).Msg("admin BFF starting")
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		zlog.Fatal().Err(err).Msg("server failed")
	}
}
