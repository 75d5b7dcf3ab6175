package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/airbandhq/airband/internal/adapters/http"
	"github.com/airbandhq/airband/internal/adapters/rtc"
	"github.com/airbandhq/airband/internal/adapters/store/memstore"
	"github.com/airbandhq/airband/internal/adapters/store/redisstore"
	"github.com/airbandhq/airband/internal/app"
	"github.com/airbandhq/airband/internal/app/orch"
	"github.com/airbandhq/airband/internal/config"
	"github.com/airbandhq/airband/internal/core"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	var kv core.KV
	switch cfg.Store {
	case "redis":
		rs, err := redisstore.New(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("redis store init")
		}
		if err := rs.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("redis unreachable")
		}
		defer rs.Close()
		kv = rs
	default:
		log.Warn().Msg("using in-memory store; rooms will not survive restarts or scale past one process")
		kv = memstore.New()
	}

	o := &orch.Orchestrator{
		Registry:        app.NewRegistry(),
		Rooms:           app.NewRooms(kv, cfg.RoomTTL),
		Presence:        app.NewPresence(),
		Speaker:         app.NewSpeaker(),
		Policy:          app.SimplePolicy{},
		ICEServers:      rtc.ICEServersFrom(cfg.STUNServers),
		AutoJoinCreator: cfg.AutoJoinCreator,
		MaxFrameBytes:   cfg.MaxFrameBytes,
	}

	r := router.SetupRouter(ctx, cfg, o)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Airband coordinator started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
