package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/dkeye/Interview/internal/adapters/http"
	presencestore "github.com/dkeye/Interview/internal/adapters/presence"
	"github.com/dkeye/Interview/internal/adapters/rtc"
	signaling "github.com/dkeye/Interview/internal/adapters/signal"
	"github.com/dkeye/Interview/internal/app"
	"github.com/dkeye/Interview/internal/app/orch"
	"github.com/dkeye/Interview/internal/app/presence"
	"github.com/dkeye/Interview/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("failed to read .env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Mode == "release" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level, keeping info")
	}

	store, err := presencestore.Open(ctx, cfg.Presence)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Presence.Backend).Msg("failed to open presence store")
	}
	publisher := presence.NewPublisher(store, cfg.Presence.WriteTimeout)

	iceServers, err := rtc.ICEServers(cfg.ICEServers)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid ice servers")
	}

	policy, err := app.PolicyFor(cfg.WS.Backpressure)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid backpressure policy")
	}

	hub := &orch.Orchestrator{
		Registry: app.NewRegistry(publisher),
		Rooms:    app.NewRoomManager(),
		Policy:   policy,
	}

	limiter := signaling.NewRequestRateLimiter(cfg.Requests.Limit, cfg.Requests.Interval)
	go limiter.Run(ctx)

	signalCtl := signaling.NewSignalWSController(hub, cfg.WS, cfg.AllowedOrigins, limiter)
	r := router.SetupRouter(ctx, cfg, router.Deps{
		Orch:       hub,
		Signal:     signalCtl,
		Identity:   router.NewIdentityResolver(cfg.Auth.JWTSecret, cfg.Auth.RequireToken),
		ICEServers: iceServers,
	})
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Interview hub started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	// Shutdown does not track hijacked websockets. The cancelled ctx stops
	// their pumps; wait for their offline updates before draining.
	if err := signalCtl.Wait(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("connections still open at shutdown")
	}
	if err := publisher.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("presence flush incomplete")
	}
	if err := store.Close(); err != nil {
		log.Error().Err(err).Msg("presence store close")
	}
	log.Info().Msg("Server exited gracefully")
}
