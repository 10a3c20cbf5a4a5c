package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/mbressan/identity-service/internal/bootstrap"
	"github.com/mbressan/identity-service/internal/config"
	"github.com/mbressan/identity-service/internal/logger"
)

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// run serves until the signal channel fires, then drains in-flight requests.
func run(srv httpServer, sig <-chan os.Signal, timeout time.Duration, log zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	return <-errCh
}

func main() {
	logger.Init()
	log := zerolog.New(os.Stderr).With().Timestamp().Str("service", "identity-service").Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	srv, err := bootstrap.Build(context.Background(), cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("bootstrap failed")
	}
	defer srv.Close()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	log.Info().Str("addr", cfg.HTTPAddr).Str("env", cfg.Env).Msg("listening")
	if err := run(srv.HTTP, sig, cfg.ShutdownTimeout, log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("stopped")
}
