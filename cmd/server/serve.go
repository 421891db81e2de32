package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"holdem-server/internal/config"
	"holdem-server/internal/mux"
	"holdem-server/pkg/room"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10
const shutdownTimeout = time.Second * 15

// ServeCmd runs the HTTP server
type ServeCmd struct {
	Addr string `help:"The listen address, overrides the configuration"`
}

// Run serves until SIGINT or SIGTERM
func (s *ServeCmd) Run(logger logrus.FieldLogger, cfg config.Config) error {
	addr := cfg.Addr
	if s.Addr != "" {
		addr = s.Addr
	}

	pitBoss := room.NewPitBoss(logger, nil, cfg.CleanupInterval)

	c := cors.New(cors.Options{
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With", "X-Player-ID"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      loggingHandler(cfg, c.Handler(mux.NewMux(logger, Version, pitBoss, cfg.TableOptions()))),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.WithField("addr", srv.Addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		err := pitBoss.StartShift(ctx).Wait()
		if errors.Is(err, context.Canceled) {
			return nil
		}

		return err
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// websocket connections are hijacked, so the tables must close them
		if err := pitBoss.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("tables did not close cleanly")
		}

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func loggingHandler(cfg config.Config, next http.Handler) http.Handler {
	if cfg.Log.DisableAccessLogs {
		return next
	}

	return handlers.CombinedLoggingHandler(os.Stdout, next)
}
