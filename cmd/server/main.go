package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"monke-bot/internal/config"
	"monke-bot/internal/constants"
	fxmodules "monke-bot/internal/fx"
	"monke-bot/internal/metrics"
	"monke-bot/internal/middleware"
	"monke-bot/internal/server"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

const (
	InteractionsPath = "/interactions"
	MetricsPath      = "/metrics"
	HealthPath       = "/healthz"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runServer),
	).Run()
}

// newMux routes the webhook and the read-only endpoints. Only Discord calls
// the webhook, so cross-origin access is opened for the read-only routes
// alone.
func newMux(interactions http.Handler, m *metrics.Metrics, ping func(context.Context) error, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	})

	requestIDMiddleware := middleware.RequestID(logger)
	metricsMiddleware := middleware.Metrics(m)

	mux.Handle(InteractionsPath, metricsMiddleware(requestIDMiddleware(interactions)))
	mux.Handle(MetricsPath, c.Handler(m.Handler()))
	mux.Handle(HealthPath, c.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := ping(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})))
	return mux
}

func runServer(
	lc fx.Lifecycle,
	interactions *server.InteractionServer,
	m *metrics.Metrics,
	cfg *config.Config,
	db *sql.DB,
	logger zerolog.Logger,
) {
	handler := newMux(interactions, m, db.PingContext, logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           handler,
		ReadHeaderTimeout: constants.RequestTimeout,
		WriteTimeout:      constants.RequestTimeout + constants.ExternalAPITimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info().Str("addr", srv.Addr).Msg("server starting")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
				return err
			}

			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}
			logger.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}
