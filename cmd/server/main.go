/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the salon ledger server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and initialize structured logging
  2. Load environment config (SALON_ prefix)
  3. Open the SQLite store
  4. Build the commission strategy and log its configuration warnings
  5. Wire the schedule manager, handlers, and router
  6. Start the server with graceful shutdown

CONFIGURATION:
  All config via environment (see config/config.go):
    SALON_PORT                 HTTP port (default 8080)
    SALON_DB_PATH              SQLite path, ":memory:" for ephemeral
    SALON_COMMISSION_STRATEGY  Strategy JSON (empty = house default)
    SALON_LOG_LEVEL            zerolog level (default info)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/artmax/salon-ledger/api"
	"github.com/artmax/salon-ledger/config"
	"github.com/artmax/salon-ledger/factory"
	"github.com/artmax/salon-ledger/report"
	"github.com/artmax/salon-ledger/schedule"
	"github.com/artmax/salon-ledger/store/sqlite"
)

func main() {
	// .env is optional; the environment wins when both are set.
	_ = godotenv.Load()

	log := newLogger(os.Getenv("SALON_LOG_LEVEL"))

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	store, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DB.Path).Msg("failed to open database")
	}
	defer store.Close()

	strategy, err := factory.ParseStrategy(cfg.Commission.StrategyJSON)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid commission strategy")
	}
	// Surface misconfigured rates/rules once at startup; the engine itself
	// never clamps payouts at runtime.
	for _, warning := range strategy.Validate(cfg.Validation.MaxSaleAmount) {
		log.Warn().Str("code", warning.Code).Msg(warning.Message)
	}
	log.Info().Str("strategy", strategy.Name()).Msg("commission strategy loaded")

	rules := schedule.Rules{
		MinNameLen:        cfg.Validation.MinNameLen,
		MinPhoneDigits:    cfg.Validation.MinPhoneDigits,
		MaxPhoneDigits:    cfg.Validation.MaxPhoneDigits,
		MinDescriptionLen: cfg.Validation.MinDescriptionLen,
		MinSaleAmount:     cfg.Validation.MinSaleAmount,
		MaxSaleAmount:     cfg.Validation.MaxSaleAmount,
	}
	manager := schedule.NewManager(store, strategy, rules, nil)

	agg := report.Aggregator{GroupNormalization: report.NormalizeExact}
	if cfg.Report.NameNormalization == "lower" {
		agg.GroupNormalization = report.NormalizeLower
	}

	handler := api.NewHandler(manager, agg, log)
	router := api.NewRouter(handler, log)

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Str("db", cfg.DB.Path).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}

	log.Info().Msg("server stopped")
}

// newLogger builds the process logger. Unknown level strings (including the
// empty string before config is loaded) fall back to info.
func newLogger(levelStr string) zerolog.Logger {
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
}
