// Package main is the entry point for the SkyMedic API server.
//
// It loads configuration, reads the reference datasets from disk, generates
// the deterministic medic roster, builds the HTTP server with the core
// chassis (middleware, routing, health checks), and starts listening.
//
// Graceful shutdown is handled via OS signal interception (SIGINT, SIGTERM).
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"skymedic/internal/api/handlers"
	"skymedic/internal/catalog"
	"skymedic/internal/config"
	"skymedic/internal/core"
	"skymedic/internal/dispatch"
	"skymedic/internal/eval"
	"skymedic/internal/refdata"
	"skymedic/internal/roster"
	"skymedic/internal/zones"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// run encapsulates the startup lifecycle so that main() can cleanly exit on error.
func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("skymedic API starting",
		"environment", cfg.Environment,
		"version", cfg.Build.Version,
		"commit", cfg.Build.Commit,
		"port", cfg.Server.Port,
	)

	// Load reference data. Startup fails fast if any of the four files is
	// missing or unreadable.
	loadCtx, loadCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer loadCancel()

	refStore, err := refdata.LoadAll(loadCtx, cfg.Data.Dir, logger)
	if err != nil {
		return fmt.Errorf("loading reference data: %w", err)
	}
	logger.Info("reference data loaded",
		"scenarios", len(refStore.Scenarios),
		"cases", len(refStore.Cases),
		"zones", len(refStore.Zones),
		"catalog", len(refStore.Catalog),
	)

	// Build the domain services over the loaded data.
	rosterStore := roster.Generate(cfg.Roster.Seed, cfg.Roster.Size)
	medicMatcher := roster.NewMatcher(rosterStore, roster.FleetSpeeds{
		AerialKmh: cfg.Fleet.AerialSpeedKmh,
		GroundKmh: cfg.Fleet.GroundSpeedKmh,
	}, logger)
	caseMatcher := catalog.NewMatcher(refStore.Catalog)
	zoneSelector := zones.NewSelector(refStore.Zones, cfg.Fleet.AerialSpeedKmh, logger)

	thresholds := dispatch.Thresholds{
		WeatherRiskPct:     cfg.Dispatch.WeatherRiskThresholdPct,
		EfficiencyDeltaMin: cfg.Dispatch.EfficiencyDeltaMin,
	}
	evalRunner := eval.NewRunner(thresholds, logger)

	srv, err := core.NewServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	// Wire the domain handlers.
	dispatchHandler := handlers.NewDispatchHandler(thresholds, logger)
	triageHandler := handlers.NewTriageHandler(srv.Validator, logger)
	catalogHandler := handlers.NewCatalogHandler(caseMatcher, logger)
	medicsHandler := handlers.NewMedicsHandler(medicMatcher, rosterStore, srv.Validator, logger)
	zonesHandler := handlers.NewZonesHandler(zoneSelector, logger)
	evalHandler := handlers.NewEvalHandler(evalRunner, refStore, srv.Validator, logger)

	srv.V1RouteRegistrars = []core.V1RouteRegistrar{
		func(r chi.Router) { r.Route("/dispatch", dispatchHandler.RegisterRoutes) },
		func(r chi.Router) { r.Route("/triage", triageHandler.RegisterRoutes) },
		func(r chi.Router) { r.Route("/catalog", catalogHandler.RegisterRoutes) },
		func(r chi.Router) { r.Route("/medics", medicsHandler.RegisterRoutes) },
		func(r chi.Router) { r.Route("/zones", zonesHandler.RegisterRoutes) },
		func(r chi.Router) { r.Route("/eval", evalHandler.RegisterRoutes) },
	}

	srv.HealthProbes = []core.HealthProbe{
		core.Probe{
			ProbeName: "reference_data",
			CheckFunc: func(ctx context.Context) error {
				if !refStore.Loaded() {
					return errors.New("reference data incomplete")
				}
				return nil
			},
		},
		core.Probe{
			ProbeName: "roster",
			CheckFunc: func(ctx context.Context) error {
				if len(rosterStore.All()) == 0 {
					return errors.New("medic roster is empty")
				}
				return nil
			},
		},
	}

	srv.MountRoutes()

	return runHTTPServer(srv, cfg, logger)
}

// runHTTPServer starts the server in standard HTTP mode with graceful shutdown.
func runHTTPServer(srv *core.Server, cfg *config.Config, logger *slog.Logger) error {
	addr := ":" + cfg.Server.Port

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)

	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	logger.Info("initiating graceful shutdown")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server resource shutdown error", "error", err)
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped cleanly")
	return nil
}

// newLogger creates a structured slog.Logger for the given log level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler)
}
