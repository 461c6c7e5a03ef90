package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/trippilot/backend/internal/api"
	"github.com/trippilot/backend/internal/config"
	"github.com/trippilot/backend/internal/copilot"
	"github.com/trippilot/backend/internal/flights"
	"github.com/trippilot/backend/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the configuration file")
	flag.Parse()

	// Secrets come from the environment; a local .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("Server exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	timeout := time.Duration(cfg.Flights.RequestTimeoutSeconds) * time.Second

	provider, err := buildProvider(cfg, timeout, log)
	if err != nil {
		return err
	}

	model := flights.DefaultRouteImportanceModel()
	simulator := flights.NewSimulator(model, log)
	box := flights.BoundingBox{
		LatMin: cfg.Flights.LatMin,
		LatMax: cfg.Flights.LatMax,
		LonMin: cfg.Flights.LonMin,
		LonMax: cfg.Flights.LonMax,
	}
	flightsService := flights.NewService(provider, model, simulator, box, cfg.Flights.MaxFlights, cfg.Flights.SimulatedFlights, log)

	completer := buildCompleter(cfg, log)
	copilotTimeout := time.Duration(cfg.Copilot.TimeoutSeconds) * time.Second
	copilotService := copilot.NewService(completer, copilotTimeout, log)

	router := api.NewRouter(flightsService, copilotService, cfg, log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Routes(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSecs) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server",
			logger.String("addr", addr),
			logger.String("flight_source", provider.Name()),
			logger.Bool("copilot_online", copilotService.Online()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		log.Info("Shutting down", logger.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeoutSec)*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down cleanly: %w", err)
	}
	return nil
}

// buildProvider constructs the configured upstream flight-data provider
func buildProvider(cfg *config.Config, timeout time.Duration, log *logger.Logger) (flights.Provider, error) {
	switch cfg.Flights.Source {
	case "aggregator":
		return flights.NewAggregatorClient(cfg.Aggregator.APIURL, timeout, log), nil
	case "opensky":
		return flights.NewOpenSkyClient(
			cfg.OpenSky.APIURL,
			cfg.OpenSky.TokenURL,
			cfg.OpenSky.ClientID,
			cfg.OpenSky.ClientSecret,
			timeout,
			log,
		), nil
	}
	return nil, fmt.Errorf("unknown flight source: %s", cfg.Flights.Source)
}

// buildCompleter constructs the configured LLM completer. A missing
// credential disables the copilot but never fails startup.
func buildCompleter(cfg *config.Config, log *logger.Logger) copilot.Completer {
	if cfg.Copilot.APIKey == "" {
		return nil
	}

	switch cfg.Copilot.Provider {
	case "gemini":
		completer, err := copilot.NewGeminiCompleter(context.Background(), cfg.Copilot.APIKey, cfg.Copilot.Model)
		if err != nil {
			log.Warn("Failed to configure Gemini, copilot will be offline", logger.Error(err))
			return nil
		}
		return completer
	case "openai":
		return copilot.NewOpenAICompleter(cfg.Copilot.APIKey, cfg.Copilot.Model)
	}
	return nil
}
