package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/damon-houk/artha-ledger/internal/config"
	"github.com/damon-houk/artha-ledger/internal/infrastructure/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", map[string]interface{}{"error": err.Error()})
	}

	log := logger.NewZeroLogger(os.Stdout, logger.ParseLevel(cfg.LogLevel))
	logger.SetDefaultLogger(log)

	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", map[string]interface{}{"error": err.Error()})
	}

	log.Info("Starting Artha ledger service", map[string]interface{}{
		"port":           cfg.Port,
		"data_dir":       cfg.DataDir,
		"timezone":       cfg.Timezone,
		"advice_enabled": cfg.AdviceEnabled(),
		"advice_model":   cfg.AdviceModel,
	})

	// The database is closed by newApp on failure, so Fatal is safe here
	a, err := newApp(cfg, log)
	if err != nil {
		log.Fatal("Failed to start", map[string]interface{}{"error": err.Error()})
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- a.serve()
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	select {
	case <-stop:
		log.Info("Shutting down...", nil)
	case err := <-serveErr:
		if err != nil {
			log.Error("HTTP server error", map[string]interface{}{"error": err.Error()})
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := a.shutdown(ctx); err != nil {
		log.Error("Shutdown failed", map[string]interface{}{"error": err.Error()})
	}
}
