// Package main is the entry point of the application
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tecu23/duel-server/internal/auth"
	"github.com/tecu23/duel-server/internal/config"
	"github.com/tecu23/duel-server/pkg/events"
	"github.com/tecu23/duel-server/pkg/registry"
	"github.com/tecu23/duel-server/pkg/results"
	"github.com/tecu23/duel-server/pkg/server"
)

// App encapsulates global dependencies
type application struct {
	Auth      *auth.APIKeyAuth
	Logger    *zap.Logger
	Config    *config.Config
	Publisher *events.Publisher
	Hub       *server.Hub
	Origins   *server.OriginPolicy
	Results   results.Store
	Server    *http.Server

	StartTime time.Time
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug logging")
	flag.StringVar(&cfg.Port, "port", cfg.Port, "server port")
	flag.StringVar(&cfg.ResultsBackend, "results", cfg.ResultsBackend, "results backend: memory, redis or postgres")
	flag.Parse()

	// Initialize logger
	logger := initLogger(cfg.Debug)
	defer logger.Sync()

	// Initialize event publisher
	publisher := events.NewPublisher()
	publisher.SubscribeAll(func(e events.Event) {
		logger.Debug("event", zap.String("type", string(e.Type)), zap.String("player_id", e.PlayerID))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := results.Open(ctx, results.Options{
		Backend:     results.Backend(cfg.ResultsBackend),
		RedisURL:    cfg.RedisURL,
		DatabaseURL: cfg.DatabaseURL,
		MaxKept:     cfg.ResultsKept,
	})
	cancel()
	if err != nil {
		logger.Fatal("open results store", zap.String("backend", cfg.ResultsBackend), zap.Error(err))
	}
	results.NewRecorder(store, publisher, logger)

	reg := registry.New(publisher, logger)
	hub := server.NewHub(reg, logger, server.WithMaxMessageSize(cfg.MaxMessageSize))

	app := &application{
		Auth:      auth.NewAPIKeyAuth(cfg.APIKeys),
		Logger:    logger,
		Config:    cfg,
		Hub:       hub,
		Origins:   server.NewOriginPolicy(cfg.AllowedOrigins, logger),
		Publisher: publisher,
		Results:   store,
		StartTime: time.Now(),
	}

	go app.Hub.Run()

	err = app.serve()
	if err != nil {
		logger.Fatal("error serving", zap.Error(err))
	}
}

func initLogger(debug bool) *zap.Logger {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	return logger
}

// Shutdown cleans up resources
func (app *application) Shutdown() {
	// Shut down hub
	if app.Hub != nil {
		app.Hub.Shutdown()
	}

	// Let pending result writes finish
	app.Publisher.Wait()

	if app.Results != nil {
		if err := app.Results.Close(); err != nil {
			app.Logger.Error("closing results store", zap.Error(err))
		}
	}

	app.Logger.Info("All components shut down successfully")
}
