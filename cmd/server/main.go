package main

import (
	"context"
	"log"
	"net/http"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hexfront/hexfront-backend/internal/cards"
	"github.com/hexfront/hexfront-backend/internal/config"
	"github.com/hexfront/hexfront-backend/internal/httpapi"
	"github.com/hexfront/hexfront-backend/internal/hub"
	"github.com/hexfront/hexfront-backend/internal/store"
)

func main() {
	cfg := config.Load()

	logger, err := buildLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	var st store.Store
	if cfg.DatabaseURL != "" {
		gs, err := store.NewGormStore(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("open database", zap.Error(err))
		}
		st = gs
		logger.Info("using postgres store")
	} else {
		st = store.NewMemoryStore()
		logger.Info("using in-memory store; rooms will not survive a restart")
	}

	ctx := context.Background()
	h := hub.NewHub(ctx, st, cards.DefaultSource(), logger)

	// Build the router *with* the hub injected
	handler := httpapi.SetupRoutes(h, logger, cfg.StreamKeepAlive)

	logger.Info("listening", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
