package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/stockguard/internal/admin"
	"github.com/andresuchdata/stockguard/internal/api"
	"github.com/andresuchdata/stockguard/internal/app"
	"github.com/andresuchdata/stockguard/internal/cache"
	"github.com/andresuchdata/stockguard/internal/config"
	"github.com/andresuchdata/stockguard/internal/engine"
	"github.com/andresuchdata/stockguard/internal/service"
	"github.com/andresuchdata/stockguard/internal/snapshot"
	"github.com/andresuchdata/stockguard/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetFormat(cfg.Log.Format)
	if cfg.Log.Level != "" {
		logger.SetLevel(cfg.Log.Level)
	} else {
		logger.SetLevel(cfg.Server.Mode)
	}
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Snapshot
	source, err := app.NewSnapshotSource(ctx, cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to configure snapshot source")
	}
	holder := snapshot.NewHolder(source)
	if _, err := holder.Refresh(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load initial snapshot")
	}

	// Cache
	resultCache, err := cache.NewResultCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Result cache unavailable, continuing without cache")
		resultCache = cache.NewNoopResultCache()
	}
	holder.OnRefresh(func(old, updated *snapshot.Snapshot) {
		if old == nil || old.Version == updated.Version {
			return
		}
		if err := resultCache.InvalidateAll(context.Background()); err != nil {
			logger.Log.Warn().Err(err).Msg("Failed to invalidate result cache")
		}
	})
	go holder.Run(ctx, cfg.Snapshot.RefreshInterval)

	// Persistence
	actions, err := app.NewActionRepository(ctx, cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize action repository")
	}

	// Initialize services
	eng := engine.New(app.EngineConfig(cfg.Engine))
	services := &api.Services{
		InventoryService: service.NewInventoryService(holder, eng),
		RebalanceService: service.NewRebalanceService(holder, eng, resultCache, actions, cfg.Engine.TopN),
	}

	// Initialize HTTP servers
	servers := []*http.Server{
		{
			Addr:         ":" + cfg.Server.Port,
			Handler:      api.NewRouter(services, cfg.Server.AllowedOrigins),
			ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		},
		{
			Addr:         ":" + cfg.Server.AdminPort,
			Handler:      admin.NewRouter(admin.NewHandler(holder, resultCache)),
			ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		},
	}

	// Start servers in goroutines
	for _, srv := range servers {
		go func(srv *http.Server) {
			logger.Log.Info().Str("addr", srv.Addr).Msg("Starting server")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Log.Fatal().Err(err).Str("addr", srv.Addr).Msg("Failed to start server")
			}
		}(srv)
	}

	// Wait for interrupt signal to gracefully shut down the servers
	<-ctx.Done()
	logger.Log.Info().Msg("Shutting down server...")

	// The context is used to inform the servers they have 5 seconds to finish
	// the requests they are currently handling
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error().Err(err).Str("addr", srv.Addr).Msg("Server forced to shutdown")
		}
	}

	logger.Log.Info().Msg("Server exiting")
}
