// Package main provides the campaign session server binary: a TCP line
// server that synchronizes one DM and their players.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/dungeonsync/campaignd/internal/config"
	"github.com/dungeonsync/campaignd/internal/frontend/tcp"
	"github.com/dungeonsync/campaignd/internal/game/content"
	"github.com/dungeonsync/campaignd/internal/game/session"
	"github.com/dungeonsync/campaignd/internal/gameserver"
	"github.com/dungeonsync/campaignd/internal/observability"
	"github.com/dungeonsync/campaignd/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty = built-in defaults")
	contentDir := flag.String("content", "", "path to campaign YAML directory; overrides the config file")
	flag.Parse()

	ctx := context.Background()

	var cfg config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.Default()
	}
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *contentDir != "" {
		cfg.Content.Dir = *contentDir
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting campaign session server",
		zap.String("listen_addr", cfg.Listener.Addr()),
	)

	store := session.NewStore()

	// Preload campaign content when a directory is configured. A missing
	// directory is not an error: the DM simply announces content live.
	if dir := cfg.Content.Dir; dir != "" {
		if info, statErr := os.Stat(dir); statErr == nil && info.IsDir() {
			contentStart := time.Now()
			campaign, err := content.LoadCampaignFromDir(dir)
			if err != nil {
				logger.Fatal("loading campaign content", zap.Error(err))
			}
			campaign.Preload(store)
			logger.Info("campaign content loaded",
				zap.String("dir", dir),
				zap.Int("enemies", len(campaign.Enemies)),
				zap.Int("locations", len(campaign.Locations)),
				zap.Duration("elapsed", time.Since(contentStart)),
			)
		} else {
			logger.Warn("content directory not found, skipping",
				zap.String("dir", dir),
			)
		}
	}

	registry := gameserver.NewRegistry()
	router := gameserver.NewRouter(store, registry, logger)
	handler := gameserver.NewHandler(store, registry, router, logger)
	acceptor := tcp.NewAcceptor(cfg.Listener, handler, logger)

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("session-acceptor", &server.FuncService{
		StartFn: acceptor.ListenAndServe,
		StopFn:  acceptor.Stop,
	})

	logger.Info("campaign session server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("listen_addr", cfg.Listener.Addr()),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
