// Package main is the entry point for sceneplay, the headless scene player.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/kinema/internal/config"
	"github.com/Faultbox/kinema/internal/logger"
	"github.com/Faultbox/kinema/internal/player"
	"github.com/Faultbox/kinema/internal/scene"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== sceneplay ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("playback failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := scene.BuildOptions{
		Dt:          cfg.Simulation.Dt,
		Restitution: cfg.Simulation.Restitution,
		Collisions:  cfg.Simulation.Collisions,
		MaxSubSteps: cfg.Simulation.MaxSubSteps,
		Logger:      logger.Named("scene"),
	}

	desc, err := scene.Load(cfg.Scene.Path)
	if err != nil {
		return err
	}
	s, err := scene.Build(desc, opts)
	if err != nil {
		return fmt.Errorf("building scene from %s: %w", cfg.Scene.Path, err)
	}
	logger.Info("scene loaded",
		zap.String("path", cfg.Scene.Path),
		zap.String("name", s.Name),
		zap.Int("nodes", s.Graph.Len()),
		zap.Int("systems", len(s.Systems)),
		zap.Int("particles", s.ParticleCount()))

	p := player.New(s, cfg.Playback, logger.Named("player"))
	if cfg.Scene.Watch {
		p.SetUpdates(player.WatchScene(ctx, cfg.Scene.Path, scene.DefaultSettle, opts, logger.Named("watch")))
		logger.Info("watching scene file", zap.String("path", cfg.Scene.Path))
	}

	sum, err := p.Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("playback summary",
		zap.Uint64("frames", sum.Frames),
		zap.Duration("clock", sum.Clock),
		zap.Int("steps", sum.Steps),
		zap.Float32("dropped", sum.Dropped),
		zap.Int("plane_contacts", sum.PlaneContacts),
		zap.Int("particle_contacts", sum.ParticleContacts),
		zap.Int("reloads", sum.Reloads),
		zap.Int("restarts", sum.Restarts))
	return nil
}
