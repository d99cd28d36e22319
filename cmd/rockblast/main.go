// Package main is the entry point for Rock Blast.
package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"

	"github.com/Faultbox/rockblast/internal/config"
	"github.com/Faultbox/rockblast/internal/game"
	"github.com/Faultbox/rockblast/internal/game/ui"
	"github.com/Faultbox/rockblast/internal/logger"
)

func init() {
	// SDL and OpenGL must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if path := config.WriteConfigPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			fmt.Fprintf(os.Stderr, "Write config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config written to %s\n", path)
		return
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Rock Blast ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("game error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("game closed normally")
}

// run keeps deferred cleanup ahead of any exit in main.
func run(cfg *config.Config) error {
	if cfg.Graphics.UI == config.UIImGui {
		f, err := ui.NewFrontend(cfg)
		switch {
		case err == nil:
			defer f.Close()
			return f.Run()
		case errors.Is(err, ui.ErrUnavailable):
			logger.Warn("falling back to the sdl window", zap.Error(err))
		default:
			return fmt.Errorf("failed to create game: %w", err)
		}
	}

	g, err := game.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	defer g.Close()

	return g.Run()
}
