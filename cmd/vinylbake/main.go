// Package main is the entry point for the vinylbake texture baker.
package main

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/vinylbake/internal/bake"
	"github.com/Faultbox/vinylbake/internal/config"
	"github.com/Faultbox/vinylbake/internal/logger"
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

	// Dump the effective config and exit if requested
	if path := config.WriteConfigPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			logger.Error("failed to write config", zap.Error(err))
			os.Exit(1)
		}
		logger.Info("wrote config", zap.String("path", path))
		return
	}

	logger.Info("baking vinyl groove normal map",
		zap.Int("size", cfg.Bake.Size),
		zap.String("out", cfg.Output.Path))
	logger.Sugar.Debugf("Config: %+v", cfg)

	start := time.Now()
	res, err := bake.New(cfg).Run()
	if err != nil {
		logger.Error("bake failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("bake complete",
		zap.String("path", res.Path),
		zap.String("size", fmt.Sprintf("%.2f MB", float64(res.Bytes)/(1024*1024))),
		zap.Duration("elapsed", time.Since(start).Round(time.Millisecond)))
}
