// Package main provides the entry point for the network API server and its tooling.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/samlatif/network/internal/config"
	"github.com/samlatif/network/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "network",
	Short:        "Professional network API server",
	Long:         "network serves the professional network JSON API and the interactive CV with skill-tag filtering.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file (optional)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadRuntime loads and validates the configuration and builds the logger
// described by it.
func loadRuntime() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, log, nil
}
