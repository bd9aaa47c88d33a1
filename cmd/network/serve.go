package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/samlatif/network/internal/cvdata"
	"github.com/samlatif/network/internal/db"
	"github.com/samlatif/network/internal/server"
	"github.com/samlatif/network/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the network API and the CV filter endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT and the config file)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}

	shared, err := loadDataset(cfg.CVDataFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	srv := server.New(cfg, database, shared, log)
	log.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("demo_user", cfg.DemoUser),
		zap.Bool("signed_sessions", cfg.Session.Signed()),
	)
	return srv.Start(ctx)
}

// loadDataset reads the shared dataset from path, or the embedded demo
// dataset when path is empty.
func loadDataset(path string) (*types.CVData, error) {
	if path == "" {
		return cvdata.Default()
	}
	return cvdata.LoadFile(path)
}
