package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cmis-harness/core/config"
	"cmis-harness/core/logger"
	"cmis-harness/feature/harness"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the embedded CMIS server",
	Long: `Starts the embedded server on the configured port, registers the configured
types and blocks until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if port, _ := cmd.Flags().GetString("port"); port != "" {
			cfg.Server.Port = port
		}
		files, _ := cmd.Flags().GetStringSlice("types")

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		h, err := harness.New(harness.Options{Config: cfg, Logger: logg})
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if err := h.EnsureRunning(ctx, "serve", harness.Desired{TypeFiles: files}); err != nil {
			_ = h.Close(context.Background())
			return err
		}

		logg.Info("CMIS server ready",
			zap.String("base_uri", h.BaseURI()),
			zap.String("cmis_uri", h.CMISURI()),
			zap.Strings("types", h.RegisteredTypes()),
		)

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		logg.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return h.Close(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().String("port", "", "port to bind, or \"dynamic\" (overrides server.port)")
	serveCmd.Flags().StringSlice("types", nil, "additional type definition files")
	RootCmd.AddCommand(serveCmd)
}
