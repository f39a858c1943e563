package cmd

import (
	"fmt"
	"os"

	"cmis-harness/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// configPath is the directory holding config.yaml and .env.
var configPath string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "cmis-harness",
	Short: "Embedded CMIS server for test suites",
	Long: `cmis-harness runs an in-process CMIS browser binding repository for tests.
It registers custom document types and can serve a web archive under the same context path.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with ISO8601 timestamps reads best on a terminal.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "directory containing config.yaml and .env")
}
