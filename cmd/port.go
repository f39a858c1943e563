package cmd

import (
	"fmt"

	"cmis-harness/core/server"

	"github.com/spf13/cobra"
)

// portCmd groups port commands
var portCmd = &cobra.Command{
	Use:   "port",
	Short: "Port helpers",
}

// portFreeCmd represents the port free command
var portFreeCmd = &cobra.Command{
	Use:   "free",
	Short: "Print a free ephemeral port",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := server.FreePort()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), p)
		return nil
	},
}

// portCheckCmd represents the port check command
var portCheckCmd = &cobra.Command{
	Use:   "check <port>",
	Short: "Check whether a port can be bound",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := server.ParsePortRequest(args[0])
		if err != nil {
			return err
		}
		if req.Dynamic {
			return fmt.Errorf("port check needs a fixed port, got %q", args[0])
		}

		host, _ := cmd.Flags().GetString("host")
		cfg := server.Config{Host: host}
		if !server.IsPortAvailable(cfg.BindHost(), req.Port, cfg.ProbeTimeout()) {
			return fmt.Errorf("port %d is in use on %s", req.Port, cfg.BindHost())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "port %d is available on %s\n", req.Port, cfg.BindHost())
		return nil
	},
}

func init() {
	portCheckCmd.Flags().String("host", "127.0.0.1", "interface to probe")
	portCmd.AddCommand(portFreeCmd, portCheckCmd)
	RootCmd.AddCommand(portCmd)
}
