package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teriyakichild/mcp-condenser/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the condensing proxy",
	Long: `Starts the condensing reverse proxy: connects to the configured
upstream(s), registers their tools, and serves the combined proxy until
interrupted. This is also what runs when mcp-condenser is invoked with
no subcommand.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return server.Run(ctx, configPath)
}
