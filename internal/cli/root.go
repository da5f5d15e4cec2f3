// Package cli implements the Cobra command hierarchy for the
// mcp-condenser CLI tool. The root command defined here is the entry
// point for all subcommands and handles cross-cutting concerns like
// logging initialization and error handling.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/teriyakichild/mcp-condenser/internal/cerrors"
	"github.com/teriyakichild/mcp-condenser/internal/config"
)

var (
	configPath string
	verbose    bool
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "mcp-condenser",
	Short: "A condensing reverse proxy for Tool Protocol servers.",
	Long: `mcp-condenser sits between an MCP client and one or more upstream
Tool Protocol servers. It rewrites oversized tool results into compact
TOON-encoded or heuristically-reduced text before they reach the model,
trading a small amount of fidelity for a large reduction in token cost.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := config.ResolveLogLevel(verbose, quiet)
		format := config.ResolveLogFormat()
		config.SetupLogging(level, format)

		slog.Debug("logging initialized", "level", level, "format", format)
		return nil
	},
	// When no subcommand is given, delegate to serve.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the multi-upstream JSON config file (single-upstream mode reads CONDENSER_* env vars when omitted)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log errors")
}

// Execute runs the root command and returns an appropriate process
// exit code: 0 on success, or the Kind-derived code of a
// *cerrors.CondenserError otherwise.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		slog.Error(err.Error())
		return cerrors.ExitCodeFor(err)
	}
	return cerrors.ExitSuccess
}

// RootCmd returns the root cobra.Command for use in testing and subcommand registration.
func RootCmd() *cobra.Command {
	return rootCmd
}
