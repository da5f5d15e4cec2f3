package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/teriyakichild/mcp-condenser/internal/governor"
	"github.com/teriyakichild/mcp-condenser/internal/heuristics"
	"github.com/teriyakichild/mcp-condenser/internal/tokenizer"
)

var (
	condenseFormatHint string
	condenseProfile    string
	condenseTOONOnly   bool
)

var condenseCmd = &cobra.Command{
	Use:   "condense [file|-]",
	Short: "Condense one structured document and print the result",
	Long: `Reads a single JSON/YAML/CSV/XML document from a file (or stdin when
the argument is "-" or omitted) and prints its condensed form, followed
by a reduction summary on stderr. This is the CLI entry point for the
engine underneath "mcp-condenser serve" — useful for previewing what a
given heuristics profile does to a real payload.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCondense,
}

func init() {
	condenseCmd.Flags().StringVar(&condenseFormatHint, "format", "", "input format hint: json, yaml, csv, or xml (default: auto-detect)")
	condenseCmd.Flags().StringVar(&condenseProfile, "profile", "", "named heuristics profile (default, aggressive, conservative, minimal)")
	condenseCmd.Flags().BoolVar(&condenseTOONOnly, "toon-only", false, "encode as TOON without semantic reduction")
	rootCmd.AddCommand(condenseCmd)
}

func runCondense(cmd *cobra.Command, args []string) error {
	var r io.Reader = os.Stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	h := heuristics.Defaults()
	if condenseProfile != "" {
		h, err = heuristics.DefaultProfiles().Resolve(condenseProfile)
		if err != nil {
			return err
		}
	}

	tok, err := tokenizer.NewTokenizer("")
	if err != nil {
		return err
	}

	policy := governor.Policy{
		InTOONOnlyTools: condenseTOONOnly,
		ToolsUnset:      !condenseTOONOnly,
		FormatHint:      condenseFormatHint,
		Heuristics:      h,
	}

	result := governor.Run(string(data), policy, tok)
	fmt.Fprintln(cmd.OutOrStdout(), result.Text)

	stats := governor.ComputeStats(string(data), result.Text, result.InputTokens, tok)
	fmt.Fprintf(cmd.ErrOrStderr(), "[condenser] %s: %d -> %d tokens (%.1f%% reduction)\n",
		result.Mode, stats.OrigTok, stats.CondTok, stats.TokPct)

	return nil
}
