package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/teriyakichild/mcp-condenser/internal/heuristics"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Inspect the built-in named heuristics profiles",
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in heuristics profile names",
	RunE:  runProfilesList,
}

var profilesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a profile's fully-resolved heuristics (after its extends chain)",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfilesShow,
}

func init() {
	profilesCmd.AddCommand(profilesListCmd, profilesShowCmd)
	rootCmd.AddCommand(profilesCmd)
}

func runProfilesList(cmd *cobra.Command, args []string) error {
	names := heuristics.DefaultProfiles().Names()
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintln(cmd.OutOrStdout(), n)
	}
	return nil
}

func runProfilesShow(cmd *cobra.Command, args []string) error {
	h, err := heuristics.DefaultProfiles().Resolve(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "elide_all_zero:        %v\n", h.ElideAllZero)
	fmt.Fprintf(out, "elide_all_null:        %v\n", h.ElideAllNull)
	fmt.Fprintf(out, "elide_timestamps:      %v\n", h.ElideTimestamps)
	fmt.Fprintf(out, "elide_constants:       %v\n", h.ElideConstants)
	fmt.Fprintf(out, "group_tuples:          %v\n", h.GroupTuples)
	fmt.Fprintf(out, "max_tuple_size:        %d\n", h.MaxTupleSize)
	fmt.Fprintf(out, "max_table_columns:     %d\n", h.MaxTableColumns)
	fmt.Fprintf(out, "elide_mostly_zero_pct: %.2f\n", h.ElideMostlyZeroPct)
	fmt.Fprintf(out, "pivot_key_value:       %v\n", h.PivotKeyValue)
	fmt.Fprintf(out, "wide_table_threshold:  %d\n", h.WideTableThreshold)
	fmt.Fprintf(out, "wide_table_format:     %s\n", h.WideTableFormat)
	return nil
}
