package cmd

import (
	"github.com/spf13/cobra"
)

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Find one element and select it",
	Long: `Find exactly one element matching the query and select it through its
selection capability (list items, tabs, tree items). Elements without one are
clicked at their clickable point instead.

Examples:
  uiactl select --name "Details" --type tabitem --window 0x2043c
  uiactl select --name-contains "row 4" --parent "window:2043c|runtime:42.7|path:0.3"`,
	RunE: runSelect,
}

func init() {
	rootCmd.AddCommand(selectCmd)
	addQueryFlags(selectCmd)
}

func runSelect(cmd *cobra.Command, args []string) error {
	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}

	eng, closeEng, err := newEngine()
	if err != nil {
		return err
	}
	defer closeEng()

	return emit(eng.SelectItem(cmd.Context(), q))
}
