package cmd

import (
	"github.com/spf13/cobra"
)

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Search for elements matching a query",
	Long: `Search the accessibility tree for elements matching the given filters.

Without --window or --parent the whole desktop is searched. Returned element
ids stay valid across calls until the element disappears or moves.

Examples:
  uiactl find --name "Five" --type button --window 0x2043c
  uiactl find --name-contains "save" --prominent --found-index 1
  uiactl find --name-regex "^Tab [0-9]+$" --parent "window:2043c|runtime:42.7|path:0.3"`,
	RunE: runFind,
}

func init() {
	rootCmd.AddCommand(findCmd)
	addQueryFlags(findCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}

	eng, closeEng, err := newEngine()
	if err != nil {
		return err
	}
	defer closeEng()

	return emit(eng.Find(cmd.Context(), q))
}
