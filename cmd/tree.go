package cmd

import (
	"github.com/spf13/cobra"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Read the element tree of a window or subtree",
	Long: `Read the nested accessibility tree under a window or a previously
discovered element. --depth bounds how far below the scope root to descend;
--depth 0 returns the scope root alone.

Examples:
  uiactl tree --window 0x2043c --depth 3
  uiactl tree --parent "window:2043c|runtime:42.7|path:0.3"`,
	RunE: runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)
	addScopeFlags(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	q, err := scopeFromFlags(cmd)
	if err != nil {
		return err
	}

	eng, closeEng, err := newEngine()
	if err != nil {
		return err
	}
	defer closeEng()

	return emit(eng.GetTree(cmd.Context(), q))
}
