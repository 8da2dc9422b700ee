package cmd

import (
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <element-id>",
	Short: "Re-resolve an element id to its current state",
	Long: `Re-resolve a previously discovered element id and return a fresh
snapshot. An element that disappeared or moved resolves to element_not_found,
never to a different element.

Example:
  uiactl resolve "window:2043c|runtime:42.7|path:0.3"`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	eng, closeEng, err := newEngine()
	if err != nil {
		return err
	}
	defer closeEng()

	return emit(eng.ResolveID(cmd.Context(), args[0]))
}
