package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/uiactl/uiactl/internal/engine"
	"github.com/uiactl/uiactl/internal/model"
)

var actionCmd = &cobra.Command{
	Use:   "action <op>",
	Short: "Perform a capability action on an element",
	Long: `Perform a capability-specific action on one element, addressed either
by a previously discovered element id (--id) or by a query resolving to a
single element.

Supported ops: invoke, toggle, set-value, select, expand, collapse,
scroll-into-view, scroll, set-range, move, resize.

Examples:
  uiactl action invoke --name "OK" --type button
  uiactl action toggle --id "window:2043c|runtime:42.7|path:0.3"
  uiactl action set-value --automation-id "url-bar" --value "https://example.com"
  uiactl action scroll --name "Results" --direction down --amount 5
  uiactl action move --id "..." --x 100 --y 100 --width 800 --height 600`,
	Args: cobra.ExactArgs(1),
	RunE: runAction,
}

func init() {
	rootCmd.AddCommand(actionCmd)
	addQueryFlags(actionCmd)
	actionCmd.Flags().String("id", "", "Element id to act on (instead of a query)")
	actionCmd.Flags().String("value", "", "Value for set-value")
	actionCmd.Flags().Float64("number", 0, "Value for set-range")
	actionCmd.Flags().String("direction", "", "Scroll direction: up, down, left, right")
	actionCmd.Flags().Int("amount", 0, "Scroll steps (default 3)")
	actionCmd.Flags().Int("x", 0, "Target x for move/resize")
	actionCmd.Flags().Int("y", 0, "Target y for move/resize")
	actionCmd.Flags().Int("width", 0, "Target width for move/resize")
	actionCmd.Flags().Int("height", 0, "Target height for move/resize")
}

func runAction(cmd *cobra.Command, args []string) error {
	op := args[0]
	id, _ := cmd.Flags().GetString("id")

	req := engine.PatternRequest{ElementID: id, Op: op}
	req.Value, _ = cmd.Flags().GetString("value")
	req.Number, _ = cmd.Flags().GetFloat64("number")
	req.Direction, _ = cmd.Flags().GetString("direction")
	req.Amount, _ = cmd.Flags().GetInt("amount")
	x, _ := cmd.Flags().GetInt("x")
	y, _ := cmd.Flags().GetInt("y")
	w, _ := cmd.Flags().GetInt("width")
	h, _ := cmd.Flags().GetInt("height")
	req.Rect = [4]int{x, y, w, h}

	if id == "" {
		q, err := queryFromFlags(cmd)
		if err != nil {
			return err
		}
		if isEmptyQuery(q) {
			return fmt.Errorf("specify --id or a query (--name, --type, ...)")
		}
		req.Query = &q
	}

	eng, closeEng, err := newEngine()
	if err != nil {
		return err
	}
	defer closeEng()

	return emit(eng.Pattern(cmd.Context(), req))
}

// isEmptyQuery reports whether no addressing filter was given at all.
func isEmptyQuery(q model.Query) bool {
	return q.Name == "" && q.NameContains == "" && q.NameRegex == "" &&
		len(q.ControlTypes) == 0 && q.AutomationID == "" && q.ClassName == "" &&
		q.ParentID == "" && q.Window == 0
}
