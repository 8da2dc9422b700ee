package cmd

import (
	"github.com/spf13/cobra"
	"github.com/uiactl/uiactl/internal/engine"
	"github.com/uiactl/uiactl/internal/platform"
)

var clickCmd = &cobra.Command{
	Use:   "click",
	Short: "Find one element and click it",
	Long: `Find exactly one element matching the query and click its clickable
point. The target window is brought to the foreground first, and the click is
verified to have landed in it.

Examples:
  uiactl click --name "OK" --type button --window 0x2043c
  uiactl click --name-contains "submit" --found-index 1
  uiactl click --name "Row 3" --button right`,
	RunE: runClick,
}

func init() {
	rootCmd.AddCommand(clickCmd)
	addQueryFlags(clickCmd)
	clickCmd.Flags().String("button", "left", "Mouse button: left, right, middle")
	clickCmd.Flags().Bool("double", false, "Double-click")
	clickCmd.Flags().String("modifiers", "", "Held modifier keys, comma-separated (shift, ctrl, alt, win)")
}

func runClick(cmd *cobra.Command, args []string) error {
	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}

	buttonStr, _ := cmd.Flags().GetString("button")
	button, err := platform.ParseMouseButton(buttonStr)
	if err != nil {
		return err
	}
	double, _ := cmd.Flags().GetBool("double")
	modsStr, _ := cmd.Flags().GetString("modifiers")
	mods, err := platform.ParseModifiers(modsStr)
	if err != nil {
		return err
	}

	eng, closeEng, err := newEngine()
	if err != nil {
		return err
	}
	defer closeEng()

	return emit(eng.Click(cmd.Context(), q, engine.ClickOptions{
		Button:    button,
		Double:    double,
		Modifiers: mods,
	}))
}
