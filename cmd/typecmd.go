package cmd

import (
	"github.com/spf13/cobra"
	"github.com/uiactl/uiactl/internal/engine"
)

var typeCmd = &cobra.Command{
	Use:   "type",
	Short: "Find one element, focus it, and type into it",
	Long: `Find exactly one element matching the query, click it to take focus,
then type text and/or press a key combo. Elements exposing a value setter get
the text set atomically instead of keystroke by keystroke.

Examples:
  uiactl type --name "Email" --text "john@example.com"
  uiactl type --name "Search" --text "weather" --key enter
  uiactl type --automation-id "editor" --key ctrl+shift+s`,
	RunE: runType,
}

func init() {
	rootCmd.AddCommand(typeCmd)
	addQueryFlags(typeCmd)
	typeCmd.Flags().String("text", "", "Text to type")
	typeCmd.Flags().String("key", "", "Key combo pressed after the text (e.g. enter, ctrl+s)")
	typeCmd.Flags().Int("delay", 0, "Delay between keystrokes in ms")
}

func runType(cmd *cobra.Command, args []string) error {
	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}
	text, _ := cmd.Flags().GetString("text")
	key, _ := cmd.Flags().GetString("key")
	delay, _ := cmd.Flags().GetInt("delay")

	eng, closeEng, err := newEngine()
	if err != nil {
		return err
	}
	defer closeEng()

	return emit(eng.Type(cmd.Context(), q, engine.TypeOptions{
		Text:    text,
		Key:     key,
		DelayMS: delay,
	}))
}
