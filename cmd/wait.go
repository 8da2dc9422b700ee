package cmd

import (
	"github.com/spf13/cobra"
)

var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for an element matching a query to appear",
	Long: `Poll the accessibility tree until an element matching the query
appears or the timeout elapses. Polling backs off exponentially; a timeout of
0 performs exactly one attempt. On timeout the last scan is included so you
can see what was actually on screen.

Examples:
  uiactl wait --name "Download complete" --timeout 30000
  uiactl wait --name-contains "saving" --timeout 0`,
	RunE: runWait,
}

func init() {
	rootCmd.AddCommand(waitCmd)
	addQueryFlags(waitCmd)
	waitCmd.Flags().Int("timeout", 10000, "Max milliseconds to wait (0 = single attempt)")
}

func runWait(cmd *cobra.Command, args []string) error {
	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}
	q.Timeout = timeoutFlag(cmd, "timeout")

	eng, closeEng, err := newEngine()
	if err != nil {
		return err
	}
	defer closeEng()

	return emit(eng.WaitFor(cmd.Context(), q))
}
