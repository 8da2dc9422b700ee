package cmd

import (
	"github.com/spf13/cobra"
	"github.com/uiactl/uiactl/internal/model"
	"github.com/uiactl/uiactl/internal/output"
)

// monitorsResult is the top-level output of the monitors command.
type monitorsResult struct {
	OK       bool            `yaml:"ok"       json:"ok"`
	Action   string          `yaml:"action"   json:"action"`
	Count    int             `yaml:"count"    json:"count"`
	Monitors []model.Monitor `yaml:"monitors" json:"monitors"`
}

var monitorsCmd = &cobra.Command{
	Use:   "monitors",
	Short: "List the current monitor topology",
	Long: `List all monitors with their virtual-screen bounds. Element snapshots
report coordinates relative to one of these monitors; the topology is queried
fresh on every operation, never cached.`,
	RunE: runMonitors,
}

func init() {
	rootCmd.AddCommand(monitorsCmd)
}

func runMonitors(cmd *cobra.Command, args []string) error {
	eng, closeEng, err := newEngine()
	if err != nil {
		return err
	}
	defer closeEng()

	monitors, err := eng.Topology()
	if err != nil {
		return err
	}
	return output.Print(monitorsResult{
		OK:       true,
		Action:   "monitors",
		Count:    len(monitors),
		Monitors: monitors,
	})
}
