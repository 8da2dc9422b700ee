package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/uiactl/uiactl/internal/config"
	"github.com/uiactl/uiactl/internal/output"
	"github.com/uiactl/uiactl/internal/version"
)

var rootCmd = &cobra.Command{
	Use:          "uiactl",
	Short:        "Discover and drive UI elements through the accessibility layer",
	Long:         "A CLI tool that lets AI agents discover, query, and manipulate UI elements in other applications via OS accessibility APIs.",
	SilenceUsage: true,
}

// cfg is loaded once per invocation in the persistent pre-run.
var cfg *config.Config

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		format, _ := rootCmd.PersistentFlags().GetString("format")
		switch format {
		case "yaml":
			output.OutputFormat = output.FormatYAML
		case "json":
			output.OutputFormat = output.FormatJSON
		default:
			return fmt.Errorf("unsupported format: %s (use yaml or json)", format)
		}
		if pretty, _ := rootCmd.PersistentFlags().GetBool("pretty"); pretty {
			output.PrettyOutput = true
		}

		if debug, _ := rootCmd.PersistentFlags().GetBool("debug"); debug {
			cfg.Debug = true
		}
		level := slog.LevelWarn
		if cfg.Debug {
			level = slog.LevelDebug
		}
		// Results go to stdout; logs stay on stderr so piped output is clean.
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return nil
	}
}
