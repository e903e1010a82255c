package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxweekday/config"
)

func newConfigCmd(ro *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Generate or validate configuration files",
		Long: `Manage configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  fxweekday config init -o fxweekday.yaml
  fxweekday config validate -f fxweekday.yaml`,
	}

	var output string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if err := cfg.SaveToFile(output); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Created default configuration: %s\n", output)
			fmt.Fprintln(out, "\nEdit the file and run with:")
			fmt.Fprintf(out, "  fxweekday analyze --config %s\n", output)
			return nil
		},
	}
	initCmd.Flags().StringVarP(&output, "output", "o", "fxweekday.yaml", "Output config file path")

	var file string
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromFile(file)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Configuration valid: %s\n", file)
			fmt.Fprintf(out, "  Instrument: %s\n", cfg.Instrument)
			fmt.Fprintf(out, "  Source: %s\n", cfg.Source.Type)
			fmt.Fprintf(out, "  Period: %s (years %d-%d)\n", cfg.Analysis.Period, cfg.Analysis.StartYear, cfg.Analysis.EndYear)
			journalType := cfg.Journal.Type
			if journalType == "" {
				journalType = "none"
			}
			fmt.Fprintf(out, "  Journal: %s\n", journalType)
			return nil
		},
	}
	validateCmd.Flags().StringVarP(&file, "file", "f", "", "Path to config file (required)")
	_ = validateCmd.MarkFlagRequired("file")

	cmd.AddCommand(initCmd, validateCmd)
	return cmd
}
