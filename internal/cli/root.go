package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxweekday/config"
	"github.com/rustyeddy/fxweekday/internal/logging"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// rootOptions holds the persistent flags and what PersistentPreRunE
// builds from them.
type rootOptions struct {
	ConfigPath string
	DBPath     string
	LogLevel   string
	NoColor    bool

	cfg *config.Config
	log *log.Logger
}

func NewRootCmd() *cobra.Command {
	ro := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "fxweekday",
		Short: "Which weekday forms the weekly or quarterly FX high and low",
		Long: `fxweekday loads daily FX bars from a CSV export or the OANDA v20 API,
finds the high and low of every week (or quarter), and counts the weekday
each extremum fell on.

Examples:
  fxweekday analyze --csv EUR_USD.csv
  fxweekday analyze --source oanda --period quarter
  fxweekday yearly --start 2015 --end 2023`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&ro.ConfigPath, "config", "", "Path to config file (optional)")
	cmd.PersistentFlags().StringVar(&ro.DBPath, "db", "", "SQLite journal database (optional)")
	cmd.PersistentFlags().StringVar(&ro.LogLevel, "log-level", "", "Log level: debug|info|warn|error")
	cmd.PersistentFlags().BoolVar(&ro.NoColor, "no-color", false, "Disable colored output")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return ro.setup(cmd)
	}

	cmd.AddCommand(
		newAnalyzeCmd(ro),
		newYearlyCmd(ro),
		newFetchCmd(ro),
		newConfigCmd(ro),
		newJournalCmd(ro),
		newVersionCmd(),
	)

	return cmd
}

// setup loads the config file and environment, applies the persistent
// flags and builds the logger.
func (ro *rootOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(ro.ConfigPath)
	if err != nil {
		return err
	}

	if ro.LogLevel != "" {
		cfg.Log.Level = ro.LogLevel
	}
	if ro.NoColor {
		cfg.Log.NoColor = true
	}
	if ro.DBPath != "" {
		cfg.Journal.Type = "sqlite"
		cfg.Journal.Path = ro.DBPath
	}

	lg, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.NoColor)
	if err != nil {
		return err
	}

	ro.cfg = cfg
	ro.log = lg
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fxweekday version %s\n", Version)
		},
	}
}

func Execute(ctx context.Context) {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
