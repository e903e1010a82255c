package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxweekday/extremum"
	"github.com/rustyeddy/fxweekday/journal"
	"github.com/rustyeddy/fxweekday/report"
)

func newJournalCmd(ro *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Query journaled runs",
		Long: `Query runs recorded with --db.

Subcommands:
  runs  - List recorded runs
  show  - Weekday counts and extrema of one run

Examples:
  fxweekday --db fxweekday.sqlite journal runs
  fxweekday --db fxweekday.sqlite journal show <run-id>`,
	}

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := openSQLite(ro)
			if err != nil {
				return err
			}
			defer j.Close()

			runs, err := j.ListRuns()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN\tINSTRUMENT\tPERIOD\tFROM\tTO\tBARS\tPERIODS")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
					r.ID, r.Instrument, r.Period,
					r.From.Format(time.DateOnly), r.To.Format(time.DateOnly),
					r.Bars, r.Periods)
			}
			return tw.Flush()
		},
	}

	var listExtrema bool
	showCmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Weekday counts and extrema of one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := openSQLite(ro)
			if err != nil {
				return err
			}
			defer j.Close()

			run, err := j.GetRun(args[0])
			if err != nil {
				return err
			}
			high, err := weekdayFrequency(j, run.ID, extremum.High)
			if err != nil {
				return err
			}
			low, err := weekdayFrequency(j, run.ID, extremum.Low)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			title := fmt.Sprintf("%s %s %s (%s - %s)", run.ID, run.Instrument, run.Period,
				run.From.Format(time.DateOnly), run.To.Format(time.DateOnly))
			if err := report.Write(out, title, high, low, report.Options{NoColor: ro.cfg.Log.NoColor}); err != nil {
				return err
			}
			if !listExtrema {
				return nil
			}

			rows, err := j.ListExtrema(run.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "YEAR\tPERIOD\tKIND\tVALUE\tWEEKDAY\tTIME")
			for _, r := range rows {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
					r.Year, r.Period, r.Kind, r.Value, r.Weekday, r.Time.Format(time.DateOnly))
			}
			return tw.Flush()
		},
	}
	showCmd.Flags().BoolVar(&listExtrema, "extrema", false, "Also list every selected high and low")

	cmd.AddCommand(runsCmd, showCmd)
	return cmd
}

func openSQLite(ro *rootOptions) (*journal.SQLite, error) {
	cfg := ro.cfg
	if cfg.Journal.Type != "sqlite" || cfg.Journal.Path == "" {
		return nil, fmt.Errorf("journal queries need a sqlite journal (--db)")
	}
	j, err := journal.NewSQLite(cfg.Journal.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

// weekdayFrequency rebuilds a Frequency from the journal's SQL tally.
func weekdayFrequency(j *journal.SQLite, runID string, kind extremum.Kind) (extremum.Frequency, error) {
	counts, err := j.WeekdayCounts(runID, kind.String())
	if err != nil {
		return nil, err
	}
	f := extremum.Frequency{}
	for day := time.Sunday; day <= time.Saturday; day++ {
		if n := counts[day.String()]; n > 0 {
			f[day] = n
		}
	}
	return f, nil
}
