package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vytor/klar/internal/models"
	"github.com/vytor/klar/internal/services"
	"github.com/vytor/klar/internal/stats"
)

func newReportCommand(opts *globalOptions) *cobra.Command {
	var setRef string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show mastery and success statistics for a study set",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			set, err := resolveSet(cmd.Context(), a, setRef)
			if err != nil {
				return err
			}
			report, err := a.Reports.GetReport(cmd.Context(), set.ID)
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVarP(&setRef, "set", "s", "", "Study set id or name (default: ACTIVE_SET)")
	return cmd
}

func percent(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate*100)
}

func printReport(out io.Writer, r *services.Report) error {
	sum := r.Summary
	fmt.Fprintf(out, "Study set: %s\n", r.StudySet.Name)
	fmt.Fprintf(out, "Total cards: %d  mastered: %d  in progress: %d  mastery rate: %s\n\n",
		sum.TotalCards, sum.Mastered, sum.InProgress, percent(sum.MasteryRate))

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LEVEL\tCARDS\tATTEMPTS\tSUCCESS")
	for i, lvl := range models.Levels {
		var attempts int
		success := "-"
		for _, ls := range sum.LevelStats {
			if ls.Level == lvl && ls.Attempts > 0 {
				attempts = ls.Attempts
				success = percent(ls.SuccessRate)
			}
		}
		fmt.Fprintf(tw, "%d %s\t%d\t%d\t%s\n", lvl, lvl, sum.CardsPerLevel[i], attempts, success)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "WINDOW\tATTEMPTS\tSUCCESS\tTIME\tAVG")
	for _, w := range sum.Windows {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%.1fs\n", w.Window.Name, w.Attempts, percent(w.SuccessRate),
			stats.FormatDuration(w.DurationSeconds), w.AvgDurationSeconds)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(r.RecentSessions) > 0 {
		fmt.Fprintln(out, "\nRecent sessions:")
		for _, s := range r.RecentSessions {
			fmt.Fprintf(out, "  %s  %d cards, %d correct, %s\n", s.StartedAt.Local().Format("2006-01-02 15:04"),
				s.CardsPracticed, s.CorrectAnswers, stats.FormatDuration(int64(s.DurationSeconds)))
		}
	}
	return nil
}
