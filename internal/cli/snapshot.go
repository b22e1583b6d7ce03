package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSnapshotCommand(opts *globalOptions) *cobra.Command {
	var (
		setRef string
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Record the current level distribution of study sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if all {
				n, err := a.Snapshots.SnapshotAll(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Recorded %d snapshots\n", n)
				return nil
			}

			set, err := resolveSet(cmd.Context(), a, setRef)
			if err != nil {
				return err
			}
			snap, err := a.Snapshots.TakeSnapshot(cmd.Context(), set.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s: %d cards, %d mastered (%s)\n", set.Name, snap.TotalCards, snap.Mastered, percent(snap.MasteryRate))
			return nil
		},
	}
	cmd.Flags().StringVarP(&setRef, "set", "s", "", "Study set id or name (default: ACTIVE_SET)")
	cmd.Flags().BoolVar(&all, "all", false, "Snapshot every study set")
	return cmd
}
