package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSetsCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sets",
		Short: "Manage study sets",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List study sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			sets, err := a.StudySets.ListSets(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCREATED")
			for _, s := range sets {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", s.ID, s.Name, s.CreatedAt.Local().Format("2006-01-02"))
			}
			return tw.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create NAME",
		Short: "Create a study set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			set, err := a.StudySets.CreateSet(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created study set %d %q\n", set.ID, set.Name)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename SET NEW_NAME",
		Short: "Rename a study set",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			set, err := resolveSet(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			renamed, err := a.StudySets.RenameSet(cmd.Context(), set.ID, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %q to %q\n", set.Name, renamed.Name)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete SET",
		Short: "Delete a study set with all its cards and history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			set, err := resolveSet(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			if err := a.StudySets.DeleteSet(cmd.Context(), set.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted study set %q\n", set.Name)
			return nil
		},
	})

	return cmd
}
