package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vytor/klar/internal/models"
	"github.com/vytor/klar/internal/services"
)

func newCardsCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Manage the cards of a study set",
	}
	cmd.AddCommand(newCardsAddCommand(opts), newCardsListCommand(opts), newCardsDeleteCommand(opts))
	return cmd
}

func newCardsAddCommand(opts *globalOptions) *cobra.Command {
	var (
		setRef   string
		in       services.CardInput
		keywords string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kw, err := models.ParseKeywords(keywords)
			if err != nil {
				return err
			}
			in.Keywords = kw

			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			set, err := resolveSet(cmd.Context(), a, setRef)
			if err != nil {
				return err
			}
			card, err := a.Cards.CreateCard(cmd.Context(), set.ID, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added card %d to %q\n", card.ID, set.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&setRef, "set", "s", "", "Study set id or name (default: ACTIVE_SET)")
	cmd.Flags().StringVarP(&in.Question, "question", "q", "", "Question text")
	cmd.Flags().StringVarP(&in.Answer, "answer", "a", "", "Answer text")
	cmd.Flags().StringVarP(&keywords, "keywords", "k", "", "Comma separated keywords, 2 to 5")
	cmd.Flags().StringVar(&in.ImagePath, "image", "", "Optional image path")
	_ = cmd.MarkFlagRequired("question")
	_ = cmd.MarkFlagRequired("answer")
	return cmd
}

func newCardsListCommand(opts *globalOptions) *cobra.Command {
	var (
		setRef string
		level  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if level < 0 || level > int(models.MaxLevel) {
				return fmt.Errorf("level must be between %d and %d", models.MinLevel, models.MaxLevel)
			}

			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			set, err := resolveSet(cmd.Context(), a, setRef)
			if err != nil {
				return err
			}
			cards, total, err := a.Cards.ListCards(cmd.Context(), models.CardFilter{
				StudySetID: set.ID,
				Level:      models.Level(level),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tLEVEL\tRIGHT\tWRONG\tQUESTION\tANSWER")
			for _, c := range cards {
				fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%s\t%s\n", c.ID, c.Level, c.CorrectCount, c.WrongCount, c.Question, c.Answer)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "%d cards\n", total)
			return nil
		},
	}
	cmd.Flags().StringVarP(&setRef, "set", "s", "", "Study set id or name (default: ACTIVE_SET)")
	cmd.Flags().IntVarP(&level, "level", "l", 0, "Only cards at this level (1-4)")
	return cmd
}

func newCardsDeleteCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete CARD_ID",
		Short: "Delete a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid card id %q", args[0])
			}

			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Cards.DeleteCard(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted card %d\n", id)
			return nil
		},
	}
}
