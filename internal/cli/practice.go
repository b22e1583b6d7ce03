package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/vytor/klar/internal/app"
	"github.com/vytor/klar/internal/logger"
	"github.com/vytor/klar/internal/models"
	"github.com/vytor/klar/internal/stats"
)

func newPracticeCommand(opts *globalOptions) *cobra.Command {
	var (
		setRef string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "practice",
		Short: "Practise a study set in the terminal",
		Long: "Shows one question at a time. Press Enter to reveal the answer, then judge\n" +
			"yourself with y or n. Type q at any prompt to stop.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			return practice(cmd, a, setRef, limit)
		},
	}
	cmd.Flags().StringVarP(&setRef, "set", "s", "", "Study set id or name (default: ACTIVE_SET)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Stop after this many cards (0 = until q)")
	return cmd
}

// prompter reads answers line by line.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// ask prints prompt and returns the trimmed reply. ok is false on EOF.
func (p *prompter) ask(prompt string) (reply string, ok bool) {
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		fmt.Fprintln(p.out)
		return "", false
	}
	return strings.TrimSpace(p.in.Text()), true
}

// judge asks until the learner answers y or n. quit is true on q or EOF.
func (p *prompter) judge() (correct, quit bool) {
	for {
		reply, ok := p.ask("Correct? [y/n]: ")
		if !ok {
			return false, true
		}
		switch strings.ToLower(reply) {
		case "y", "yes":
			return true, false
		case "n", "no":
			return false, false
		case "q", "quit":
			return false, true
		}
	}
}

func practice(cmd *cobra.Command, a *app.App, setRef string, limit int) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	log := logger.Default().WithPrefix("practice")

	set, err := resolveSet(ctx, a, setRef)
	if err != nil {
		return err
	}
	session, err := a.Practice.StartSession(ctx, set.ID)
	if err != nil {
		return err
	}
	log.Debug("session %d started", session.ID)

	p := &prompter{in: bufio.NewScanner(cmd.InOrStdin()), out: out}
	fmt.Fprintf(out, "Practising %q. Type q to stop.\n", set.Name)

	for n := 0; limit == 0 || n < limit; n++ {
		card, err := a.Practice.NextCard(ctx, *session)
		if err != nil {
			return err
		}
		if card == nil {
			fmt.Fprintln(out, "This study set has no cards yet. Add some with `klar cards add`.")
			break
		}

		fmt.Fprintf(out, "\n[level %d] %s\n", card.Level, card.Question)
		shown := time.Now()
		reply, ok := p.ask("Press Enter to reveal the answer: ")
		if !ok || strings.EqualFold(reply, "q") {
			break
		}
		elapsed := time.Since(shown)

		fmt.Fprintf(out, "Answer: %s\n", card.Answer)
		if len(card.Keywords) > 0 {
			fmt.Fprintf(out, "Keywords: %s\n", card.Keywords)
		}

		correct, quit := p.judge()
		if quit {
			break
		}

		result, err := a.Practice.SubmitAnswer(ctx, *session, card.ID, correct, elapsed)
		if err != nil {
			return err
		}
		printTransition(out, result)
	}

	finished, err := a.Practice.FinishSession(ctx, *session)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nSession over: %d cards, %d correct, %s.\n",
		finished.CardsPracticed, finished.CorrectAnswers, stats.FormatDuration(int64(finished.DurationSeconds)))
	return nil
}

func printTransition(out io.Writer, result *models.AnswerResult) {
	switch {
	case result.Promoted:
		fmt.Fprintf(out, "Promoted to level %d (%s).\n", result.Card.Level, result.Card.Level)
	case result.Demoted:
		fmt.Fprintf(out, "Back to level %d (%s).\n", result.Card.Level, result.Card.Level)
	}
}
