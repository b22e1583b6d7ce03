package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vytor/klar/internal/export"
	"github.com/vytor/klar/internal/logger"
	"github.com/vytor/klar/internal/models"
)

func newExportCommand(opts *globalOptions) *cobra.Command {
	var (
		setRef string
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a study set to CSV or XLSX",
		Long:  "Writes Question;Answer;Correct;Wrong;Level;Keywords rows. The format follows\nthe output file extension unless --format is given.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			if format == "" && output != "" {
				if f, err = export.FormatFromPath(output); err != nil {
					return err
				}
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
			cards, _, err := a.Cards.ListCards(cmd.Context(), models.CardFilter{StudySetID: set.ID})
			if err != nil {
				return err
			}

			if output == "" {
				return export.Write(cmd.OutOrStdout(), f, cards)
			}
			var buf bytes.Buffer
			if err := export.Write(&buf, f, cards); err != nil {
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d cards to %s\n", len(cards), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&setRef, "set", "s", "", "Study set id or name (default: ACTIVE_SET)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "csv or xlsx")
	return cmd
}

func newImportCommand(opts *globalOptions) *cobra.Command {
	var setRef string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import cards from a CSV or XLSX file",
		Long: "Reads question, answer and keywords columns. A header row naming them is\n" +
			"optional. Rows that fail validation are reported and skipped.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := export.FormatFromPath(path)
			if err != nil {
				return err
			}
			file, err := os.Open(path)
			if err != nil {
				return err
			}
			defer file.Close()

			result, err := export.Read(file, f)
			if err != nil {
				return err
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

			out := cmd.OutOrStdout()
			for _, rowErr := range result.Errors {
				logger.Default().Warn("skipping %s: %v", path, rowErr)
				fmt.Fprintf(out, "skipped %v\n", rowErr)
			}
			if len(result.Cards) == 0 {
				fmt.Fprintln(out, "No cards to import.")
				return nil
			}

			n, err := a.Cards.ImportCards(cmd.Context(), set.ID, result.Cards)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Imported %d cards into %q\n", n, set.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&setRef, "set", "s", "", "Study set id or name (default: ACTIVE_SET)")
	return cmd
}
