package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mind-engage/mindengage-quizsheets/internal/config"
	"github.com/mind-engage/mindengage-quizsheets/internal/db"
	"github.com/mind-engage/mindengage-quizsheets/internal/importer"
	"github.com/mind-engage/mindengage-quizsheets/internal/quiz"
)

func newReportCmd() *cobra.Command {
	var quizID string
	var clear bool
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the stored template errors of a quiz",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
			if err != nil {
				return fmt.Errorf("db open: %w", err)
			}
			defer dbh.Close()
			store := quiz.NewSQLStore(dbh, cfg.DBDriver)

			if _, err := store.GetQuiz(ctx, quizID); err != nil {
				return fmt.Errorf("quiz %s: %w", quizID, err)
			}
			errs, err := store.ListQuizErrors(ctx, quiz.ListOpts{QuizID: quizID})
			if err != nil {
				return err
			}
			printReport(os.Stdout, errs)
			if clear {
				n, err := store.DeleteQuizErrors(ctx, quizID)
				if err != nil {
					return err
				}
				fmt.Printf("cleared %d errors\n", n)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&quizID, "quiz-id", "", "Quiz ID (required)")
	cmd.Flags().BoolVar(&clear, "clear", false, "Delete the errors after printing them")
	_ = cmd.MarkFlagRequired("quiz-id")
	return cmd
}

func printSummary(w io.Writer, res importer.Result) {
	fmt.Fprintf(w, "quiz %s: %d files, %d questions, %d errors\n",
		res.QuizID, res.FilesProcessed, res.Questions, res.Errors)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tAUTHOR\tKIND\tSTATE\tQUESTIONS\tERRORS")
	for _, f := range res.Files {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\n", f.Path, f.Author, f.Kind, f.State, f.Questions, f.Errors)
	}
	_ = tw.Flush()
}

// printReport lists errors by file, then row; row 0 is the file itself.
func printReport(w io.Writer, errs []quiz.QuizError) {
	if len(errs) == 0 {
		fmt.Fprintln(w, "no errors")
		return
	}
	sorted := append([]quiz.QuizError(nil), errs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].FilePath != sorted[j].FilePath {
			return sorted[i].FilePath < sorted[j].FilePath
		}
		return sorted[i].Row < sorted[j].Row
	})
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tROW\tERROR")
	for _, e := range sorted {
		row := fmt.Sprint(e.Row)
		if e.Row == 0 {
			row = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.FilePath, row, strings.TrimSpace(e.Description))
	}
	_ = tw.Flush()
}
