package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/mind-engage/mindengage-quizsheets/internal/config"
	"github.com/mind-engage/mindengage-quizsheets/internal/db"
	"github.com/mind-engage/mindengage-quizsheets/internal/importer"
	"github.com/mind-engage/mindengage-quizsheets/internal/layout"
	"github.com/mind-engage/mindengage-quizsheets/internal/quiz"
	"github.com/mind-engage/mindengage-quizsheets/internal/storage"
	syncx "github.com/mind-engage/mindengage-quizsheets/internal/sync"
)

type importOptions struct {
	req      importer.Request
	template string
	kind     string
	dryRun   bool
}

func newImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import every spreadsheet in a folder into one quiz",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.req.Dir, "dir", "", "Folder holding the submitted spreadsheets (required)")
	f.StringVar(&opts.req.QuizName, "quiz", "", "Quiz name (required)")
	f.StringVar(&opts.req.Course, "course", "", "Course code")
	f.IntVar(&opts.req.Year, "year", 0, "Academic year (required)")
	f.StringVar(&opts.template, "template", "", "Column template: 2023 or 2024 (default from IMPORT_TEMPLATE)")
	f.StringVar(&opts.kind, "kind", "", "Force question kind: multiple_choice or true_false (default: detect)")
	f.BoolVar(&opts.req.Recursive, "recursive", false, "One subfolder per author; the folder names the author")
	f.BoolVar(&opts.dryRun, "dry-run", false, "Parse and validate without writing to the database")
	_ = cmd.MarkFlagRequired("dir")
	_ = cmd.MarkFlagRequired("quiz")
	_ = cmd.MarkFlagRequired("year")

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if opts.template != "" {
			t, err := layout.ParseTemplateType(opts.template)
			if err != nil {
				return err
			}
			opts.req.Template = t
		}
		opts.req.Kind = quiz.Kind(opts.kind)
		return validator.New().Struct(opts.req)
	}
	return cmd
}

func runImport(ctx context.Context, opts importOptions) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	var (
		store  quiz.Store
		events importer.EventSink
	)
	if opts.dryRun {
		store = quiz.NewMemoryStore()
	} else {
		dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
		if err != nil {
			return fmt.Errorf("db open: %w", err)
		}
		defer dbh.Close()
		store = quiz.NewSQLStore(dbh, cfg.DBDriver)
		events = syncx.NewEventRepo(dbh, "")
	}

	var src storage.Source = storage.LocalSource{}
	if cfg.SourceDriver == "minio" {
		src, err = storage.NewMinIOSource(storage.MinIOConfig{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			Bucket:    cfg.MinIOBucket,
			UseSSL:    cfg.MinIOUseSSL,
		})
		if err != nil {
			return err
		}
	}

	var extra []importer.Option
	if events != nil {
		extra = append(extra, importer.WithEvents(events))
	}
	coord, err := importer.FromConfig(cfg.Import, store, src, extra...)
	if err != nil {
		return err
	}
	res, err := coord.Run(ctx, opts.req)
	if err != nil {
		return err
	}

	errs, err := store.ListQuizErrors(ctx, quiz.ListOpts{QuizID: res.QuizID})
	if err != nil {
		return err
	}
	printSummary(os.Stdout, res)
	printReport(os.Stdout, errs)
	return nil
}
