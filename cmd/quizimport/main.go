package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	log.SetFlags(0)
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "quizimport",
		Short:         "Import quiz spreadsheets and report template errors",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newImportCmd(), newReportCmd(), newTemplatesCmd(), newTokenCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		log.Printf("error: %v", err)
		os.Exit(1)
	}
}
