package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mind-engage/mindengage-quizsheets/internal/layout"
)

var templateFields = []layout.Field{
	layout.FieldRow, layout.FieldCourse, layout.FieldTitle, layout.FieldText,
	layout.FieldOption1, layout.FieldWeight1, layout.FieldOption2, layout.FieldWeight2,
	layout.FieldOption3, layout.FieldWeight3, layout.FieldOption4, layout.FieldWeight4,
	layout.FieldFeedback1, layout.FieldFeedback2, layout.FieldFeedback3, layout.FieldFeedback4,
	layout.FieldWeightTrue, layout.FieldWeightFalse,
}

func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "Show the column layout of every known template",
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprint(tw, "FIELD")
			types := layout.Templates()
			for _, t := range types {
				fmt.Fprintf(tw, "\t%s", t)
			}
			fmt.Fprintln(tw)
			for _, f := range templateFields {
				fmt.Fprint(tw, f)
				for _, t := range types {
					col, err := layout.PositionOf(t, f)
					switch {
					case err != nil:
						return err
					case col == layout.NotPresent:
						fmt.Fprint(tw, "\t-")
					default:
						fmt.Fprintf(tw, "\t%d", col)
					}
				}
				fmt.Fprintln(tw)
			}
			return tw.Flush()
		},
	}
}
