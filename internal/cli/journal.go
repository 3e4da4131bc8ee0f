package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sadopc/dayplan/internal/planner"
)

func addNote(topLevel *cobra.Command, o *options) {
	var (
		date      string
		clearNote bool
	)

	cmd := &cobra.Command{
		Use:   "note [text]...",
		Short: "Print or set a day's note",
		Example: `
dayplan note
dayplan note shipped the release --date yesterday
dayplan note --clear
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.open(cmd, logToStderr)
			if err != nil {
				return err
			}
			defer e.Close()

			d, err := parseDate(date, e.clock())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 0 && !clearNote {
				rec, err := e.svc.Store().DayRecord(d)
				if err != nil {
					return err
				}
				if rec.Note == "" {
					fmt.Fprintln(out, faint.Sprintf("No note for %s.", d))
					return nil
				}
				fmt.Fprintln(out, rec.Note)
				return nil
			}

			note := strings.Join(args, " ")
			if clearNote {
				note = ""
			}
			if err := e.svc.SetNote(d, note); err != nil {
				return err
			}
			if note == "" {
				fmt.Fprintf(out, "Cleared the note for %s.\n", d)
			} else {
				fmt.Fprintf(out, "Saved the note for %s.\n", d)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "date as YYYY-MM-DD or yesterday")
	cmd.Flags().BoolVar(&clearNote, "clear", false, "remove the note")

	topLevel.AddCommand(cmd)
}

func addRate(topLevel *cobra.Command, o *options) {
	var date string

	cmd := &cobra.Command{
		Use:       "rate <excellent|average|terrible|none>",
		Short:     "Rate a day",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"excellent", "average", "terrible", "none"},
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := planner.ParseRating(args[0])
			if err != nil {
				return err
			}
			e, err := o.open(cmd, logToStderr)
			if err != nil {
				return err
			}
			defer e.Close()

			d, err := parseDate(date, e.clock())
			if err != nil {
				return err
			}
			if err := e.svc.SetRating(d, r); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rated %s: %s\n", d, ratingText(r))
			return nil
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "date as YYYY-MM-DD or yesterday")

	topLevel.AddCommand(cmd)
}
