package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sadopc/dayplan/internal/planner"
	"github.com/sadopc/dayplan/internal/store"
)

func addDates(topLevel *cobra.Command, o *options) {
	cmd := &cobra.Command{
		Use:   "dates",
		Short: "List every date that holds items, a note or a rating",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.open(cmd, logToStderr)
			if err != nil {
				return err
			}
			defer e.Close()

			dates, err := e.store.EventfulDates()
			if err != nil {
				return err
			}
			if len(dates) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), faint.Sprint("The planner is empty."))
				return nil
			}
			rows, err := e.store.DailySummary(dates[0], dates[len(dates)-1])
			if err != nil {
				return err
			}
			printSummaries(cmd.OutOrStdout(), rows)
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}

func addReport(topLevel *cobra.Command, o *options) {
	var (
		days   int
		week   bool
		offset int
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarise todos and ratings over recent days",
		Example: `
dayplan report
dayplan report --days 30
dayplan report --week --offset 1
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 {
				return errors.New("--days must be at least 1")
			}
			if offset < 0 {
				return errors.New("--offset cannot be negative")
			}
			e, err := o.open(cmd, logToStderr)
			if err != nil {
				return err
			}
			defer e.Close()

			today := e.clock().Date
			from, to := today.AddDays(-(days - 1)), today
			if week {
				from, to = planner.WeekOf(today.AddDays(-7*offset), e.store.WeekStart())
			}
			rows, err := e.store.DailySummary(from, to)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, bold.Sprintf("%s to %s", from, to))
			if len(rows) == 0 {
				fmt.Fprintln(out, faint.Sprint("Nothing planned in this range."))
				return nil
			}
			printSummaries(out, rows)
			printTotals(out, rows)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "number of days ending today")
	cmd.Flags().BoolVar(&week, "week", false, "report a calendar week instead")
	cmd.Flags().IntVar(&offset, "offset", 0, "with --week, how many weeks back")

	topLevel.AddCommand(cmd)
}

func printTotals(w io.Writer, rows []store.DailySummary) {
	var done, open int
	ratings := make(map[planner.Rating]int)
	for _, r := range rows {
		done += r.TodosDone
		open += r.TodosOpen
		if r.Rating != planner.RatingNone {
			ratings[r.Rating]++
		}
	}
	line := fmt.Sprintf("Todos: %d done, %d open", done, open)
	if done+open > 0 {
		line += fmt.Sprintf(" (%d%%)", done*100/(done+open))
	}
	fmt.Fprintln(w, line)
	if len(ratings) > 0 {
		fmt.Fprintf(w, "Ratings: %d excellent, %d average, %d terrible\n",
			ratings[planner.RatingExcellent], ratings[planner.RatingAverage], ratings[planner.RatingTerrible])
	}
}
