package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/dayplan/internal/planner"
)

func addShow(topLevel *cobra.Command, o *options) {
	var direction string

	cmd := &cobra.Command{
		Use:   "show [date]",
		Short: "Print a day's visible slots and items",
		Example: `
dayplan show
dayplan show 2024-01-05
dayplan show 2024-01-05 --step next
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.open(cmd, logToStderr)
			if err != nil {
				return err
			}
			defer e.Close()

			ref := e.clock()
			raw := ""
			if len(args) == 1 {
				raw = args[0]
			}
			date, err := parseDate(raw, ref)
			if err != nil {
				return err
			}

			nav, err := e.svc.Navigate(date)
			if err != nil {
				return err
			}
			if direction != "" {
				dir := planner.Next
				switch direction {
				case "next":
				case "prev":
					dir = planner.Prev
				default:
					return fmt.Errorf("unknown step %q (want prev or next)", direction)
				}
				target, ok := nav.Step(dir)
				if !ok {
					return fmt.Errorf("no eventful date %s %s", direction, date)
				}
				date = target
				if nav, err = e.svc.Navigate(date); err != nil {
					return err
				}
			}

			view, err := e.svc.Day(ref, date)
			if err != nil {
				return err
			}
			printDay(cmd.OutOrStdout(), view, nav, e.loc)
			return nil
		},
	}
	cmd.Flags().StringVar(&direction, "step", "", "show the previous or next date with content instead (prev or next)")

	topLevel.AddCommand(cmd)
}
