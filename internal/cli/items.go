package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sadopc/dayplan/internal/planner"
)

func addAdd(topLevel *cobra.Command, o *options) {
	var (
		date string
		meta metaOptions
	)

	cmd := &cobra.Command{
		Use:   "add <slot> <text>...",
		Short: "Add an item to a slot that has not elapsed",
		Example: `
dayplan add 14 write the report --importance high --deadline tomorrow
dayplan add "09:00 - 10:00" standup --kind meeting-note --attendees ana,li
dayplan add now go docs --kind share-link --url https://go.dev/doc
`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.open(cmd, logToStderr)
			if err != nil {
				return err
			}
			defer e.Close()

			ref := e.clock()
			at, err := parseCoord(date, args[0], ref)
			if err != nil {
				return err
			}
			kind := e.store.DefaultKind()
			if meta.Kind != "" {
				if kind, err = planner.ParseKind(meta.Kind); err != nil {
					return err
				}
			}
			m, err := meta.build(kind, ref)
			if err != nil {
				return err
			}
			it, err := e.svc.Add(ref, at, strings.Join(args[1:], " "), m)
			if err != nil {
				return err
			}
			printEntry(cmd.OutOrStdout(), "Added", planner.Entry{Kind: kind, Date: at.Date, Slot: at.Slot, Item: it})
			return nil
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "date as YYYY-MM-DD, today or tomorrow")
	addMetaFlags(cmd, &meta)

	topLevel.AddCommand(cmd)
}

func addDone(topLevel *cobra.Command, o *options) {
	var date string

	cmd := &cobra.Command{
		Use:     "done <slot> <id>",
		Aliases: []string{"toggle"},
		Short:   "Flip a todo between open and completed",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.open(cmd, logToStderr)
			if err != nil {
				return err
			}
			defer e.Close()

			ref := e.clock()
			at, err := parseCoord(date, args[0], ref)
			if err != nil {
				return err
			}
			_, cur, err := findItem(e.svc, at, args[1])
			if err != nil {
				return err
			}
			it, err := e.svc.Toggle(ref, at, cur.ID)
			if err != nil {
				return err
			}
			verb := "Reopened"
			if t, _ := planner.MetaOf[planner.Todo](it); t.Completed {
				verb = "Completed"
			}
			printEntry(cmd.OutOrStdout(), verb, planner.Entry{Kind: planner.KindTodo, Date: at.Date, Slot: at.Slot, Item: it})
			return nil
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "date as YYYY-MM-DD or yesterday")

	topLevel.AddCommand(cmd)
}

func addMove(topLevel *cobra.Command, o *options) {
	var date, toDate string

	cmd := &cobra.Command{
		Use:   "move <slot> <id> <to-slot>",
		Short: "Move a missed todo out of an elapsed slot",
		Example: `
dayplan move 09 3f2a1c now
dayplan move 16 3f2a1c 10 --date yesterday --to-date tomorrow
`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.open(cmd, logToStderr)
			if err != nil {
				return err
			}
			defer e.Close()

			ref := e.clock()
			from, err := parseCoord(date, args[0], ref)
			if err != nil {
				return err
			}
			to, err := parseCoord(toDate, args[2], ref)
			if err != nil {
				return err
			}
			kind, it, err := findItem(e.svc, from, args[1])
			if err != nil {
				return err
			}
			if err := e.svc.Move(ref, kind, from, to, it.ID); err != nil {
				return err
			}
			printEntry(cmd.OutOrStdout(), "Moved", planner.Entry{Kind: kind, Date: to.Date, Slot: to.Slot, Item: it})
			return nil
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "source date")
	cmd.Flags().StringVar(&toDate, "to-date", "", "destination date (default today)")

	topLevel.AddCommand(cmd)
}

func addRemove(topLevel *cobra.Command, o *options) {
	var date string

	cmd := &cobra.Command{
		Use:     "rm <slot> <id>",
		Aliases: []string{"delete"},
		Short:   "Delete an item from a slot that has not elapsed",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.open(cmd, logToStderr)
			if err != nil {
				return err
			}
			defer e.Close()

			ref := e.clock()
			at, err := parseCoord(date, args[0], ref)
			if err != nil {
				return err
			}
			kind, it, err := findItem(e.svc, at, args[1])
			if err != nil {
				return err
			}
			if err := e.svc.Delete(ref, at, kind, it.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s from %s %s.\n", kindText(it), shortID(it.ID), at.Date, at.Slot)
			return nil
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "date as YYYY-MM-DD or tomorrow")

	topLevel.AddCommand(cmd)
}
