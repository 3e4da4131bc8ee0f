package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/dayplan/internal/config"
	"github.com/sadopc/dayplan/internal/export"
	"github.com/sadopc/dayplan/internal/planner"
	"github.com/sadopc/dayplan/internal/store"
)

func addExport(topLevel *cobra.Command, o *options) {
	var (
		format   string
		out      string
		from, to string
		kind     string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write stored items to a CSV, JSON or iCalendar file",
		Example: `
dayplan export --format ics --from 2024-01-01 --to 2024-01-31
dayplan export --format csv --kind todo --out todos.csv
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			e, err := o.open(cmd, logToStderr)
			if err != nil {
				return err
			}
			defer e.Close()

			ref := e.clock()
			var filter store.ItemFilter
			if from != "" {
				if filter.From, err = parseDate(from, ref); err != nil {
					return err
				}
			}
			if to != "" {
				if filter.To, err = parseDate(to, ref); err != nil {
					return err
				}
			}
			if kind != "" {
				if filter.Kind, err = planner.ParseKind(kind); err != nil {
					return err
				}
			}
			entries, err := e.store.ListItems(filter)
			if err != nil {
				return err
			}

			path := out
			if path == "" {
				path = export.DefaultPath(e.cfg.ExportDir, f, time.Now().In(e.loc))
			}
			if path, err = config.ExpandPath(path); err != nil {
				return err
			}
			if err := export.Write(f, entries, e.loc, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d items to %s\n", len(entries), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatCSV), "csv, json or ics")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default dayplan-export-<date>.<format> in export_dir)")
	cmd.Flags().StringVar(&from, "from", "", "first date to include")
	cmd.Flags().StringVar(&to, "to", "", "last date to include")
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "only export one kind")

	topLevel.AddCommand(cmd)
}
