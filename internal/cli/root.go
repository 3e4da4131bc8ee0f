// Package cli wires the dayplan commands.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sadopc/dayplan/internal/planner"
)

const version = "dev"

// options carries what every command shares. The viper instance layers
// flags over DAYPLAN_* environment variables over the config file.
type options struct {
	v     *viper.Viper
	clock planner.Clock
}

func newOptions() *options {
	v := viper.New()
	v.SetEnvPrefix("DAYPLAN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return &options{v: v}
}

// New returns the root command. Without a subcommand it starts the
// terminal UI.
func New() *cobra.Command {
	return newRoot(newOptions())
}

func newRoot(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dayplan",
		Short: "An hour-by-hour day planner for the terminal.",
		Long: `dayplan splits every day into six intervals of one-hour slots and keeps
todos, meeting notes, links and reflections in them.

Slots that have elapsed are read-only: missed todos can still be moved to a
slot that is open.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd, o)
		},
	}

	pf := cmd.PersistentFlags()
	pf.String("config", "", "config file (default <user config dir>/dayplan/config.yaml)")
	pf.String("db", "", "SQLite database path, overrides db_path")
	pf.String("tz", "", "timezone as an IANA name or Local, overrides timezone")
	pf.String("log-level", "", "debug, info, warn or error, overrides log_level")

	_ = o.v.BindPFlag("config", pf.Lookup("config"))
	_ = o.v.BindPFlag("db_path", pf.Lookup("db"))
	_ = o.v.BindPFlag("timezone", pf.Lookup("tz"))
	_ = o.v.BindPFlag("log_level", pf.Lookup("log-level"))

	addCommands(cmd, o)
	return cmd
}

func addCommands(topLevel *cobra.Command, o *options) {
	addShow(topLevel, o)
	addAdd(topLevel, o)
	addDone(topLevel, o)
	addMove(topLevel, o)
	addRemove(topLevel, o)
	addNote(topLevel, o)
	addRate(topLevel, o)
	addDates(topLevel, o)
	addReport(topLevel, o)
	addExport(topLevel, o)
	addMCP(topLevel, o)
	addConfig(topLevel, o)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := New().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
