package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sadopc/dayplan/internal/config"
	"github.com/sadopc/dayplan/internal/log"
	"github.com/sadopc/dayplan/internal/tui"
)

// runUI starts the full-screen planner. It watches the database so edits
// made through the CLI or the MCP server show up while it runs.
func runUI(cmd *cobra.Command, o *options) error {
	e, err := o.open(cmd, logToFile)
	if err != nil {
		return err
	}
	defer e.Close()

	exportDir, err := config.ExpandPath(e.cfg.ExportDir)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	app := tui.NewApp(e.store, e.svc, tui.Options{
		Clock:     e.clock,
		ExportDir: exportDir,
		Watch:     true,
		Context:   ctx,
	})
	log.Info("starting ui", "db", e.store.Path(), "tz", e.loc.String())

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
