package cli

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sadopc/dayplan/internal/config"
	"github.com/sadopc/dayplan/internal/mcp"
	"github.com/sadopc/dayplan/internal/planner"
)

func addMCP(topLevel *cobra.Command, o *options) {
	var transport, listen, path string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the Model Context Protocol server",
		Long: `Launch an MCP server that exposes the planner's days, items, notes and
ratings as tools. Every tool call reads the database afresh, so changes
made in the terminal UI are visible immediately.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.open(cmd, logToStderr)
			if err != nil {
				return err
			}
			defer e.Close()

			mc := e.cfg.MCP
			if transport != "" {
				mc.Transport = strings.ToLower(strings.TrimSpace(transport))
			}
			if listen != "" {
				mc.Listen = listen
			}
			if path != "" {
				mc.Path = path
			}
			if mc.Transport != config.TransportStdio && mc.Transport != config.TransportHTTP {
				return fmt.Errorf("unknown transport %q (want stdio or http)", mc.Transport)
			}

			runner := mcp.Runner{
				Open:             func() (*planner.Service, error) { return e.service() },
				Clock:            e.clock,
				Name:             "dayplan",
				Version:          version,
				Transport:        mcp.Transport(mc.Transport),
				HTTPListenAddr:   mc.Listen,
				HTTPEndpointPath: mc.Path,
				OnHTTPListening: func(a net.Addr) {
					p := mc.Path
					if !strings.HasPrefix(p, "/") {
						p = "/" + p
					}
					fmt.Fprintf(cmd.OutOrStdout(), "MCP HTTP server listening on http://%s%s\n", a, p)
				},
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runner.Do(ctx)
		},
	}
	cmd.Flags().StringVar(&transport, "transport", "", "stdio or http (default from config)")
	cmd.Flags().StringVar(&listen, "listen", "", "HTTP listen address (default from config)")
	cmd.Flags().StringVar(&path, "path", "", "HTTP endpoint path (default from config)")

	topLevel.AddCommand(cmd)
}
