// Package mcp exposes the planner as Model Context Protocol tools.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/sadopc/dayplan/internal/log"
	"github.com/sadopc/dayplan/internal/planner"
)

// Transport selects the mechanism used to expose the MCP server.
type Transport string

const (
	TransportHTTP  Transport = "http"
	TransportStdio Transport = "stdio"
)

// Opener returns the planner a tool call works against. It is called once
// per call so that writes made by other processes are seen.
type Opener func() (*planner.Service, error)

// Runner coordinates MCP server startup.
type Runner struct {
	Open    Opener
	Clock   planner.Clock
	Name    string
	Version string

	Transport        Transport
	HTTPListenAddr   string
	HTTPEndpointPath string
	OnHTTPListening  func(net.Addr)
}

// NewServer builds the MCP server with every planner tool registered.
func (r Runner) NewServer() (*server.MCPServer, error) {
	if r.Open == nil {
		return nil, errors.New("mcp runner requires a planner")
	}
	name := r.Name
	if name == "" {
		name = "dayplan"
	}
	version := r.Version
	if version == "" {
		version = "dev"
	}
	clock := r.Clock
	if clock == nil {
		clock = planner.SystemClock(nil)
	}

	srv := server.NewMCPServer(
		fmt.Sprintf("%s MCP", name),
		version,
		server.WithToolCapabilities(false),
		server.WithInstructions("Read and edit an hour-by-hour day planner. Dates are YYYY-MM-DD, slots are \"HH:MM - HH:MM\" hour ranges. Elapsed slots are read-only except for moving missed todos."),
		server.WithRecovery(),
	)

	h := &handlers{open: r.Open, clock: clock}
	registerReadTools(srv, h)
	registerWriteTools(srv, h)
	return srv, nil
}

// Do starts the server on the configured transport and blocks.
func (r Runner) Do(ctx context.Context) error {
	srv, err := r.NewServer()
	if err != nil {
		return err
	}

	switch t := r.Transport; t {
	case "", TransportStdio:
		log.Info("mcp serving", "transport", TransportStdio)
		return server.ServeStdio(srv)
	case TransportHTTP:
		return r.serveHTTP(ctx, srv)
	default:
		return fmt.Errorf("unknown MCP transport %q", t)
	}
}

func (r Runner) serveHTTP(ctx context.Context, srv *server.MCPServer) error {
	handler := server.NewStreamableHTTPServer(srv)

	path := r.HTTPEndpointPath
	if path == "" {
		path = "/mcp"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	listenAddr := r.HTTPListenAddr
	if listenAddr == "" {
		listenAddr = "127.0.0.1:8089"
	}

	mux := http.NewServeMux()
	mux.Handle(path, handler)

	httpSrv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	log.Info("mcp serving", "transport", TransportHTTP, "addr", ln.Addr().String(), "path", path)
	if r.OnHTTPListening != nil {
		r.OnHTTPListening(ln.Addr())
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	err = httpSrv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
