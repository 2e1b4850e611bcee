// Package mcp exposes the window manager's command surface as an MCP
// server, forwarding every tool call through the command pipe.
package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/placewm/internal/config"
	"github.com/1broseidon/placewm/internal/ipc"
	"github.com/1broseidon/placewm/internal/runtimepath"
)

const (
	ServerName    = "placewm"
	ServerVersion = "0.1.0"
)

// Sender delivers one command to the running window manager and returns its
// output. *ipc.Client is the production implementation.
type Sender interface {
	Send(cmd string, args ...string) (string, error)
}

// Server is the MCP server for placewm remote control.
type Server struct {
	mcpServer *mcpsdk.Server
	sender    Sender
}

// NewServer creates an MCP server that forwards commands through sender.
func NewServer(sender Sender) *Server {
	s := &Server{sender: sender}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// NewServerFromConfig locates the request pipe of the window manager on the
// resolved display and returns a server talking to it.
func NewServerFromConfig(cfg *config.Config) (*Server, error) {
	display, err := resolveDisplay(cfg)
	if err != nil {
		return nil, err
	}
	dir, err := runtimepath.PipeDir(cfg.PipeDir)
	if err != nil {
		return nil, err
	}
	path, err := runtimepath.DisplayPipePath(dir, display)
	if err != nil {
		return nil, fmt.Errorf("display %q: %w", display, err)
	}
	return NewServer(ipc.NewClient(path)), nil
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "run_command",
		Description: "Run a window manager command, e.g. window_snap [\"left\"], workspace_goto [\"2\"], window_cardinal_focus [\"right\"] or wm_config [\"border_width\", \"3\"]. Arguments are validated before they are sent. Use list_commands for the full command list.",
	}, s.handleRunCommand)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_commands",
		Description: "List every window manager command with its argument synopsis, plus the keys accepted by wm_config and win_config.",
	}, s.handleListCommands)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_focused",
		Description: "Return the X window id of the focused window, if any.",
	}, s.handleGetFocused)
}
