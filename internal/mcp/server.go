// ABOUTME: MCP server setup for the daybook.
// ABOUTME: Wraps the MCP server around a daybook Service.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/daybook/internal/daybook"
	"github.com/harperreed/daybook/internal/logging"
)

// Server wraps the MCP server with daybook access.
type Server struct {
	mcpServer *mcp.Server
	svc       *daybook.Service
	log       *logging.Logger
}

// NewServer creates a new MCP server backed by the given service.
func NewServer(svc *daybook.Service, log *logging.Logger) (*Server, error) {
	if log == nil {
		log = logging.Nop()
	}
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "daybook",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		svc:       svc,
		log:       log,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	s.log.Info("mcp server starting", "transport", "stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// toolErr prefixes a service error with its kind, such as "not_found" or
// "conflict", so clients can branch on it. Other errors pass through.
func (s *Server) toolErr(err error) error {
	var de *daybook.Error
	if !errors.As(err, &de) {
		return err
	}
	kind := daybook.KindName(err)
	s.log.With("kind", kind).Warn("tool call failed", "detail", de.Detail())
	return fmt.Errorf("%s: %w", kind, err)
}
