// Package mcpserver exposes the tool registry over the Model Context Protocol.
package mcpserver

import (
	"context"
	"encoding/json"
	"log"

	"github.com/go-faster/errors"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"bitbucket-mcp/server/internal/middleware"
	"bitbucket-mcp/server/internal/modules"
)

const ServerName = "bitbucket-mcp"

// ServerVersion is overridden at build time with -ldflags "-X".
var ServerVersion = "1.0.0"

// Handler wraps the MCP server and the tool-call chain behind it.
type Handler struct {
	Server *server.MCPServer
	invoke middleware.ToolFunc
	log    *logrus.Logger
}

// New registers every tool in registry; calls are routed through invoke.
func New(registry *modules.Registry, invoke middleware.ToolFunc, logger *logrus.Logger) (*Handler, error) {
	h := &Handler{
		Server: server.NewMCPServer(ServerName, ServerVersion,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
		invoke: invoke,
		log:    logger,
	}
	for _, t := range registry.Tools() {
		tool, err := toMCPTool(t)
		if err != nil {
			return nil, err
		}
		h.Server.AddTool(tool, h.handleToolCall)
	}
	return h, nil
}

func toMCPTool(t modules.Tool) (mcp.Tool, error) {
	schema, err := json.Marshal(t.InputSchema)
	if err != nil {
		return mcp.Tool{}, errors.Wrapf(err, "encode schema of %s", t.Name)
	}
	tool := mcp.NewToolWithRawSchema(t.Name, t.Description, schema)
	if a := t.Annotations; a != nil {
		tool.Annotations.ReadOnlyHint = a.ReadOnlyHint
		tool.Annotations.DestructiveHint = a.DestructiveHint
		tool.Annotations.IdempotentHint = a.IdempotentHint
		tool.Annotations.OpenWorldHint = a.OpenWorldHint
	}
	return tool, nil
}

// handleToolCall returns a Go error only for protocol-level failures; mcp-go turns
// those into JSON-RPC errors.
func (h *Handler) handleToolCall(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := h.invoke(ctx, req.Params.Name, req.GetArguments())
	if err != nil {
		return nil, err
	}
	return toMCPResult(res), nil
}

func toMCPResult(res *modules.ToolCallResult) *mcp.CallToolResult {
	out := &mcp.CallToolResult{IsError: res.IsError}
	for _, block := range res.Content {
		out.Content = append(out.Content, mcp.NewTextContent(block.Text))
	}
	return out
}

// ServeStdio serves until stdin closes or the process is signalled.
// stdout carries protocol traffic only; server errors go to the logrus logger.
func (h *Handler) ServeStdio() error {
	w := h.log.WriterLevel(logrus.ErrorLevel)
	defer w.Close()
	errLog := log.New(w, "", 0)

	h.log.WithField("version", ServerVersion).Info("Serving MCP over stdio")
	err := server.ServeStdio(h.Server, server.WithErrorLogger(errLog))
	if err != nil && !errors.Is(err, context.Canceled) {
		return errors.Wrap(err, "serve stdio")
	}
	return nil
}
