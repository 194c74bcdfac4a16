package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/datapilot-canada/gitea-mcp/internal/common"
	"github.com/datapilot-canada/gitea-mcp/internal/gitea"
)

// textResult wraps a payload as a successful tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(text)},
	}
}

// errorResult wraps a message as a failed tool result. Dispatch failures are
// reported through IsError, not a protocol error, so the calling agent
// decides how to react.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(message)},
		IsError: true,
	}
}

// ToolHandler returns the handler for one registered tool: it forwards the
// raw argument mapping to the dispatcher and renders the outcome. Each
// invocation gets a correlation ID so its log lines can be traced end to end.
func ToolHandler(d *gitea.Dispatcher, name string, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		scoped := logger.WithCorrelationId(uuid.NewString())

		payload, err := d.WithLogger(scoped).Invoke(ctx, name, request.GetArguments())
		if err != nil {
			var failure *gitea.Failure
			if errors.As(err, &failure) {
				return errorResult(fmt.Sprintf("%s: %s", failure.Kind, failure.Message)), nil
			}
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		return textResult(string(payload)), nil
	}
}
