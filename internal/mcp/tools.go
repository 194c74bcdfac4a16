// Package mcp exposes the operation registry as MCP tools.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/datapilot-canada/gitea-mcp/internal/common"
	"github.com/datapilot-canada/gitea-mcp/internal/gitea"
)

// RegisterTools registers one MCP tool per registry endpoint, each wired to
// the generic dispatch handler. Returns the number of tools registered.
func RegisterTools(s *server.MCPServer, d *gitea.Dispatcher, logger *common.Logger) int {
	endpoints := d.Registry().Endpoints()
	for _, ep := range endpoints {
		s.AddTool(BuildTool(ep), ToolHandler(d, ep.Name, logger))
	}
	return len(endpoints)
}

// BuildTool converts an endpoint descriptor into an mcp.Tool with the
// appropriate argument schema.
func BuildTool(ep gitea.Endpoint) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(ep.Description)}
	for _, p := range ep.Params {
		opts = append(opts, buildParamOption(p))
	}
	return mcp.NewTool(ep.Name, opts...)
}

// buildParamOption maps a registry param to the matching mcp-go tool option.
func buildParamOption(p gitea.Param) mcp.ToolOption {
	var opts []mcp.PropertyOption
	if p.Description != "" {
		opts = append(opts, mcp.Description(p.Description))
	}
	if p.Required {
		opts = append(opts, mcp.Required())
	}

	switch p.Type {
	case gitea.TypeInteger:
		return mcp.WithNumber(p.Name, opts...)
	case gitea.TypeBoolean:
		return mcp.WithBoolean(p.Name, opts...)
	case gitea.TypeStringList:
		opts = append([]mcp.PropertyOption{mcp.WithStringItems()}, opts...)
		return mcp.WithArray(p.Name, opts...)
	case gitea.TypeIntegerList:
		opts = append([]mcp.PropertyOption{mcp.WithNumberItems()}, opts...)
		return mcp.WithArray(p.Name, opts...)
	default:
		return mcp.WithString(p.Name, opts...)
	}
}
