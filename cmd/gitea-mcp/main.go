package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"

	"github.com/datapilot-canada/gitea-mcp/internal/common"
	"github.com/datapilot-canada/gitea-mcp/internal/config"
	"github.com/datapilot-canada/gitea-mcp/internal/gitea"
	mcpsrv "github.com/datapilot-canada/gitea-mcp/internal/mcp"
)

func main() {
	stdio := flag.Bool("stdio", false, "Use stdio transport (for Claude Desktop and other local agents)")
	configFile := flag.String("config", "gitea-mcp.toml", "Path to config file")
	flag.Parse()

	// .env first so config env overrides see it. Missing file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := common.NewLoggerFromConfig(cfg.Logging)

	dispatcher, err := gitea.NewDispatcher(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create dispatcher: %v", err)
	}

	mcpServer := server.NewMCPServer(
		cfg.Server.Name,
		config.GetVersion(),
		server.WithToolCapabilities(true),
	)

	toolCount := mcpsrv.RegisterTools(mcpServer, dispatcher, logger)
	logger.Info().
		Int("tools", toolCount).
		Str("api_url", cfg.Gitea.BaseURL).
		Msg("gitea-mcp initialized")

	if *stdio {
		// Stdio transport — reads stdin, writes stdout
		if err := server.ServeStdio(mcpServer); err != nil {
			fmt.Fprintf(os.Stderr, "stdio server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Streamable HTTP transport — listens on configured port
	httpServer := server.NewStreamableHTTPServer(mcpServer,
		server.WithStateLess(true),
	)

	fmt.Fprintf(os.Stderr, "Starting MCP Streamable HTTP on :%s\n", cfg.Server.Port)

	if err := httpServer.Start(":" + cfg.Server.Port); err != nil {
		fmt.Fprintf(os.Stderr, "http server error: %v\n", err)
		os.Exit(1)
	}
}
