package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing uiactl tools",
	Long: `Start a Model Context Protocol (MCP) server that exposes all uiactl
operations as tools. AI agents can call tools directly without shell overhead.

Supported transports:
  stdio             Standard I/O (default, for MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  uiactl serve
  uiactl serve --transport streamable-http --port 8931
  uiactl serve --cache-ttl 0`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 0, "HTTP port for streamable-http transport")
	serveCmd.Flags().Int("cache-ttl", -1, "Tree cache TTL in milliseconds (0 to disable)")
}

func runServe(cmd *cobra.Command, args []string) error {
	mcpCfg := MCPConfig{
		Transport: cfg.Transport,
		Port:      cfg.Port,
		CacheTTL:  cfg.CacheTTL,
	}
	if transport, _ := cmd.Flags().GetString("transport"); transport != "" {
		mcpCfg.Transport = transport
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		mcpCfg.Port = port
	}
	if cmd.Flags().Changed("cache-ttl") {
		ttlMs, _ := cmd.Flags().GetInt("cache-ttl")
		mcpCfg.CacheTTL = time.Duration(ttlMs) * time.Millisecond
	}

	srv, err := newMCPServer(mcpCfg)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.serve(ctx, mcpCfg)
}
