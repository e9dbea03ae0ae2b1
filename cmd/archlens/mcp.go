package main

import (
	"context"

	"github.com/spf13/cobra"

	"archlens/internal/mcpserver"
	"archlens/internal/version"
)

var mcpRepo string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the stdio JSON-RPC MCP server",
	Long: `Start the Model Context Protocol server over stdio.

Exposes analyze.project, structure.get, graph.build, export.ai_compact,
export.ai_summary_json, arch.refresh, ai.recommend, and history.recent as
MCP tools, plus a fixed set of focus-preset prompts.

This command is typically invoked by an MCP client, not directly by users.`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpRepo, "repo", ".", "Project root to analyze")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	logger := newLogger("json")
	registry := newRegistry(mcpRepo, logger)

	server := mcpserver.NewServer(registry, version.Version)
	return server.Serve(context.Background())
}
