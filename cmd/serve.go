package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Stefan/ppm-saas-sub008/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing structcheck tools",
	Long: `Start a Model Context Protocol (MCP) server that exposes test ID
generation, manifest validation and HTML structure verification as tools.

Supported transports:
  stdio             Standard I/O (default, for MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  structcheck serve
  structcheck serve --transport streamable-http --port 8080
  structcheck serve --manifest structures.yaml --cache-ttl 0`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().Int("cache-ttl", 500, "Parsed HTML file cache TTL in milliseconds (0 to disable)")
	addManifestFlag(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	cacheTTLMs, _ := cmd.Flags().GetInt("cache-ttl")

	reg, _, err := loadRegistry(cmd)
	if err != nil {
		return fmt.Errorf("failed to load structures: %w", err)
	}

	c := settings()
	srv := server.New(server.Config{
		Transport:       transport,
		Port:            port,
		CacheTTL:        time.Duration(cacheTTLMs) * time.Millisecond,
		TestIDAttribute: c.TestIDAttribute,
		Concurrency:     c.Concurrency,
		Registry:        reg,
		Version:         Version,
	})
	defer srv.Close()
	return srv.Serve()
}
