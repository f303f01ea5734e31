// Package server exposes structure verification as MCP tools.
package server

import (
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/Stefan/ppm-saas-sub008/internal/manifest"
	"github.com/Stefan/ppm-saas-sub008/internal/platform"
)

// Config holds MCP server configuration.
type Config struct {
	Transport       string
	Port            int
	CacheTTL        time.Duration
	TestIDAttribute string
	Concurrency     int
	Registry        *manifest.Registry // Nil uses the built-in structures
	Version         string
}

// Server wraps the MCP server with the structure registry and document cache.
type Server struct {
	cfg      Config
	registry *manifest.Registry
	cache    *DocumentCache
	mcp      *mcpserver.MCPServer
}

// New creates and configures an MCP server with all structcheck tools.
func New(cfg Config) *Server {
	if cfg.Registry == nil {
		cfg.Registry = manifest.DefaultFor(cfg.TestIDAttribute)
	}
	if cfg.TestIDAttribute == "" {
		cfg.TestIDAttribute = platform.DefaultTestIDAttribute
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}

	s := &Server{
		cfg:      cfg,
		registry: cfg.Registry,
		cache:    NewDocumentCache(cfg.CacheTTL),
	}
	s.mcp = mcpserver.NewMCPServer("structcheck", cfg.Version, mcpserver.WithToolCapabilities(false))
	s.registerTools()
	return s
}

// Serve starts the MCP server with the configured transport.
func (s *Server) Serve() error {
	switch s.cfg.Transport {
	case "", "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", s.cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", s.cfg.Transport)
	}
}

// Close releases the document cache's file watcher.
func (s *Server) Close() error {
	return s.cache.Close()
}

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("generate_testid",
			mcp.WithDescription("Generate a kebab-case data-testid from a component name and optional element and variant"),
			mcp.WithString("component", mcp.Required(), mcp.Description("Component name, e.g. 'VarianceKPIs'")),
			mcp.WithString("element", mcp.Description("Element within the component")),
			mcp.WithString("variant", mcp.Description("Variant of the element")),
		),
		s.handleGenerateTestID,
	)

	s.mcp.AddTool(
		mcp.NewTool("validate_manifest",
			mcp.WithDescription("Validate a YAML structure manifest ({pages, components}). Without arguments validates the built-in structures."),
			mcp.WithString("manifest", mcp.Description("Manifest YAML text")),
			mcp.WithString("path", mcp.Description("Path to a manifest file")),
		),
		s.handleValidateManifest,
	)

	s.mcp.AddTool(
		mcp.NewTool("verify_html",
			mcp.WithDescription("Verify a rendered HTML document against a page or component structure"),
			mcp.WithString("html", mcp.Description("HTML document text")),
			mcp.WithString("path", mcp.Description("Path to an HTML file")),
			mcp.WithString("page", mcp.Description("Page structure name")),
			mcp.WithString("component", mcp.Description("Component structure name")),
			mcp.WithString("state", mcp.Description("Component state, e.g. loading, error, empty")),
			mcp.WithString("condition", mcp.Description("Verify the page's conditional sections for this condition instead")),
			mcp.WithBoolean("report", mcp.Description("Return the human-readable report instead of YAML")),
		),
		s.handleVerifyHTML,
	)

	s.mcp.AddTool(
		mcp.NewTool("check_interactive",
			mcp.WithDescription("Check that interactive elements in an HTML document have accessible names"),
			mcp.WithString("html", mcp.Description("HTML document text")),
			mcp.WithString("path", mcp.Description("Path to an HTML file")),
			mcp.WithString("ids", mcp.Required(), mcp.Description("Comma-separated test IDs")),
		),
		s.handleCheckInteractive,
	)

	s.mcp.AddTool(
		mcp.NewTool("list_structures",
			mcp.WithDescription("List the known page and component structures"),
		),
		s.handleListStructures,
	)
}
