package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/nephrolist-reader/internal/config"
	"github.com/a3tai/nephrolist-reader/internal/descriptions"
	"github.com/a3tai/nephrolist-reader/internal/intake"
	"github.com/a3tai/nephrolist-reader/internal/record"
	"github.com/a3tai/nephrolist-reader/internal/security"
	"github.com/a3tai/nephrolist-reader/internal/session"
)

const (
	ToolExtract    = "nephrolist_extract"
	ToolServerInfo = "nephrolist_server_info"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	source    record.RecordSource
	gate      *intake.Gate
	paths     *security.PathValidator
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, source record.RecordSource) (*Server, error) {
	if source == nil {
		return nil, fmt.Errorf("record source cannot be nil")
	}

	paths, err := security.NewPathValidator(cfg.PDFDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:    cfg,
		source:    source,
		gate:      intake.NewGate(cfg.MaxFileSize),
		paths:     paths,
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	extractTool := mcp.NewTool(
		ToolExtract,
		mcp.WithDescription(descriptions.ExtractDescription),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file, absolute or relative to the configured directory"),
		),
	)
	s.mcpServer.AddTool(extractTool, s.handleExtract)

	serverInfoTool := mcp.NewTool(
		ToolServerInfo,
		mcp.WithDescription(descriptions.ServerInfoDescription),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleServerInfo)
}

func (s *Server) handleExtract(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resolved, err := s.paths.Resolve(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("security validation failed: %v", err)), nil
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot access file: %v", err)), nil
	}
	if info.IsDir() {
		return mcp.NewToolResultError(fmt.Sprintf("path is a directory, not a file: %s", resolved)), nil
	}

	trigger, err := s.gate.Accept(&intake.Upload{Filename: resolved, Size: info.Size()})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	state, err := session.Activate(ctx, s.source, trigger)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if s.config.IsDebug() {
		log.Printf("extract: %s (%d bytes)", resolved, info.Size())
	}

	return mcp.NewToolResultText(s.formatExtractResult(resolved, state)), nil
}

func (s *Server) handleServerInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.formatServerInfo()), nil
}

// Formatting methods
func (s *Server) formatExtractResult(path string, state session.State) string {
	var b strings.Builder

	b.WriteString("Dados extraídos com sucesso!\n")
	fmt.Fprintf(&b, "File: %s\n", path)
	fmt.Fprintf(&b, "Size: %d bytes\n", state.Trigger.Size)

	b.WriteString("\nFields:\n")
	for _, f := range state.Record.Fields() {
		fmt.Fprintf(&b, "  %s: %s\n", f.Name, f.Value)
	}

	fmt.Fprintf(&b, "\nCSV (%s):\n", record.CSVFileName)
	b.Write(state.CSV)

	return b.String()
}

func (s *Server) formatServerInfo() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s v%s - Server Information\n", s.config.ServerName, s.config.Version)
	fmt.Fprintf(&b, "Directory: %s\n", s.paths.ConfiguredDirectory())
	fmt.Fprintf(&b, "Max File Size: %d MB\n", s.gate.MaxFileSize()/(1024*1024))

	b.WriteString("\nAvailable Tools:\n")
	fmt.Fprintf(&b, "  • %s(path): fields and CSV for a PDF in the directory\n", ToolExtract)
	fmt.Fprintf(&b, "  • %s: this summary\n", ToolServerInfo)

	b.WriteString("\nExported Fields:\n")
	for i, name := range record.FieldNames() {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, name)
	}

	return b.String()
}

// Run serves the MCP tools over stdio until the client disconnects
func (s *Server) Run(ctx context.Context) error {
	if !s.config.IsStdioMode() {
		return fmt.Errorf("MCP server requires stdio mode, got %q", s.config.Mode)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context done before start: %w", err)
	}

	if s.config.IsDebug() {
		log.Printf("Starting NephroList MCP server in stdio mode")
		log.Printf("PDF directory: %s", s.config.PDFDirectory)
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
