package mcp

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/cljtools/nsscan/internal/index"
	"github.com/cljtools/nsscan/internal/reader"
)

const (
	// ServerName is the MCP server name
	ServerName = "nsscan-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
	// DefaultDBPath is the default location for the cache database
	DefaultDBPath = "~/.nsscan"
)

// Server wraps the MCP server with application dependencies.
type Server struct {
	mcp     *server.MCPServer
	storage index.Storage
	mode    reader.Mode
}

// NewServer creates a new MCP server instance. dbPath locates the cache
// database directory; the read mode is resolved from the environment once
// here and threaded into every scan.
func NewServer(dbPath string) (*Server, error) {
	if dbPath == "" || dbPath == DefaultDBPath {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".nsscan")
	}

	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dbFile := filepath.Join(dbPath, "nsscan.db")

	store, err := index.NewSQLiteStorage(dbFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:     mcpServer,
		storage: store,
		mode:    reader.ModeFromEnv(),
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until ctx is canceled or
// the input stream ends.
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.storage.Close() }()
	return s.serve(ctx, os.Stdin, os.Stdout)
}

// serve runs the stdio transport over explicit streams.
func (s *Server) serve(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}

// registerTools registers all MCP tools.
func (s *Server) registerTools() error {
	s.mcp.AddTool(listNamespacesTool(), s.handleListNamespaces)
	s.mcp.AddTool(scanClasspathTool(), s.handleScanClasspath)
	s.mcp.AddTool(namespaceDocTool(), s.handleNamespaceDoc)
	s.mcp.AddTool(indexClasspathTool(), s.handleIndexClasspath)
	return nil
}
