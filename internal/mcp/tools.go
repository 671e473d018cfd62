package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/cljtools/nsscan/internal/classpath"
	"github.com/cljtools/nsscan/internal/index"
	"github.com/cljtools/nsscan/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams  = -32602 // Invalid method parameters
	ErrorCodeInternalError  = -32603 // Internal JSON-RPC error
	ErrorCodeEmptyClasspath = -32001 // No classpath supplied or resolvable from the environment
	ErrorCodeCorruptArchive = -32002 // A classpath archive could not be opened
)

// handleListNamespaces handles the list_namespaces tool invocation.
func (s *Server) handleListNamespaces(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	prefix := getStringDefault(args, "prefix", "")

	if getBoolDefault(args, "cached", false) {
		cached, err := s.storage.ListNamespaces(ctx, prefix)
		if err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "cache query failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		names := make([]string, 0, len(cached))
		for _, ns := range cached {
			names = append(names, ns.Name)
		}
		return mcp.NewToolResultText(formatJSON(map[string]interface{}{
			"cached":     true,
			"namespaces": names,
		})), nil
	}

	entries, err := resolveClasspath(args)
	if err != nil {
		return nil, err
	}

	names, err := classpath.NamespaceSymbols(entries, prefix, scanConfig(s, args))
	if err != nil {
		return nil, scanError(err)
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"cached":     false,
		"namespaces": names,
	})), nil
}

// handleScanClasspath handles the scan_classpath tool invocation.
func (s *Server) handleScanClasspath(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	entries, err := resolveClasspath(args)
	if err != nil {
		return nil, err
	}

	prefix := getStringDefault(args, "prefix", "")
	forms, err := classpath.ScanClasspath(entries, prefix, scanConfig(s, args))
	if err != nil {
		return nil, scanError(err)
	}

	results := make([]map[string]interface{}, 0, len(forms))
	for i := range forms {
		entry := map[string]interface{}{
			"kind": string(forms[i].Kind),
			"name": forms[i].Name,
			"file": forms[i].Path,
		}
		if doc, ok := forms[i].Doc(); ok {
			entry["doc"] = doc
		}
		results = append(results, entry)
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"count": len(results),
		"forms": results,
	})), nil
}

// handleNamespaceDoc handles the namespace_doc tool invocation.
func (s *Server) handleNamespaceDoc(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	name, ok := args["namespace"].(string)
	if !ok || name == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "namespace parameter is required", map[string]interface{}{
			"param":  "namespace",
			"reason": "missing or empty",
		})
	}

	entries, err := resolveClasspath(args)
	if err != nil {
		return nil, err
	}

	form, err := classpath.FindNamespace(entries, name, classpath.Config{Mode: s.mode})
	if err != nil {
		if errors.Is(err, types.ErrNoNamespace) {
			return nil, newMCPError(ErrorCodeInternalError, "namespace not found on classpath", map[string]interface{}{
				"namespace": name,
			})
		}
		return nil, scanError(err)
	}

	response := map[string]interface{}{
		"namespace": name,
		"file":      form.Path,
		"path":      types.PathForName(name, ""),
	}
	if doc, ok := form.Doc(); ok {
		response["doc"] = doc
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleIndexClasspath handles the index_classpath tool invocation.
func (s *Server) handleIndexClasspath(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	entries, err := resolveClasspath(args)
	if err != nil {
		return nil, err
	}

	stats, err := index.Sync(ctx, s.storage, entries, scanConfig(s, args))
	if err != nil {
		return nil, scanError(err)
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"entries_scanned": stats.EntriesScanned,
		"entries_fresh":   stats.EntriesFresh,
		"entries_skipped": stats.EntriesSkipped,
		"namespaces":      stats.Namespaces,
		"duration_ms":     stats.Duration.Milliseconds(),
	})), nil
}

// Helper functions

// resolveClasspath reads the classpath argument, falling back to the
// environment, and rejects the call when neither yields entries.
func resolveClasspath(args map[string]interface{}) ([]string, error) {
	if cp := getStringDefault(args, "classpath", ""); cp != "" {
		return classpath.Split(cp), nil
	}
	if entries := classpath.FromEnv(); len(entries) > 0 {
		return entries, nil
	}
	return nil, newMCPError(ErrorCodeEmptyClasspath, "no classpath supplied", map[string]interface{}{
		"param":  "classpath",
		"reason": "missing and neither NSSCAN_CLASSPATH nor CLASSPATH is set",
	})
}

// scanConfig builds a classpath scan configuration from tool arguments.
func scanConfig(s *Server, args map[string]interface{}) classpath.Config {
	return classpath.Config{
		Strict:    getBoolDefault(args, "strict", false),
		FirstOnly: getBoolDefault(args, "first_only", false),
		Mode:      s.mode,
	}
}

// scanError maps scan failures onto MCP error codes; corrupt archives get
// their own code so clients can tell a broken container from a bad file.
func scanError(err error) error {
	var corrupt *classpath.CorruptArchiveError
	if errors.As(err, &corrupt) {
		return newMCPError(ErrorCodeCorruptArchive, "corrupt archive on classpath", map[string]interface{}{
			"archive": corrupt.Path,
			"error":   corrupt.Error(),
		})
	}
	return newMCPError(ErrorCodeInternalError, "scan failed", map[string]interface{}{
		"error": err.Error(),
	})
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
