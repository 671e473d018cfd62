package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// classpathProperty is shared by every tool that accepts a classpath.
func classpathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type": "string",
		"description": "Classpath entries (directories and jar/zip archives) separated by the " +
			"platform path-list separator. Defaults to NSSCAN_CLASSPATH, then CLASSPATH.",
	}
}

// listNamespacesTool returns the tool definition for list_namespaces
func listNamespacesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_namespaces",
		Description: "List the namespace symbols declared by Clojure source files on a classpath",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"classpath": classpathProperty(),
				"prefix": map[string]interface{}{
					"type":        "string",
					"description": "Namespace name prefix to narrow directory traversal and filter results",
				},
				"strict": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, an unreadable file aborts the scan instead of being skipped",
					"default":     false,
				},
				"first_only": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, keep only the first namespace form of each file",
					"default":     false,
				},
				"cached": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, answer from the index cache instead of scanning (see index_classpath)",
					"default":     false,
				},
			},
		},
	}
}

// scanClasspathTool returns the tool definition for scan_classpath
func scanClasspathTool() mcp.Tool {
	return mcp.Tool{
		Name:        "scan_classpath",
		Description: "Scan a classpath and return full namespace form details (kind, name, file, doc)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"classpath": classpathProperty(),
				"prefix": map[string]interface{}{
					"type":        "string",
					"description": "Namespace name prefix to narrow directory traversal and filter results",
				},
				"strict": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, an unreadable file aborts the scan instead of being skipped",
					"default":     false,
				},
				"first_only": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, keep only the first namespace form of each file",
					"default":     false,
				},
			},
		},
	}
}

// namespaceDocTool returns the tool definition for namespace_doc
func namespaceDocTool() mcp.Tool {
	return mcp.Tool{
		Name:        "namespace_doc",
		Description: "Return the documentation string of a namespace found on a classpath, without evaluating code",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"classpath": classpathProperty(),
				"namespace": map[string]interface{}{
					"type":        "string",
					"description": "Fully qualified namespace name, e.g. my-lib.core",
				},
			},
			Required: []string{"namespace"},
		},
	}
}

// indexClasspathTool returns the tool definition for index_classpath
func indexClasspathTool() mcp.Tool {
	return mcp.Tool{
		Name:        "index_classpath",
		Description: "Refresh the namespace index cache for a classpath; unchanged entries are not rescanned",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"classpath": classpathProperty(),
				"strict": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, an unreadable file aborts the refresh instead of being skipped",
					"default":     false,
				},
			},
		},
	}
}
