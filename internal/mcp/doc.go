// Package mcp exposes the namespace scanner as an MCP server over stdio.
//
// Tools: list_namespaces, scan_classpath, namespace_doc, index_classpath.
// Stdout carries the protocol; all logging goes to stderr.
package mcp
