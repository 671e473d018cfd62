// Package classpath resolves classpath entries and aggregates namespace
// forms across them. Directories are walked recursively in traversal
// order; jar/zip archives are enumerated by entry name. A corrupt archive
// is always a fatal error naming the archive, regardless of lenient mode;
// unrecognized entries are skipped with an empty result.
package classpath
