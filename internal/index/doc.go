// Package index caches classpath scan results in SQLite so unchanged
// entries are not rescanned. Freshness is decided by mod-time and size;
// a stale entry's rows are replaced in one transaction. The cache is
// optional: the core scan path never touches it.
package index
