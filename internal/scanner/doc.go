// Package scanner finds namespace-declaring forms in single files.
//
// A file scan opens the file (or takes an already-open archive entry
// stream), reads top-level forms, and keeps those whose head symbol is ns
// or in-ns, normalized to one canonical shape: quoted in-ns arguments are
// unwrapped, so (in-ns 'a.c) and (ns a.c) both yield an NSForm with
// Name "a.c".
//
// Error policy is per call, not per process: the default lenient mode
// returns whatever forms were read before a failure (possibly none), while
// Config.Strict propagates the failure. Declaration forms without a
// resolvable symbol are silently dropped in both modes.
package scanner
