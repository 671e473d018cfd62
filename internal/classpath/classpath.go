package classpath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cljtools/nsscan/internal/reader"
	"github.com/cljtools/nsscan/internal/scanner"
	"github.com/cljtools/nsscan/pkg/types"
)

// Environment variables consulted when no classpath is supplied.
const (
	// EnvClasspath is the tool-specific classpath variable.
	EnvClasspath = "NSSCAN_CLASSPATH"
	// EnvClasspathFallback is the conventional JVM variable.
	EnvClasspathFallback = "CLASSPATH"
)

// Config controls a classpath scan.
type Config struct {
	// Strict propagates per-file parse failures instead of skipping files.
	// Corrupt archives are fatal regardless of this flag.
	Strict bool
	// FirstOnly keeps only the first namespace form of each file instead
	// of every form.
	FirstOnly bool
	// Mode is the reader configuration threaded into every parse.
	Mode reader.Mode
}

// scanCfg converts Config into the per-file scanner configuration.
func (c Config) scanCfg() scanner.Config {
	return scanner.Config{Strict: c.Strict, Mode: c.Mode}
}

// Split breaks a delimiter-separated classpath string into its entries
// using the platform path-list separator. Empty segments are dropped.
func Split(cp string) []string {
	var entries []string
	for _, e := range strings.Split(cp, string(os.PathListSeparator)) {
		if e != "" {
			entries = append(entries, e)
		}
	}
	return entries
}

// FromEnv resolves the classpath from the environment: NSSCAN_CLASSPATH
// first, then CLASSPATH. Returns nil when neither is set.
func FromEnv() []string {
	if cp := os.Getenv(EnvClasspath); cp != "" {
		return Split(cp)
	}
	if cp := os.Getenv(EnvClasspathFallback); cp != "" {
		return Split(cp)
	}
	return nil
}

// ScanClasspath scans every entry in order and returns the flat
// concatenation of their namespace forms. prefix optionally narrows
// directory traversal and filters archive results by name.
func ScanClasspath(entries []string, prefix string, cfg Config) ([]types.NSForm, error) {
	var forms []types.NSForm
	for _, entry := range entries {
		found, err := ScanEntry(entry, prefix, cfg)
		if err != nil {
			return nil, err
		}
		forms = append(forms, found...)
	}
	return forms, nil
}

// ScanClasspathString is ScanClasspath over a separator-joined string.
func ScanClasspathString(cp string, prefix string, cfg Config) ([]types.NSForm, error) {
	return ScanClasspath(Split(cp), prefix, cfg)
}

// NamespaceSymbols reduces a classpath scan to just the namespace names, in
// scan order.
func NamespaceSymbols(entries []string, prefix string, cfg Config) ([]string, error) {
	forms, err := ScanClasspath(entries, prefix, cfg)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(forms))
	for _, f := range forms {
		names = append(names, f.Name)
	}
	return names, nil
}

// FindNamespace locates the form declaring name, checking entries in
// classpath order. Directory entries probe the conventional source path for
// the name first; namespaces living elsewhere (in-ns switches, nonstandard
// layouts) are found by a full walk. Returns types.ErrNoNamespace when no
// entry declares the name.
func FindNamespace(entries []string, name string, cfg Config) (*types.NSForm, error) {
	for _, entry := range entries {
		info, err := os.Stat(entry)
		if err != nil {
			continue
		}
		var forms []types.NSForm
		switch {
		case info.IsDir():
			forms, err = findInDir(entry, name, cfg)
		case isArchive(entry):
			forms, err = ScanArchive(entry, cfg)
		default:
			continue
		}
		if err != nil {
			return nil, err
		}
		for i := range forms {
			if forms[i].Name == name {
				return &forms[i], nil
			}
		}
	}
	return nil, fmt.Errorf("%s: %w", name, types.ErrNoNamespace)
}

// findInDir probes the paths a loader would expect for name; a full walk is
// the fallback for namespaces declared outside their conventional file.
func findInDir(dir, name string, cfg Config) ([]types.NSForm, error) {
	for _, ext := range []string{"clj", "cljc"} {
		path := filepath.Join(dir, filepath.FromSlash(types.PathForName(name, ext)))
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		forms, err := scanFileForms(path, cfg)
		if err != nil {
			return nil, err
		}
		for i := range forms {
			if forms[i].Name == name {
				return forms, nil
			}
		}
	}
	return ScanDir(dir, cfg)
}

// ScanEntry scans a single classpath entry. Directories are walked
// (narrowed by prefix), recognized archives are enumerated and
// post-filtered by prefix; anything else yields an empty result.
func ScanEntry(entry, prefix string, cfg Config) ([]types.NSForm, error) {
	info, err := os.Stat(entry)
	if err != nil {
		// A missing classpath entry is skipped like an unrecognized one.
		return nil, nil
	}
	switch {
	case info.IsDir():
		return scanDirEntry(entry, prefix, cfg)
	case isArchive(entry):
		forms, err := ScanArchive(entry, cfg)
		if err != nil {
			return nil, err
		}
		return filterByPrefix(forms, prefix), nil
	default:
		return nil, nil
	}
}

// isArchive reports whether the entry name has a recognized container
// suffix.
func isArchive(name string) bool {
	return strings.HasSuffix(name, ".jar") || strings.HasSuffix(name, ".zip")
}

// isSourceFile reports whether name matches a candidate source suffix:
// host-language files (.clj) or portable files (.cljc).
func isSourceFile(name string) bool {
	return strings.HasSuffix(name, ".clj") || strings.HasSuffix(name, ".cljc")
}

// filterByPrefix keeps forms whose namespace name starts with the raw
// prefix string.
func filterByPrefix(forms []types.NSForm, prefix string) []types.NSForm {
	if prefix == "" {
		return forms
	}
	kept := forms[:0]
	for _, f := range forms {
		if strings.HasPrefix(f.Name, prefix) {
			kept = append(kept, f)
		}
	}
	return kept
}

// prefixToRelPath translates a dotted-and-dashed namespace prefix into the
// relative directory it maps to on disk.
func prefixToRelPath(prefix string) string {
	return strings.NewReplacer("-", "_", ".", "/").Replace(prefix)
}
