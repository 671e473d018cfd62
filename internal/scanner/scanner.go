package scanner

import (
	"fmt"
	"io"
	"os"

	"github.com/cljtools/nsscan/internal/reader"
	"github.com/cljtools/nsscan/pkg/types"
)

// Config controls per-file scanning behavior.
type Config struct {
	// Strict propagates parse and open failures instead of skipping the
	// file. The default (lenient) policy returns whatever forms were read
	// before the failure, or nothing at all.
	Strict bool
	// Mode is the reader configuration. The zero value behaves like
	// reader.DefaultMode.
	Mode reader.Mode
}

// FirstForm returns the first namespace-declaring form of the file, or nil
// if the file has none. In lenient mode an unreadable file also yields nil.
func FirstForm(path string, cfg Config) (*types.NSForm, error) {
	forms, err := scanFile(path, cfg, true)
	if err != nil || len(forms) == 0 {
		return nil, err
	}
	return &forms[0], nil
}

// AllForms returns every namespace-declaring form of the file in source
// order. In lenient mode a parse failure ends the file early, keeping the
// forms read up to that point.
func AllForms(path string, cfg Config) ([]types.NSForm, error) {
	return scanFile(path, cfg, false)
}

// FirstFormReader is FirstForm over an already-open stream, used for
// archive entries. name labels the stream in results and errors.
func FirstFormReader(r io.Reader, name string, cfg Config) (*types.NSForm, error) {
	forms, err := Scan(r, name, cfg, true)
	if err != nil || len(forms) == 0 {
		return nil, err
	}
	return &forms[0], nil
}

// AllFormsReader is AllForms over an already-open stream.
func AllFormsReader(r io.Reader, name string, cfg Config) ([]types.NSForm, error) {
	return Scan(r, name, cfg, false)
}

// scanFile opens path and scans it, releasing the handle on every path out.
func scanFile(path string, cfg Config, firstOnly bool) ([]types.NSForm, error) {
	f, err := os.Open(path)
	if err != nil {
		if cfg.Strict {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		return nil, nil
	}
	defer func() { _ = f.Close() }()

	return Scan(f, path, cfg, firstOnly)
}

// Scan reads forms from r and extracts the namespace-declaring ones. The
// first-only and all modes share this one traversal; firstOnly stops the
// read-ahead as soon as a form is found.
func Scan(r io.Reader, name string, cfg Config, firstOnly bool) ([]types.NSForm, error) {
	rd := reader.New(r, cfg.Mode)
	var forms []types.NSForm
	for {
		v, err := rd.Next()
		if err == io.EOF {
			return forms, nil
		}
		if err != nil {
			if cfg.Strict {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			// Lenient: treat the malformed tail as end of readable
			// content and keep what was parsed so far.
			return forms, nil
		}
		if f, ok := Extract(v); ok {
			f.Path = name
			forms = append(forms, f)
			if firstOnly {
				return forms, nil
			}
		}
	}
}

// Extract normalizes a parsed top-level form into an NSForm if it declares
// or switches the namespace. Declaration forms without a resolvable symbol
// are dropped (ok is false).
func Extract(v types.Value) (types.NSForm, bool) {
	head := v.HeadSymbol()
	if head != string(types.DeclNS) && head != string(types.DeclInNS) {
		return types.NSForm{}, false
	}
	if len(v.Children) < 2 {
		return types.NSForm{}, false
	}

	arg := v.Children[1]
	if head == string(types.DeclInNS) {
		// (in-ns 'x) reads as (in-ns (quote x)); strip the wrapper so both
		// declaration kinds share one shape.
		if arg.HeadSymbol() == "quote" && len(arg.Children) == 2 {
			arg = arg.Children[1]
		}
	}
	if arg.Kind != types.KindSymbol || arg.Text == "" {
		return types.NSForm{}, false
	}

	return types.NSForm{
		Kind:     types.DeclKind(head),
		Name:     arg.Text,
		NameMeta: arg.Meta,
		Rest:     v.Children[2:],
	}, true
}
