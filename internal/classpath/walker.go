package classpath

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cljtools/nsscan/internal/scanner"
	"github.com/cljtools/nsscan/pkg/types"
)

// CorruptArchiveError reports an archive container that could not be opened
// or enumerated. It is always fatal, even in lenient mode: the whole entry
// is lost, not just one file inside it.
type CorruptArchiveError struct {
	Path string
	Err  error
}

func (e *CorruptArchiveError) Error() string {
	return fmt.Sprintf("corrupt archive %s: %v", e.Path, e.Err)
}

func (e *CorruptArchiveError) Unwrap() error {
	return e.Err
}

// ScanDir recursively scans every candidate source file under root,
// preserving directory-traversal order.
func ScanDir(root string, cfg Config) ([]types.NSForm, error) {
	var forms []types.NSForm
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if cfg.Strict {
				return err
			}
			// Lenient: an unlistable directory is skipped like an
			// unreadable file; only corrupt archives are fatal.
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() || !info.Mode().IsRegular() || !isSourceFile(info.Name()) {
			return nil
		}
		found, err := scanFileForms(path, cfg)
		if err != nil {
			return err
		}
		forms = append(forms, found...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return forms, nil
}

// scanDirEntry applies prefix narrowing before walking: the dotted prefix
// is translated into a subdirectory so only that subtree is visited.
func scanDirEntry(dir, prefix string, cfg Config) ([]types.NSForm, error) {
	root := dir
	if prefix != "" {
		root = filepath.Join(dir, filepath.FromSlash(prefixToRelPath(prefix)))
		if info, err := os.Stat(root); err != nil || !info.IsDir() {
			return nil, nil
		}
	}
	return ScanDir(root, cfg)
}

// ScanArchive enumerates the entries of a zip-based container and scans
// every candidate entry through a stream opened directly on the archive.
func ScanArchive(path string, cfg Config) ([]types.NSForm, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, &CorruptArchiveError{Path: path, Err: err}
	}
	defer func() { _ = zr.Close() }()

	var forms []types.NSForm
	for _, entry := range zr.File {
		if !isSourceFile(entry.Name) {
			continue
		}
		found, err := scanArchiveEntry(path, entry, cfg)
		if err != nil {
			return nil, err
		}
		forms = append(forms, found...)
	}
	return forms, nil
}

// scanArchiveEntry scans one archive member, closing its stream on every
// path out.
func scanArchiveEntry(archivePath string, entry *zip.File, cfg Config) ([]types.NSForm, error) {
	rc, err := entry.Open()
	if err != nil {
		if cfg.Strict {
			return nil, fmt.Errorf("failed to open %s!%s: %w", archivePath, entry.Name, err)
		}
		return nil, nil
	}
	defer func() { _ = rc.Close() }()

	name := archivePath + "!" + entry.Name
	if cfg.FirstOnly {
		form, err := scanner.FirstFormReader(rc, name, cfg.scanCfg())
		if err != nil || form == nil {
			return nil, err
		}
		return []types.NSForm{*form}, nil
	}
	return scanner.AllFormsReader(rc, name, cfg.scanCfg())
}

// scanFileForms scans one filesystem file according to cfg.FirstOnly.
func scanFileForms(path string, cfg Config) ([]types.NSForm, error) {
	if cfg.FirstOnly {
		form, err := scanner.FirstForm(path, cfg.scanCfg())
		if err != nil || form == nil {
			return nil, err
		}
		return []types.NSForm{*form}, nil
	}
	return scanner.AllForms(path, cfg.scanCfg())
}
