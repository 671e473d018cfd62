package index

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cljtools/nsscan/internal/classpath"
)

// SyncStats summarizes a cache refresh.
type SyncStats struct {
	EntriesScanned int
	EntriesFresh   int
	EntriesSkipped int
	Namespaces     int
	Duration       time.Duration
}

// Sync brings the cache up to date for the given classpath entries. An
// entry whose recorded mod-time and size still match the filesystem is
// left alone; anything else is rescanned and its rows replaced. Entries
// that no longer exist on disk are skipped (their cache rows are kept so a
// temporarily unmounted archive doesn't lose its index).
func Sync(ctx context.Context, store Storage, entries []string, cfg classpath.Config) (*SyncStats, error) {
	start := time.Now()
	stats := &SyncStats{}

	for _, path := range entries {
		info, err := os.Stat(path)
		if err != nil {
			stats.EntriesSkipped++
			continue
		}

		kind := "archive"
		if info.IsDir() {
			kind = "dir"
		}

		if cached, err := store.GetEntry(ctx, path); err == nil {
			// second precision: drivers differ in sub-second round-tripping
			if cached.Kind == kind && cached.ModTime.Unix() == info.ModTime().Unix() && cached.SizeBytes == info.Size() {
				stats.EntriesFresh++
				continue
			}
		} else if err != ErrNotFound {
			return nil, err
		}

		forms, err := classpath.ScanEntry(path, "", cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", path, err)
		}

		entry := &Entry{
			Path:      path,
			Kind:      kind,
			ModTime:   info.ModTime(),
			SizeBytes: info.Size(),
			ScannedAt: time.Now(),
		}
		if err := store.UpsertEntry(ctx, entry); err != nil {
			return nil, err
		}

		namespaces := make([]Namespace, 0, len(forms))
		for i := range forms {
			doc, _ := forms[i].Doc()
			namespaces = append(namespaces, Namespace{
				EntryID:  entry.ID,
				Name:     forms[i].Name,
				DeclKind: string(forms[i].Kind),
				FilePath: forms[i].Path,
				Doc:      doc,
			})
		}
		if err := store.ReplaceNamespaces(ctx, entry.ID, namespaces); err != nil {
			return nil, err
		}

		stats.EntriesScanned++
		stats.Namespaces += len(namespaces)
	}

	stats.Duration = time.Since(start)
	return stats, nil
}
