package classpath

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/cljtools/nsscan/pkg/types"
)

// ScanClasspathParallel scans classpath entries concurrently, one scan per
// entry, with at most workers goroutines (default runtime.NumCPU). Each
// entry's scan is independent and side-effect free, so results are
// collected per entry and concatenated in entry order; output is identical
// to ScanClasspath. The first fatal error cancels the remaining scans.
func ScanClasspathParallel(ctx context.Context, entries []string, prefix string, cfg Config, workers int) ([]types.NSForm, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	perEntry := make([][]types.NSForm, len(entries))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, entry := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			found, err := ScanEntry(entry, prefix, cfg)
			if err != nil {
				return err
			}
			perEntry[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var forms []types.NSForm
	for _, found := range perEntry {
		forms = append(forms, found...)
	}
	return forms, nil
}
