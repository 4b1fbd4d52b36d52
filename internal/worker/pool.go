// Package worker fans file-scoped jobs out over a bounded set of
// goroutines. Results come back indexed by input position, so the merge
// step downstream stays deterministic regardless of scheduling.
package worker

import (
	"context"
	"sync"

	"github.com/MajorE-Garage/arbshift/internal/extract"
)

// FileResult is the outcome of scanning one file.
type FileResult struct {
	Path       string
	Candidates []extract.RawCandidate
	Err        error
}

// ScanFunc extracts candidates from a single file.
type ScanFunc func(ctx context.Context, path string) FileResult

// Run executes fn for every path with at most workers goroutines in
// flight. The returned slice is ordered like paths.
func Run(ctx context.Context, paths []string, workers int, fn ScanFunc) []FileResult {
	if workers <= 0 {
		workers = 1
	}

	results := make([]FileResult, len(paths))
	semaphore := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, path := range paths {
		wg.Add(1)
		go func(idx int, p string) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = FileResult{Path: p, Err: ctx.Err()}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			results[idx] = fn(ctx, p)
		}(i, path)
	}

	wg.Wait()
	return results
}
