package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/MajorE-Garage/arbshift/internal/extract"
)

func TestRun_ResultsMatchInputOrder(t *testing.T) {
	var paths []string
	for i := 0; i < 50; i++ {
		paths = append(paths, fmt.Sprintf("lib/file_%02d.dart", i))
	}

	results := Run(context.Background(), paths, 8, func(_ context.Context, path string) FileResult {
		return FileResult{
			Path:       path,
			Candidates: []extract.RawCandidate{{Value: "from " + path, File: path, Line: 1}},
		}
	})

	if len(results) != len(paths) {
		t.Fatalf("Expected %d results, got %d", len(paths), len(results))
	}
	for i, res := range results {
		if res.Path != paths[i] {
			t.Errorf("Result %d: got %s, want %s", i, res.Path, paths[i])
		}
		if res.Candidates[0].Value != "from "+paths[i] {
			t.Errorf("Result %d carries wrong candidates: %+v", i, res.Candidates)
		}
	}
}

func TestRun_BoundsConcurrency(t *testing.T) {
	const limit = 3
	var inFlight, peak int64

	paths := make([]string, 40)
	for i := range paths {
		paths[i] = fmt.Sprintf("f%d", i)
	}

	Run(context.Background(), paths, limit, func(_ context.Context, path string) FileResult {
		n := atomic.AddInt64(&inFlight, 1)
		for {
			p := atomic.LoadInt64(&peak)
			if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
				break
			}
		}
		atomic.AddInt64(&inFlight, -1)
		return FileResult{Path: path}
	})

	if p := atomic.LoadInt64(&peak); p > limit {
		t.Errorf("Expected at most %d workers in flight, observed %d", limit, p)
	}
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := Run(ctx, []string{"a", "b", "c"}, 2, func(_ context.Context, path string) FileResult {
		return FileResult{Path: path}
	})

	// Jobs that never got a worker slot report the context error. Jobs
	// already holding a slot may still complete; neither case may panic or
	// lose a slot.
	for _, res := range results {
		if res.Err != nil && !errors.Is(res.Err, context.Canceled) {
			t.Errorf("Unexpected error for %s: %v", res.Path, res.Err)
		}
	}
}

func TestRun_ZeroWorkersStillRuns(t *testing.T) {
	results := Run(context.Background(), []string{"only"}, 0, func(_ context.Context, path string) FileResult {
		return FileResult{Path: path}
	})
	if len(results) != 1 || results[0].Path != "only" {
		t.Errorf("Expected the single job to run, got %+v", results)
	}
}
