// Package fileproc provides parallel file processing fan-out for the
// analysis pipeline.
package fileproc

import (
	"runtime"
	"sync"

	"github.com/sourcegraph/conc/pool"
	"github.com/vestige-dev/vestige/pkg/parser"
)

// DefaultWorkerMultiplier scales worker count relative to NumCPU.
const DefaultWorkerMultiplier = 2

// ProgressFunc is called after each file completes processing.
type ProgressFunc func()

// ErrorFunc is called when a file fails processing.
type ErrorFunc func(path string, err error)

// MapFiles parses files in parallel, calling fn with a per-file parser.
// Files whose fn returns an error are skipped; result order is unspecified.
func MapFiles[T any](files []string, fn func(*parser.Parser, string) (T, error)) []T {
	return MapFilesWithProgress(files, fn, nil)
}

// MapFilesWithProgress is MapFiles with an optional per-file progress callback.
func MapFilesWithProgress[T any](files []string, fn func(*parser.Parser, string) (T, error), onProgress ProgressFunc) []T {
	if len(files) == 0 {
		return nil
	}

	maxWorkers := runtime.NumCPU() * DefaultWorkerMultiplier
	results := make([]T, 0, len(files))
	var mu sync.Mutex

	p := pool.New().WithMaxGoroutines(maxWorkers)
	for _, path := range files {
		p.Go(func() {
			psr := parser.New()
			defer psr.Close()

			result, err := fn(psr, path)

			if onProgress != nil {
				onProgress()
			}
			if err != nil {
				return
			}

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		})
	}
	p.Wait()

	return results
}

// ForEachFile processes files in parallel without a parser. Use for
// non-AST work such as hashing or raw text scans.
func ForEachFile[T any](files []string, fn func(string) (T, error)) []T {
	return ForEachFileN(files, 0, fn, nil, nil)
}

// ForEachFileN processes files with a configurable worker count and
// optional callbacks. maxWorkers <= 0 selects the default.
func ForEachFileN[T any](files []string, maxWorkers int, fn func(string) (T, error), onProgress ProgressFunc, onError ErrorFunc) []T {
	if len(files) == 0 {
		return nil
	}
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU() * DefaultWorkerMultiplier
	}

	results := make([]T, 0, len(files))
	var mu sync.Mutex

	p := pool.New().WithMaxGoroutines(maxWorkers)
	for _, path := range files {
		p.Go(func() {
			result, err := fn(path)

			if onProgress != nil {
				onProgress()
			}
			if err != nil {
				if onError != nil {
					onError(path, err)
				}
				return
			}

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		})
	}
	p.Wait()

	return results
}
