package scanner

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/vestige-dev/vestige/internal/scanner"
	"github.com/vestige-dev/vestige/pkg/config"
)

// ScanResult contains the result of a file scan.
type ScanResult struct {
	Files   []string
	Skipped int
}

// Service provides plugin source discovery.
type Service struct {
	config *config.Config
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// New creates a new scanner service.
func New(opts ...Option) *Service {
	s := &Service{
		config: config.LoadOrDefault(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScanPaths scans the given paths, directories recursively and files
// individually, and returns the plugin sources found. The result is
// deduplicated and sorted so downstream passes see a stable ordering.
func (s *Service) ScanPaths(paths []string) (*ScanResult, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	scan := scanner.NewScanner(s.config)
	seen := make(map[string]struct{})
	result := &ScanResult{}

	for _, path := range paths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, &PathError{Path: path, Err: err}
		}

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, &PathError{Path: path, Err: err}
		}

		if !info.IsDir() {
			ok, err := scan.ScanFile(absPath)
			if err != nil {
				return nil, &ScanError{Path: path, Err: err}
			}
			if ok {
				seen[absPath] = struct{}{}
			} else {
				result.Skipped++
			}
			continue
		}

		found, err := scan.ScanDir(absPath)
		if err != nil {
			return nil, &ScanError{Path: path, Err: err}
		}
		for _, f := range found {
			seen[f] = struct{}{}
		}
	}

	result.Files = make([]string, 0, len(seen))
	for f := range seen {
		result.Files = append(result.Files, f)
	}
	sort.Strings(result.Files)

	return result, nil
}

// PathError indicates an invalid path.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return "invalid path " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// ScanError indicates a scanning failure.
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return "failed to scan " + e.Path + ": " + e.Err.Error()
}

func (e *ScanError) Unwrap() error {
	return e.Err
}
