package quality

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	gitignore "github.com/sabhiram/go-gitignore"
	"golang.org/x/sync/errgroup"
)

// maxScanFiles bounds the scan; the heuristics operate over the first N
// source files only.
const maxScanFiles = 50

// scanConcurrency bounds parallel file reads.
const scanConcurrency = 8

// sourceExtensions are the file types the heuristics understand.
var sourceExtensions = map[string]bool{
	".go": true, ".ts": true, ".tsx": true, ".js": true, ".jsx": true,
	".py": true, ".java": true, ".rs": true, ".cs": true,
}

// skippedDirs are never descended into.
var skippedDirs = map[string]bool{
	".git": true, "node_modules": true, "vendor": true, "dist": true,
	"build": true, "target": true, "__pycache__": true,
}

// Report is the result of one project scan.
type Report struct {
	FilesScanned int              `json:"files_scanned"`
	Metrics      []FunctionMetric `json:"metrics,omitempty"`
	Findings     []Finding        `json:"findings,omitempty"`
	Duplicates   []Duplicate      `json:"duplicates,omitempty"`
}

// ScanProject walks the project tree (honoring .gitignore when present),
// reads up to maxScanFiles source files concurrently, and evaluates the
// given rules plus duplication detection over them.
func ScanProject(ctx context.Context, projectPath string, rules []Rule) (*Report, error) {
	compiled, err := CompileRules(rules)
	if err != nil {
		return nil, err
	}

	paths, err := collectSourceFiles(projectPath)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	sources := make(map[string][]byte, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(scanConcurrency)
	for _, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			rel, relErr := filepath.Rel(projectPath, path)
			if relErr != nil {
				rel = path
			}
			mu.Lock()
			sources[rel] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{FilesScanned: len(sources)}

	relPaths := make([]string, 0, len(sources))
	for rel := range sources {
		relPaths = append(relPaths, rel)
	}
	sort.Strings(relPaths)
	for _, rel := range relPaths {
		report.Metrics = append(report.Metrics, AnalyzeSource(rel, sources[rel])...)
	}

	report.Findings, err = Evaluate(compiled, report.Metrics)
	if err != nil {
		return nil, err
	}
	report.Duplicates = DetectDuplication(sources)
	return report, nil
}

// collectSourceFiles gathers up to maxScanFiles source paths under root.
func collectSourceFiles(root string) ([]string, error) {
	var ignore *gitignore.GitIgnore
	if matcher, err := gitignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
		ignore = matcher
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skippedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if len(paths) >= maxScanFiles {
			return filepath.SkipAll
		}
		if !sourceExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		if ignore != nil {
			if rel, relErr := filepath.Rel(root, path); relErr == nil && ignore.MatchesPath(rel) {
				return nil
			}
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return paths, nil
}
