package quality

import (
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// duplicateWindow is the number of consecutive lines that must repeat
// before a block counts as duplication.
const duplicateWindow = 3

// similarityThreshold is the go-diff confirmation level for candidate
// blocks matched by normalized line equality.
const similarityThreshold = 0.9

// Duplicate is one detected repeated block.
type Duplicate struct {
	Lines int      `json:"lines"`
	Files []string `json:"files"`
	Block string   `json:"block"`
}

// fileLines holds a file's normalized source for window hashing.
type fileLines struct {
	path  string
	lines []string
}

// occurrence is one sighting of a line window in a file.
type occurrence struct {
	path  string
	block string
}

// DetectDuplication finds blocks of duplicateWindow or more equal lines
// across the given sources. Candidates found by normalized line equality
// are confirmed with a character-level diff similarity check, which
// filters out near-misses the line normalization conflates.
func DetectDuplication(sources map[string][]byte) []Duplicate {
	var files []fileLines
	for path, src := range sources {
		files = append(files, fileLines{path: path, lines: normalizeLines(src)})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].path < files[j].path })

	windows := make(map[string][]occurrence)
	for _, f := range files {
		for i := 0; i+duplicateWindow <= len(f.lines); i++ {
			window := f.lines[i : i+duplicateWindow]
			if emptyWindow(window) {
				continue
			}
			key := strings.Join(window, "\n")
			windows[key] = append(windows[key], occurrence{path: f.path, block: key})
		}
	}

	dmp := diffmatchpatch.New()
	seen := make(map[string]bool)
	var duplicates []Duplicate
	for key, occs := range windows {
		if len(occs) < 2 {
			continue
		}
		paths := uniquePaths(occs)
		if !confirmSimilar(dmp, occs[0].block, occs[1].block) {
			continue
		}
		sig := strings.Join(paths, "|")
		if seen[sig+key] {
			continue
		}
		seen[sig+key] = true
		duplicates = append(duplicates, Duplicate{
			Lines: duplicateWindow,
			Files: paths,
			Block: key,
		})
	}

	sort.Slice(duplicates, func(i, j int) bool {
		return duplicates[i].Block < duplicates[j].Block
	})
	return duplicates
}

// confirmSimilar measures character-level similarity between two blocks.
func confirmSimilar(dmp *diffmatchpatch.DiffMatchPatch, a, b string) bool {
	if a == b {
		return true
	}
	diffs := dmp.DiffMain(a, b, false)
	distance := dmp.DiffLevenshtein(diffs)
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return false
	}
	return 1.0-float64(distance)/float64(longest) >= similarityThreshold
}

// normalizeLines trims whitespace and drops comment-only lines so that
// formatting differences do not hide duplication.
func normalizeLines(src []byte) []string {
	raw := strings.Split(string(src), "\n")
	lines := make([]string, len(raw))
	for i, line := range raw {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "#") {
			trimmed = ""
		}
		lines[i] = trimmed
	}
	return lines
}

func emptyWindow(window []string) bool {
	for _, line := range window {
		if line == "" || line == "}" || line == "{" {
			return true
		}
	}
	return false
}

func uniquePaths(occs []occurrence) []string {
	seen := make(map[string]bool)
	var paths []string
	for _, o := range occs {
		if !seen[o.path] {
			seen[o.path] = true
			paths = append(paths, o.path)
		}
	}
	sort.Strings(paths)
	return paths
}
