// Package quality computes refactoring heuristics over project source.
// Metrics come from brace and line counting, not a parser, so both false
// positives and false negatives are expected.
package quality

import (
	"path/filepath"
	"regexp"
	"strings"
)

// FunctionMetric is the per-function measurement set the rules run over.
type FunctionMetric struct {
	File      string `json:"file"`
	Name      string `json:"name"`
	StartLine int    `json:"start_line"`
	Lines     int    `json:"lines"`
	Nesting   int    `json:"nesting"`
	Params    int    `json:"params"`
}

var (
	goFuncPattern     = regexp.MustCompile(`^\s*func\s+(?:\([^)]*\)\s*)?(\w+)\s*\(([^)]*)`)
	jsFuncPattern     = regexp.MustCompile(`^\s*(?:export\s+)?(?:async\s+)?function\s+(\w+)\s*\(([^)]*)`)
	jsMethodPattern   = regexp.MustCompile(`^\s*(?:public|private|protected)?\s*(?:async\s+)?(\w+)\s*\(([^)]*)\)\s*(?::[^{]*)?\{`)
	pyFuncPattern     = regexp.MustCompile(`^(\s*)def\s+(\w+)\s*\(([^)]*)`)
	branchPattern     = regexp.MustCompile(`^\s*(?:}?\s*)?(if|else if|elif|for|while|switch|case|match)\b`)

	// Control keywords that jsMethodPattern would otherwise mistake for
	// method definitions.
	controlKeywords = map[string]bool{
		"if": true, "for": true, "while": true, "switch": true,
		"catch": true, "return": true,
	}
)

// AnalyzeSource extracts function metrics from one source file. Brace
// languages are measured by brace balancing; Python by indentation.
func AnalyzeSource(path string, src []byte) []FunctionMetric {
	lines := strings.Split(string(src), "\n")
	if strings.EqualFold(filepath.Ext(path), ".py") {
		return analyzePython(path, lines)
	}
	return analyzeBraced(path, lines)
}

func analyzeBraced(path string, lines []string) []FunctionMetric {
	var metrics []FunctionMetric

	for i := 0; i < len(lines); i++ {
		name, params, ok := matchBracedFunc(path, lines[i])
		if !ok {
			continue
		}

		depth := 0
		branchDepth := 0
		maxBranch := 0
		started := false
		end := i
		for j := i; j < len(lines); j++ {
			line := lines[j]
			if branchPattern.MatchString(line) {
				branchDepth++
				if branchDepth > maxBranch {
					maxBranch = branchDepth
				}
			}
			opens := strings.Count(line, "{")
			closes := strings.Count(line, "}")
			if closes > 0 && branchDepth > 0 {
				branchDepth -= min(closes, branchDepth)
			}
			depth += opens - closes
			if opens > 0 {
				started = true
			}
			if started && depth <= 0 {
				end = j
				break
			}
			end = j
		}

		metrics = append(metrics, FunctionMetric{
			File:      path,
			Name:      name,
			StartLine: i + 1,
			Lines:     end - i + 1,
			Nesting:   maxBranch,
			Params:    countParams(params),
		})
		i = end
	}
	return metrics
}

func matchBracedFunc(path, line string) (name, params string, ok bool) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".go":
		if m := goFuncPattern.FindStringSubmatch(line); m != nil {
			return m[1], m[2], true
		}
	case ".ts", ".tsx", ".js", ".jsx", ".java", ".cs", ".rs":
		if m := jsFuncPattern.FindStringSubmatch(line); m != nil {
			return m[1], m[2], true
		}
		if m := jsMethodPattern.FindStringSubmatch(line); m != nil && !controlKeywords[m[1]] {
			return m[1], m[2], true
		}
	}
	return "", "", false
}

func analyzePython(path string, lines []string) []FunctionMetric {
	var metrics []FunctionMetric

	for i := 0; i < len(lines); i++ {
		m := pyFuncPattern.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		indent := len(m[1])
		name := m[2]
		params := m[3]

		maxBranch := 0
		end := i
		for j := i + 1; j < len(lines); j++ {
			line := lines[j]
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				end = j
				continue
			}
			lineIndent := len(line) - len(strings.TrimLeft(line, " \t"))
			if lineIndent <= indent {
				break
			}
			if branchPattern.MatchString(line) {
				// Approximate nesting by indentation depth below the def.
				depth := (lineIndent - indent) / 4
				if depth > maxBranch {
					maxBranch = depth
				}
			}
			end = j
		}

		metrics = append(metrics, FunctionMetric{
			File:      path,
			Name:      name,
			StartLine: i + 1,
			Lines:     end - i + 1,
			Nesting:   maxBranch,
			Params:    countParams(params),
		})
	}
	return metrics
}

func countParams(params string) int {
	params = strings.TrimSpace(params)
	if params == "" {
		return 0
	}
	count := 0
	for _, p := range strings.Split(params, ",") {
		p = strings.TrimSpace(p)
		if p == "" || p == "self" || p == "cls" {
			continue
		}
		count++
	}
	return count
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
