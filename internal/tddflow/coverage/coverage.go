// Package coverage runs test frameworks as subprocesses and scrapes the
// coverage artifacts they leave behind. Parsing is format-specific field
// extraction over LCOV, istanbul JSON, cobertura XML, Go cover profiles,
// and HTML reports; when no artifact is recognized, stdout substrings are
// the fallback signal.
package coverage

// Summary holds coverage percentages by dimension.
type Summary struct {
	Lines     float64 `json:"lines"`
	Functions float64 `json:"functions"`
	Branches  float64 `json:"branches"`
	Source    string  `json:"source,omitempty"`
}

// Percentage computes covered/total as a percentage, defining 0/0 as 0
// rather than an error.
func Percentage(covered, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(covered) * 100 / float64(total)
}

// MeetsThreshold reports whether the line coverage clears the threshold.
func (s *Summary) MeetsThreshold(threshold float64) bool {
	return s.Lines >= threshold
}
