package cycle

import "sort"

// Classification buckets a commit by its relation to test files.
type Classification string

const (
	ClassTestFirst Classification = "test-first"
	ClassTestWith  Classification = "test-with"
	ClassTestAfter Classification = "test-after"
	ClassTestOnly  Classification = "test-only"
	ClassNoTest    Classification = "no-test"
	ClassNonCode   Classification = "non-code"
)

// ClassifiedCommit pairs a commit with its classification.
type ClassifiedCommit struct {
	Commit
	Classification Classification `json:"classification"`
}

// Breakdown counts commits per classification.
type Breakdown struct {
	TestFirst int `json:"test_first"`
	TestWith  int `json:"test_with"`
	TestAfter int `json:"test_after"`
	TestOnly  int `json:"test_only"`
	NoTest    int `json:"no_test"`
	NonCode   int `json:"non_code"`
}

// ComplianceResult is the history-wide score.
type ComplianceResult struct {
	TotalCommits     int                `json:"total_commits"`
	TotalCodeCommits int                `json:"total_code_commits"`
	Breakdown        Breakdown          `json:"breakdown"`
	Score            float64            `json:"score"`
	Grade            string             `json:"grade"`
	Commits          []ClassifiedCommit `json:"commits,omitempty"`
}

// ClassifyCommits buckets each commit, then refines code-only commits by
// temporal ordering: a commit whose implementation files have tests that
// first appear in an EARLIER commit is test-first (history is newest
// first, so a larger index means earlier in time); tests that first
// appear later make it test-after; no associated test leaves it no-test.
func ClassifyCommits(commits []Commit) []ClassifiedCommit {
	classified := make([]ClassifiedCommit, 0, len(commits))
	for _, c := range commits {
		hasTest, hasCode := false, false
		for _, file := range c.Files {
			switch {
			case IsTestFile(file):
				hasTest = true
			case IsCodeFile(file):
				hasCode = true
			}
		}

		var class Classification
		switch {
		case hasTest && hasCode:
			class = ClassTestWith
		case hasTest:
			class = ClassTestOnly
		case hasCode:
			class = ClassNoTest
		default:
			class = ClassNonCode
		}
		classified = append(classified, ClassifiedCommit{Commit: c, Classification: class})
	}

	testFirstSeen := make(map[string]int)
	for i, c := range classified {
		for _, file := range c.Files {
			if IsTestFile(file) {
				testFirstSeen[file] = i
			}
		}
	}

	for i := range classified {
		if classified[i].Classification != ClassNoTest {
			continue
		}
		sawEarlier, sawLater := false, false
		for _, file := range classified[i].Files {
			if !IsCodeFile(file) || IsTestFile(file) {
				continue
			}
			testFile := SuggestTestFile(file)
			testIdx, ok := testFirstSeen[testFile]
			if !ok {
				continue
			}
			if testIdx > i {
				sawEarlier = true
			} else if testIdx < i {
				sawLater = true
			}
		}
		if sawEarlier {
			classified[i].Classification = ClassTestFirst
		} else if sawLater {
			classified[i].Classification = ClassTestAfter
		}
	}
	return classified
}

// Compliance computes the weighted score over classified commits:
// test-first 100, test-with 75, test-after 25, no-test 0, averaged over
// code commits only.
func Compliance(classified []ClassifiedCommit) *ComplianceResult {
	var b Breakdown
	for _, c := range classified {
		switch c.Classification {
		case ClassTestFirst:
			b.TestFirst++
		case ClassTestWith:
			b.TestWith++
		case ClassTestAfter:
			b.TestAfter++
		case ClassTestOnly:
			b.TestOnly++
		case ClassNoTest:
			b.NoTest++
		case ClassNonCode:
			b.NonCode++
		}
	}

	codeCommits := b.TestFirst + b.TestWith + b.TestAfter + b.NoTest
	var score float64
	if codeCommits > 0 {
		points := float64(b.TestFirst)*100 + float64(b.TestWith)*75 + float64(b.TestAfter)*25
		score = points / float64(codeCommits)
	}

	sorted := make([]ClassifiedCommit, len(classified))
	copy(sorted, classified)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	return &ComplianceResult{
		TotalCommits:     len(classified),
		TotalCodeCommits: codeCommits,
		Breakdown:        b,
		Score:            score,
		Grade:            Grade(score),
		Commits:          sorted,
	}
}

// Grade maps a 0-100 score to a letter grade.
func Grade(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 75:
		return "B"
	case score >= 60:
		return "C"
	case score >= 40:
		return "D"
	default:
		return "F"
	}
}
