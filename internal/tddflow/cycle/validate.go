package cycle

import (
	"context"
	"strings"
	"time"

	"github.com/tddworks/tddflow/internal/tddflow/coverage"
	"github.com/tddworks/tddflow/internal/tddflow/record"
)

// Deductions per violation category. The adherence score starts at 100
// and floors at 0.
const (
	deductNoTest      = 15
	deductNoRed       = 10
	deductRefactorRed = 10
	deductOversized   = 5
)

// oversizedFiles is the changed-file count above which a commit is too
// large for one red-green-refactor cycle.
const oversizedFiles = 10

var (
	testKeywords     = []string{"test", "spec", "tdd", "red"}
	implKeywords     = []string{"fix", "implement", "feat", "add", "green", "pass"}
	refactorKeywords = []string{"refactor", "cleanup", "clean up", "simplify", "extract", "rename"}
)

// Violation is one detected departure from the red-green-refactor loop.
type Violation struct {
	Kind       string `json:"kind"`
	MessageKey string `json:"-"`
	Commit     string `json:"commit,omitempty"`
	Files      int    `json:"files,omitempty"`
	Deduction  int    `json:"deduction"`
}

// QuickTestResult is the outcome of the probe run used to classify the
// current stage.
type QuickTestResult struct {
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// Validation is the full cycle-validation report.
type Validation struct {
	Stage      record.Stage      `json:"stage"`
	QuickTest  QuickTestResult   `json:"quick_test"`
	Adherence  int               `json:"adherence"`
	Grade      string            `json:"grade"`
	Violations []Violation       `json:"violations,omitempty"`
	Compliance *ComplianceResult `json:"compliance,omitempty"`
}

// RunQuickTest probes the project's current test state with a short
// bounded run of its framework.
func RunQuickTest(ctx context.Context, projectPath, framework string) QuickTestResult {
	result, err := coverage.RunTests(ctx, coverage.RunRequest{
		ProjectPath: projectPath,
		Framework:   framework,
		Timeout:     30 * time.Second,
	})
	if err != nil {
		return QuickTestResult{Failed: 1}
	}
	return QuickTestResult{Passed: result.Passed, Failed: result.Failed}
}

// ClassifyStage maps a quick-test outcome and the latest commit subject
// to a cycle stage: failing tests mean red; passing tests mean green, or
// refactor when the latest commit subject signals refactoring work.
func ClassifyStage(quick QuickTestResult, latestSubject string) record.Stage {
	if quick.Failed > 0 {
		return record.StageRed
	}
	if quick.Passed > 0 {
		if matchesAny(latestSubject, refactorKeywords) {
			return record.StageRefactor
		}
		return record.StageGreen
	}
	return record.StageRed
}

// Validate scores adherence over a commit history (newest first) combined
// with a quick-test probe. Deductions: implementation commits with no
// tests, implementation before any test commit, refactoring while the
// preceding commit left tests red, and oversized commits.
func Validate(commits []Commit, quick QuickTestResult) *Validation {
	classified := ClassifyCommits(commits)
	compliance := Compliance(classified)

	var violations []Violation
	score := 100

	// Walk oldest to newest tracking the keyword phase of the loop.
	sawTestCommit := false
	lastPhase := ""
	for i := len(classified) - 1; i >= 0; i-- {
		c := classified[i]
		subject := strings.ToLower(c.Subject)

		switch {
		case matchesAny(subject, refactorKeywords):
			if lastPhase == "red" {
				violations = append(violations, Violation{
					Kind:       "refactor_while_red",
					MessageKey: "cycle.violation.refactor_red",
					Commit:     c.Hash,
					Deduction:  deductRefactorRed,
				})
				score -= deductRefactorRed
			}
			lastPhase = "refactor"
		case matchesAny(subject, testKeywords):
			sawTestCommit = true
			lastPhase = "red"
		case matchesAny(subject, implKeywords):
			if !sawTestCommit && c.Classification != ClassNonCode {
				violations = append(violations, Violation{
					Kind:       "implementation_before_test",
					MessageKey: "cycle.violation.no_red",
					Commit:     c.Hash,
					Deduction:  deductNoRed,
				})
				score -= deductNoRed
			}
			lastPhase = "green"
		}

		if c.Classification == ClassNoTest {
			violations = append(violations, Violation{
				Kind:       "no_test",
				MessageKey: "cycle.violation.no_test",
				Commit:     c.Hash,
				Deduction:  deductNoTest,
			})
			score -= deductNoTest
		}
		if len(c.Files) > oversizedFiles {
			violations = append(violations, Violation{
				Kind:       "oversized_commit",
				MessageKey: "cycle.violation.oversized",
				Commit:     c.Hash,
				Files:      len(c.Files),
				Deduction:  deductOversized,
			})
			score -= deductOversized
		}
	}
	if score < 0 {
		score = 0
	}

	latestSubject := ""
	if len(commits) > 0 {
		latestSubject = strings.ToLower(commits[0].Subject)
	}

	return &Validation{
		Stage:      ClassifyStage(quick, latestSubject),
		QuickTest:  quick,
		Adherence:  score,
		Grade:      Grade(float64(score)),
		Violations: violations,
		Compliance: compliance,
	}
}

func matchesAny(subject string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(subject, kw) {
			return true
		}
	}
	return false
}
