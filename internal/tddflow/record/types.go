// Package record defines the persistent entity types tracked by tddflow:
// features, TDD sessions, test methods, and file associations.
package record

import (
	"fmt"
	"time"
)

// Kind identifies a record collection. Each kind persists to its own
// <kind>.jsonl file inside a project directory.
type Kind string

const (
	KindFeature     Kind = "features"
	KindSession     Kind = "tdd-sessions"
	KindTestMethod  Kind = "test-methods"
	KindFileAssoc   Kind = "session-files"
)

// Kinds lists every known collection, in persistence order.
func Kinds() []Kind {
	return []Kind{KindFeature, KindSession, KindTestMethod, KindFileAssoc}
}

// FeatureStatus is the lifecycle state of a feature.
type FeatureStatus string

const (
	StatusPlanning   FeatureStatus = "planning"
	StatusInProgress FeatureStatus = "in_progress"
	StatusCompleted  FeatureStatus = "completed"
	StatusOnHold     FeatureStatus = "on_hold"
	StatusCancelled  FeatureStatus = "cancelled"
)

// ParseFeatureStatus validates a status string.
func ParseFeatureStatus(s string) (FeatureStatus, error) {
	switch FeatureStatus(s) {
	case StatusPlanning, StatusInProgress, StatusCompleted, StatusOnHold, StatusCancelled:
		return FeatureStatus(s), nil
	}
	return "", fmt.Errorf("invalid feature status: %q", s)
}

// Priority is the scheduling priority of a feature.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// ParsePriority validates a priority string.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return Priority(s), nil
	}
	return "", fmt.Errorf("invalid priority: %q", s)
}

// Stage is a position in the red-green-refactor cycle.
type Stage string

const (
	StageRed      Stage = "red"
	StageGreen    Stage = "green"
	StageRefactor Stage = "refactor"
)

// ParseStage validates a TDD stage string.
func ParseStage(s string) (Stage, error) {
	switch Stage(s) {
	case StageRed, StageGreen, StageRefactor:
		return Stage(s), nil
	}
	return "", fmt.Errorf("invalid TDD stage: %q", s)
}

// Next returns the stage that follows s in the cycle.
func (s Stage) Next() Stage {
	switch s {
	case StageRed:
		return StageGreen
	case StageGreen:
		return StageRefactor
	default:
		return StageRed
	}
}

// TestStatus is the last known state of a registered test method.
type TestStatus string

const (
	TestPassed  TestStatus = "passed"
	TestFailed  TestStatus = "failed"
	TestSkipped TestStatus = "skipped"
	TestPending TestStatus = "pending"
)

// ParseTestStatus validates a test status string.
func ParseTestStatus(s string) (TestStatus, error) {
	switch TestStatus(s) {
	case TestPassed, TestFailed, TestSkipped, TestPending:
		return TestStatus(s), nil
	}
	return "", fmt.Errorf("invalid test status: %q", s)
}

// FileType classifies a file association.
type FileType string

const (
	FileTest           FileType = "test"
	FileImplementation FileType = "implementation"
	FileConfig         FileType = "config"
	FileDoc            FileType = "doc"
)

// ParseFileType validates a file type string.
func ParseFileType(s string) (FileType, error) {
	switch FileType(s) {
	case FileTest, FileImplementation, FileConfig, FileDoc:
		return FileType(s), nil
	}
	return "", fmt.Errorf("invalid file type: %q", s)
}

// Progress is an optional snapshot of feature progress, updated as tests
// are registered and executed.
type Progress struct {
	TestsWritten int      `json:"tests_written"`
	TestsPassing int      `json:"tests_passing"`
	Coverage     float64  `json:"coverage"`
	Files        []string `json:"files,omitempty"`
}

// Feature is a unit of planned work with acceptance criteria.
type Feature struct {
	ID                 string        `json:"id"`
	ProjectID          string        `json:"project_id"`
	Name               string        `json:"name"`
	Description        string        `json:"description,omitempty"`
	Status             FeatureStatus `json:"status"`
	Priority           Priority      `json:"priority"`
	AcceptanceCriteria []string      `json:"acceptance_criteria,omitempty"`
	Tags               []string      `json:"tags,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
	Progress           *Progress     `json:"progress,omitempty"`
}

// Session is a red-green-refactor working session against one feature.
// A session never reaches a terminal state; the stage cycles indefinitely
// and CycleCount increments on each refactor -> red transition.
type Session struct {
	ID         string    `json:"id"`
	FeatureID  string    `json:"feature_id"`
	Developer  string    `json:"developer,omitempty"`
	Stage      Stage     `json:"stage"`
	CycleCount int       `json:"cycle_count"`
	StartedAt  time.Time `json:"started_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Notes      []string  `json:"notes,omitempty"`
}

// Advance moves the session to the next stage, bumping the cycle count
// when a full cycle completes.
func (s *Session) Advance(now time.Time) {
	if s.Stage == StageRefactor {
		s.CycleCount++
	}
	s.Stage = s.Stage.Next()
	s.UpdatedAt = now
}

// ExecutionResult captures the outcome of one test run.
type ExecutionResult struct {
	DurationMs  int64   `json:"duration_ms"`
	Passed      bool    `json:"passed"`
	Output      string  `json:"output,omitempty"`
	ErrorOutput string  `json:"error_output,omitempty"`
	Coverage    float64 `json:"coverage,omitempty"`
}

// TestMethod is a registered test tracked across runs.
type TestMethod struct {
	ID         string           `json:"id"`
	FeatureID  string           `json:"feature_id"`
	FilePath   string           `json:"file_path"`
	Framework  string           `json:"framework,omitempty"`
	Status     TestStatus       `json:"status"`
	LastResult *ExecutionResult `json:"last_result,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// FileAssociation links a file on disk to a feature.
type FileAssociation struct {
	ID        string    `json:"id"`
	FeatureID string    `json:"feature_id"`
	FilePath  string    `json:"file_path"`
	FileType  FileType  `json:"file_type"`
	SizeBytes int64     `json:"size_bytes"`
	LineCount int       `json:"line_count"`
	CreatedAt time.Time `json:"created_at"`
}
