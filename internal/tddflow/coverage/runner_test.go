package coverage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestProbeArtifactsPrefersLCOV(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "coverage"), 0755); err != nil {
		t.Fatal(err)
	}
	lcov := "SF:a.ts\nLF:10\nLH:9\nend_of_record\n"
	if err := os.WriteFile(filepath.Join(dir, "coverage", "lcov.info"), []byte(lcov), 0644); err != nil {
		t.Fatal(err)
	}
	summaryJSON := `{"total": {"lines": {"pct": 50}}}`
	if err := os.WriteFile(filepath.Join(dir, "coverage", "coverage-summary.json"), []byte(summaryJSON), 0644); err != nil {
		t.Fatal(err)
	}

	summary := ProbeArtifacts(dir)
	if summary == nil {
		t.Fatal("ProbeArtifacts() = nil, want lcov summary")
	}
	if summary.Source != "lcov" || summary.Lines != 90 {
		t.Errorf("summary = %+v, want lcov at 90 (probe order)", summary)
	}
}

func TestProbeArtifactsFallsThroughBadArtifact(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "lcov.info"), []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "cover.out"), []byte("mode: set\na.go:1.1,2.2 4 1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	summary := ProbeArtifacts(dir)
	if summary == nil || summary.Source != "go-cover" {
		t.Errorf("summary = %+v, want go-cover fallback", summary)
	}
}

func TestProbeArtifactsNone(t *testing.T) {
	if summary := ProbeArtifacts(t.TempDir()); summary != nil {
		t.Errorf("ProbeArtifacts(empty dir) = %+v, want nil", summary)
	}
}

func TestRunTestsUnsupportedFramework(t *testing.T) {
	_, err := RunTests(context.Background(), RunRequest{
		ProjectPath: t.TempDir(),
		Framework:   "mocha",
	})
	if err == nil {
		t.Fatal("expected error for unsupported framework")
	}
	if _, ok := err.(*UnsupportedFrameworkError); !ok {
		t.Errorf("error type = %T, want *UnsupportedFrameworkError", err)
	}
}

func TestRunTestsMissingBinaryDegrades(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PATH", dir) // nothing executable on PATH

	result, err := RunTests(context.Background(), RunRequest{
		ProjectPath: dir,
		Framework:   "phpunit",
	})
	if err != nil {
		t.Fatalf("RunTests() error = %v, want synthetic result instead", err)
	}
	if !result.Synthetic {
		t.Error("Synthetic = false, want true for a missing binary")
	}
	if result.Success || result.Failed != 1 {
		t.Errorf("result = %+v, want one synthetic failure", result)
	}
	if result.Output == "" {
		t.Error("Output should carry the launch error")
	}
}
