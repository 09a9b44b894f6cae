package quality

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestScanProject(t *testing.T) {
	root := t.TempDir()
	var longBody strings.Builder
	longBody.WriteString("export function sprawl(a: number) {\n")
	for i := 0; i < 40; i++ {
		longBody.WriteString("  console.log(a);\n")
	}
	longBody.WriteString("}\n")
	writeFile(t, root, "src/sprawl.ts", longBody.String())
	writeFile(t, root, "src/tidy.ts", "export function tidy() {\n  return 1;\n}\n")
	writeFile(t, root, "README.md", "not source\n")
	writeFile(t, root, "node_modules/dep/index.js", "function hidden() {}\n")

	report, err := ScanProject(context.Background(), root, DefaultRules())
	if err != nil {
		t.Fatalf("ScanProject() error = %v", err)
	}
	if report.FilesScanned != 2 {
		t.Errorf("FilesScanned = %d, want 2 (markdown and node_modules excluded)", report.FilesScanned)
	}

	var hitLong bool
	for _, f := range report.Findings {
		if f.Rule == "long_method" && f.Metric.Name == "sprawl" {
			hitLong = true
		}
	}
	if !hitLong {
		t.Errorf("expected long_method finding for sprawl, got %+v", report.Findings)
	}
}

func TestScanProjectHonorsGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "generated/\n")
	writeFile(t, root, "main.go", "package main\n\nfunc main() {}\n")
	writeFile(t, root, "generated/big.go", "package generated\n\nfunc Generated() {}\n")

	report, err := ScanProject(context.Background(), root, DefaultRules())
	if err != nil {
		t.Fatalf("ScanProject() error = %v", err)
	}
	if report.FilesScanned != 1 {
		t.Errorf("FilesScanned = %d, want 1 (generated/ ignored)", report.FilesScanned)
	}
}

func TestScanProjectBadRule(t *testing.T) {
	if _, err := ScanProject(context.Background(), t.TempDir(), []Rule{{Name: "bad", Condition: "lines ???"}}); err == nil {
		t.Error("expected error for uncompilable rule")
	}
}

func TestScanProjectRelativePathsInReport(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pkg/util.go", "package pkg\n\nfunc Util() {}\n")

	report, err := ScanProject(context.Background(), root, DefaultRules())
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Metrics) != 1 {
		t.Fatalf("len(Metrics) = %d, want 1", len(report.Metrics))
	}
	if report.Metrics[0].File != filepath.Join("pkg", "util.go") {
		t.Errorf("File = %q, want project-relative path", report.Metrics[0].File)
	}
}
