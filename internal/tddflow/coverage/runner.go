package coverage

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout bounds a single test run.
const DefaultTimeout = 120 * time.Second

// RunRequest describes one test execution.
type RunRequest struct {
	ProjectPath string
	Framework   string
	Pattern     string // optional test file or name filter
	Timeout     time.Duration
}

// RunResult is the outcome of a test run, including any coverage summary
// recovered from artifacts the framework wrote.
type RunResult struct {
	Framework  string   `json:"framework"`
	Command    []string `json:"command"`
	Success    bool     `json:"success"`
	Passed     int      `json:"passed"`
	Failed     int      `json:"failed"`
	Skipped    int      `json:"skipped"`
	DurationMs int64    `json:"duration_ms"`
	Output     string   `json:"output"`
	Coverage   *Summary `json:"coverage,omitempty"`
	Synthetic  bool     `json:"synthetic,omitempty"`
}

// UnsupportedFrameworkError reports a framework the runner cannot invoke.
type UnsupportedFrameworkError struct {
	Framework string
}

func (e *UnsupportedFrameworkError) Error() string {
	return fmt.Sprintf("unsupported test framework: %s", e.Framework)
}

// frameworkCommand maps a framework name to its coverage-enabled argv.
func frameworkCommand(framework, pattern string) ([]string, error) {
	switch strings.ToLower(strings.TrimSpace(framework)) {
	case "jest":
		argv := []string{"npx", "jest", "--coverage", "--coverageReporters=json-summary", "--coverageReporters=lcov"}
		if pattern != "" {
			argv = append(argv, pattern)
		}
		return argv, nil
	case "vitest":
		argv := []string{"npx", "vitest", "run", "--coverage"}
		if pattern != "" {
			argv = append(argv, pattern)
		}
		return argv, nil
	case "pytest":
		argv := []string{"python", "-m", "pytest", "--cov", "--cov-report=xml", "--cov-report=term"}
		if pattern != "" {
			argv = append(argv, "-k", pattern)
		}
		return argv, nil
	case "go test", "gotest":
		argv := []string{"go", "test", "-coverprofile=cover.out"}
		if pattern != "" {
			argv = append(argv, "-run", pattern)
		}
		return append(argv, "./..."), nil
	case "junit", "maven":
		return []string{"mvn", "test"}, nil
	case "cargo test", "cargo":
		argv := []string{"cargo", "test"}
		if pattern != "" {
			argv = append(argv, pattern)
		}
		return argv, nil
	case "dotnet test", "dotnet":
		return []string{"dotnet", "test", "--collect:XPlat Code Coverage"}, nil
	case "phpunit":
		return []string{"phpunit", "--coverage-text"}, nil
	default:
		return nil, &UnsupportedFrameworkError{Framework: framework}
	}
}

// artifactProbe pairs a well-known coverage artifact path with its parser.
type artifactProbe struct {
	path  string
	parse func([]byte) (*Summary, error)
}

var artifactProbes = []artifactProbe{
	{filepath.Join("coverage", "lcov.info"), ParseLCOV},
	{"lcov.info", ParseLCOV},
	{filepath.Join("coverage", "coverage-summary.json"), ParseIstanbulSummary},
	{filepath.Join("coverage", "coverage-final.json"), ParseIstanbulFinal},
	{"coverage.xml", ParseCobertura},
	{"cover.out", ParseGoProfile},
	{filepath.Join("coverage", "index.html"), ParseHTMLReport},
	{filepath.Join("coverage", "lcov-report", "index.html"), ParseHTMLReport},
}

// ProbeArtifacts tries each well-known coverage artifact under projectPath
// in order and returns the first that parses.
func ProbeArtifacts(projectPath string) *Summary {
	for _, probe := range artifactProbes {
		data, err := os.ReadFile(filepath.Join(projectPath, probe.path))
		if err != nil {
			continue
		}
		summary, err := probe.parse(data)
		if err != nil {
			continue
		}
		return summary
	}
	return nil
}

// RunTests executes the framework's test command under projectPath and
// assembles counts from stdout plus coverage from artifacts. A subprocess
// that cannot run at all degrades to a synthetic single-failure result so
// callers always receive a usable report.
func RunTests(ctx context.Context, req RunRequest) (*RunResult, error) {
	argv, err := frameworkCommand(req.Framework, req.Pattern)
	if err != nil {
		return nil, err
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = req.ProjectPath

	start := time.Now()
	out, runErr := cmd.CombinedOutput()
	elapsed := time.Since(start)

	result := &RunResult{
		Framework:  req.Framework,
		Command:    argv,
		Output:     string(out),
		DurationMs: elapsed.Milliseconds(),
	}
	result.Passed, result.Failed, result.Skipped = scrapeCounts(result.Output)
	result.Coverage = ProbeArtifacts(req.ProjectPath)

	switch {
	case runErr == nil:
		result.Success = result.Failed == 0
	case result.Passed > 0 || result.Failed > 0:
		// The framework ran and reported failures through its exit code.
		result.Success = false
	default:
		// The subprocess never produced test output (missing binary,
		// timeout, broken project). Degrade to one failed test.
		result.Success = false
		result.Failed = 1
		result.Synthetic = true
		if result.Output == "" {
			result.Output = runErr.Error()
		}
	}
	return result, nil
}

var (
	jestLinePattern   = regexp.MustCompile(`Tests:\s+(.+)`)
	jestCountPattern  = regexp.MustCompile(`(\d+)\s+(failed|skipped|passed|todo)`)
	pytestPattern     = regexp.MustCompile(`(\d+)\s+(passed|failed|skipped|error)`)
	goTestFailPattern = regexp.MustCompile(`(?m)^--- FAIL`)
	goTestPassPattern = regexp.MustCompile(`(?m)^--- PASS`)
)

// scrapeCounts extracts pass/fail/skip counts from framework stdout. Jest
// summary lines take priority, then pytest-style counts, then go test
// markers, then checkmark glyphs.
func scrapeCounts(output string) (passed, failed, skipped int) {
	if m := jestLinePattern.FindStringSubmatch(output); m != nil {
		for _, count := range jestCountPattern.FindAllStringSubmatch(m[1], -1) {
			n, _ := strconv.Atoi(count[1])
			switch count[2] {
			case "passed":
				passed += n
			case "failed":
				failed += n
			case "skipped", "todo":
				skipped += n
			}
		}
		return passed, failed, skipped
	}

	if counts := pytestPattern.FindAllStringSubmatch(output, -1); len(counts) > 0 {
		for _, count := range counts {
			n, _ := strconv.Atoi(count[1])
			switch count[2] {
			case "passed":
				passed += n
			case "failed", "error":
				failed += n
			case "skipped":
				skipped += n
			}
		}
		return passed, failed, skipped
	}

	if goPass, goFail := len(goTestPassPattern.FindAllString(output, -1)),
		len(goTestFailPattern.FindAllString(output, -1)); goPass+goFail > 0 {
		return goPass, goFail, 0
	}

	passed = strings.Count(output, "✓") + strings.Count(output, "✔")
	failed = strings.Count(output, "✗") + strings.Count(output, "✘")
	return passed, failed, 0
}
