package mcpserver

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tddworks/tddflow/internal/tddflow/coverage"
	"github.com/tddworks/tddflow/internal/tddflow/cycle"
	"github.com/tddworks/tddflow/internal/tddflow/generator"
	"github.com/tddworks/tddflow/internal/tddflow/quality"
)

func (h *Handler) language(args map[string]interface{}) (generator.Language, error) {
	raw := getStringDefault(args, "language", h.cfg.Language)
	lang, err := generator.ParseLanguage(raw)
	if err != nil {
		return "", fmt.Errorf("%s", h.tr.T("error.unsupported_language", "language", raw))
	}
	return lang, nil
}

func (h *Handler) generateTestCases(args map[string]interface{}) (string, error) {
	requirement, err := h.requireString(args, "requirements")
	if err != nil {
		return "", err
	}
	lang, err := h.language(args)
	if err != nil {
		return "", err
	}

	result, err := generator.GenerateTestCases(generator.TestCaseRequest{
		Requirement: requirement,
		Language:    lang,
		Framework:   getString(args, "framework"),
	})
	if err != nil {
		return "", err
	}
	return result.Code, nil
}

func (h *Handler) generateImplementation(args map[string]interface{}) (string, error) {
	testCode, err := h.requireString(args, "test_code")
	if err != nil {
		return "", err
	}
	lang, err := h.language(args)
	if err != nil {
		return "", err
	}

	result, err := generator.GenerateImplementation(generator.StubRequest{
		TestSource: testCode,
		Language:   lang,
	})
	if err != nil {
		return "", err
	}
	return result.Code, nil
}

func (h *Handler) runTests(ctx context.Context, args map[string]interface{}) (string, error) {
	result, err := coverage.RunTests(ctx, coverage.RunRequest{
		ProjectPath: h.projectPath(args),
		Framework:   getStringDefault(args, "framework", h.cfg.Framework),
		Pattern:     getString(args, "pattern"),
	})
	if err != nil {
		return "", err
	}
	return marshalResult(result)
}

func (h *Handler) analyzeCoverage(args map[string]interface{}) (string, error) {
	threshold := h.cfg.CoverageThreshold
	if t, ok := getFloat(args, "threshold"); ok {
		threshold = t
	}

	summary := coverage.ProbeArtifacts(h.projectPath(args))
	if summary == nil {
		summary = &coverage.Summary{Source: "none"}
	}

	key := "coverage.below_threshold"
	if summary.MeetsThreshold(threshold) {
		key = "coverage.meets_threshold"
	}
	message := h.tr.T(key,
		"actual", strconv.FormatFloat(summary.Lines, 'f', 1, 64),
		"threshold", strconv.FormatFloat(threshold, 'f', 1, 64))

	detail, err := marshalResult(summary)
	if err != nil {
		return "", err
	}
	return message + "\n" + detail, nil
}

func (h *Handler) suggestRefactoring(ctx context.Context, args map[string]interface{}) (string, error) {
	var report *quality.Report

	if code := getString(args, "code"); code != "" {
		name := getStringDefault(args, "file_name", "snippet.ts")
		metrics := quality.AnalyzeSource(filepath.Base(name), []byte(code))
		compiled, err := quality.CompileRules(quality.DefaultRules())
		if err != nil {
			return "", err
		}
		findings, err := quality.Evaluate(compiled, metrics)
		if err != nil {
			return "", err
		}
		report = &quality.Report{FilesScanned: 1, Metrics: metrics, Findings: findings}
	} else {
		var err error
		report, err = quality.ScanProject(ctx, h.projectPath(args), quality.DefaultRules())
		if err != nil {
			return "", err
		}
	}

	var b strings.Builder
	for i, s := range quality.Suggestions(h.tr, report) {
		if i > 0 {
			b.WriteString("\n")
		}
		if s.File != "" {
			fmt.Fprintf(&b, "%s: %s", s.File, s.Message)
		} else {
			b.WriteString(s.Message)
		}
	}
	return b.String(), nil
}

func (h *Handler) validateCycle(ctx context.Context, args map[string]interface{}) (string, error) {
	path := h.projectPath(args)
	limit := cycle.DefaultHistoryLimit
	if n, ok := getInt(args, "commit_limit"); ok && n > 0 {
		limit = n
	}

	commits, err := cycle.CollectHistory(ctx, path, cycle.HistoryOptions{Limit: limit})
	if err != nil {
		return "", err
	}
	quick := cycle.RunQuickTest(ctx, path, getStringDefault(args, "framework", h.cfg.Framework))
	validation := cycle.Validate(commits, quick)

	var b strings.Builder
	b.WriteString(h.tr.T("cycle.stage", "stage", string(validation.Stage)))
	b.WriteString("\n")
	b.WriteString(h.tr.T("cycle.adherence",
		"score", strconv.Itoa(validation.Adherence),
		"grade", validation.Grade))
	for _, v := range validation.Violations {
		b.WriteString("\n")
		b.WriteString(h.tr.T(v.MessageKey,
			"hash", shortHash(v.Commit),
			"count", strconv.Itoa(v.Files)))
	}
	return b.String(), nil
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
