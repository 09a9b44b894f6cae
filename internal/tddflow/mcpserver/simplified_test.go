package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/tddworks/tddflow/internal/tddflow/i18n"
)

func TestTddPipelineEnglishHeaders(t *testing.T) {
	h := newTestHandler(t, i18n.LocaleEN)
	out, err := h.Execute(context.Background(), "tdd", map[string]interface{}{
		"requirements": "calculator should add numbers",
		"language":     "typescript",
	})
	if err != nil {
		t.Fatalf("tdd pipeline error = %v", err)
	}

	testsIdx := strings.Index(out, "## Generate Test Cases")
	implIdx := strings.Index(out, "## Generate Minimal Implementation")
	if testsIdx < 0 || implIdx < 0 {
		t.Fatalf("pipeline output missing headers:\n%s", out)
	}
	if testsIdx > implIdx {
		t.Error("tests section should come before the implementation section")
	}
	if !strings.Contains(out, "describe(") {
		t.Error("pipeline output missing generated tests")
	}
	if !strings.Contains(out, "export class") {
		t.Error("pipeline output missing generated stub")
	}
}

func TestTddPipelineChineseHeaders(t *testing.T) {
	h := newTestHandler(t, i18n.LocaleZH)
	out, err := h.Execute(context.Background(), "tdd", map[string]interface{}{
		"requirements": "计算器应该支持加法",
		"language":     "typescript",
	})
	if err != nil {
		t.Fatalf("tdd pipeline error = %v", err)
	}
	if !strings.Contains(out, "## 生成测试用例") {
		t.Errorf("output missing Chinese tests header:\n%s", out)
	}
	if !strings.Contains(out, "## 生成最小实现") {
		t.Errorf("output missing Chinese implementation header:\n%s", out)
	}
}

func TestTddPipelineSubjectsAgree(t *testing.T) {
	h := newTestHandler(t, i18n.LocaleEN)
	out, err := h.Execute(context.Background(), "tdd", map[string]interface{}{
		"requirements": "parser should tokenize input",
		"language":     "typescript",
	})
	if err != nil {
		t.Fatal(err)
	}
	// The stub class is derived from the generated describe block.
	if !strings.Contains(out, "describe('ParserShouldTokenizeInput'") {
		t.Errorf("output missing expected describe:\n%s", out)
	}
	if !strings.Contains(out, "export class ParserShouldTokenizeInput") {
		t.Errorf("stub subject does not match test subject:\n%s", out)
	}
}

func TestTddCommandDispatch(t *testing.T) {
	h := newTestHandler(t, i18n.LocaleEN)
	out, err := h.Execute(context.Background(), "tdd", map[string]interface{}{
		"command":      "generate_tests",
		"requirements": "something should work",
		"language":     "python",
	})
	if err != nil {
		t.Fatalf("tdd generate_tests error = %v", err)
	}
	if !strings.Contains(out, "import pytest") {
		t.Errorf("output = %s", out)
	}
}

func TestTddUnknownCommand(t *testing.T) {
	h := newTestHandler(t, i18n.LocaleEN)
	_, err := h.Execute(context.Background(), "tdd", map[string]interface{}{
		"command": "explode",
	})
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), "explode") {
		t.Errorf("error = %v, want the command name", err)
	}
}

func TestFeatureCommandRequiresCommand(t *testing.T) {
	h := newTestHandler(t, i18n.LocaleEN)
	if _, err := h.Execute(context.Background(), "feature", map[string]interface{}{}); err == nil {
		t.Error("expected missing command error")
	}
}

func TestFeatureCommandCreateAndList(t *testing.T) {
	h := newTestHandler(t, i18n.LocaleEN)
	ctx := context.Background()

	if _, err := h.Execute(ctx, "feature", map[string]interface{}{
		"command": "create",
		"name":    "export reports",
	}); err != nil {
		t.Fatalf("feature create error = %v", err)
	}

	out, err := h.Execute(ctx, "feature", map[string]interface{}{"command": "list"})
	if err != nil {
		t.Fatalf("feature list error = %v", err)
	}
	if !strings.Contains(out, "export reports") {
		t.Errorf("list output = %s", out)
	}
}

func TestTrackCommandSession(t *testing.T) {
	h := newTestHandler(t, i18n.LocaleEN)
	out, err := h.Execute(context.Background(), "track", map[string]interface{}{
		"command":    "start_session",
		"feature_id": "feat-1",
	})
	if err != nil {
		t.Fatalf("track start_session error = %v", err)
	}
	if !strings.Contains(out, "session-") {
		t.Errorf("output = %s", out)
	}
}
