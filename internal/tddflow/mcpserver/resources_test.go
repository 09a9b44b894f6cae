package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/tddworks/tddflow/internal/tddflow/i18n"
	"github.com/tddworks/tddflow/internal/tddflow/record"
)

func TestListResourcesEmptyStore(t *testing.T) {
	h := newTestHandler(t, i18n.LocaleEN)
	resources, err := h.ListResources(context.Background())
	if err != nil {
		t.Fatalf("ListResources() error = %v", err)
	}
	if len(resources) != 0 {
		t.Errorf("resources = %+v, want none for an empty store", resources)
	}
}

func TestListResourcesPerProjectCollection(t *testing.T) {
	h := newTestHandler(t, i18n.LocaleEN)
	ctx := context.Background()

	if _, err := h.Execute(ctx, "create_feature", map[string]interface{}{
		"name": "alpha feature",
	}); err != nil {
		t.Fatal(err)
	}

	resources, err := h.ListResources(ctx)
	if err != nil {
		t.Fatalf("ListResources() error = %v", err)
	}
	if len(resources) != len(record.Kinds()) {
		t.Fatalf("len(resources) = %d, want one per collection (%d)", len(resources), len(record.Kinds()))
	}
	found := false
	for _, r := range resources {
		if r.URI == "tddflow://projects/default/features" {
			found = true
			if r.MimeType != "application/json" {
				t.Errorf("MimeType = %v", r.MimeType)
			}
		}
	}
	if !found {
		t.Errorf("resources = %+v, want the default features collection", resources)
	}
}

func TestReadResource(t *testing.T) {
	h := newTestHandler(t, i18n.LocaleEN)
	ctx := context.Background()

	if _, err := h.Execute(ctx, "create_feature", map[string]interface{}{
		"name": "alpha feature",
	}); err != nil {
		t.Fatal(err)
	}

	text, mimeType, err := h.ReadResource(ctx, "tddflow://projects/default/features")
	if err != nil {
		t.Fatalf("ReadResource() error = %v", err)
	}
	if mimeType != "application/json" {
		t.Errorf("mimeType = %v", mimeType)
	}

	var features []record.Feature
	if err := json.Unmarshal([]byte(text), &features); err != nil {
		t.Fatalf("resource text is not a JSON array: %v\n%s", err, text)
	}
	if len(features) != 1 || features[0].Name != "alpha feature" {
		t.Errorf("features = %+v", features)
	}
}

func TestReadResourceEmptyCollection(t *testing.T) {
	h := newTestHandler(t, i18n.LocaleEN)
	text, _, err := h.ReadResource(context.Background(), "tddflow://projects/default/features")
	if err != nil {
		t.Fatalf("ReadResource() error = %v", err)
	}
	if strings.TrimSpace(text) != "[]" {
		t.Errorf("text = %q, want empty array", text)
	}
}

func TestReadResourceBadURIs(t *testing.T) {
	h := newTestHandler(t, i18n.LocaleEN)
	ctx := context.Background()
	for _, uri := range []string{
		"http://example.com/whatever",
		"tddflow://projects/",
		"tddflow://projects/default",
		"tddflow://projects/default/unknown-kind",
	} {
		if _, _, err := h.ReadResource(ctx, uri); err == nil {
			t.Errorf("ReadResource(%q) expected error", uri)
		}
	}
}

func TestPromptRenderer(t *testing.T) {
	h := newTestHandler(t, i18n.LocaleEN)
	prompts := h.Prompts()
	if len(prompts) != 1 || prompts[0].Prompt.Name != "tdd_cycle" {
		t.Fatalf("prompts = %+v, want single tdd_cycle", prompts)
	}

	text, err := prompts[0].Renderer(context.Background(), map[string]string{
		"requirements": "parse ISO dates",
		"language":     "go",
	})
	if err != nil {
		t.Fatalf("Renderer() error = %v", err)
	}
	for _, want := range []string{"parse ISO dates", "go", "Generate Test Cases", "Run Tests"} {
		if !strings.Contains(text, want) {
			t.Errorf("prompt text missing %q:\n%s", want, text)
		}
	}

	if _, err := prompts[0].Renderer(context.Background(), map[string]string{}); err == nil {
		t.Error("expected error without requirements")
	}
}
