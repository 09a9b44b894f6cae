package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/tddworks/tddflow/internal/mcp"
	"github.com/tddworks/tddflow/internal/tddflow/record"
)

// URIScheme prefixes every tddflow resource URI. Collections resolve as
// tddflow://projects/<projectID>/<kind>.
const URIScheme = "tddflow://"

// ListResources enumerates one resource per project collection that the
// store currently knows about.
func (h *Handler) ListResources(ctx context.Context) ([]mcp.Resource, error) {
	projects, err := h.store.Projects(ctx)
	if err != nil {
		return nil, err
	}

	var resources []mcp.Resource
	for _, project := range projects {
		for _, kind := range record.Kinds() {
			resources = append(resources, mcp.Resource{
				URI:      fmt.Sprintf("%sprojects/%s/%s", URIScheme, project, kind),
				Name:     fmt.Sprintf("%s/%s", project, kind),
				MimeType: "application/json",
			})
		}
	}
	return resources, nil
}

// ReadResource resolves a tddflow://projects/<id>/<kind> URI to the JSON
// array of its records.
func (h *Handler) ReadResource(ctx context.Context, uri string) (string, string, error) {
	rest, ok := strings.CutPrefix(uri, URIScheme+"projects/")
	if !ok {
		return "", "", fmt.Errorf("unsupported resource URI: %s", uri)
	}
	projectID, kindName, ok := strings.Cut(rest, "/")
	if !ok || projectID == "" {
		return "", "", fmt.Errorf("malformed resource URI: %s", uri)
	}

	var kind record.Kind
	for _, k := range record.Kinds() {
		if string(k) == kindName {
			kind = k
			break
		}
	}
	if kind == "" {
		return "", "", fmt.Errorf("unknown collection: %s", kindName)
	}

	raws, err := h.store.List(ctx, projectID, kind)
	if err != nil {
		return "", "", err
	}

	var b strings.Builder
	b.WriteString("[")
	for i, raw := range raws {
		if i > 0 {
			b.WriteString(",")
		}
		b.Write(raw)
	}
	b.WriteString("]")
	return b.String(), "application/json", nil
}

// Prompts returns the prompt catalogue with renderers bound to this
// handler's locale.
func (h *Handler) Prompts() []struct {
	Prompt   mcp.Prompt
	Renderer mcp.PromptRenderer
} {
	return []struct {
		Prompt   mcp.Prompt
		Renderer mcp.PromptRenderer
	}{
		{
			Prompt: mcp.Prompt{
				Name:        "tdd_cycle",
				Description: "Guide one red-green-refactor cycle for a requirement",
				Arguments: []mcp.PromptArgument{
					{Name: "requirements", Description: "Natural-language requirement", Required: true},
					{Name: "language", Description: "Target language"},
				},
			},
			Renderer: func(_ context.Context, args map[string]string) (string, error) {
				requirement := args["requirements"]
				if requirement == "" {
					return "", h.missingField("requirements")
				}
				language := args["language"]
				if language == "" {
					language = h.cfg.Language
				}
				var b strings.Builder
				fmt.Fprintf(&b, "Work through one strict red-green-refactor cycle in %s for this requirement:\n\n%s\n\n", language, requirement)
				fmt.Fprintf(&b, "1. %s\n", h.tr.T("pipeline.generate_tests"))
				fmt.Fprintf(&b, "2. %s\n", h.tr.T("pipeline.run_tests"))
				fmt.Fprintf(&b, "3. %s\n", h.tr.T("pipeline.generate_impl"))
				b.WriteString("4. Run the tests again and refactor only once they pass.\n")
				return b.String(), nil
			},
		},
	}
}
