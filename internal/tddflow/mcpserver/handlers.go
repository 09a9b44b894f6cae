package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tddworks/tddflow/internal/tddflow/config"
	"github.com/tddworks/tddflow/internal/tddflow/i18n"
	"github.com/tddworks/tddflow/internal/tddflow/store"
)

// DefaultProjectID is used when a bookkeeping call omits project_id.
const DefaultProjectID = "default"

// Handler executes tool calls against the domain packages. It holds no
// per-request state; session identity always arrives in the arguments.
type Handler struct {
	cfg   *config.Config
	store store.Store
	tr    i18n.Translator
}

// New creates a Handler over the given configuration and store.
func New(cfg *config.Config, st store.Store) *Handler {
	return &Handler{cfg: cfg, store: st, tr: cfg.Translator()}
}

// Translator exposes the handler's message translator.
func (h *Handler) Translator() i18n.Translator {
	return h.tr
}

// Execute dispatches one tool call by name. Both surfaces route here: the
// legacy surface passes operation names directly, the simplified surface
// resolves its command field first.
func (h *Handler) Execute(ctx context.Context, tool string, args map[string]interface{}) (string, error) {
	switch tool {
	case "generate_test_cases":
		return h.generateTestCases(args)
	case "generate_implementation":
		return h.generateImplementation(args)
	case "run_tests":
		return h.runTests(ctx, args)
	case "analyze_coverage":
		return h.analyzeCoverage(args)
	case "suggest_refactoring":
		return h.suggestRefactoring(ctx, args)
	case "validate_tdd_cycle":
		return h.validateCycle(ctx, args)
	case "create_feature":
		return h.createFeature(ctx, args)
	case "update_feature_status":
		return h.updateFeatureStatus(ctx, args)
	case "list_features":
		return h.listFeatures(ctx, args)
	case "get_feature":
		return h.getFeature(ctx, args)
	case "start_tdd_session":
		return h.startSession(ctx, args)
	case "update_tdd_stage":
		return h.updateStage(ctx, args)
	case "register_test_method":
		return h.registerTest(ctx, args)
	case "update_test_result":
		return h.updateTestResult(ctx, args)
	case "associate_file":
		return h.associateFile(ctx, args)
	case "tdd":
		return h.tddCommand(ctx, args)
	case "feature":
		return h.featureCommand(ctx, args)
	case "track":
		return h.trackCommand(ctx, args)
	default:
		return "", fmt.Errorf("%s", h.tr.T("error.unknown_tool", "tool", tool))
	}
}

func (h *Handler) missingField(field string) error {
	return fmt.Errorf("%s", h.tr.T("error.missing_field", "field", field))
}

func (h *Handler) requireString(args map[string]interface{}, key string) (string, error) {
	v := getString(args, key)
	if v == "" {
		return "", h.missingField(key)
	}
	return v, nil
}

func getString(args map[string]interface{}, key string) string {
	v, _ := args[key].(string)
	return v
}

func getStringDefault(args map[string]interface{}, key, def string) string {
	if v := getString(args, key); v != "" {
		return v
	}
	return def
}

func getFloat(args map[string]interface{}, key string) (float64, bool) {
	switch v := args[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

func getInt(args map[string]interface{}, key string) (int, bool) {
	f, ok := getFloat(args, key)
	return int(f), ok
}

func getStringSlice(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	var out []string
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func (h *Handler) projectID(args map[string]interface{}) string {
	return getStringDefault(args, "project_id", DefaultProjectID)
}

func (h *Handler) projectPath(args map[string]interface{}) string {
	return getStringDefault(args, "project_path", h.cfg.ProjectPath)
}

// marshalResult renders a handler payload as indented JSON for the text
// content block.
func marshalResult(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}
	return string(data), nil
}
