package i18n

var catalogueEN = map[string]string{
	// Pipeline section headers
	"pipeline.generate_tests": "Generate Test Cases",
	"pipeline.generate_impl":  "Generate Minimal Implementation",
	"pipeline.run_tests":      "Run Tests",

	// Validation and dispatch errors
	"error.missing_field":         "missing required field: {field}",
	"error.unsupported_language":  "unsupported language: {language}",
	"error.unsupported_framework": "unsupported test framework: {framework}",
	"error.not_found":             "record not found: {id}",
	"error.unknown_command":       "unknown command: {command}",
	"error.unknown_tool":          "unknown tool: {tool}",

	// Feature bookkeeping
	"feature.created":       "Feature created: {id}",
	"feature.updated":       "Feature {id} status changed to {status}",
	"feature.none":          "No features found for project {project}",
	"session.started":       "TDD session {id} started on feature {feature} (stage: red)",
	"session.stage_updated": "Session {id} advanced to stage {stage} (cycle {cycle})",
	"test.registered":       "Test method registered: {id}",
	"test.result_updated":   "Test {id} updated: {status}",
	"file.associated":       "File associated with feature {feature}: {path}",

	// Coverage
	"coverage.meets_threshold": "Coverage {actual}% meets the {threshold}% threshold",
	"coverage.below_threshold": "Coverage {actual}% is below the {threshold}% threshold",

	// Refactoring suggestions
	"refactor.long_method":         "Method '{name}' spans {lines} lines; extract smaller functions with single responsibilities",
	"refactor.complex_conditional": "Conditional nesting depth {depth} in '{name}'; consider guard clauses or strategy objects",
	"refactor.duplication":         "Duplicated block of {lines} lines found in {files}; extract a shared helper",
	"refactor.too_many_params":     "Function '{name}' takes {count} parameters; introduce a parameter object",
	"refactor.none":                "No refactoring suggestions; the analyzed code looks clean",

	// TDD cycle
	"cycle.stage":                  "Current TDD stage: {stage}",
	"cycle.adherence":              "TDD adherence score: {score}/100 (grade {grade})",
	"cycle.violation.no_test":      "Commit {hash} changes implementation without tests",
	"cycle.violation.no_red":       "Commit {hash} implements before any failing test was committed",
	"cycle.violation.refactor_red": "Commit {hash} refactors while tests are failing",
	"cycle.violation.oversized":    "Commit {hash} touches {count} files; keep cycles small",
}
