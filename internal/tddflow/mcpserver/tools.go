// Package mcpserver defines the tddflow tool surfaces for the Model
// Context Protocol. Two catalogues exist over the same handlers: the
// legacy surface with one tool per operation, and the simplified surface
// with three tools dispatching on a command field. USE_NEW_TOOLS picks
// which catalogue a server registers.
package mcpserver

import (
	"encoding/json"

	"github.com/tddworks/tddflow/internal/tddflow/i18n"
)

// ToolDefinition defines a tool for the MCP SDK.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema json.RawMessage
}

// desc picks a description by locale. Tool descriptions are the only
// catalogue text not routed through the message tables.
func desc(locale i18n.Locale, en, zh string) string {
	if locale == i18n.LocaleZH {
		return zh
	}
	return en
}

// LegacyToolDefinitions returns the 15-tool surface, one tool per
// operation.
func LegacyToolDefinitions(locale i18n.Locale) []ToolDefinition {
	return []ToolDefinition{
		{
			Name:        "generate_test_cases",
			Description: desc(locale, "Generate failing test cases from a natural-language requirement. Extracts behaviors, edge cases, and error cases, and emits a test skeleton for the target language.", "根据自然语言需求生成失败的测试用例。提取行为、边界情况和错误情况，并为目标语言生成测试骨架。"),
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"requirements": {"type": "string", "description": "Natural-language requirement to derive tests from"},
					"language": {"type": "string", "description": "Target language (typescript, javascript, python, go, java, rust)"},
					"framework": {"type": "string", "description": "Test framework override (jest, pytest, go test, junit, cargo test)"}
				},
				"required": ["requirements"]
			}`),
		},
		{
			Name:        "generate_implementation",
			Description: desc(locale, "Generate a minimal implementation stub from existing test code. Extracts the subject and method names and emits zero-value stubs to move from red to green.", "根据现有测试代码生成最小实现桩。提取主体和方法名，生成零值桩代码，使测试从红转绿。"),
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"test_code": {"type": "string", "description": "Test source to derive the implementation from"},
					"language": {"type": "string", "description": "Target language"}
				},
				"required": ["test_code"]
			}`),
		},
		{
			Name:        "run_tests",
			Description: desc(locale, "Run the project's test suite with its framework and report pass/fail counts plus any coverage artifacts found.", "使用项目的测试框架运行测试套件，报告通过/失败数量及发现的覆盖率产物。"),
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"project_path": {"type": "string", "description": "Project directory (defaults to the configured project path)"},
					"framework": {"type": "string", "description": "Test framework (defaults to the configured framework)"},
					"pattern": {"type": "string", "description": "Test file or name filter"}
				}
			}`),
		},
		{
			Name:        "analyze_coverage",
			Description: desc(locale, "Parse coverage artifacts (lcov, istanbul JSON, cobertura, Go profiles, HTML reports) and compare line coverage against the threshold.", "解析覆盖率产物（lcov、istanbul JSON、cobertura、Go profile、HTML 报告），并将行覆盖率与阈值比较。"),
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"project_path": {"type": "string", "description": "Project directory to probe for artifacts"},
					"threshold": {"type": "number", "description": "Coverage threshold percentage override"}
				}
			}`),
		},
		{
			Name:        "suggest_refactoring",
			Description: desc(locale, "Scan source for long methods, deep conditionals, parameter bloat, and duplicated blocks, and return localized refactoring suggestions.", "扫描源代码中的长方法、深层条件嵌套、参数过多和重复代码块，返回本地化的重构建议。"),
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"code": {"type": "string", "description": "Source snippet to analyze in place of a project scan"},
					"file_name": {"type": "string", "description": "File name for the snippet (used for language detection)"},
					"project_path": {"type": "string", "description": "Project directory to scan when no snippet is given"}
				}
			}`),
		},
		{
			Name:        "validate_tdd_cycle",
			Description: desc(locale, "Classify the current red/green/refactor stage with a quick test run and score red-green-refactor adherence over recent git history.", "通过快速测试运行判断当前红/绿/重构阶段，并基于近期 git 历史对红绿重构纪律打分。"),
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"project_path": {"type": "string", "description": "Git repository to analyze"},
					"framework": {"type": "string", "description": "Test framework for the quick probe run"},
					"commit_limit": {"type": "integer", "description": "Maximum commits to inspect (default 50)"}
				}
			}`),
		},
		{
			Name:        "create_feature",
			Description: desc(locale, "Create a feature record with name, description, priority, acceptance criteria, and tags.", "创建功能记录，包含名称、描述、优先级、验收标准和标签。"),
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"project_id": {"type": "string", "description": "Project the feature belongs to"},
					"name": {"type": "string", "description": "Feature name"},
					"description": {"type": "string", "description": "Feature description"},
					"priority": {"type": "string", "description": "low, medium, high, or critical"},
					"acceptance_criteria": {"type": "array", "items": {"type": "string"}},
					"tags": {"type": "array", "items": {"type": "string"}}
				},
				"required": ["name"]
			}`),
		},
		{
			Name:        "update_feature_status",
			Description: desc(locale, "Change a feature's lifecycle status (planning, in_progress, completed, on_hold, cancelled).", "更改功能的生命周期状态（planning、in_progress、completed、on_hold、cancelled）。"),
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"project_id": {"type": "string"},
					"feature_id": {"type": "string", "description": "Feature record ID"},
					"status": {"type": "string", "description": "New status"}
				},
				"required": ["feature_id", "status"]
			}`),
		},
		{
			Name:        "list_features",
			Description: desc(locale, "List a project's feature records, optionally filtered by status.", "列出项目的功能记录，可按状态筛选。"),
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"project_id": {"type": "string"},
					"status": {"type": "string", "description": "Filter by lifecycle status"}
				}
			}`),
		},
		{
			Name:        "get_feature",
			Description: desc(locale, "Fetch one feature record by ID.", "按 ID 获取单个功能记录。"),
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"feature_id": {"type": "string", "description": "Feature record ID"}
				},
				"required": ["feature_id"]
			}`),
		},
		{
			Name:        "start_tdd_session",
			Description: desc(locale, "Start a red-green-refactor session against a feature. The session begins in the red stage; its ID must be passed to later stage updates.", "针对某个功能启动红绿重构会话。会话从红色阶段开始；后续阶段更新必须传入其 ID。"),
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"project_id": {"type": "string"},
					"feature_id": {"type": "string", "description": "Feature the session works on"},
					"developer": {"type": "string", "description": "Developer name"}
				},
				"required": ["feature_id"]
			}`),
		},
		{
			Name:        "update_tdd_stage",
			Description: desc(locale, "Advance a session to the next stage, or set an explicit stage. Completing refactor increments the cycle count.", "将会话推进到下一阶段，或设置指定阶段。完成重构阶段会使循环计数加一。"),
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"project_id": {"type": "string"},
					"session_id": {"type": "string", "description": "Session record ID"},
					"stage": {"type": "string", "description": "Explicit stage (red, green, refactor); omit to advance"},
					"note": {"type": "string", "description": "Freeform note appended to the session"}
				},
				"required": ["session_id"]
			}`),
		},
		{
			Name:        "register_test_method",
			Description: desc(locale, "Register a test method for tracking across runs. New tests start in the pending state.", "注册测试方法以便跨运行跟踪。新测试初始为 pending 状态。"),
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"project_id": {"type": "string"},
					"feature_id": {"type": "string", "description": "Feature the test belongs to"},
					"file_path": {"type": "string", "description": "Path of the test file"},
					"framework": {"type": "string", "description": "Test framework"}
				},
				"required": ["feature_id", "file_path"]
			}`),
		},
		{
			Name:        "update_test_result",
			Description: desc(locale, "Record a test method's latest execution result (status, duration, output, coverage).", "记录测试方法的最新执行结果（状态、时长、输出、覆盖率）。"),
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"project_id": {"type": "string"},
					"test_id": {"type": "string", "description": "Test method record ID"},
					"status": {"type": "string", "description": "passed, failed, skipped, or pending"},
					"duration_ms": {"type": "integer"},
					"output": {"type": "string"},
					"coverage": {"type": "number"}
				},
				"required": ["test_id", "status"]
			}`),
		},
		{
			Name:        "associate_file",
			Description: desc(locale, "Associate a file with a feature, measuring its size and line count when the file exists on disk.", "将文件与功能关联；文件存在时会测量其大小和行数。"),
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"project_id": {"type": "string"},
					"feature_id": {"type": "string", "description": "Feature the file belongs to"},
					"file_path": {"type": "string", "description": "Path of the file"},
					"file_type": {"type": "string", "description": "test, implementation, config, or doc"}
				},
				"required": ["feature_id", "file_path"]
			}`),
		},
	}
}

// SimplifiedToolDefinitions returns the 3-tool surface. Each tool carries
// a command field dispatching to the same operations as the legacy
// surface; the tdd tool with no command runs the full generate-tests then
// generate-implementation pipeline.
func SimplifiedToolDefinitions(locale i18n.Locale) []ToolDefinition {
	return []ToolDefinition{
		{
			Name:        "tdd",
			Description: desc(locale, "TDD assistant operations. Without a command, runs the full pipeline: generate failing tests from the requirements, then a minimal implementation. With a command, dispatches to one operation: generate_tests, generate_implementation, run_tests, analyze_coverage, suggest_refactoring, or validate_cycle.", "TDD 助手操作。不带 command 时运行完整流水线：先根据需求生成失败测试，再生成最小实现。带 command 时分发到单个操作：generate_tests、generate_implementation、run_tests、analyze_coverage、suggest_refactoring 或 validate_cycle。"),
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"command": {"type": "string", "description": "Operation to run; omit for the full pipeline"},
					"requirements": {"type": "string", "description": "Natural-language requirement"},
					"test_code": {"type": "string", "description": "Test source for implementation generation"},
					"code": {"type": "string", "description": "Source snippet for refactoring analysis"},
					"language": {"type": "string"},
					"framework": {"type": "string"},
					"project_path": {"type": "string"},
					"pattern": {"type": "string"},
					"threshold": {"type": "number"}
				}
			}`),
		},
		{
			Name:        "feature",
			Description: desc(locale, "Feature bookkeeping. Commands: create, update_status, list, get.", "功能簿记。命令：create、update_status、list、get。"),
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"command": {"type": "string", "description": "create, update_status, list, or get"},
					"project_id": {"type": "string"},
					"feature_id": {"type": "string"},
					"name": {"type": "string"},
					"description": {"type": "string"},
					"priority": {"type": "string"},
					"status": {"type": "string"},
					"acceptance_criteria": {"type": "array", "items": {"type": "string"}},
					"tags": {"type": "array", "items": {"type": "string"}}
				},
				"required": ["command"]
			}`),
		},
		{
			Name:        "track",
			Description: desc(locale, "Test-tracking bookkeeping. Commands: start_session, update_stage, register_test, update_result, associate_file.", "测试跟踪簿记。命令：start_session、update_stage、register_test、update_result、associate_file。"),
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"command": {"type": "string", "description": "start_session, update_stage, register_test, update_result, or associate_file"},
					"project_id": {"type": "string"},
					"feature_id": {"type": "string"},
					"session_id": {"type": "string"},
					"test_id": {"type": "string"},
					"stage": {"type": "string"},
					"status": {"type": "string"},
					"file_path": {"type": "string"},
					"file_type": {"type": "string"},
					"framework": {"type": "string"},
					"developer": {"type": "string"},
					"note": {"type": "string"},
					"duration_ms": {"type": "integer"},
					"output": {"type": "string"},
					"coverage": {"type": "number"}
				},
				"required": ["command"]
			}`),
		},
	}
}

// ToolDefinitions returns the surface selected by useNewTools.
func ToolDefinitions(useNewTools bool, locale i18n.Locale) []ToolDefinition {
	if useNewTools {
		return SimplifiedToolDefinitions(locale)
	}
	return LegacyToolDefinitions(locale)
}
