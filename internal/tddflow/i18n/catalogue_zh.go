package i18n

var catalogueZH = map[string]string{
	// Pipeline section headers
	"pipeline.generate_tests": "生成测试用例",
	"pipeline.generate_impl":  "生成最小实现",
	"pipeline.run_tests":      "运行测试",

	// Validation and dispatch errors
	"error.missing_field":         "缺少必需字段：{field}",
	"error.unsupported_language":  "不支持的语言：{language}",
	"error.unsupported_framework": "不支持的测试框架：{framework}",
	"error.not_found":             "未找到记录：{id}",
	"error.unknown_command":       "未知命令：{command}",
	"error.unknown_tool":          "未知工具：{tool}",

	// Feature bookkeeping
	"feature.created":       "已创建功能：{id}",
	"feature.updated":       "功能 {id} 状态已更新为 {status}",
	"feature.none":          "项目 {project} 没有功能记录",
	"session.started":       "TDD 会话 {id} 已在功能 {feature} 上启动（阶段：red）",
	"session.stage_updated": "会话 {id} 进入阶段 {stage}（第 {cycle} 轮）",
	"test.registered":       "已注册测试方法：{id}",
	"test.result_updated":   "测试 {id} 已更新：{status}",
	"file.associated":       "文件已关联到功能 {feature}：{path}",

	// Coverage
	"coverage.meets_threshold": "覆盖率 {actual}% 达到阈值 {threshold}%",
	"coverage.below_threshold": "覆盖率 {actual}% 低于阈值 {threshold}%",

	// Refactoring suggestions
	"refactor.long_method":         "方法 '{name}' 长达 {lines} 行，建议拆分为职责单一的小函数",
	"refactor.complex_conditional": "'{name}' 中条件嵌套深度为 {depth}，建议使用卫语句或策略对象",
	"refactor.duplication":         "在 {files} 中发现 {lines} 行重复代码块，建议提取公共函数",
	"refactor.too_many_params":     "函数 '{name}' 有 {count} 个参数，建议引入参数对象",
	"refactor.none":                "没有重构建议，分析的代码看起来很整洁",

	// TDD cycle
	"cycle.stage":                  "当前 TDD 阶段：{stage}",
	"cycle.adherence":              "TDD 遵循度评分：{score}/100（等级 {grade}）",
	"cycle.violation.no_test":      "提交 {hash} 修改了实现但没有测试",
	"cycle.violation.no_red":       "提交 {hash} 在没有失败测试的情况下先实现了功能",
	"cycle.violation.refactor_red": "提交 {hash} 在测试失败时进行了重构",
	"cycle.violation.oversized":    "提交 {hash} 涉及 {count} 个文件，请保持小步迭代",
}
