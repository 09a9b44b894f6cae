package quality

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Rule is a threshold check over one function's metrics. The condition is
// an expr expression evaluated against lines, nesting, and params, so
// thresholds are data rather than code.
type Rule struct {
	Name       string
	Condition  string
	MessageKey string
}

// DefaultRules are the stock heuristics.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "long_method", Condition: "lines > 30", MessageKey: "refactor.long_method"},
		{Name: "complex_conditional", Condition: "nesting > 3", MessageKey: "refactor.complex_conditional"},
		{Name: "too_many_params", Condition: "params > 5", MessageKey: "refactor.too_many_params"},
	}
}

// ruleEnv is the evaluation environment for rule conditions.
type ruleEnv struct {
	Lines   int `expr:"lines"`
	Nesting int `expr:"nesting"`
	Params  int `expr:"params"`
}

// compiledRule pairs a rule with its compiled program.
type compiledRule struct {
	Rule
	program *vm.Program
}

// CompileRules compiles rule conditions once, up front, so a bad
// expression fails loudly instead of during a scan.
func CompileRules(rules []Rule) ([]compiledRule, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, rule := range rules {
		program, err := expr.Compile(rule.Condition, expr.Env(ruleEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %s: %w", rule.Name, err)
		}
		compiled = append(compiled, compiledRule{Rule: rule, program: program})
	}
	return compiled, nil
}

// Finding is one triggered rule for one function.
type Finding struct {
	Rule       string         `json:"rule"`
	MessageKey string         `json:"-"`
	Metric     FunctionMetric `json:"metric"`
}

// Evaluate runs every compiled rule against every metric.
func Evaluate(rules []compiledRule, metrics []FunctionMetric) ([]Finding, error) {
	var findings []Finding
	for _, metric := range metrics {
		env := ruleEnv{Lines: metric.Lines, Nesting: metric.Nesting, Params: metric.Params}
		for _, rule := range rules {
			hit, err := expr.Run(rule.program, env)
			if err != nil {
				return nil, fmt.Errorf("evaluate rule %s: %w", rule.Name, err)
			}
			if hit.(bool) {
				findings = append(findings, Finding{
					Rule:       rule.Name,
					MessageKey: rule.MessageKey,
					Metric:     metric,
				})
			}
		}
	}
	return findings, nil
}
