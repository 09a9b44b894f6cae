package quality

import (
	"strings"
	"testing"
)

func TestAnalyzeSourceGo(t *testing.T) {
	src := `package main

func Add(a, b int) int {
	return a + b
}

func Classify(n int) string {
	if n > 0 {
		if n > 100 {
			return "big"
		}
		return "positive"
	}
	return "other"
}
`
	metrics := AnalyzeSource("math.go", []byte(src))
	if len(metrics) != 2 {
		t.Fatalf("len(metrics) = %d, want 2: %+v", len(metrics), metrics)
	}

	add := metrics[0]
	if add.Name != "Add" || add.Params != 2 {
		t.Errorf("Add metric = %+v", add)
	}
	if add.Lines != 3 {
		t.Errorf("Add.Lines = %d, want 3", add.Lines)
	}

	classify := metrics[1]
	if classify.Name != "Classify" {
		t.Errorf("second metric = %+v, want Classify", classify)
	}
	if classify.Nesting != 2 {
		t.Errorf("Classify.Nesting = %d, want 2", classify.Nesting)
	}
}

func TestAnalyzeSourceTypeScript(t *testing.T) {
	src := `export function greet(name: string) {
  return 'hello ' + name;
}

class Service {
  fetch(id: string, retries: number): void {
    if (retries > 0) {
      this.fetch(id, retries - 1);
    }
  }
}
`
	metrics := AnalyzeSource("service.ts", []byte(src))
	names := make([]string, len(metrics))
	for i, m := range metrics {
		names[i] = m.Name
	}
	joined := strings.Join(names, ",")
	if !strings.Contains(joined, "greet") || !strings.Contains(joined, "fetch") {
		t.Errorf("metrics = %v, want greet and fetch", names)
	}
	for _, m := range metrics {
		if m.Name == "if" || m.Name == "for" {
			t.Errorf("control keyword %q mistaken for a method", m.Name)
		}
	}
}

func TestAnalyzeSourcePython(t *testing.T) {
	src := `class Calculator:
    def add(self, a, b):
        return a + b

    def deep(self, n):
        if n:
            for i in range(n):
                if i > 2:
                    print(i)
`
	metrics := AnalyzeSource("calc.py", []byte(src))
	if len(metrics) != 2 {
		t.Fatalf("len(metrics) = %d, want 2: %+v", len(metrics), metrics)
	}
	if metrics[0].Name != "add" || metrics[0].Params != 2 {
		t.Errorf("add metric = %+v, want 2 params (self excluded)", metrics[0])
	}
	if metrics[1].Name != "deep" || metrics[1].Nesting < 2 {
		t.Errorf("deep metric = %+v, want nesting >= 2", metrics[1])
	}
}

func TestCountParams(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"a int", 1},
		{"a, b int", 2},
		{"self, x, y", 2},
		{"cls", 0},
	}
	for _, tt := range tests {
		if got := countParams(tt.in); got != tt.want {
			t.Errorf("countParams(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestEvaluateRules(t *testing.T) {
	compiled, err := CompileRules(DefaultRules())
	if err != nil {
		t.Fatalf("CompileRules() error = %v", err)
	}

	metrics := []FunctionMetric{
		{File: "a.go", Name: "short", Lines: 5, Nesting: 1, Params: 2},
		{File: "a.go", Name: "long", Lines: 45, Nesting: 1, Params: 2},
		{File: "b.go", Name: "tangled", Lines: 10, Nesting: 5, Params: 7},
	}
	findings, err := Evaluate(compiled, metrics)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	rulesHit := make(map[string]string)
	for _, f := range findings {
		rulesHit[f.Rule] = f.Metric.Name
	}
	if rulesHit["long_method"] != "long" {
		t.Errorf("long_method hit %q, want long", rulesHit["long_method"])
	}
	if rulesHit["complex_conditional"] != "tangled" {
		t.Errorf("complex_conditional hit %q, want tangled", rulesHit["complex_conditional"])
	}
	if rulesHit["too_many_params"] != "tangled" {
		t.Errorf("too_many_params hit %q, want tangled", rulesHit["too_many_params"])
	}
	if len(findings) != 3 {
		t.Errorf("len(findings) = %d, want 3", len(findings))
	}
}

func TestCompileRulesBadExpression(t *testing.T) {
	_, err := CompileRules([]Rule{{Name: "broken", Condition: "lines >>> 3"}})
	if err == nil {
		t.Error("expected compile error for malformed condition")
	}
}
