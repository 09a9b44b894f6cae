package generator

import (
	"fmt"
	"regexp"
	"strings"
)

// StubRequest describes an implementation stub generation call.
type StubRequest struct {
	TestSource string
	Language   Language
}

// StubResult is the generated minimal implementation.
type StubResult struct {
	Subject string   `json:"subject"`
	Methods []string `json:"methods"`
	Code    string   `json:"code"`
}

var (
	jestDescribePattern = regexp.MustCompile(`describe\(\s*['"` + "`" + `]([^'"` + "`" + `]+)`)
	jestCasePattern     = regexp.MustCompile(`(?:it|test)\(\s*['"` + "`" + `]([^'"` + "`" + `]+)`)
	pyClassPattern      = regexp.MustCompile(`class\s+Test(\w+)`)
	pyCasePattern       = regexp.MustCompile(`def\s+(test_\w+)`)
	goCasePattern       = regexp.MustCompile(`func\s+Test(\w+)\s*\(`)
	javaClassPattern    = regexp.MustCompile(`class\s+(\w+)Test`)
	javaCasePattern     = regexp.MustCompile(`void\s+(\w+)\s*\(`)
	rustCasePattern     = regexp.MustCompile(`fn\s+(test_\w+)`)
)

// GenerateImplementation regex-extracts subject and method names from test
// source and emits stubs that return zero values, just enough to move the
// cycle from red to green.
func GenerateImplementation(req StubRequest) (*StubResult, error) {
	result := &StubResult{}

	var body string
	switch req.Language {
	case LangTypeScript, LangJavaScript:
		result.Subject = firstMatch(jestDescribePattern, req.TestSource, "Subject")
		result.Methods = methodNames(allMatches(jestCasePattern, req.TestSource), camelCase)
		body = tsStub(result, req.Language == LangTypeScript)
	case LangPython:
		result.Subject = firstMatch(pyClassPattern, req.TestSource, "Subject")
		result.Methods = methodNames(allMatches(pyCasePattern, req.TestSource), pySnakeMethod)
		body = pyStub(result)
	case LangGo:
		names := allMatches(goCasePattern, req.TestSource)
		result.Subject = goSubject(names)
		result.Methods = methodNames(names, goMethod(result.Subject))
		body = goStub(result)
	case LangJava:
		result.Subject = firstMatch(javaClassPattern, req.TestSource, "Subject")
		result.Methods = methodNames(allMatches(javaCasePattern, req.TestSource), camelCase)
		body = javaStub(result)
	case LangRust:
		result.Subject = "subject"
		result.Methods = methodNames(allMatches(rustCasePattern, req.TestSource), pySnakeMethod)
		body = rustStub(result)
	default:
		return nil, &UnsupportedLanguageError{Language: string(req.Language)}
	}

	result.Code = fmt.Sprintf("```%s\n%s```", req.Language.fence(), body)
	return result, nil
}

var identPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)

// firstMatch extracts the subject, keeping the casing of names that are
// already identifiers (class names stay PascalCase).
func firstMatch(re *regexp.Regexp, source, fallback string) string {
	m := re.FindStringSubmatch(source)
	if m == nil {
		return fallback
	}
	name := strings.TrimSpace(m[1])
	if identPattern.MatchString(name) {
		return strings.ToUpper(name[:1]) + name[1:]
	}
	return SubjectName(name)
}

func allMatches(re *regexp.Regexp, source string) []string {
	var names []string
	for _, m := range re.FindAllStringSubmatch(source, -1) {
		names = append(names, m[1])
	}
	return names
}

// methodNames converts raw test names into deduplicated method names,
// stripping the generated handles/rejects prefixes.
func methodNames(raw []string, convert func(string) string) []string {
	seen := make(map[string]bool)
	var methods []string
	for _, name := range raw {
		trimmed := stripCasePrefix(name)
		if trimmed == "" {
			continue
		}
		method := convert(trimmed)
		if method == "" || seen[method] {
			continue
		}
		seen[method] = true
		methods = append(methods, method)
	}
	if len(methods) == 0 {
		methods = []string{"execute"}
	}
	return methods
}

func stripCasePrefix(name string) string {
	for _, prefix := range []string{"test_", "handles_", "rejects_", "handles ", "rejects "} {
		name = strings.TrimPrefix(name, prefix)
	}
	return strings.TrimSpace(name)
}

func pySnakeMethod(s string) string {
	return snakeCase(s)
}

// goSubject pulls the shared prefix out of TestSubject_Behavior names.
func goSubject(names []string) string {
	for _, name := range names {
		if idx := strings.Index(name, "_"); idx > 0 {
			return name[:idx]
		}
	}
	if len(names) > 0 {
		return names[0]
	}
	return "Subject"
}

func goMethod(subject string) func(string) string {
	return func(s string) string {
		s = strings.TrimPrefix(s, subject+"_")
		return SubjectName(s)
	}
}

func tsStub(r *StubResult, typed bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "export class %s {\n", r.Subject)
	for _, m := range r.Methods {
		if typed {
			fmt.Fprintf(&b, "  %s(): void {\n    throw new Error('not implemented');\n  }\n\n", m)
		} else {
			fmt.Fprintf(&b, "  %s() {\n    throw new Error('not implemented');\n  }\n\n", m)
		}
	}
	b.WriteString("}\n")
	return b.String()
}

func pyStub(r *StubResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "class %s:\n", r.Subject)
	for _, m := range r.Methods {
		fmt.Fprintf(&b, "    def %s(self):\n        raise NotImplementedError\n\n", m)
	}
	return b.String()
}

func goStub(r *StubResult) string {
	var b strings.Builder
	b.WriteString("package main\n\n")
	fmt.Fprintf(&b, "type %s struct{}\n\n", r.Subject)
	for _, m := range r.Methods {
		fmt.Fprintf(&b, "func (s *%s) %s() error {\n\treturn nil\n}\n\n", r.Subject, m)
	}
	return b.String()
}

func javaStub(r *StubResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "public class %s {\n", r.Subject)
	for _, m := range r.Methods {
		fmt.Fprintf(&b, "    public void %s() {\n        throw new UnsupportedOperationException();\n    }\n\n", m)
	}
	b.WriteString("}\n")
	return b.String()
}

func rustStub(r *StubResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "pub struct %s;\n\nimpl %s {\n", SubjectName(r.Subject), SubjectName(r.Subject))
	for _, m := range r.Methods {
		fmt.Fprintf(&b, "    pub fn %s(&self) {\n        unimplemented!();\n    }\n\n", m)
	}
	b.WriteString("}\n")
	return b.String()
}
