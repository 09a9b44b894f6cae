// Package generator turns free-text requirements into test skeletons and
// existing test sources into implementation stubs. Everything here is
// template filling over keyword detection; no parsing beyond regular
// expressions and no verification that generated code compiles.
package generator

import (
	"fmt"
	"strings"
)

// Language is a code generation target.
type Language string

const (
	LangTypeScript Language = "typescript"
	LangJavaScript Language = "javascript"
	LangPython     Language = "python"
	LangGo         Language = "go"
	LangJava       Language = "java"
	LangRust       Language = "rust"
)

// UnsupportedLanguageError is returned for targets without templates.
type UnsupportedLanguageError struct {
	Language string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("unsupported language: %s", e.Language)
}

// ParseLanguage normalizes a language name, accepting common aliases.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "typescript", "ts":
		return LangTypeScript, nil
	case "javascript", "js":
		return LangJavaScript, nil
	case "python", "py":
		return LangPython, nil
	case "go", "golang":
		return LangGo, nil
	case "java":
		return LangJava, nil
	case "rust", "rs":
		return LangRust, nil
	}
	return "", &UnsupportedLanguageError{Language: s}
}

// DefaultFramework returns the conventional test framework for a language.
func (l Language) DefaultFramework() string {
	switch l {
	case LangTypeScript, LangJavaScript:
		return "jest"
	case LangPython:
		return "pytest"
	case LangGo:
		return "go test"
	case LangJava:
		return "junit"
	case LangRust:
		return "cargo test"
	}
	return ""
}

// fence returns the markdown code fence label for a language.
func (l Language) fence() string {
	switch l {
	case LangTypeScript:
		return "typescript"
	case LangJavaScript:
		return "javascript"
	case LangPython:
		return "python"
	case LangGo:
		return "go"
	case LangJava:
		return "java"
	case LangRust:
		return "rust"
	}
	return ""
}
