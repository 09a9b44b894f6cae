// Package cycle validates red-green-refactor discipline against a
// project's git history. Classification is keyword and filename
// heuristics over commit subjects and changed paths; it is a lint, not a
// proof of process.
package cycle

import (
	"path/filepath"
	"regexp"
	"strings"
)

var testFilePatterns = []*regexp.Regexp{
	regexp.MustCompile(`_test\.go$`),
	regexp.MustCompile(`\.test\.(ts|tsx|js|jsx)$`),
	regexp.MustCompile(`\.spec\.(ts|tsx|js|jsx)$`),
	regexp.MustCompile(`^test_.*\.py$`),
	regexp.MustCompile(`_test\.py$`),
	regexp.MustCompile(`Test\.java$`),
	regexp.MustCompile(`_test\.rs$`),
	regexp.MustCompile(`_spec\.rb$`),
}

var codeFilePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\.(go|ts|tsx|js|jsx|py|java|rs|rb|c|cpp|h|hpp|cs|swift|kt)$`),
}

var nonCodePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\.md$`),
	regexp.MustCompile(`\.txt$`),
	regexp.MustCompile(`\.rst$`),
	regexp.MustCompile(`LICENSE`),
	regexp.MustCompile(`CHANGELOG`),
	regexp.MustCompile(`\.gitignore$`),
	regexp.MustCompile(`\.editorconfig$`),
}

// IsTestFile reports whether a path names a test file in any of the
// supported languages.
func IsTestFile(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range testFilePatterns {
		if pattern.MatchString(base) {
			return true
		}
	}
	return false
}

// IsCodeFile reports whether a path names a source file.
func IsCodeFile(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range codeFilePatterns {
		if pattern.MatchString(base) {
			return true
		}
	}
	return false
}

// IsNonCodeFile reports whether a path is documentation or config.
func IsNonCodeFile(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range nonCodePatterns {
		if pattern.MatchString(base) {
			return true
		}
	}
	return false
}

// ImplementationFile maps a test file path to its likely implementation
// file, or "" when no convention applies.
func ImplementationFile(testFile string) string {
	base := filepath.Base(testFile)
	dir := filepath.Dir(testFile)

	if strings.HasSuffix(base, "_test.go") {
		return filepath.Join(dir, strings.TrimSuffix(base, "_test.go")+".go")
	}
	for _, marker := range []string{".test.", ".spec."} {
		if idx := strings.Index(base, marker); idx > 0 {
			ext := filepath.Ext(base)
			return filepath.Join(dir, base[:idx]+ext)
		}
	}
	if strings.HasPrefix(base, "test_") && strings.HasSuffix(base, ".py") {
		return filepath.Join(dir, strings.TrimPrefix(base, "test_"))
	}
	if strings.HasSuffix(base, "_test.py") {
		return filepath.Join(dir, strings.TrimSuffix(base, "_test.py")+".py")
	}
	return ""
}

// SuggestTestFile proposes a conventional test file name for an
// implementation file.
func SuggestTestFile(implFile string) string {
	ext := filepath.Ext(implFile)
	base := strings.TrimSuffix(filepath.Base(implFile), ext)
	dir := filepath.Dir(implFile)

	switch ext {
	case ".go":
		return filepath.Join(dir, base+"_test.go")
	case ".ts", ".tsx", ".js", ".jsx":
		return filepath.Join(dir, base+".test"+ext)
	case ".py":
		return filepath.Join(dir, "test_"+base+".py")
	default:
		return filepath.Join(dir, base+"_test"+ext)
	}
}
