package generator

import (
	"regexp"
	"strings"
)

// behaviorKeywords mark sentences that describe testable behavior.
// English and Chinese requirement phrasings are both recognized.
var behaviorKeywords = []string{
	"should", "must", "when", "given",
	"应该", "必须", "当", "假设",
}

var sentenceSplitter = regexp.MustCompile(`[.!?;。！？；]+`)

// ExtractBehaviors splits a requirement into sentences and keeps the ones
// containing behavior keywords. When nothing matches, the whole trimmed
// requirement is the single behavior.
func ExtractBehaviors(requirement string) []string {
	var behaviors []string
	for _, sentence := range sentenceSplitter.Split(requirement, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		lower := strings.ToLower(sentence)
		for _, kw := range behaviorKeywords {
			if strings.Contains(lower, kw) {
				behaviors = append(behaviors, sentence)
				break
			}
		}
	}
	if len(behaviors) == 0 {
		if trimmed := strings.TrimSpace(requirement); trimmed != "" {
			behaviors = append(behaviors, trimmed)
		}
	}
	return behaviors
}

// edgeCaseTable maps requirement keywords to canned edge cases. English
// keywords match whole words over the lowercased requirement; Chinese
// keywords match as substrings.
var edgeCaseTable = []struct {
	keywords []string
	cases    []string
}{
	{
		keywords: []string{"number", "count", "amount", "integer", "numeric", "数字", "数量"},
		cases:    []string{"zero value", "negative value", "maximum value"},
	},
	{
		keywords: []string{"string", "text", "name", "字符串", "文本"},
		cases:    []string{"empty string", "very long string", "special characters"},
	},
	{
		keywords: []string{"array", "list", "collection", "列表", "数组"},
		cases:    []string{"empty collection", "single element", "large collection"},
	},
	{
		keywords: []string{"date", "time", "日期", "时间"},
		cases:    []string{"past date", "future date", "invalid format"},
	},
	{
		keywords: []string{"file", "path", "文件", "路径"},
		cases:    []string{"missing file", "empty file", "permission denied"},
	},
	{
		keywords: []string{"email", "邮箱"},
		cases:    []string{"invalid format", "missing domain"},
	},
}

// ExtractEdgeCases returns the canned edge cases matching keywords found in
// the requirement. Results preserve table order and never duplicate.
func ExtractEdgeCases(requirement string) []string {
	lower := strings.ToLower(requirement)
	seen := make(map[string]bool)
	var cases []string
	for _, row := range edgeCaseTable {
		for _, kw := range row.keywords {
			if containsKeyword(lower, kw) {
				for _, c := range row.cases {
					if !seen[c] {
						seen[c] = true
						cases = append(cases, c)
					}
				}
				break
			}
		}
	}
	return cases
}

// errorCaseTable maps requirement keywords to canned failure scenarios.
var errorCaseTable = []struct {
	keywords []string
	cases    []string
}{
	{
		keywords: []string{"network", "http", "request", "api", "网络", "请求"},
		cases:    []string{"connection timeout", "server error response"},
	},
	{
		keywords: []string{"file", "path", "文件"},
		cases:    []string{"file not found"},
	},
	{
		keywords: []string{"parse", "json", "format", "解析"},
		cases:    []string{"malformed input"},
	},
	{
		keywords: []string{"database", "storage", "数据库"},
		cases:    []string{"storage unavailable"},
	},
}

// baseErrorCases apply to every requirement.
var baseErrorCases = []string{"invalid input", "null input"}

// ExtractErrorCases returns the canned error cases for a requirement,
// always including the base cases.
func ExtractErrorCases(requirement string) []string {
	lower := strings.ToLower(requirement)
	cases := append([]string(nil), baseErrorCases...)
	for _, row := range errorCaseTable {
		for _, kw := range row.keywords {
			if containsKeyword(lower, kw) {
				cases = append(cases, row.cases...)
				break
			}
		}
	}
	return cases
}

// containsKeyword reports whether kw occurs in text as a whole word, so
// "date" does not fire inside "validate". Non-ASCII keywords (the Chinese
// entries) match as substrings, since Chinese text has no word delimiters.
func containsKeyword(text, kw string) bool {
	ascii := true
	for i := 0; i < len(kw); i++ {
		if kw[i] >= 0x80 {
			ascii = false
			break
		}
	}
	if !ascii {
		return strings.Contains(text, kw)
	}
	for start := 0; ; {
		i := strings.Index(text[start:], kw)
		if i < 0 {
			return false
		}
		i += start
		if (i == 0 || !isWordByte(text[i-1])) &&
			(i+len(kw) == len(text) || !isWordByte(text[i+len(kw)])) {
			return true
		}
		start = i + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

var nonWord = regexp.MustCompile(`[^A-Za-z0-9]+`)

// SubjectName derives a PascalCase identifier from the first few words of a
// requirement, falling back to "Feature" when nothing usable remains.
func SubjectName(requirement string) string {
	words := nonWord.Split(requirement, -1)
	var parts []string
	for _, w := range words {
		if w == "" {
			continue
		}
		parts = append(parts, strings.ToUpper(w[:1])+strings.ToLower(w[1:]))
		if len(parts) == 4 {
			break
		}
	}
	if len(parts) == 0 {
		return "Feature"
	}
	return strings.Join(parts, "")
}
