package quality

import (
	"strconv"
	"strings"

	"github.com/tddworks/tddflow/internal/tddflow/i18n"
)

// Suggestion is a localized refactoring recommendation.
type Suggestion struct {
	Rule    string `json:"rule"`
	File    string `json:"file,omitempty"`
	Message string `json:"message"`
}

// Suggestions renders a report's findings and duplicates as localized
// recommendation strings. An empty report yields the single "looks clean"
// suggestion.
func Suggestions(tr i18n.Translator, report *Report) []Suggestion {
	var suggestions []Suggestion

	for _, finding := range report.Findings {
		var msg string
		switch finding.Rule {
		case "long_method":
			msg = tr.T(finding.MessageKey,
				"name", finding.Metric.Name,
				"lines", strconv.Itoa(finding.Metric.Lines))
		case "complex_conditional":
			msg = tr.T(finding.MessageKey,
				"name", finding.Metric.Name,
				"depth", strconv.Itoa(finding.Metric.Nesting))
		case "too_many_params":
			msg = tr.T(finding.MessageKey,
				"name", finding.Metric.Name,
				"count", strconv.Itoa(finding.Metric.Params))
		default:
			msg = tr.T(finding.MessageKey, "name", finding.Metric.Name)
		}
		suggestions = append(suggestions, Suggestion{
			Rule:    finding.Rule,
			File:    finding.Metric.File,
			Message: msg,
		})
	}

	for _, dup := range report.Duplicates {
		suggestions = append(suggestions, Suggestion{
			Rule: "duplication",
			File: dup.Files[0],
			Message: tr.T("refactor.duplication",
				"lines", strconv.Itoa(dup.Lines),
				"files", strings.Join(dup.Files, ", ")),
		})
	}

	if len(suggestions) == 0 {
		suggestions = append(suggestions, Suggestion{
			Rule:    "none",
			Message: tr.T("refactor.none"),
		})
	}
	return suggestions
}
