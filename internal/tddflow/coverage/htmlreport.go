package coverage

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseHTMLReport scrapes an istanbul-style HTML index page. The header
// renders each dimension as a strong percentage followed by a quiet label
// ("Statements", "Branches", "Functions", "Lines"), so the pairs are read
// back by walking the strong spans and their sibling labels.
func ParseHTMLReport(data []byte) (*Summary, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse html report: %w", err)
	}

	summary := &Summary{Source: "html"}
	found := false
	doc.Find("span.strong").Each(func(_ int, sel *goquery.Selection) {
		pct, ok := parsePercent(sel.Text())
		if !ok {
			return
		}
		label := strings.ToLower(strings.TrimSpace(sel.Parent().Find("span.quiet").First().Text()))
		switch label {
		case "lines", "statements":
			summary.Lines = pct
			found = true
		case "functions":
			summary.Functions = pct
			found = true
		case "branches":
			summary.Branches = pct
			found = true
		}
	})
	if !found {
		return nil, fmt.Errorf("no coverage figures found in html report")
	}
	return summary, nil
}

func parsePercent(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "%")
	pct, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, false
	}
	return pct, true
}
