package coverage

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// ParseIstanbulSummary reads a jest/istanbul coverage-summary.json. The
// "total" entry already carries the aggregate percentages.
func ParseIstanbulSummary(data []byte) (*Summary, error) {
	total := gjson.GetBytes(data, "total")
	if !total.Exists() {
		return nil, fmt.Errorf("no total entry in coverage summary")
	}
	return &Summary{
		Lines:     total.Get("lines.pct").Float(),
		Functions: total.Get("functions.pct").Float(),
		Branches:  total.Get("branches.pct").Float(),
		Source:    "istanbul-summary",
	}, nil
}

// ParseIstanbulFinal reads a coverage-final.json, which has no aggregate
// entry; the per-file statement, function, and branch hit maps are summed
// instead.
func ParseIstanbulFinal(data []byte) (*Summary, error) {
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("coverage-final.json is not a JSON object")
	}

	var stmtTotal, stmtHit, fnTotal, fnHit, brTotal, brHit int
	root.ForEach(func(_, file gjson.Result) bool {
		file.Get("s").ForEach(func(_, count gjson.Result) bool {
			stmtTotal++
			if count.Int() > 0 {
				stmtHit++
			}
			return true
		})
		file.Get("f").ForEach(func(_, count gjson.Result) bool {
			fnTotal++
			if count.Int() > 0 {
				fnHit++
			}
			return true
		})
		file.Get("b").ForEach(func(_, branches gjson.Result) bool {
			branches.ForEach(func(_, count gjson.Result) bool {
				brTotal++
				if count.Int() > 0 {
					brHit++
				}
				return true
			})
			return true
		})
		return true
	})
	if stmtTotal == 0 && fnTotal == 0 {
		return nil, fmt.Errorf("no coverage entries in coverage-final.json")
	}

	return &Summary{
		Lines:     Percentage(stmtHit, stmtTotal),
		Functions: Percentage(fnHit, fnTotal),
		Branches:  Percentage(brHit, brTotal),
		Source:    "istanbul-final",
	}, nil
}
