package coverage

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// ParseLCOV aggregates an LCOV trace file into a Summary. The counters of
// interest per record are LF/LH (lines), FNF/FNH (functions), and BRF/BRH
// (branches); everything else is ignored.
func ParseLCOV(data []byte) (*Summary, error) {
	var lf, lh, fnf, fnh, brf, brh int
	sawRecord := false

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			continue
		}
		switch key {
		case "LF":
			lf += n
			sawRecord = true
		case "LH":
			lh += n
		case "FNF":
			fnf += n
		case "FNH":
			fnh += n
		case "BRF":
			brf += n
		case "BRH":
			brh += n
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan lcov data: %w", err)
	}
	if !sawRecord {
		return nil, fmt.Errorf("no LCOV records found")
	}

	return &Summary{
		Lines:     Percentage(lh, lf),
		Functions: Percentage(fnh, fnf),
		Branches:  Percentage(brh, brf),
		Source:    "lcov",
	}, nil
}
