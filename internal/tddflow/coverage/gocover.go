package coverage

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// ParseGoProfile reads a `go test -coverprofile` output file. Each body
// line is "file:startLine.startCol,endLine.endCol numStmts count"; line
// coverage is the statement-weighted hit ratio. Go profiles carry no
// function or branch dimension, so those mirror the line figure.
func ParseGoProfile(data []byte) (*Summary, error) {
	var total, covered int

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "mode:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			continue
		}
		stmts, err := strconv.Atoi(fields[1])
		if err != nil {
			continue
		}
		count, err := strconv.Atoi(fields[2])
		if err != nil {
			continue
		}
		total += stmts
		if count > 0 {
			covered += stmts
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan cover profile: %w", err)
	}
	if total == 0 {
		return nil, fmt.Errorf("no statements in cover profile")
	}

	pct := Percentage(covered, total)
	return &Summary{Lines: pct, Functions: pct, Branches: pct, Source: "go-cover"}, nil
}
