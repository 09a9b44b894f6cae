package coverage

import (
	"encoding/xml"
	"fmt"
)

type coberturaRoot struct {
	XMLName    xml.Name `xml:"coverage"`
	LineRate   float64  `xml:"line-rate,attr"`
	BranchRate float64  `xml:"branch-rate,attr"`
}

// ParseCobertura reads a cobertura XML report (pytest-cov, coverlet). The
// root element's line-rate and branch-rate attributes are fractions in
// [0,1]; cobertura has no function-rate, so functions mirror lines.
func ParseCobertura(data []byte) (*Summary, error) {
	var root coberturaRoot
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse cobertura xml: %w", err)
	}
	return &Summary{
		Lines:     root.LineRate * 100,
		Functions: root.LineRate * 100,
		Branches:  root.BranchRate * 100,
		Source:    "cobertura",
	}, nil
}
