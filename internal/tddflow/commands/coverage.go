package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tddworks/tddflow/internal/tddflow/coverage"
	"github.com/tddworks/tddflow/pkg/output"
)

var (
	coveragePath      string
	coverageThreshold float64
	coverageJSON      bool
	coverageMinimal   bool
)

// coverageResult pairs the parsed summary with the threshold verdict.
type coverageResult struct {
	coverage.Summary
	Threshold float64 `json:"threshold"`
	Meets     bool    `json:"meets_threshold"`
}

func newCoverageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coverage",
		Short: "Parse coverage artifacts and check the threshold",
		Long: `Probe the project for coverage artifacts (lcov.info, istanbul JSON,
cobertura XML, Go cover profiles, HTML reports) and compare line
coverage against the threshold.

Examples:
  tddflow coverage --path ./myproject
  tddflow coverage --threshold 90 --json`,
		RunE: runCoverage,
	}

	cmd.Flags().StringVar(&coveragePath, "path", "", "Project directory (defaults to configuration)")
	cmd.Flags().Float64Var(&coverageThreshold, "threshold", 0, "Coverage threshold percentage (defaults to configuration)")
	cmd.Flags().BoolVar(&coverageJSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&coverageMinimal, "min", false, "Minimal output format")

	return cmd
}

func runCoverage(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := coveragePath
	if path == "" {
		path = cfg.ProjectPath
	}
	threshold := coverageThreshold
	if threshold == 0 {
		threshold = cfg.CoverageThreshold
	}

	summary := coverage.ProbeArtifacts(path)
	if summary == nil {
		return fmt.Errorf("no coverage artifacts found under %s", path)
	}

	result := coverageResult{
		Summary:   *summary,
		Threshold: threshold,
		Meets:     summary.MeetsThreshold(threshold),
	}

	formatter := output.New(coverageJSON, coverageMinimal, cmd.OutOrStdout())
	return formatter.Print(result, func(w io.Writer, data interface{}) {
		r := data.(coverageResult)
		fmt.Fprintf(w, "COVERAGE:\n")
		fmt.Fprintf(w, "  Lines: %.1f%%\n", r.Lines)
		fmt.Fprintf(w, "  Functions: %.1f%%\n", r.Functions)
		fmt.Fprintf(w, "  Branches: %.1f%%\n", r.Branches)
		fmt.Fprintf(w, "  Source: %s\n", r.Source)
		verdict := "BELOW"
		if r.Meets {
			verdict = "MEETS"
		}
		fmt.Fprintf(w, "  Threshold: %.1f%% (%s)\n", r.Threshold, verdict)
	})
}

func init() {
	RootCmd.AddCommand(newCoverageCmd())
}
