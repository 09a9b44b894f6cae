package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tddworks/tddflow/internal/tddflow/cycle"
	"github.com/tddworks/tddflow/pkg/output"
)

var (
	cyclePath      string
	cycleFramework string
	cycleLimit     int
	cycleSkipTest  bool
	cycleJSON      bool
	cycleMinimal   bool
)

func newCycleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cycle",
		Short: "Validate red-green-refactor adherence",
		Long: `Classify the current TDD stage with a quick test run and score
red-green-refactor adherence over recent git history.

Commit subjects are matched against test/implementation/refactor
keyword lists; deductions apply for implementation commits without
tests, implementation before any test commit, refactoring while red,
and oversized commits. This is a best-effort lint, not a proof of
process.

Examples:
  tddflow cycle --path ./myrepo
  tddflow cycle --limit 100 --skip-test --json`,
		RunE: runCycle,
	}

	cmd.Flags().StringVar(&cyclePath, "path", "", "Git repository (defaults to configuration)")
	cmd.Flags().StringVar(&cycleFramework, "framework", "", "Test framework for the quick probe run")
	cmd.Flags().IntVar(&cycleLimit, "limit", cycle.DefaultHistoryLimit, "Maximum commits to inspect")
	cmd.Flags().BoolVar(&cycleSkipTest, "skip-test", false, "Skip the quick test probe")
	cmd.Flags().BoolVar(&cycleJSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&cycleMinimal, "min", false, "Minimal output format")

	return cmd
}

func runCycle(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := cyclePath
	if path == "" {
		path = cfg.ProjectPath
	}
	framework := cycleFramework
	if framework == "" {
		framework = cfg.Framework
	}

	commits, err := cycle.CollectHistory(cmd.Context(), path, cycle.HistoryOptions{Limit: cycleLimit})
	if err != nil {
		return err
	}

	var quick cycle.QuickTestResult
	if !cycleSkipTest {
		quick = cycle.RunQuickTest(cmd.Context(), path, framework)
	}
	validation := cycle.Validate(commits, quick)

	formatter := output.New(cycleJSON, cycleMinimal, cmd.OutOrStdout())
	return formatter.Print(*validation, func(w io.Writer, data interface{}) {
		v := data.(cycle.Validation)
		fmt.Fprintf(w, "TDD_CYCLE:\n")
		fmt.Fprintf(w, "  Stage: %s\n", v.Stage)
		fmt.Fprintf(w, "  Adherence: %d/100 (Grade: %s)\n", v.Adherence, v.Grade)
		fmt.Fprintf(w, "  Quick Test: %d passed, %d failed\n", v.QuickTest.Passed, v.QuickTest.Failed)
		if v.Compliance != nil {
			fmt.Fprintf(w, "  History Score: %.1f%% over %d code commits\n",
				v.Compliance.Score, v.Compliance.TotalCodeCommits)
		}
		if len(v.Violations) > 0 {
			fmt.Fprintf(w, "  Violations:\n")
			for _, violation := range v.Violations {
				fmt.Fprintf(w, "    - %s (%s, -%d)\n", violation.Kind, shortCommit(violation.Commit), violation.Deduction)
			}
		}
	})
}

func shortCommit(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}

func init() {
	RootCmd.AddCommand(newCycleCmd())
}
