package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tddworks/tddflow/internal/tddflow/quality"
	"github.com/tddworks/tddflow/pkg/output"
)

var (
	refactorPath    string
	refactorJSON    bool
	refactorMinimal bool
)

// refactorResult is the scan report plus rendered suggestions.
type refactorResult struct {
	FilesScanned int                  `json:"files_scanned"`
	Findings     int                  `json:"findings"`
	Duplicates   int                  `json:"duplicates"`
	Suggestions  []quality.Suggestion `json:"suggestions"`
}

func newRefactorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refactor",
		Short: "Scan source and suggest refactorings",
		Long: `Scan project source for long methods, deep conditional nesting,
parameter bloat, and duplicated blocks, and print localized
refactoring suggestions.

Examples:
  tddflow refactor --path ./myproject
  tddflow refactor --json --min`,
		RunE: runRefactor,
	}

	cmd.Flags().StringVar(&refactorPath, "path", "", "Project directory (defaults to configuration)")
	cmd.Flags().BoolVar(&refactorJSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&refactorMinimal, "min", false, "Minimal output format")

	return cmd
}

func runRefactor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := refactorPath
	if path == "" {
		path = cfg.ProjectPath
	}

	report, err := quality.ScanProject(cmd.Context(), path, quality.DefaultRules())
	if err != nil {
		return err
	}
	suggestions := quality.Suggestions(cfg.Translator(), report)

	result := refactorResult{
		FilesScanned: report.FilesScanned,
		Findings:     len(report.Findings),
		Duplicates:   len(report.Duplicates),
		Suggestions:  suggestions,
	}

	formatter := output.New(refactorJSON, refactorMinimal, cmd.OutOrStdout())
	return formatter.Print(result, func(w io.Writer, data interface{}) {
		r := data.(refactorResult)
		fmt.Fprintf(w, "REFACTOR:\n")
		fmt.Fprintf(w, "  Files Scanned: %d\n", r.FilesScanned)
		fmt.Fprintf(w, "  Findings: %d  Duplicates: %d\n", r.Findings, r.Duplicates)
		for _, s := range r.Suggestions {
			if s.File != "" {
				fmt.Fprintf(w, "  - %s: %s\n", s.File, s.Message)
			} else {
				fmt.Fprintf(w, "  - %s\n", s.Message)
			}
		}
	})
}

func init() {
	RootCmd.AddCommand(newRefactorCmd())
}
