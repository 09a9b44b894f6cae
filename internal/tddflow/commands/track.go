package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tddworks/tddflow/internal/tddflow/record"
	"github.com/tddworks/tddflow/internal/tddflow/store"
	"github.com/tddworks/tddflow/pkg/output"
)

var (
	trackProject   string
	trackFeature   string
	trackSession   string
	trackStage     string
	trackNote      string
	trackDeveloper string
	trackFilePath  string
	trackFileType  string
	trackFramework string
	trackTestID    string
	trackStatus    string
	trackDuration  int64
	trackJSON      bool
	trackMinimal   bool
)

func newTrackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track",
		Short: "Session, test, and file tracking",
	}

	cmd.PersistentFlags().StringVar(&trackProject, "project", "default", "Project ID")
	cmd.PersistentFlags().BoolVar(&trackJSON, "json", false, "Output as JSON")
	cmd.PersistentFlags().BoolVar(&trackMinimal, "min", false, "Minimal output format")

	cmd.AddCommand(newTrackSessionCmd())
	cmd.AddCommand(newTrackStageCmd())
	cmd.AddCommand(newTrackTestCmd())
	cmd.AddCommand(newTrackResultCmd())
	cmd.AddCommand(newTrackFileCmd())

	return cmd
}

func newTrackSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Start a red-green-refactor session",
		RunE:  runTrackSession,
	}
	cmd.Flags().StringVar(&trackFeature, "feature", "", "Feature ID (required)")
	cmd.Flags().StringVar(&trackDeveloper, "developer", "", "Developer name")
	cmd.MarkFlagRequired("feature")
	return cmd
}

func runTrackSession(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	now := record.Now()
	session := record.Session{
		ID:        record.NewID(record.PrefixSession),
		FeatureID: trackFeature,
		Developer: trackDeveloper,
		Stage:     record.StageRed,
		StartedAt: now,
		UpdatedAt: now,
	}
	if err := st.Save(cmd.Context(), trackProject, record.KindSession, session); err != nil {
		return err
	}

	formatter := output.New(trackJSON, trackMinimal, cmd.OutOrStdout())
	return formatter.Print(session, func(w io.Writer, data interface{}) {
		s := data.(record.Session)
		fmt.Fprintf(w, "SESSION_STARTED:\n")
		fmt.Fprintf(w, "  ID: %s\n", s.ID)
		fmt.Fprintf(w, "  Feature: %s  Stage: %s\n", s.FeatureID, s.Stage)
	})
}

func newTrackStageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stage",
		Short: "Advance or set a session's TDD stage",
		RunE:  runTrackStage,
	}
	cmd.Flags().StringVar(&trackSession, "session", "", "Session ID (required)")
	cmd.Flags().StringVar(&trackStage, "stage", "", "Explicit stage (red, green, refactor); omit to advance")
	cmd.Flags().StringVar(&trackNote, "note", "", "Freeform note to append")
	cmd.MarkFlagRequired("session")
	return cmd
}

func runTrackStage(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	var explicit record.Stage
	if trackStage != "" {
		explicit, err = record.ParseStage(trackStage)
		if err != nil {
			return err
		}
	}

	var updated record.Session
	err = st.Update(cmd.Context(), trackProject, record.KindSession, trackSession, func(raw json.RawMessage) (any, error) {
		var session record.Session
		if err := store.Decode(raw, &session); err != nil {
			return nil, err
		}
		if explicit != "" {
			if session.Stage == record.StageRefactor && explicit == record.StageRed {
				session.CycleCount++
			}
			session.Stage = explicit
			session.UpdatedAt = record.Now()
		} else {
			session.Advance(record.Now())
		}
		if trackNote != "" {
			session.Notes = append(session.Notes, trackNote)
		}
		updated = session
		return session, nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Session %s advanced to %s (cycle %d)\n",
		updated.ID, updated.Stage, updated.CycleCount)
	return nil
}

func newTrackTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Register a test method for tracking",
		RunE:  runTrackTest,
	}
	cmd.Flags().StringVar(&trackFeature, "feature", "", "Feature ID (required)")
	cmd.Flags().StringVar(&trackFilePath, "file", "", "Test file path (required)")
	cmd.Flags().StringVar(&trackFramework, "framework", "", "Test framework")
	cmd.MarkFlagRequired("feature")
	cmd.MarkFlagRequired("file")
	return cmd
}

func runTrackTest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	framework := trackFramework
	if framework == "" {
		framework = cfg.Framework
	}

	now := record.Now()
	test := record.TestMethod{
		ID:        record.NewID(record.PrefixTestMethod),
		FeatureID: trackFeature,
		FilePath:  trackFilePath,
		Framework: framework,
		Status:    record.TestPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := st.Save(cmd.Context(), trackProject, record.KindTestMethod, test); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Test method registered: %s\n", test.ID)
	return nil
}

func newTrackResultCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "result",
		Short: "Record a test method's latest result",
		RunE:  runTrackResult,
	}
	cmd.Flags().StringVar(&trackTestID, "test", "", "Test method ID (required)")
	cmd.Flags().StringVar(&trackStatus, "status", "", "passed, failed, skipped, or pending (required)")
	cmd.Flags().Int64Var(&trackDuration, "duration-ms", 0, "Run duration in milliseconds")
	cmd.MarkFlagRequired("test")
	cmd.MarkFlagRequired("status")
	return cmd
}

func runTrackResult(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	status, err := record.ParseTestStatus(trackStatus)
	if err != nil {
		return err
	}

	err = st.Update(cmd.Context(), trackProject, record.KindTestMethod, trackTestID, func(raw json.RawMessage) (any, error) {
		var test record.TestMethod
		if err := store.Decode(raw, &test); err != nil {
			return nil, err
		}
		test.Status = status
		test.LastResult = &record.ExecutionResult{
			DurationMs: trackDuration,
			Passed:     status == record.TestPassed,
		}
		test.UpdatedAt = record.Now()
		return test, nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Test %s updated: %s\n", trackTestID, status)
	return nil
}

func newTrackFileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file",
		Short: "Associate a file with a feature",
		RunE:  runTrackFile,
	}
	cmd.Flags().StringVar(&trackFeature, "feature", "", "Feature ID (required)")
	cmd.Flags().StringVar(&trackFilePath, "file", "", "File path (required)")
	cmd.Flags().StringVar(&trackFileType, "type", "implementation", "File type: test, implementation, config, doc")
	cmd.MarkFlagRequired("feature")
	cmd.MarkFlagRequired("file")
	return cmd
}

func runTrackFile(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	fileType, err := record.ParseFileType(trackFileType)
	if err != nil {
		return err
	}

	assoc := record.FileAssociation{
		ID:        record.NewID(record.PrefixFileAssoc),
		FeatureID: trackFeature,
		FilePath:  trackFilePath,
		FileType:  fileType,
		CreatedAt: record.Now(),
	}
	assoc.MeasureFile()

	if err := st.Save(cmd.Context(), trackProject, record.KindFileAssoc, assoc); err != nil {
		return err
	}

	formatter := output.New(trackJSON, trackMinimal, cmd.OutOrStdout())
	return formatter.Print(assoc, func(w io.Writer, data interface{}) {
		a := data.(record.FileAssociation)
		fmt.Fprintf(w, "FILE_ASSOCIATED:\n")
		fmt.Fprintf(w, "  ID: %s\n", a.ID)
		fmt.Fprintf(w, "  Feature: %s\n", a.FeatureID)
		fmt.Fprintf(w, "  Path: %s (%s)\n", a.FilePath, a.FileType)
		if a.SizeBytes > 0 {
			fmt.Fprintf(w, "  Size: %s, %d lines\n", humanize.Bytes(uint64(a.SizeBytes)), a.LineCount)
		}
	})
}

func init() {
	RootCmd.AddCommand(newTrackCmd())
}
