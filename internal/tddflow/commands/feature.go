package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tddworks/tddflow/internal/tddflow/record"
	"github.com/tddworks/tddflow/internal/tddflow/store"
	"github.com/tddworks/tddflow/pkg/output"
)

var (
	featureProject     string
	featureName        string
	featureDescription string
	featurePriority    string
	featureCriteria    []string
	featureTags        []string
	featureID          string
	featureStatus      string
	featureJSON        bool
	featureMinimal     bool
)

func newFeatureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feature",
		Short: "Feature bookkeeping (create, status, list, get)",
	}

	cmd.PersistentFlags().StringVar(&featureProject, "project", "default", "Project ID")
	cmd.PersistentFlags().BoolVar(&featureJSON, "json", false, "Output as JSON")
	cmd.PersistentFlags().BoolVar(&featureMinimal, "min", false, "Minimal output format")

	cmd.AddCommand(newFeatureCreateCmd())
	cmd.AddCommand(newFeatureStatusCmd())
	cmd.AddCommand(newFeatureListCmd())
	cmd.AddCommand(newFeatureGetCmd())

	return cmd
}

func newFeatureCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a feature record",
		RunE:  runFeatureCreate,
	}
	cmd.Flags().StringVar(&featureName, "name", "", "Feature name (required)")
	cmd.Flags().StringVar(&featureDescription, "description", "", "Feature description")
	cmd.Flags().StringVar(&featurePriority, "priority", "medium", "Priority: low, medium, high, critical")
	cmd.Flags().StringSliceVar(&featureCriteria, "criteria", nil, "Acceptance criteria (repeatable)")
	cmd.Flags().StringSliceVar(&featureTags, "tag", nil, "Tags (repeatable)")
	cmd.MarkFlagRequired("name")
	return cmd
}

func runFeatureCreate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	priority, err := record.ParsePriority(featurePriority)
	if err != nil {
		return err
	}

	now := record.Now()
	feature := record.Feature{
		ID:                 record.NewID(record.PrefixFeature),
		ProjectID:          featureProject,
		Name:               featureName,
		Description:        featureDescription,
		Status:             record.StatusPlanning,
		Priority:           priority,
		AcceptanceCriteria: featureCriteria,
		Tags:               featureTags,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := st.Save(cmd.Context(), featureProject, record.KindFeature, feature); err != nil {
		return err
	}

	formatter := output.New(featureJSON, featureMinimal, cmd.OutOrStdout())
	return formatter.Print(feature, func(w io.Writer, data interface{}) {
		f := data.(record.Feature)
		fmt.Fprintf(w, "FEATURE_CREATED:\n")
		fmt.Fprintf(w, "  ID: %s\n", f.ID)
		fmt.Fprintf(w, "  Name: %s\n", f.Name)
		fmt.Fprintf(w, "  Status: %s  Priority: %s\n", f.Status, f.Priority)
	})
}

func newFeatureStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Change a feature's lifecycle status",
		RunE:  runFeatureStatus,
	}
	cmd.Flags().StringVar(&featureID, "id", "", "Feature ID (required)")
	cmd.Flags().StringVar(&featureStatus, "status", "", "New status (required)")
	cmd.MarkFlagRequired("id")
	cmd.MarkFlagRequired("status")
	return cmd
}

func runFeatureStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	status, err := record.ParseFeatureStatus(featureStatus)
	if err != nil {
		return err
	}

	err = st.Update(cmd.Context(), featureProject, record.KindFeature, featureID, func(raw json.RawMessage) (any, error) {
		var feature record.Feature
		if err := store.Decode(raw, &feature); err != nil {
			return nil, err
		}
		feature.Status = status
		feature.UpdatedAt = record.Now()
		return feature, nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Feature %s status changed to %s\n", featureID, status)
	return nil
}

func newFeatureListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's features",
		RunE:  runFeatureList,
	}
	cmd.Flags().StringVar(&featureStatus, "status", "", "Filter by lifecycle status")
	return cmd
}

func runFeatureList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	raws, err := st.List(cmd.Context(), featureProject, record.KindFeature)
	if err != nil {
		return err
	}

	var features []record.Feature
	for _, raw := range raws {
		var feature record.Feature
		if err := store.Decode(raw, &feature); err != nil {
			continue
		}
		if featureStatus != "" && string(feature.Status) != featureStatus {
			continue
		}
		features = append(features, feature)
	}

	formatter := output.New(featureJSON, featureMinimal, cmd.OutOrStdout())
	return formatter.Print(features, func(w io.Writer, data interface{}) {
		list := data.([]record.Feature)
		fmt.Fprintf(w, "FEATURES: %d\n", len(list))
		for _, f := range list {
			fmt.Fprintf(w, "  %s  [%s/%s]  %s\n", f.ID, f.Status, f.Priority, f.Name)
		}
	})
}

func newFeatureGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Fetch one feature by ID",
		RunE:  runFeatureGet,
	}
	cmd.Flags().StringVar(&featureID, "id", "", "Feature ID (required)")
	cmd.MarkFlagRequired("id")
	return cmd
}

func runFeatureGet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	raw, err := st.Load(cmd.Context(), record.KindFeature, featureID)
	if err != nil {
		return err
	}
	var feature record.Feature
	if err := store.Decode(raw, &feature); err != nil {
		return err
	}

	formatter := output.New(featureJSON, featureMinimal, cmd.OutOrStdout())
	return formatter.Print(feature, func(w io.Writer, data interface{}) {
		f := data.(record.Feature)
		fmt.Fprintf(w, "FEATURE:\n")
		fmt.Fprintf(w, "  ID: %s\n", f.ID)
		fmt.Fprintf(w, "  Name: %s\n", f.Name)
		fmt.Fprintf(w, "  Status: %s  Priority: %s\n", f.Status, f.Priority)
		if f.Description != "" {
			fmt.Fprintf(w, "  Description: %s\n", f.Description)
		}
		for _, c := range f.AcceptanceCriteria {
			fmt.Fprintf(w, "  - %s\n", c)
		}
	})
}

func init() {
	RootCmd.AddCommand(newFeatureCmd())
}
