package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tddworks/tddflow/internal/tddflow/record"
	"github.com/tddworks/tddflow/internal/tddflow/store"
)

func (h *Handler) createFeature(ctx context.Context, args map[string]interface{}) (string, error) {
	name, err := h.requireString(args, "name")
	if err != nil {
		return "", err
	}

	priority := record.PriorityMedium
	if raw := getString(args, "priority"); raw != "" {
		priority, err = record.ParsePriority(raw)
		if err != nil {
			return "", err
		}
	}

	now := record.Now()
	feature := record.Feature{
		ID:                 record.NewID(record.PrefixFeature),
		ProjectID:          h.projectID(args),
		Name:               name,
		Description:        getString(args, "description"),
		Status:             record.StatusPlanning,
		Priority:           priority,
		AcceptanceCriteria: getStringSlice(args, "acceptance_criteria"),
		Tags:               getStringSlice(args, "tags"),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := h.store.Save(ctx, feature.ProjectID, record.KindFeature, feature); err != nil {
		return "", err
	}

	detail, err := marshalResult(feature)
	if err != nil {
		return "", err
	}
	return h.tr.T("feature.created", "id", feature.ID) + "\n" + detail, nil
}

func (h *Handler) updateFeatureStatus(ctx context.Context, args map[string]interface{}) (string, error) {
	id, err := h.requireString(args, "feature_id")
	if err != nil {
		return "", err
	}
	rawStatus, err := h.requireString(args, "status")
	if err != nil {
		return "", err
	}
	status, err := record.ParseFeatureStatus(rawStatus)
	if err != nil {
		return "", err
	}

	err = h.store.Update(ctx, h.projectID(args), record.KindFeature, id, func(raw json.RawMessage) (any, error) {
		var feature record.Feature
		if err := store.Decode(raw, &feature); err != nil {
			return nil, err
		}
		feature.Status = status
		feature.UpdatedAt = record.Now()
		return feature, nil
	})
	if err != nil {
		return "", h.translateNotFound(err, id)
	}
	return h.tr.T("feature.updated", "id", id, "status", string(status)), nil
}

func (h *Handler) listFeatures(ctx context.Context, args map[string]interface{}) (string, error) {
	projectID := h.projectID(args)
	raws, err := h.store.List(ctx, projectID, record.KindFeature)
	if err != nil {
		return "", err
	}

	statusFilter := getString(args, "status")
	var features []record.Feature
	for _, raw := range raws {
		var feature record.Feature
		if err := store.Decode(raw, &feature); err != nil {
			continue
		}
		if statusFilter != "" && string(feature.Status) != statusFilter {
			continue
		}
		features = append(features, feature)
	}

	if len(features) == 0 {
		return h.tr.T("feature.none", "project", projectID), nil
	}
	return marshalResult(features)
}

func (h *Handler) getFeature(ctx context.Context, args map[string]interface{}) (string, error) {
	id, err := h.requireString(args, "feature_id")
	if err != nil {
		return "", err
	}

	raw, err := h.store.Load(ctx, record.KindFeature, id)
	if err != nil {
		return "", h.translateNotFound(err, id)
	}
	var feature record.Feature
	if err := store.Decode(raw, &feature); err != nil {
		return "", err
	}
	return marshalResult(feature)
}

// translateNotFound rewrites store not-found errors with the localized
// message; everything else passes through.
func (h *Handler) translateNotFound(err error, id string) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%s", h.tr.T("error.not_found", "id", id))
	}
	return err
}
