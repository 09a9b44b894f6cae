package mcpserver

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/tddworks/tddflow/internal/tddflow/record"
	"github.com/tddworks/tddflow/internal/tddflow/store"
	"github.com/tddworks/tddflow/pkg/pathvalidation"
)

func (h *Handler) startSession(ctx context.Context, args map[string]interface{}) (string, error) {
	featureID, err := h.requireString(args, "feature_id")
	if err != nil {
		return "", err
	}

	now := record.Now()
	session := record.Session{
		ID:        record.NewID(record.PrefixSession),
		FeatureID: featureID,
		Developer: getString(args, "developer"),
		Stage:     record.StageRed,
		StartedAt: now,
		UpdatedAt: now,
	}

	if err := h.store.Save(ctx, h.projectID(args), record.KindSession, session); err != nil {
		return "", err
	}
	return h.tr.T("session.started", "id", session.ID, "feature", featureID), nil
}

func (h *Handler) updateStage(ctx context.Context, args map[string]interface{}) (string, error) {
	id, err := h.requireString(args, "session_id")
	if err != nil {
		return "", err
	}

	var explicit record.Stage
	if raw := getString(args, "stage"); raw != "" {
		explicit, err = record.ParseStage(raw)
		if err != nil {
			return "", err
		}
	}
	note := getString(args, "note")

	var updated record.Session
	err = h.store.Update(ctx, h.projectID(args), record.KindSession, id, func(raw json.RawMessage) (any, error) {
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
		if note != "" {
			session.Notes = append(session.Notes, note)
		}
		updated = session
		return session, nil
	})
	if err != nil {
		return "", h.translateNotFound(err, id)
	}
	return h.tr.T("session.stage_updated",
		"id", id,
		"stage", string(updated.Stage),
		"cycle", strconv.Itoa(updated.CycleCount)), nil
}

func (h *Handler) registerTest(ctx context.Context, args map[string]interface{}) (string, error) {
	featureID, err := h.requireString(args, "feature_id")
	if err != nil {
		return "", err
	}
	filePath, err := h.requireString(args, "file_path")
	if err != nil {
		return "", err
	}
	// MCP clients substitute variables into paths; catch the misses.
	if err := pathvalidation.CheckUnresolvedTemplateVars(filePath); err != nil {
		return "", err
	}

	now := record.Now()
	test := record.TestMethod{
		ID:        record.NewID(record.PrefixTestMethod),
		FeatureID: featureID,
		FilePath:  filePath,
		Framework: getStringDefault(args, "framework", h.cfg.Framework),
		Status:    record.TestPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.store.Save(ctx, h.projectID(args), record.KindTestMethod, test); err != nil {
		return "", err
	}
	return h.tr.T("test.registered", "id", test.ID), nil
}

func (h *Handler) updateTestResult(ctx context.Context, args map[string]interface{}) (string, error) {
	id, err := h.requireString(args, "test_id")
	if err != nil {
		return "", err
	}
	rawStatus, err := h.requireString(args, "status")
	if err != nil {
		return "", err
	}
	status, err := record.ParseTestStatus(rawStatus)
	if err != nil {
		return "", err
	}

	result := &record.ExecutionResult{
		Passed: status == record.TestPassed,
		Output: getString(args, "output"),
	}
	if ms, ok := getInt(args, "duration_ms"); ok {
		result.DurationMs = int64(ms)
	}
	if cov, ok := getFloat(args, "coverage"); ok {
		result.Coverage = cov
	}

	err = h.store.Update(ctx, h.projectID(args), record.KindTestMethod, id, func(raw json.RawMessage) (any, error) {
		var test record.TestMethod
		if err := store.Decode(raw, &test); err != nil {
			return nil, err
		}
		test.Status = status
		test.LastResult = result
		test.UpdatedAt = record.Now()
		return test, nil
	})
	if err != nil {
		return "", h.translateNotFound(err, id)
	}
	return h.tr.T("test.result_updated", "id", id, "status", string(status)), nil
}

func (h *Handler) associateFile(ctx context.Context, args map[string]interface{}) (string, error) {
	featureID, err := h.requireString(args, "feature_id")
	if err != nil {
		return "", err
	}
	filePath, err := h.requireString(args, "file_path")
	if err != nil {
		return "", err
	}
	if err := pathvalidation.CheckUnresolvedTemplateVars(filePath); err != nil {
		return "", err
	}

	fileType := record.FileImplementation
	if raw := getString(args, "file_type"); raw != "" {
		fileType, err = record.ParseFileType(raw)
		if err != nil {
			return "", err
		}
	}

	assoc := record.FileAssociation{
		ID:        record.NewID(record.PrefixFileAssoc),
		FeatureID: featureID,
		FilePath:  filePath,
		FileType:  fileType,
		CreatedAt: record.Now(),
	}
	assoc.MeasureFile()

	if err := h.store.Save(ctx, h.projectID(args), record.KindFileAssoc, assoc); err != nil {
		return "", err
	}
	return h.tr.T("file.associated", "feature", featureID, "path", filePath), nil
}
