package store

import (
	"io"
	"os"
	"path/filepath"
)

// Backend names accepted by Open.
const (
	BackendJSONL  = "jsonl"
	BackendSQLite = "sqlite"
)

// Open creates a store rooted at dataRoot. The backend is chosen by the
// TDDFLOW_BACKEND environment variable, falling back to sqlite when a
// tddflow.db already exists at the root, and to JSONL otherwise.
func Open(dataRoot string, warn io.Writer) (Store, error) {
	backend := os.Getenv("TDDFLOW_BACKEND")
	if backend == "" {
		if _, err := os.Stat(sqlitePath(dataRoot)); err == nil {
			backend = BackendSQLite
		} else {
			backend = BackendJSONL
		}
	}

	switch backend {
	case BackendJSONL:
		return NewJSONLStore(dataRoot, warn)
	case BackendSQLite:
		if err := os.MkdirAll(dataRoot, 0o755); err != nil {
			return nil, err
		}
		return NewSQLiteStore(sqlitePath(dataRoot))
	default:
		return nil, &UnsupportedBackendError{Name: backend}
	}
}

func sqlitePath(dataRoot string) string {
	return filepath.Join(dataRoot, "tddflow.db")
}
