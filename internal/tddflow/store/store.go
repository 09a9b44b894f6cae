package store

import (
	"context"
	"encoding/json"

	"github.com/tddworks/tddflow/internal/tddflow/record"
)

// Store is the persistence interface for tddflow records. Records travel
// as raw JSON; callers own the concrete types. Implementations must be
// safe for concurrent use from multiple goroutines.
type Store interface {
	// Save appends one record to a project collection.
	// Returns ErrDuplicateID if a record with the same ID exists there.
	Save(ctx context.Context, projectID string, kind record.Kind, rec any) error

	// Load retrieves a record by ID, scanning every project. Single-record
	// reads are not keyed by project, so this is O(total records).
	Load(ctx context.Context, kind record.Kind, id string) (json.RawMessage, error)

	// List returns every record of one project collection. Malformed
	// lines are skipped with a logged warning, not surfaced as errors.
	List(ctx context.Context, projectID string, kind record.Kind) ([]json.RawMessage, error)

	// Update applies mutate to the first record matching id and rewrites
	// the collection. Returns ErrNotFound without creating anything when
	// the ID does not exist.
	Update(ctx context.Context, projectID string, kind record.Kind, id string, mutate func(raw json.RawMessage) (any, error)) error

	// Delete removes a record by ID, rewriting the collection.
	Delete(ctx context.Context, projectID string, kind record.Kind, id string) error

	// Projects lists every known project ID.
	Projects(ctx context.Context) ([]string, error)

	// Close releases resources. After Close, operations return
	// ErrStoreClosed.
	Close() error
}

// identified is the minimal shape every stored record shares.
type identified struct {
	ID string `json:"id"`
}

// recordID extracts the "id" field from a marshaled record.
func recordID(raw []byte) (string, bool) {
	var ident identified
	if err := json.Unmarshal(raw, &ident); err != nil || ident.ID == "" {
		return "", false
	}
	return ident.ID, true
}

// Decode unmarshals a raw record into out, a typed convenience for
// callers of Load and List.
func Decode(raw json.RawMessage, out any) error {
	return json.Unmarshal(raw, out)
}
