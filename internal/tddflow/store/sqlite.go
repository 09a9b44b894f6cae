package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/tddworks/tddflow/internal/tddflow/record"
)

// SQLiteStore keeps one table per record kind, each row holding the record
// as a JSON column. Suited to installations where the linear scans of the
// JSONL backend become noticeable.
type SQLiteStore struct {
	db   *sql.DB
	mu   sync.Mutex
	open bool
}

// tableName maps a record kind to its table.
func tableName(kind record.Kind) string {
	return strings.ReplaceAll(string(kind), "-", "_")
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// The driver is not safe for concurrent writers on one connection.
	db.SetMaxOpenConns(1)

	for _, kind := range record.Kinds() {
		ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			project_id TEXT NOT NULL,
			data TEXT NOT NULL
		)`, tableName(kind))
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("create table %s: %w", tableName(kind), err)
		}
	}
	return &SQLiteStore{db: db, open: true}, nil
}

// Save inserts one record.
func (s *SQLiteStore) Save(ctx context.Context, projectID string, kind record.Kind, rec any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return ErrStoreClosed
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	id, ok := recordID(raw)
	if !ok {
		return fmt.Errorf("record has no id field")
	}

	query := fmt.Sprintf("INSERT INTO %s (id, project_id, data) VALUES (?, ?, ?)", tableName(kind))
	if _, err := s.db.ExecContext(ctx, query, id, projectID, string(raw)); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return &DuplicateIDError{ID: id}
		}
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// Load retrieves a record by ID across all projects.
func (s *SQLiteStore) Load(ctx context.Context, kind record.Kind, id string) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return nil, ErrStoreClosed
	}

	query := fmt.Sprintf("SELECT data FROM %s WHERE id = ?", tableName(kind))
	var data string
	err := s.db.QueryRowContext(ctx, query, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("query record: %w", err)
	}
	return json.RawMessage(data), nil
}

// List returns every record of one project collection.
func (s *SQLiteStore) List(ctx context.Context, projectID string, kind record.Kind) ([]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return nil, ErrStoreClosed
	}

	query := fmt.Sprintf("SELECT data FROM %s WHERE project_id = ? ORDER BY rowid", tableName(kind))
	rows, err := s.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	result := []json.RawMessage{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		result = append(result, json.RawMessage(data))
	}
	return result, rows.Err()
}

// Update mutates the record matching id.
func (s *SQLiteStore) Update(ctx context.Context, projectID string, kind record.Kind, id string, mutate func(raw json.RawMessage) (any, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return ErrStoreClosed
	}

	table := tableName(kind)
	var data string
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT data FROM %s WHERE id = ? AND project_id = ?", table), id, projectID).Scan(&data)
	if err == sql.ErrNoRows {
		return &NotFoundError{ID: id}
	}
	if err != nil {
		return fmt.Errorf("query record: %w", err)
	}

	mutated, err := mutate(json.RawMessage(data))
	if err != nil {
		return err
	}
	raw, err := json.Marshal(mutated)
	if err != nil {
		return fmt.Errorf("marshal updated record: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET data = ? WHERE id = ?", table), string(raw), id)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	return nil
}

// Delete removes a record by ID.
func (s *SQLiteStore) Delete(ctx context.Context, projectID string, kind record.Kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return ErrStoreClosed
	}

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = ? AND project_id = ?", tableName(kind)), id, projectID)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}

// Projects lists the distinct project IDs across all tables.
func (s *SQLiteStore) Projects(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return nil, ErrStoreClosed
	}

	var selects []string
	for _, kind := range record.Kinds() {
		selects = append(selects, fmt.Sprintf("SELECT project_id FROM %s", tableName(kind)))
	}
	query := strings.Join(selects, " UNION ") + " ORDER BY project_id"
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return nil
	}
	s.open = false
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
