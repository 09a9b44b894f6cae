package store

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/gofrs/flock"

	"github.com/tddworks/tddflow/internal/tddflow/record"
)

// JSONLStore persists one JSON object per line in
// <root>/projects/<projectID>/<kind>.jsonl. Appends go straight to the
// file; updates and deletes rewrite the whole file through a temp file and
// atomic rename. A flock sidecar serializes writers across processes, and
// a mutex serializes them within this one.
type JSONLStore struct {
	root string
	mu   sync.Mutex
	warn io.Writer
	open bool
}

// NewJSONLStore creates a JSONL store rooted at dataRoot, creating the
// projects directory if needed. Warnings about malformed lines go to warn
// (stderr when nil).
func NewJSONLStore(dataRoot string, warn io.Writer) (*JSONLStore, error) {
	if warn == nil {
		warn = os.Stderr
	}
	if err := os.MkdirAll(filepath.Join(dataRoot, "projects"), 0o755); err != nil {
		return nil, fmt.Errorf("create data root: %w", err)
	}
	return &JSONLStore{root: dataRoot, warn: warn, open: true}, nil
}

func (s *JSONLStore) projectsDir() string {
	return filepath.Join(s.root, "projects")
}

func (s *JSONLStore) collectionPath(projectID string, kind record.Kind) string {
	return filepath.Join(s.projectsDir(), projectID, string(kind)+".jsonl")
}

// lock acquires the cross-process writer lock for one collection file,
// creating the project directory so the sidecar can be opened on the
// first write into a fresh project.
func (s *JSONLStore) lock(path string) (*flock.Flock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create project directory: %w", err)
	}
	fl := flock.New(path + ".lock")
	if err := fl.Lock(); err != nil {
		return nil, fmt.Errorf("acquire lock for %s: %w", path, err)
	}
	return fl, nil
}

// readLines returns every line of a collection file, skipping lines that
// are not valid JSON objects with an id.
func (s *JSONLStore) readLines(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var lines []json.RawMessage
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			fmt.Fprintf(s.warn, "tddflow: skipping malformed record at %s:%d\n", path, lineNo)
			continue
		}
		lines = append(lines, json.RawMessage(append([]byte(nil), line...)))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return lines, nil
}

// rewrite replaces a collection file atomically.
func (s *JSONLStore) rewrite(path string, lines []json.RawMessage) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	w := bufio.NewWriter(tmp)
	for _, line := range lines {
		if _, err := w.Write(line); err != nil {
			tmp.Close()
			os.Remove(tmpPath)
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			tmp.Close()
			os.Remove(tmpPath)
			return err
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Save appends one record, rejecting duplicate IDs within the collection.
func (s *JSONLStore) Save(ctx context.Context, projectID string, kind record.Kind, rec any) error {
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

	path := s.collectionPath(projectID, kind)
	fl, err := s.lock(path)
	if err != nil {
		return err
	}
	defer fl.Unlock()

	existing, err := s.readLines(path)
	if err != nil {
		return err
	}
	for _, line := range existing {
		if lineID, ok := recordID(line); ok && lineID == id {
			return &DuplicateIDError{ID: id}
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(append(raw, '\n')); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}

// Load scans every project directory for the record with the given ID.
func (s *JSONLStore) Load(ctx context.Context, kind record.Kind, id string) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return nil, ErrStoreClosed
	}

	projects, err := s.projectIDs()
	if err != nil {
		return nil, err
	}
	for _, projectID := range projects {
		lines, err := s.readLines(s.collectionPath(projectID, kind))
		if err != nil {
			return nil, err
		}
		for _, line := range lines {
			if lineID, ok := recordID(line); ok && lineID == id {
				return line, nil
			}
		}
	}
	return nil, &NotFoundError{ID: id}
}

// List returns every record of one project collection.
func (s *JSONLStore) List(ctx context.Context, projectID string, kind record.Kind) ([]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return nil, ErrStoreClosed
	}
	lines, err := s.readLines(s.collectionPath(projectID, kind))
	if err != nil {
		return nil, err
	}
	if lines == nil {
		lines = []json.RawMessage{}
	}
	return lines, nil
}

// Update mutates the first record matching id and rewrites the file.
func (s *JSONLStore) Update(ctx context.Context, projectID string, kind record.Kind, id string, mutate func(raw json.RawMessage) (any, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return ErrStoreClosed
	}

	path := s.collectionPath(projectID, kind)
	fl, err := s.lock(path)
	if err != nil {
		return err
	}
	defer fl.Unlock()

	lines, err := s.readLines(path)
	if err != nil {
		return err
	}

	found := false
	for i, line := range lines {
		lineID, ok := recordID(line)
		if !ok || lineID != id {
			continue
		}
		mutated, err := mutate(line)
		if err != nil {
			return err
		}
		raw, err := json.Marshal(mutated)
		if err != nil {
			return fmt.Errorf("marshal updated record: %w", err)
		}
		lines[i] = raw
		found = true
		break
	}
	if !found {
		return &NotFoundError{ID: id}
	}
	return s.rewrite(path, lines)
}

// Delete removes a record by ID and rewrites the file.
func (s *JSONLStore) Delete(ctx context.Context, projectID string, kind record.Kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return ErrStoreClosed
	}

	path := s.collectionPath(projectID, kind)
	fl, err := s.lock(path)
	if err != nil {
		return err
	}
	defer fl.Unlock()

	lines, err := s.readLines(path)
	if err != nil {
		return err
	}

	kept := lines[:0]
	found := false
	for _, line := range lines {
		if lineID, ok := recordID(line); ok && lineID == id {
			found = true
			continue
		}
		kept = append(kept, line)
	}
	if !found {
		return &NotFoundError{ID: id}
	}
	return s.rewrite(path, kept)
}

// Projects lists every project directory under the data root.
func (s *JSONLStore) Projects(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return nil, ErrStoreClosed
	}
	return s.projectIDs()
}

func (s *JSONLStore) projectIDs() ([]string, error) {
	entries, err := os.ReadDir(s.projectsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			ids = append(ids, entry.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Close marks the store closed.
func (s *JSONLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
	return nil
}

var _ Store = (*JSONLStore)(nil)
