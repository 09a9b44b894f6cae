package cycle

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// initRepo creates a repository with one commit per entry, oldest first.
func initRepo(t *testing.T, commits []struct {
	subject string
	files   map[string]string
}) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit() error = %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}

	when := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for _, c := range commits {
		for name, content := range c.files {
			path := filepath.Join(dir, name)
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := wt.Add(name); err != nil {
				t.Fatal(err)
			}
		}
		when = when.Add(time.Minute)
		_, err := wt.Commit(c.subject, &git.CommitOptions{
			Author: &object.Signature{Name: "dev", Email: "dev@example.com", When: when},
		})
		if err != nil {
			t.Fatalf("Commit(%q) error = %v", c.subject, err)
		}
	}
	return dir
}

func TestCollectHistory(t *testing.T) {
	dir := initRepo(t, []struct {
		subject string
		files   map[string]string
	}{
		{"test: failing calc spec", map[string]string{"calc.test.ts": "it('adds')"}},
		{"feat: calc passes\n\nlonger body text", map[string]string{"calc.ts": "export const add = 1"}},
	})

	commits, err := CollectHistory(context.Background(), dir, HistoryOptions{})
	if err != nil {
		t.Fatalf("CollectHistory() error = %v", err)
	}
	if len(commits) != 2 {
		t.Fatalf("len(commits) = %d, want 2", len(commits))
	}

	// Newest first.
	if commits[0].Subject != "feat: calc passes" {
		t.Errorf("commits[0].Subject = %q, want body stripped", commits[0].Subject)
	}
	if len(commits[0].Files) != 1 || commits[0].Files[0] != "calc.ts" {
		t.Errorf("commits[0].Files = %v, want [calc.ts]", commits[0].Files)
	}
	if commits[1].Subject != "test: failing calc spec" {
		t.Errorf("commits[1].Subject = %q", commits[1].Subject)
	}
	if commits[0].Author != "dev" {
		t.Errorf("Author = %q, want dev", commits[0].Author)
	}
	if !commits[0].Date.After(commits[1].Date) {
		t.Error("commits should be newest first")
	}
}

func TestCollectHistoryLimit(t *testing.T) {
	var entries []struct {
		subject string
		files   map[string]string
	}
	for i := 0; i < 5; i++ {
		name := "f" + string(rune('a'+i)) + ".ts"
		entries = append(entries, struct {
			subject string
			files   map[string]string
		}{"commit " + name, map[string]string{name: "x"}})
	}
	dir := initRepo(t, entries)

	commits, err := CollectHistory(context.Background(), dir, HistoryOptions{Limit: 2})
	if err != nil {
		t.Fatalf("CollectHistory() error = %v", err)
	}
	if len(commits) != 2 {
		t.Errorf("len(commits) = %d, want limit of 2", len(commits))
	}
}

func TestCollectHistoryNotARepo(t *testing.T) {
	if _, err := CollectHistory(context.Background(), t.TempDir(), HistoryOptions{}); err == nil {
		t.Error("expected error outside a repository")
	}
}

func TestCollectHistoryDetectsDotGit(t *testing.T) {
	dir := initRepo(t, []struct {
		subject string
		files   map[string]string
	}{
		{"initial", map[string]string{"src/main.go": "package main"}},
	})

	// Opening from a subdirectory should still find the repository.
	commits, err := CollectHistory(context.Background(), filepath.Join(dir, "src"), HistoryOptions{})
	if err != nil {
		t.Fatalf("CollectHistory(subdir) error = %v", err)
	}
	if len(commits) != 1 {
		t.Errorf("len(commits) = %d, want 1", len(commits))
	}
}
