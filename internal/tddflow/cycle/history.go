package cycle

import (
	"context"
	"fmt"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// DefaultHistoryLimit bounds how many commits one validation inspects.
const DefaultHistoryLimit = 50

// Commit is one history entry with its changed paths.
type Commit struct {
	Hash    string    `json:"hash"`
	Author  string    `json:"author"`
	Date    time.Time `json:"date"`
	Subject string    `json:"subject"`
	Files   []string  `json:"files"`
}

// HistoryOptions filter which commits are collected.
type HistoryOptions struct {
	Since *time.Time
	Until *time.Time
	Limit int
}

// CollectHistory reads up to Limit commits from the repository at path,
// newest first, resolving each commit's changed file list from its diff
// stats. Commits whose stats cannot be computed (e.g. the root commit of
// a shallow clone) are skipped rather than failing the whole collection.
func CollectHistory(ctx context.Context, path string, opts HistoryOptions) ([]Commit, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", path, err)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	iter, err := repo.Log(&git.LogOptions{Since: opts.Since, Until: opts.Until})
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	defer iter.Close()

	var commits []Commit
	err = iter.ForEach(func(c *object.Commit) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if len(commits) >= limit {
			return object.ErrCanceled
		}

		stats, err := c.Stats()
		if err != nil {
			return nil
		}
		files := make([]string, 0, len(stats))
		for _, stat := range stats {
			files = append(files, stat.Name)
		}

		subject := c.Message
		if idx := indexNewline(subject); idx >= 0 {
			subject = subject[:idx]
		}
		commits = append(commits, Commit{
			Hash:    c.Hash.String(),
			Author:  c.Author.Name,
			Date:    c.Author.When.UTC(),
			Subject: subject,
			Files:   files,
		})
		return nil
	})
	if err != nil && err != object.ErrCanceled {
		return nil, fmt.Errorf("walk log: %w", err)
	}
	return commits, nil
}

func indexNewline(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' || s[i] == '\r' {
			return i
		}
	}
	return -1
}
