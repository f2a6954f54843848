// Package history reads the revisions of one file from a git repository as
// an ordered snapshot sequence.
package history

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fyrsmithlabs/codesim/internal/engine"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

var (
	// ErrNotRepository indicates the path is not inside a git work tree.
	ErrNotRepository = errors.New("not a git repository")

	// ErrNoHistory indicates no commit touches the file.
	ErrNoHistory = errors.New("file has no history")
)

// Load returns up to limit revisions of filePath, oldest first. A limit of
// zero or less loads the whole history. filePath may be absolute or relative
// to repoPath.
//
// Each snapshot carries a 1-based Version, the short commit hash as ID, and
// the commit author and time. Commits in which the file does not exist are
// skipped.
func Load(ctx context.Context, repoPath, filePath string, limit int) ([]engine.Snapshot, error) {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotRepository, repoPath, err)
	}

	rel, err := relativePath(repo, repoPath, filePath)
	if err != nil {
		return nil, err
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNoHistory, rel, err)
	}

	iter, err := repo.Log(&git.LogOptions{
		From:     head.Hash(),
		FileName: &rel,
		Order:    git.LogOrderCommitterTime,
	})
	if err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}
	defer iter.Close()

	var snaps []engine.Snapshot
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		f, err := c.File(rel)
		if errors.Is(err, object.ErrFileNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading %s at %s: %w", rel, c.Hash, err)
		}
		code, err := f.Contents()
		if err != nil {
			return fmt.Errorf("reading %s at %s: %w", rel, c.Hash, err)
		}

		snaps = append(snaps, engine.Snapshot{
			Snippet: engine.Snippet{
				ID:        c.Hash.String()[:7],
				Code:      code,
				Timestamp: c.Author.When,
			},
			Author: c.Author.Email,
		})
		if limit > 0 && len(snaps) >= limit {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoHistory, rel)
	}

	// The log is newest first.
	slices.Reverse(snaps)
	for i := range snaps {
		snaps[i].Version = i + 1
	}
	return snaps, nil
}

// relativePath returns filePath relative to the work tree root, slash-separated.
func relativePath(repo *git.Repository, repoPath, filePath string) (string, error) {
	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotRepository, err)
	}
	root := wt.Filesystem.Root()

	abs := filePath
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(repoPath, filePath)
	}
	abs, err = filepath.Abs(abs)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", filePath, err)
	}

	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside the repository %s", filePath, root)
	}
	return filepath.ToSlash(rel), nil
}
