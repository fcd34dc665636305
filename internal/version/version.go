// Package version resolves the package version embedded in catalog headers
// and control metadata. A configured version wins; otherwise the source
// tree's git tags are consulted.
package version

import (
	"errors"
	"fmt"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Fallback is used when neither configuration nor the repository yields a
// version.
const Fallback = "0.0.0"

// Resolve returns the configured version when set, otherwise the newest tag
// of the git repository containing dir, otherwise Fallback.
func Resolve(dir, configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return Fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("open repository: %w", err)
	}

	tag, err := newestTag(repo)
	if err != nil {
		return "", err
	}
	if tag == "" {
		return Fallback, nil
	}
	return strings.TrimPrefix(tag, "v"), nil
}

// newestTag returns the tag whose commit is newest, or "" with no tags.
func newestTag(repo *git.Repository) (string, error) {
	tags, err := repo.Tags()
	if err != nil {
		return "", fmt.Errorf("list tags: %w", err)
	}

	var (
		best     string
		bestTime time.Time
	)
	err = tags.ForEach(func(ref *plumbing.Reference) error {
		hash := ref.Hash()
		// Annotated tags point at a tag object, not the commit.
		if obj, err := repo.TagObject(hash); err == nil {
			hash = obj.Target
		}
		commit, err := repo.CommitObject(hash)
		if err != nil {
			return nil // tag on a non-commit object, skip
		}
		when := commit.Committer.When
		if best == "" || when.After(bestTime) {
			best = ref.Name().Short()
			bestTime = when
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walk tags: %w", err)
	}
	return best, nil
}
