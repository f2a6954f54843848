package history

import (
	"github.com/go-git/go-git/v5"
)

// CurrentBranch returns the checked-out branch of the repository containing
// repoPath.
//
// Returns an empty string if the path is not a git repository, HEAD cannot
// be resolved, or HEAD is detached.
func CurrentBranch(repoPath string) string {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}

	head, err := repo.Head()
	if err != nil {
		return ""
	}

	// head.Name() is refs/heads/<branch> on a branch
	if head.Name().IsBranch() {
		return head.Name().Short()
	}
	return ""
}
