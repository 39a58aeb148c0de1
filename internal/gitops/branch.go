package gitops

import (
	"errors"
	"fmt"
	"log/slog"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// CreateBranch points a new branch at HEAD and switches to it. Pending
// migration output in the worktree is carried over.
func (g *GitOps) CreateBranch(name string) error {
	head, err := g.repo.Head()
	if err != nil {
		return fmt.Errorf("getting HEAD: %w", err)
	}

	branch := plumbing.NewBranchReferenceName(name)
	if err := g.repo.Storer.SetReference(plumbing.NewHashReference(branch, head.Hash())); err != nil {
		return fmt.Errorf("creating branch %s: %w", name, err)
	}
	slog.Debug("git branch created", "branch", name, "from", head.Hash().String())

	return g.checkout(branch)
}

// CheckoutBranch switches to an existing branch, keeping pending changes
func (g *GitOps) CheckoutBranch(name string) error {
	return g.checkout(plumbing.NewBranchReferenceName(name))
}

// checkout uses Keep so written values files and legacy deletions survive
// the switch
func (g *GitOps) checkout(branch plumbing.ReferenceName) error {
	worktree, err := g.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	slog.Debug("git checkout", "repo", g.RepoPath, "branch", branch.Short())
	if err := worktree.Checkout(&git.CheckoutOptions{Branch: branch, Keep: true}); err != nil {
		return fmt.Errorf("checking out %s: %w", branch.Short(), err)
	}
	return nil
}

// SwitchBranch checks out name, creating it from HEAD when it does not exist yet
func (g *GitOps) SwitchBranch(name string) error {
	_, err := g.repo.Reference(plumbing.NewBranchReferenceName(name), true)
	switch {
	case err == nil:
		return g.CheckoutBranch(name)
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		return g.CreateBranch(name)
	default:
		return fmt.Errorf("looking up branch %s: %w", name, err)
	}
}

// GetCurrentBranch returns the name of the current branch
func (g *GitOps) GetCurrentBranch() (string, error) {
	head, err := g.repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}

	return head.Name().Short(), nil
}
