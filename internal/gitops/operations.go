package gitops

import (
	"fmt"
	"log/slog"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

// GitOps handles git operations for the migrated project
type GitOps struct {
	RepoPath string
	repo     *git.Repository
	auth     *http.BasicAuth
}

// Config holds git-related configuration
type Config struct {
	Commit       bool
	Push         bool
	Branch       string
	CreateBranch bool
	Remote       string
	User         string
	Token        string
	CommitMsg    string
}

// New creates a GitOps instance for an existing repo
func New(repoPath string, user, token string) (*GitOps, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}

	g := &GitOps{
		RepoPath: repoPath,
		repo:     repo,
	}

	if user != "" && token != "" {
		g.auth = &http.BasicAuth{
			Username: user,
			Password: token,
		}
	}

	return g, nil
}

// AddAll stages every change in the worktree, deletions included
func (g *GitOps) AddAll() error {
	worktree, err := g.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	if err := worktree.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("staging changes: %w", err)
	}

	return nil
}

// HasChanges reports whether the worktree differs from HEAD
func (g *GitOps) HasChanges() (bool, error) {
	worktree, err := g.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("getting worktree: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return false, fmt.Errorf("reading status: %w", err)
	}

	return !status.IsClean(), nil
}

// Commit creates a commit with the staged changes
func (g *GitOps) Commit(message, authorName, authorEmail string) error {
	worktree, err := g.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	if authorName == "" || authorName == DefaultUser {
		authorName = "jenkins2gitlab"
	}
	if authorEmail == "" {
		authorEmail = "jenkins2gitlab@automated"
	}

	slog.Debug("git commit", "repo", g.RepoPath, "message", message)

	_, err = worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  authorName,
			Email: authorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("committing: %w", err)
	}

	return nil
}

// Push pushes branch to remote
func (g *GitOps) Push(remote, branch string) error {
	if g.auth == nil {
		return fmt.Errorf("git credentials required for push")
	}

	opts := &git.PushOptions{
		RemoteName: remote,
		Auth:       g.auth,
	}
	if branch != "" {
		ref := fmt.Sprintf("refs/heads/%s:refs/heads/%s", branch, branch)
		opts.RefSpecs = []config.RefSpec{config.RefSpec(ref)}
	}

	slog.Debug("git push", "remote", remote, "branch", branch)

	err := g.repo.Push(opts)
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return fmt.Errorf("pushing: %w", err)
	}

	return nil
}

// GetRepo returns the underlying git repository
func (g *GitOps) GetRepo() *git.Repository {
	return g.repo
}
