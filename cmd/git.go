package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/stuttgart-things/jenkins2gitlab/internal/gitops"
	"github.com/stuttgart-things/jenkins2gitlab/internal/migrate"
	"github.com/stuttgart-things/jenkins2gitlab/internal/settings"
)

const defaultCommitSubject = "Migrate CI/CD from Jenkins to GitLab CI"

// gitConfig builds the git hand-off settings from flags. The GitLab token
// doubles as push credential unless --git-token is given.
func gitConfig(gitlabToken string) *gitops.Config {
	return &gitops.Config{
		Commit:       gitCommit || gitPush,
		Push:         gitPush,
		Branch:       gitBranch,
		CreateBranch: gitCreateBranch,
		Remote:       gitRemote,
		User:         gitUser,
		Token:        settings.Resolve(gitToken, gitlabToken),
		CommitMsg:    gitMessage,
	}
}

// executeGitOperations commits everything the run changed and pushes it if configured
func executeGitOperations(result *migrate.Result, config *gitops.Config) error {
	if config == nil || (!config.Commit && !config.Push) {
		return nil
	}
	if result == nil || !result.Changed() {
		fmt.Println("Nothing to commit.")
		return nil
	}

	// Resolve credentials if pushing
	user, token := config.User, config.Token
	if config.Push {
		var err error
		user, token, err = gitops.ResolveCredentials(user, token)
		if err != nil {
			return err
		}
	} else {
		// For commit only, credentials are optional
		user, token = gitops.ResolveCredentialsOptional(user, token)
	}

	repoPath, err := findRepoRoot(workDir)
	if err != nil {
		return fmt.Errorf("working directory is not in a git repository: %w", err)
	}
	g, err := gitops.New(repoPath, user, token)
	if err != nil {
		return err
	}

	if config.CreateBranch && config.Branch != "" {
		fmt.Printf("Creating branch: %s\n", config.Branch)
		if err := g.CreateBranch(config.Branch); err != nil {
			return err
		}
	} else if config.Branch != "" {
		fmt.Printf("Switching to branch: %s\n", config.Branch)
		if err := g.SwitchBranch(config.Branch); err != nil {
			return err
		}
	}

	changed, err := g.HasChanges()
	if err != nil {
		return err
	}
	if !changed {
		fmt.Println("Working tree clean, nothing to commit.")
		return nil
	}

	// Deletions of the legacy files are staged too
	fmt.Println("Staging changes...")
	if err := g.AddAll(); err != nil {
		return err
	}

	message := config.CommitMsg
	if message == "" {
		message = commitMessage(result)
	}

	fmt.Println(progressStyle.Render("Committing: " + strings.SplitN(message, "\n", 2)[0]))
	if err := g.Commit(message, config.User, ""); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("Committed successfully"))

	if config.Push {
		remote := config.Remote
		if remote == "" {
			remote = "origin"
		}
		branch, err := g.GetCurrentBranch()
		if err != nil {
			return err
		}
		fmt.Printf("Pushing %s to %s...\n", branch, remote)
		if err := g.Push(remote, branch); err != nil {
			return err
		}
		fmt.Println(successStyle.Render("Pushed successfully"))
	}

	return nil
}

// commitMessage summarizes the run in a commit message
func commitMessage(result *migrate.Result) string {
	var b strings.Builder
	b.WriteString(defaultCommitSubject)
	b.WriteString("\n")

	section := func(title string, paths []string) {
		if len(paths) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n%s:\n", title)
		for _, p := range paths {
			fmt.Fprintf(&b, "- %s\n", p)
		}
	}
	section("Added", result.Written)
	section("Removed", result.Deleted)
	if result.PipelineUpdated {
		section("Updated", []string{migrate.LocalPipeline})
	}

	return b.String()
}

// findRepoRoot finds the git repository root from a starting path
func findRepoRoot(startPath string) (string, error) {
	absPath, err := filepath.Abs(startPath)
	if err != nil {
		return "", err
	}

	for {
		gitDir := filepath.Join(absPath, ".git")
		if _, err := os.Stat(gitDir); err == nil {
			return absPath, nil
		}

		parent := filepath.Dir(absPath)
		if parent == absPath {
			return "", fmt.Errorf("not a git repository")
		}
		absPath = parent
	}
}
