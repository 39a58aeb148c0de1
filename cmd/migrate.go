package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pkg/browser"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stuttgart-things/jenkins2gitlab/internal/gitlab"
	"github.com/stuttgart-things/jenkins2gitlab/internal/identity"
	"github.com/stuttgart-things/jenkins2gitlab/internal/migrate"
	"github.com/stuttgart-things/jenkins2gitlab/internal/settings"
	"github.com/stuttgart-things/jenkins2gitlab/internal/sops"
)

var (
	propertiesFile string
	parametersDir  string
	skipMigration  bool
	token          string
	projectID      string
	outputDir      string
	workDir        string
	verbose        bool
	noColor        bool

	gitlabURL        string
	expectedAccount  string
	kmsKey           string
	referenceProject string
	referenceRef     string
	helpURL          string
	awsProfile       string
	awsRegion        string
	settingsFile     string

	// Git flags
	gitCommit       bool
	gitPush         bool
	gitBranch       string
	gitCreateBranch bool
	gitMessage      string
	gitRemote       string
	gitUser         string
	gitToken        string
)

func init() {
	f := rootCmd.Flags()
	f.StringVar(&propertiesFile, "jenkins-properties", "", "Path to the legacy Jenkins properties file (required)")
	f.StringVar(&parametersDir, "service-parameters", "", "Directory with parameters-<env>.json files (required)")
	f.BoolVar(&skipMigration, "skip-migration", false, "Skip environment variable migration")
	f.StringVar(&token, "token", "", "GitLab access token (or $GITLAB_TOKEN)")
	f.StringVar(&projectID, "project-id", "", "GitLab project id or path")
	f.StringVarP(&outputDir, "output", "o", migrate.DefaultOutputDir, "Output directory for values and secrets files")
	f.StringVar(&workDir, "workdir", ".", "Directory holding the Jenkinsfile and .gitlab-ci.yml")
	f.BoolVarP(&verbose, "verbose", "v", false, "Trace HTTP calls, file writes and external commands")

	f.StringVar(&gitlabURL, "gitlab-url", "", "GitLab base URL (default: $GITLAB_URL or "+gitlab.DefaultBaseURL+")")
	f.StringVar(&expectedAccount, "expected-account", "", "AWS account the caller identity must belong to (default "+identity.DefaultExpectedAccount+")")
	f.StringVar(&kmsKey, "kms-key", "", "KMS key ARN used by sops (default "+sops.DefaultKMSKeyARN+")")
	f.StringVar(&referenceProject, "reference-project", "", "GitLab project with the reference pipeline files (default "+migrate.DefaultReferenceProject+")")
	f.StringVar(&referenceRef, "reference-ref", "", "Ref of the reference project (default "+migrate.DefaultReferenceRef+")")
	f.StringVar(&helpURL, "help-url", "", "Chat link offered when manual help is needed")
	f.StringVar(&awsProfile, "aws-profile", "", "AWS shared config profile")
	f.StringVar(&awsRegion, "aws-region", "", "AWS region for the STS call")
	f.StringVar(&settingsFile, "config", "", "Settings file (default ~/"+settings.FileName+")")

	// Git flags
	f.BoolVar(&gitCommit, "git-commit", false, "Commit the migration to the local git repository")
	f.BoolVar(&gitPush, "git-push", false, "Push the commit (implies --git-commit)")
	f.StringVar(&gitBranch, "git-branch", "", "Branch to use/create")
	f.BoolVar(&gitCreateBranch, "git-create-branch", false, "Create the branch instead of checking it out")
	f.StringVar(&gitMessage, "git-message", "", "Commit message (default: auto-generated)")
	f.StringVar(&gitRemote, "git-remote", "origin", "Git remote name")
	f.StringVar(&gitUser, "git-user", "", "Git username (or GIT_USER env, default oauth2)")
	f.StringVar(&gitToken, "git-token", "", "Git token (default: the GitLab token)")
}

func runMigrate(cmd *cobra.Command, args []string) {
	if noColor {
		disableColor()
	}
	setupLogging(verbose)

	fmt.Println(renderLogo())

	if err := migrateE(cmd.Context()); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func migrateE(parent context.Context) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}

	config := migrate.Config{
		PropertiesFile:   propertiesFile,
		ParametersDir:    parametersDir,
		SkipMigration:    skipMigration,
		Token:            settings.Resolve(token, os.Getenv("GITLAB_TOKEN"), s.AccessToken),
		ProjectID:        projectID,
		OutputDir:        outputDir,
		WorkDir:          workDir,
		ExpectedAccount:  settings.Resolve(expectedAccount, s.ExpectedAccount),
		ReferenceProject: settings.Resolve(referenceProject, s.ReferenceProject),
		ReferenceRef:     settings.Resolve(referenceRef, s.ReferenceRef),
		HelpURL:          settings.Resolve(helpURL, s.HelpURL),
	}
	if err := config.Validate(); err != nil {
		return err
	}

	encrypter := sops.NewKMSEncrypter(settings.Resolve(kmsKey, s.KMSKey, sops.DefaultKMSKeyARN))

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !config.SkipMigration {
		if err := sops.CheckSOPSAvailable(encrypter.KeyARN); err != nil {
			return err
		}
		if err := encrypter.CheckVersion(ctx); err != nil {
			return err
		}
	}

	var opts []identity.Option
	if r := settings.Resolve(awsRegion, s.AWSRegion); r != "" {
		opts = append(opts, identity.WithRegion(r))
	}
	if p := settings.Resolve(awsProfile, s.AWSProfile); p != "" {
		opts = append(opts, identity.WithProfile(p))
	}
	stsClient, err := identity.NewSTSClient(ctx, opts...)
	if err != nil {
		return err
	}

	baseURL := settings.Resolve(gitlabURL, os.Getenv("GITLAB_URL"), s.GitLabURL, gitlab.DefaultBaseURL)
	fmt.Printf("Connecting to GitLab: %s\n\n", baseURL)

	m := &migrate.Migrator{
		Config:    config,
		FS:        afero.NewOsFs(),
		GitLab:    gitlab.NewClient(baseURL, config.Token),
		Identity:  stsClient,
		Encrypter: encrypter,
		Prompter:  newHuhPrompter(ctx, !isInteractive()),
		OpenURL:   browser.OpenURL,
	}

	result, err := m.Run(ctx)
	printSummary(result)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return fmt.Errorf("interrupted: %w", err)
		}
		return err
	}

	if gitCommit || gitPush {
		return executeGitOperations(result, gitConfig(config.Token))
	}
	return nil
}

func loadSettings() (*settings.Settings, error) {
	path, err := settings.Path(settingsFile)
	if err != nil {
		slog.Debug("no settings file", "error", err)
		return &settings.Settings{}, nil
	}
	slog.Debug("loading settings", "path", path)
	return settings.Load(afero.NewOsFs(), path)
}

func isInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

func setupLogging(verbose bool) {
	slog.SetDefault(newLogger(os.Stderr, verbose))
}

// newLogger writes text records to w. Debug traces are only kept with verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func disableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
	color.NoColor = true
}

func printError(err error) {
	fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
}
