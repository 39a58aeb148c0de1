// Package migrate runs the Jenkins to GitLab CI migration: identity gate,
// reference diff check, per-environment transformation and cleanup.
package migrate

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/stuttgart-things/jenkins2gitlab/internal/gitlab"
	"github.com/stuttgart-things/jenkins2gitlab/internal/identity"
	"github.com/stuttgart-things/jenkins2gitlab/internal/params"
)

// GitLab is the subset of the GitLab API a migration reads from
type GitLab interface {
	GetRawFile(ctx context.Context, project, filePath, ref string) ([]byte, error)
	GetProject(ctx context.Context, project string) (*gitlab.Project, error)
	ListTree(ctx context.Context, project, ref string) ([]gitlab.TreeEntry, error)
}

// Encrypter turns a plaintext secrets document into its encrypted form
type Encrypter interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
}

// Result lists what a run changed on disk
type Result struct {
	Written         []string
	Encrypted       []string
	Deleted         []string
	PipelineUpdated bool
	Warnings        []string
}

// Changed reports whether the run touched any file
func (r *Result) Changed() bool {
	return len(r.Written) > 0 || len(r.Deleted) > 0 || r.PipelineUpdated
}

// Migrator carries the dependencies of one run
type Migrator struct {
	Config    Config
	FS        afero.Fs
	GitLab    GitLab
	Identity  identity.STSAPI
	Encrypter Encrypter
	Prompter  Prompter
	OpenURL   func(url string) error

	props   *params.Properties
	project *gitlab.Project
	tree    []gitlab.TreeEntry
	result  Result
}

// Run executes all stages in order. The returned Result is never nil and
// describes whatever was done before a failure.
func (m *Migrator) Run(ctx context.Context) (*Result, error) {
	if err := m.Config.Validate(); err != nil {
		return &m.result, err
	}
	m.Config = m.Config.withDefaults()
	if m.FS == nil {
		m.FS = afero.NewOsFs()
	}

	stages := []struct {
		name string
		run  func(context.Context) error
	}{
		{"identity gate", m.gate},
		{"reference diff check", m.checkReference},
		{"transform", m.transform},
		{"cleanup", m.cleanup},
	}

	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return &m.result, err
		}
		slog.Debug("stage", "name", stage.name)
		if err := stage.run(ctx); err != nil {
			return &m.result, err
		}
	}

	return &m.result, nil
}

func (m *Migrator) gate(ctx context.Context) error {
	props, err := params.LoadProperties(m.FS, m.Config.PropertiesFile)
	if err != nil {
		return err
	}
	m.props = props
	slog.Debug("loaded properties", "path", m.Config.PropertiesFile, "count", props.Len())

	id, err := identity.Verify(ctx, m.Identity, m.Config.ExpectedAccount)
	if err != nil {
		return err
	}
	m.Prompter.Success(fmt.Sprintf("AWS identity verified: %s", id.Arn))
	return nil
}

func (m *Migrator) localPath(name string) string {
	return filepath.Join(m.Config.WorkDir, name)
}

func (m *Migrator) writeFile(path string, data []byte) error {
	if err := afero.WriteFile(m.FS, path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	slog.Debug("wrote file", "path", path, "bytes", len(data))
	return nil
}

func (m *Migrator) warn(msg string) {
	m.result.Warnings = append(m.result.Warnings, msg)
	m.Prompter.Warn(msg)
}
