package migrate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/stuttgart-things/jenkins2gitlab/internal/params"
	"github.com/stuttgart-things/jenkins2gitlab/internal/pipeline"
)

const dockerfileChecklist = `- replace the Jenkins base image with the one from the reference Dockerfile
- copy the build arguments your service needs
- drop steps that only existed for the Jenkins agent
- keep the HEALTHCHECK pointing at the health check endpoint`

const customStagesChecklist = `- port every custom Jenkins stage to a job in .gitlab-ci.yml
- move stage-specific credentials to GitLab CI/CD variables
- replace Jenkins shared library calls with reference pipeline includes
- run the pipeline on a branch before merging`

// LegacyFiles lists the files made obsolete by the migration, in deletion order
func (m *Migrator) LegacyFiles() []string {
	files := []string{m.Config.PropertiesFile}
	for _, env := range Environments {
		files = append(files, params.ParametersPath(m.Config.ParametersDir, env))
	}
	return append(files, m.localPath(LocalJenkinsfile))
}

func (m *Migrator) cleanup(ctx context.Context) error {
	if err := m.deleteLegacyFiles(); err != nil {
		return err
	}

	dockerfile, err := m.GitLab.GetRawFile(ctx, m.Config.ReferenceProject, ReferenceDockerfile, m.Config.ReferenceRef)
	if err != nil {
		return fmt.Errorf("fetching reference Dockerfile: %w", err)
	}
	m.Prompter.Show("Reference Dockerfile", string(dockerfile))
	m.Prompter.Info("Update your Dockerfile manually:\n" + dockerfileChecklist)

	if err := m.updatePipeline(ctx); err != nil {
		return err
	}

	return m.customStages()
}

func (m *Migrator) deleteLegacyFiles() error {
	files := m.LegacyFiles()
	m.Prompter.Show("Legacy files", "- "+strings.Join(files, "\n- "))

	ok, err := m.Prompter.Confirm("Delete the legacy files?", "They are no longer used once GitLab CI deploys from the values files")
	if err != nil {
		return err
	}
	if !ok {
		m.Prompter.Info("Keeping legacy files")
		return nil
	}

	for _, f := range files {
		if err := m.FS.Remove(f); err != nil {
			return fmt.Errorf("deleting %s: %w", f, err)
		}
		slog.Debug("deleted file", "path", f)
		m.result.Deleted = append(m.result.Deleted, f)
	}
	m.Prompter.Success(fmt.Sprintf("Deleted %d legacy files", len(files)))
	return nil
}

func (m *Migrator) updatePipeline(ctx context.Context) error {
	tmpl, err := m.GitLab.GetRawFile(ctx, m.Config.ReferenceProject, ReferencePipeline, m.Config.ReferenceRef)
	if err != nil {
		return fmt.Errorf("fetching reference pipeline: %w", err)
	}

	rendered, err := pipeline.Render(string(tmpl), m.props)
	if err != nil {
		return err
	}
	m.Prompter.Show(LocalPipeline, rendered)

	path := m.localPath(LocalPipeline)
	ok, err := m.Prompter.Confirm(fmt.Sprintf("Overwrite %s?", path), "The rendered reference pipeline replaces the local file")
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if err := m.writeFile(path, []byte(rendered)); err != nil {
		return err
	}
	m.result.PipelineUpdated = true
	m.Prompter.Success(fmt.Sprintf("Updated %s", path))
	return nil
}

func (m *Migrator) customStages() error {
	custom, err := m.Prompter.Confirm("Does the Jenkinsfile contain custom stages?", "Stages beyond the reference pipeline need a manual migration")
	if err != nil {
		return err
	}
	if !custom {
		return nil
	}

	m.Prompter.Show("Manual migration steps", customStagesChecklist)

	if m.Config.HelpURL == "" || m.OpenURL == nil {
		return nil
	}
	open, err := m.Prompter.Confirm("Open the help chat?", m.Config.HelpURL)
	if err != nil {
		return err
	}
	if open {
		if err := m.OpenURL(m.Config.HelpURL); err != nil {
			m.warn(fmt.Sprintf("could not open %s: %v", m.Config.HelpURL, err))
		}
	}
	return nil
}
