package migrate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/afero"
	"github.com/stuttgart-things/jenkins2gitlab/internal/diff"
)

// checkReference compares the local Jenkinsfile with the reference copy.
// Identical files pass without a prompt.
func (m *Migrator) checkReference(ctx context.Context) error {
	reference, err := m.GitLab.GetRawFile(ctx, m.Config.ReferenceProject, ReferenceJenkinsfile, m.Config.ReferenceRef)
	if err != nil {
		return fmt.Errorf("fetching reference Jenkinsfile: %w", err)
	}

	path := m.localPath(LocalJenkinsfile)
	local, err := afero.ReadFile(m.FS, path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		m.warn(fmt.Sprintf("%s not found, comparing against an empty file", path))
		local = nil
	case err != nil:
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if bytes.Equal(local, reference) {
		slog.Debug("Jenkinsfile matches reference", "path", path)
		return nil
	}

	lines := diff.Lines(string(local), string(reference))
	m.warn(fmt.Sprintf("%s differs from %s@%s (%d lines)", path, m.Config.ReferenceProject, m.Config.ReferenceRef, diff.Changed(lines)))

	show, err := m.Prompter.Confirm("Show the diff?", "Green lines exist only locally, red lines only in the reference")
	if err != nil {
		return err
	}
	if show {
		var buf bytes.Buffer
		if err := diff.Render(&buf, lines); err != nil {
			return err
		}
		m.Prompter.Show("Jenkinsfile diff", buf.String())
	}

	proceed, err := m.Prompter.Confirm("Continue the migration?", "Local pipeline customizations will not be migrated automatically")
	if err != nil {
		return err
	}
	if !proceed {
		return fmt.Errorf("%w: Jenkinsfile differs from reference", ErrAborted)
	}
	return nil
}
