package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stuttgart-things/jenkins2gitlab/internal/migrate"
)

func TestTruncateYAML(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		maxLines int
		wantMore bool
	}{
		{
			name:     "short content no truncation",
			content:  "stackName: a\nregion: b\ncapabilities: c",
			maxLines: 5,
			wantMore: false,
		},
		{
			name:     "exact length no truncation",
			content:  "line1\nline2\nline3\nline4\nline5",
			maxLines: 5,
			wantMore: false,
		},
		{
			name:     "long content truncated",
			content:  "line1\nline2\nline3\nline4\nline5\nline6\nline7\nline8\nline9\nline10",
			maxLines: 5,
			wantMore: true,
		},
		{
			name:     "empty content",
			content:  "",
			maxLines: 5,
			wantMore: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := truncateYAML(tt.content, tt.maxLines)

			if tt.wantMore != strings.Contains(result, "more lines)") {
				t.Errorf("truncation marker mismatch (wantMore=%v): %s", tt.wantMore, result)
			}
		})
	}
}

func TestTruncateYAML_ShowsCorrectCount(t *testing.T) {
	lines := make([]string, 10)
	for i := range lines {
		lines[i] = "line"
	}

	result := truncateYAML(strings.Join(lines, "\n"), 5)

	if !strings.Contains(result, "(5 more lines)") {
		t.Errorf("expected '(5 more lines)', got: %s", result)
	}
}

func TestWriteSummary(t *testing.T) {
	disableColor()

	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "infra/values.dev.yaml", []byte("stackName: svcdev-blue-checkout\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, "infra/secrets.dev.yaml", []byte("DB_PASSWORD: ENC[...]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	result := &migrate.Result{
		Written:         []string{"infra/secrets.dev.yaml", "infra/values.dev.yaml"},
		Encrypted:       []string{"infra/secrets.dev.yaml"},
		Deleted:         []string{"Jenkinsfile"},
		PipelineUpdated: true,
		Warnings:        []string{"config/dev.env line 4: no separator"},
	}

	var buf bytes.Buffer
	writeSummary(&buf, fs, result)
	out := buf.String()

	for _, want := range []string{
		"infra/values.dev.yaml",
		"stackName: svcdev-blue-checkout",
		"infra/secrets.dev.yaml (sops encrypted)",
		"deleted Jenkinsfile",
		".gitlab-ci.yml updated",
		"1 warning(s)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "DB_PASSWORD") {
		t.Errorf("summary must not preview the secrets file:\n%s", out)
	}
}

func TestWriteSummary_NothingChanged(t *testing.T) {
	var buf bytes.Buffer
	writeSummary(&buf, afero.NewMemMapFs(), &migrate.Result{})
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}
