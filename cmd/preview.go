package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/stuttgart-things/jenkins2gitlab/internal/migrate"
)

const summaryPreviewLines = 15

// printSummary lists what the run changed and previews each written
// values file
func printSummary(result *migrate.Result) {
	writeSummary(os.Stdout, afero.NewOsFs(), result)
}

func writeSummary(w io.Writer, fs afero.Fs, result *migrate.Result) {
	if result == nil || !result.Changed() {
		return
	}

	fmt.Fprintln(w, headerStyle.Render("━━━ Migration Summary ━━━"))

	encrypted := make(map[string]bool, len(result.Encrypted))
	for _, path := range result.Encrypted {
		encrypted[path] = true
	}

	for _, path := range result.Written {
		if encrypted[path] {
			fmt.Fprintln(w, fileHeaderStyle.Render(fmt.Sprintf("🔒 %s (sops encrypted)", path)))
			continue
		}

		fmt.Fprintln(w, fileHeaderStyle.Render(fmt.Sprintf("📄 %s:", path)))
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("  cannot read: %v", err)))
			continue
		}
		fmt.Fprintln(w, previewStyle.Render(truncateYAML(string(data), summaryPreviewLines)))
	}

	for _, path := range result.Deleted {
		fmt.Fprintf(w, "%s %s\n", errorStyle.Render("✗ deleted"), path)
	}
	if result.PipelineUpdated {
		fmt.Fprintln(w, successStyle.Render("✓ .gitlab-ci.yml updated"))
	}
	if len(result.Warnings) > 0 {
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("%d warning(s):", len(result.Warnings))))
		for _, msg := range result.Warnings {
			fmt.Fprintf(w, "  - %s\n", msg)
		}
	}
	fmt.Fprintln(w)
}

// truncateYAML truncates YAML content to a maximum number of lines
func truncateYAML(content string, maxLines int) string {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) <= maxLines {
		return strings.TrimSpace(content)
	}

	truncated := strings.Join(lines[:maxLines], "\n")
	return truncated + fmt.Sprintf("\n... (%d more lines)", len(lines)-maxLines)
}
