package cmd

import (
	"context"
	"testing"
)

func TestRootFlags(t *testing.T) {
	tests := []struct {
		flag string
		def  string
	}{
		{"jenkins-properties", ""},
		{"service-parameters", ""},
		{"skip-migration", "false"},
		{"token", ""},
		{"project-id", ""},
		{"output", "infra"},
		{"verbose", "false"},
		{"git-remote", "origin"},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			f := rootCmd.Flags().Lookup(tt.flag)
			if f == nil {
				t.Fatalf("flag --%s not registered", tt.flag)
			}
			if f.DefValue != tt.def {
				t.Errorf("--%s default = %q, want %q", tt.flag, f.DefValue, tt.def)
			}
		})
	}

	if f := rootCmd.PersistentFlags().Lookup("no-color"); f == nil {
		t.Error("flag --no-color not registered")
	}
	if f := rootCmd.Flags().ShorthandLookup("v"); f == nil || f.Name != "verbose" {
		t.Error("-v should be the verbose shorthand")
	}
}

func TestRootRejectsUnknownFlag(t *testing.T) {
	rootCmd.SetArgs([]string{"--does-not-exist"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected unknown flag error")
	}
}

func TestMigrateEMissingOptions(t *testing.T) {
	oldProps, oldParams, oldToken, oldProject, oldSettings := propertiesFile, parametersDir, token, projectID, settingsFile
	t.Cleanup(func() {
		propertiesFile, parametersDir, token, projectID, settingsFile = oldProps, oldParams, oldToken, oldProject, oldSettings
	})

	t.Setenv("GITLAB_TOKEN", "")
	settingsFile = t.TempDir() + "/missing"
	propertiesFile = "jenkins.properties"
	parametersDir = "params"
	token = ""
	projectID = "42"

	err := migrateE(context.Background())
	if err == nil {
		t.Fatal("expected usage error")
	}
	if got := err.Error(); got != "missing required option: --token" {
		t.Errorf("unexpected error %q", got)
	}
}
