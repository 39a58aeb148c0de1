// Package settings reads operator defaults from ~/.jenkins2gitlab, an ini
// file with top-level keys. Command-line flags and environment variables
// take precedence over it.
package settings

import (
	"fmt"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"gopkg.in/ini.v1"
)

// FileName is the settings file in the user's home directory
const FileName = ".jenkins2gitlab"

const (
	gitlabURLKey        = "gitlab-url"
	accessTokenKey      = "access-token"
	kmsKeyKey           = "kms-key"
	expectedAccountKey  = "expected-account"
	referenceProjectKey = "reference-project"
	referenceRefKey     = "reference-ref"
	helpURLKey          = "help-url"
	awsProfileKey       = "aws-profile"
	awsRegionKey        = "aws-region"
)

// Settings holds defaults shared by every run
type Settings struct {
	GitLabURL        string
	AccessToken      string
	KMSKey           string
	ExpectedAccount  string
	ReferenceProject string
	ReferenceRef     string
	HelpURL          string
	AWSProfile       string
	AWSRegion        string
}

// DefaultPath returns ~/.jenkins2gitlab
func DefaultPath() (string, error) {
	homeDir, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("error getting user home: %w", err)
	}
	return filepath.Join(homeDir, FileName), nil
}

// Path resolves the settings file location, expanding a leading ~
func Path(flagValue string) (string, error) {
	if flagValue == "" {
		return DefaultPath()
	}
	path, err := homedir.Expand(flagValue)
	if err != nil {
		return "", fmt.Errorf("expanding %s: %w", flagValue, err)
	}
	return path, nil
}

// Load reads the settings file at path. A missing file yields empty Settings.
func Load(fs afero.Fs, path string) (*Settings, error) {
	s := &Settings{}

	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, fmt.Errorf("checking settings file: %w", err)
	}
	if !exists {
		return s, nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("error reading settings file: %w", err)
	}

	cfg, err := ini.Load(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing settings file %s: %w", path, err)
	}

	sec := cfg.Section("")
	s.GitLabURL = sec.Key(gitlabURLKey).String()
	s.AccessToken = sec.Key(accessTokenKey).String()
	s.KMSKey = sec.Key(kmsKeyKey).String()
	s.ExpectedAccount = sec.Key(expectedAccountKey).String()
	s.ReferenceProject = sec.Key(referenceProjectKey).String()
	s.ReferenceRef = sec.Key(referenceRefKey).String()
	s.HelpURL = sec.Key(helpURLKey).String()
	s.AWSProfile = sec.Key(awsProfileKey).String()
	s.AWSRegion = sec.Key(awsRegionKey).String()

	return s, nil
}

// Resolve returns the first non-empty value, in precedence order
func Resolve(values ...string) string {
	v, _ := lo.Coalesce(values...)
	return v
}
