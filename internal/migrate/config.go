package migrate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stuttgart-things/jenkins2gitlab/internal/identity"
)

const (
	DefaultOutputDir        = "infra"
	DefaultReferenceProject = "devops/pipeline-templates"
	DefaultReferenceRef     = "main"

	// paths inside the reference project
	ReferenceJenkinsfile = "jenkins/Jenkinsfile"
	ReferenceDockerfile  = "gitlab/Dockerfile"
	ReferencePipeline    = "gitlab/.gitlab-ci.yml"

	// local files in the working directory
	LocalJenkinsfile = "Jenkinsfile"
	LocalPipeline    = ".gitlab-ci.yml"
)

// Environments are migrated in this order
var Environments = []string{"dev", "stage", "prod"}

// ErrMissingOption is returned by Validate for usage errors
var ErrMissingOption = errors.New("missing required option")

// Config holds the invocation parameters of one migration run
type Config struct {
	PropertiesFile string
	ParametersDir  string
	SkipMigration  bool
	Token          string
	ProjectID      string
	OutputDir      string
	WorkDir        string

	ExpectedAccount  string
	ReferenceProject string
	ReferenceRef     string
	HelpURL          string
}

// Validate checks the required options. Token and project id are required
// unless variable migration is skipped.
func (c Config) Validate() error {
	var missing []string
	if c.PropertiesFile == "" {
		missing = append(missing, "--jenkins-properties")
	}
	if c.ParametersDir == "" {
		missing = append(missing, "--service-parameters")
	}
	if !c.SkipMigration {
		if c.Token == "" {
			missing = append(missing, "--token")
		}
		if c.ProjectID == "" {
			missing = append(missing, "--project-id")
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingOption, strings.Join(missing, ", "))
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.WorkDir == "" {
		c.WorkDir = "."
	}
	if c.ExpectedAccount == "" {
		c.ExpectedAccount = identity.DefaultExpectedAccount
	}
	if c.ReferenceProject == "" {
		c.ReferenceProject = DefaultReferenceProject
	}
	if c.ReferenceRef == "" {
		c.ReferenceRef = DefaultReferenceRef
	}
	return c
}
