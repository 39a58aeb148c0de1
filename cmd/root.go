package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jenkins2gitlab",
	Short: "Migrate a project's CI/CD configuration from Jenkins to GitLab CI",
	Long: `jenkins2gitlab converts a project's Jenkins properties and CloudFormation
parameter files into per-environment values files for GitLab CI, migrates
environment variables into SOPS-encrypted secrets files, and walks the
operator through the remaining manual steps.`,
	Example: `  jenkins2gitlab --jenkins-properties jenkins.properties \
    --service-parameters cloudformation/params --token $GITLAB_TOKEN --project-id 1234

  jenkins2gitlab --jenkins-properties jenkins.properties \
    --service-parameters cloudformation/params --skip-migration`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run:           runMigrate,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}
