package migrate

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/stuttgart-things/jenkins2gitlab/internal/envfile"
	"github.com/stuttgart-things/jenkins2gitlab/internal/gitlab"
	"github.com/stuttgart-things/jenkins2gitlab/internal/params"
	"github.com/stuttgart-things/jenkins2gitlab/internal/values"
)

// StackName joins <ENV>_AWS_CFN_ENV_NAME, DEPLOYMENT_TYPE and APPLICATION_NAME
func StackName(props *params.Properties, env string) (string, error) {
	keys := []string{
		params.EnvKey(env, params.CfnEnvNameSuffix),
		params.DeploymentTypeKey,
		params.ApplicationNameKey,
	}

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		v, err := props.Require(key)
		if err != nil {
			return "", fmt.Errorf("stack name for %s: %w", env, err)
		}
		parts = append(parts, v)
	}
	return strings.Join(parts, "-"), nil
}

func (m *Migrator) transform(ctx context.Context) error {
	if !m.Config.SkipMigration {
		project, err := m.GitLab.GetProject(ctx, m.Config.ProjectID)
		if err != nil {
			return err
		}
		m.project = project
		m.Prompter.Info(fmt.Sprintf("Migrating environment variables from %s", project.PathWithNamespace))
	}

	if err := m.FS.MkdirAll(m.Config.OutputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, env := range Environments {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.migrateEnvironment(ctx, env); err != nil {
			return &EnvironmentError{
				Environment: env,
				Written:     slices.Clone(m.result.Written),
				Err:         err,
			}
		}
	}
	return nil
}

func (m *Migrator) migrateEnvironment(ctx context.Context, env string) error {
	stackName, err := StackName(m.props, env)
	if err != nil {
		return err
	}
	region, err := m.props.Require(params.EnvKey(env, params.RegionSuffix))
	if err != nil {
		return err
	}

	parameters, err := params.LoadParameters(m.FS, m.Config.ParametersDir, env)
	if err != nil {
		return err
	}

	var classification envfile.Classification
	if !m.Config.SkipMigration {
		classification, err = m.classifyEnvironment(ctx, env, parameters.ContainerEnvPath())
		if err != nil {
			return err
		}
	}

	v := values.Values{
		StackName:       stackName,
		Region:          region,
		TemplateFile:    values.TemplatePath(m.Config.OutputDir),
		Capabilities:    values.DefaultCapabilities,
		EnvironmentName: parameters.EnvironmentName(),
		Parameters:      parameters,
		Environment:     classification.Public,
	}

	if classification.HasPrivate() {
		secretsPath := values.SecretsPath(m.Config.OutputDir, env)
		plaintext, err := values.RenderSecrets(classification.Private)
		if err != nil {
			return err
		}
		ciphertext, err := m.Encrypter.Encrypt(ctx, plaintext)
		if err != nil {
			return fmt.Errorf("encrypting %s: %w", secretsPath, err)
		}
		if err := m.writeFile(secretsPath, ciphertext); err != nil {
			return err
		}
		m.result.Written = append(m.result.Written, secretsPath)
		m.result.Encrypted = append(m.result.Encrypted, secretsPath)
		v.SecretsFilePath = secretsPath
	}

	data, err := values.Render(v)
	if err != nil {
		return err
	}
	valuesPath := values.ValuesPath(m.Config.OutputDir, env)
	if err := m.writeFile(valuesPath, data); err != nil {
		return err
	}
	m.result.Written = append(m.result.Written, valuesPath)

	m.Prompter.Success(fmt.Sprintf("%s: wrote %s (stack %s)", env, valuesPath, stackName))
	return nil
}

// classifyEnvironment lets the operator pick an env file from the project
// and mark each of its variables as public or secret.
func (m *Migrator) classifyEnvironment(ctx context.Context, env, containerEnvPath string) (envfile.Classification, error) {
	var c envfile.Classification

	candidates, err := m.envFileCandidates(ctx, containerEnvPath)
	if err != nil {
		return c, err
	}
	if len(candidates) == 0 {
		m.Prompter.Info(fmt.Sprintf("%s: no .env files found in %s", env, m.project.PathWithNamespace))
		return c, nil
	}

	choice, err := m.Prompter.Select(
		fmt.Sprintf("Environment file for %s", env),
		append(candidates, SkipOption),
	)
	if err != nil {
		return c, err
	}
	if choice == SkipOption {
		slog.Debug("skipped environment variables", "env", env)
		return c, nil
	}

	content, err := m.GitLab.GetRawFile(ctx, m.Config.ProjectID, choice, m.projectRef())
	if err != nil {
		return c, fmt.Errorf("fetching %s: %w", choice, err)
	}

	vars, warnings := envfile.Parse(string(content))
	for _, w := range warnings {
		m.warn(fmt.Sprintf("%s %s", choice, w))
	}

	for _, v := range vars {
		secret, err := m.Prompter.Confirm(
			fmt.Sprintf("[%s] Is %s a secret?", env, v.Key),
			"Secrets are written to the encrypted secrets file, everything else to the values file",
		)
		if err != nil {
			return c, err
		}
		c.Add(v, secret)
	}

	return c, nil
}

// envFileCandidates lists blob paths containing ".env". The path matching
// ContainerEnvPath comes first.
func (m *Migrator) envFileCandidates(ctx context.Context, containerEnvPath string) ([]string, error) {
	if m.tree == nil {
		tree, err := m.GitLab.ListTree(ctx, m.Config.ProjectID, m.projectRef())
		if err != nil {
			return nil, fmt.Errorf("listing repository tree: %w", err)
		}
		m.tree = tree
	}

	paths := lo.FilterMap(m.tree, func(e gitlab.TreeEntry, _ int) (string, bool) {
		return e.Path, e.IsBlob() && strings.Contains(e.Path, ".env")
	})

	if containerEnvPath != "" {
		if i := slices.Index(paths, containerEnvPath); i > 0 {
			paths = append([]string{containerEnvPath}, slices.Delete(paths, i, i+1)...)
		}
	}
	return paths, nil
}

func (m *Migrator) projectRef() string {
	if m.project != nil && m.project.DefaultBranch != "" {
		return m.project.DefaultBranch
	}
	return "HEAD"
}
