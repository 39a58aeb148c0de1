package values

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/stuttgart-things/jenkins2gitlab/internal/envfile"
	"github.com/stuttgart-things/jenkins2gitlab/internal/params"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultCapabilities is granted to every migrated CloudFormation stack
	DefaultCapabilities = "CAPABILITY_NAMED_IAM"

	templateDir  = "cloudformation"
	templateName = "template.yaml"
)

// Values is the content of one values.<env>.yaml file
type Values struct {
	StackName       string
	Region          string
	TemplateFile    string
	Capabilities    string
	EnvironmentName string
	SecretsFilePath string
	Parameters      params.ParameterList
	Environment     []envfile.Variable
}

// ValuesPath returns <outputDir>/values.<env>.yaml
func ValuesPath(outputDir, env string) string {
	return filepath.Join(outputDir, fmt.Sprintf("values.%s.yaml", env))
}

// SecretsPath returns <outputDir>/secrets.<env>.yaml
func SecretsPath(outputDir, env string) string {
	return filepath.Join(outputDir, fmt.Sprintf("secrets.%s.yaml", env))
}

// TemplatePath returns the CloudFormation template location under outputDir
func TemplatePath(outputDir string) string {
	return filepath.Join(outputDir, templateDir, templateName)
}

// Render produces the values file. Output is deterministic: parameters and
// environment variables keep their input order.
func Render(v Values) ([]byte, error) {
	root := mapping()

	addPlain(root, "stackName", v.StackName)
	addPlain(root, "region", v.Region)
	addPlain(root, "templateFile", v.TemplateFile)
	addPlain(root, "capabilities", v.Capabilities)
	if v.EnvironmentName != "" {
		addPlain(root, "environmentName", v.EnvironmentName)
	}
	if v.SecretsFilePath != "" {
		addPlain(root, "secretsFilePath", v.SecretsFilePath)
	}

	parameters := mapping()
	for _, p := range v.Parameters {
		addQuoted(parameters, p.Key, p.Value)
	}
	root.Content = append(root.Content, key("parameters"), parameters)

	root.Content = append(root.Content, key("environment"), environment(v.Environment))

	return encode(root)
}

// RenderSecrets produces the plaintext secrets document handed to the encrypter
func RenderSecrets(vars []envfile.Variable) ([]byte, error) {
	if len(vars) == 0 {
		return nil, fmt.Errorf("no secret variables to render")
	}

	root := mapping()
	root.Content = append(root.Content, key("environment"), environment(vars))

	return encode(root)
}

func environment(vars []envfile.Variable) *yaml.Node {
	env := mapping()
	for _, v := range vars {
		addQuoted(env, v.Key, v.Value)
	}
	return env
}

func mapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func key(name string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name}
}

func addPlain(m *yaml.Node, name, value string) {
	m.Content = append(m.Content, key(name), &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!str",
		Value: value,
	})
}

func addQuoted(m *yaml.Node, name, value string) {
	m.Content = append(m.Content, key(name), &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!str",
		Style: yaml.DoubleQuotedStyle,
		Value: value,
	})
}

func encode(root *yaml.Node) ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("marshalling YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshalling YAML: %w", err)
	}

	return buf.Bytes(), nil
}
