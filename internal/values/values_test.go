package values

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stuttgart-things/jenkins2gitlab/internal/envfile"
	"github.com/stuttgart-things/jenkins2gitlab/internal/params"
	"gopkg.in/yaml.v3"
)

func sampleValues() Values {
	return Values{
		StackName:       "svcdev-blue-checkout",
		Region:          "eu-central-1",
		TemplateFile:    TemplatePath("infra"),
		Capabilities:    DefaultCapabilities,
		EnvironmentName: "svcdev",
		Parameters: params.ParameterList{
			{Key: "ContainerEnvPath", Value: "config/dev.env"},
			{Key: "DesiredCount", Value: "2"},
		},
		Environment: []envfile.Variable{
			{Key: "LOG_LEVEL", Value: "debug"},
			{Key: "GREETING", Value: `say "hi"`},
		},
	}
}

func TestRender(t *testing.T) {
	out, err := Render(sampleValues())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := `stackName: svcdev-blue-checkout
region: eu-central-1
templateFile: infra/cloudformation/template.yaml
capabilities: CAPABILITY_NAMED_IAM
environmentName: svcdev
parameters:
  ContainerEnvPath: "config/dev.env"
  DesiredCount: "2"
environment:
  LOG_LEVEL: "debug"
  GREETING: "say \"hi\""
`
	if string(out) != want {
		t.Errorf("Render() mismatch\n got:\n%s\nwant:\n%s", out, want)
	}
}

func TestRender_Deterministic(t *testing.T) {
	first, err := Render(sampleValues())
	if err != nil {
		t.Fatal(err)
	}
	second, err := Render(sampleValues())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("rendering identical input twice must be byte-identical")
	}
}

func TestRender_SecretsFilePath(t *testing.T) {
	v := sampleValues()

	out, err := Render(v)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(out), "secretsFilePath") {
		t.Error("secretsFilePath must be absent without a secrets file")
	}

	v.SecretsFilePath = SecretsPath("infra", "dev")
	out, err = Render(v)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "secretsFilePath: infra/secrets.dev.yaml") {
		t.Errorf("expected secretsFilePath entry, got:\n%s", out)
	}
}

func TestRender_EmptyEnvironment(t *testing.T) {
	v := sampleValues()
	v.Environment = nil

	out, err := Render(v)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "environment: {}") {
		t.Errorf("expected empty environment mapping, got:\n%s", out)
	}
}

func TestRender_RoundTrip(t *testing.T) {
	out, err := Render(sampleValues())
	if err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		StackName   string            `yaml:"stackName"`
		Parameters  map[string]string `yaml:"parameters"`
		Environment map[string]string `yaml:"environment"`
	}
	if err := yaml.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("values file is not valid YAML: %v", err)
	}
	if decoded.Environment["GREETING"] != `say "hi"` {
		t.Errorf("unexpected GREETING: %q", decoded.Environment["GREETING"])
	}
	if decoded.Parameters["DesiredCount"] != "2" {
		t.Errorf("unexpected DesiredCount: %q", decoded.Parameters["DesiredCount"])
	}
}

func TestRenderSecrets(t *testing.T) {
	out, err := RenderSecrets([]envfile.Variable{{Key: "DB_PASSWORD", Value: "s3cret"}})
	if err != nil {
		t.Fatalf("RenderSecrets() error = %v", err)
	}

	want := "environment:\n  DB_PASSWORD: \"s3cret\"\n"
	if string(out) != want {
		t.Errorf("RenderSecrets() = %q, want %q", out, want)
	}

	if _, err := RenderSecrets(nil); err == nil {
		t.Error("expected error for empty secrets")
	}
}

func TestPaths(t *testing.T) {
	if got := ValuesPath("infra", "prod"); got != "infra/values.prod.yaml" {
		t.Errorf("ValuesPath() = %q", got)
	}
	if got := SecretsPath("out", "stage"); got != "out/secrets.stage.yaml" {
		t.Errorf("SecretsPath() = %q", got)
	}
}

func TestRenderParsedEnvFileIsValidYAML(t *testing.T) {
	vars, warnings := envfile.Parse("A=1\nA=2\n=orphan\nSECRET=x\nSECRET=y\n")
	if len(warnings) != 3 {
		t.Errorf("expected 3 warnings, got %v", warnings)
	}

	var c envfile.Classification
	for _, v := range vars {
		c.Add(v, v.Key == "SECRET")
	}

	v := sampleValues()
	v.Environment = c.Public
	out, err := Render(v)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	var doc struct {
		Environment map[string]string `yaml:"environment"`
	}
	if err := yaml.Unmarshal(out, &doc); err != nil {
		t.Fatalf("values output is not valid YAML: %v\n%s", err, out)
	}
	if len(doc.Environment) != 1 || doc.Environment["A"] != "2" {
		t.Errorf("unexpected environment: %v", doc.Environment)
	}

	secrets, err := RenderSecrets(c.Private)
	if err != nil {
		t.Fatalf("RenderSecrets() error = %v", err)
	}
	doc.Environment = nil
	if err := yaml.Unmarshal(secrets, &doc); err != nil {
		t.Fatalf("secrets output is not valid YAML: %v\n%s", err, secrets)
	}
	if len(doc.Environment) != 1 || doc.Environment["SECRET"] != "y" {
		t.Errorf("unexpected secrets: %v", doc.Environment)
	}
}
