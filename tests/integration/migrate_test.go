//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

const (
	jenkinsfile = "pipeline {\n  agent any\n}\n"
	properties  = `DEV_AWS_CFN_ENV_NAME=svcdev
STAGE_AWS_CFN_ENV_NAME=svcstage
PROD_AWS_CFN_ENV_NAME=svcprod
DEV_AWS_REGION=eu-central-1
STAGE_AWS_REGION=eu-central-1
PROD_AWS_REGION=eu-central-1
DEPLOYMENT_TYPE=blue
APPLICATION_NAME=checkout
DOMAIN=checkout.example.com
HOSTED_ZONE_ID=Z123
HEALTH_CHECK_ENDPOINT=/health
`
	callerIdentity = `<GetCallerIdentityResponse xmlns="https://sts.amazonaws.com/doc/2011-06-15/">
  <GetCallerIdentityResult>
    <Arn>arn:aws:iam::123456789012:user/ops</Arn>
    <UserId>AIDAEXAMPLE</UserId>
    <Account>123456789012</Account>
  </GetCallerIdentityResult>
  <ResponseMetadata><RequestId>1</RequestId></ResponseMetadata>
</GetCallerIdentityResponse>`
)

var binary string

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "jenkins2gitlab-it")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	binary = filepath.Join(dir, "jenkins2gitlab-test")
	build := exec.Command("go", "build", "-o", binary, ".")
	build.Dir = filepath.Join("..", "..")
	if output, err := build.CombinedOutput(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to build: %v\n%s", err, output)
		os.Exit(1)
	}

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func run(t *testing.T, dir, stdin string, env []string, args ...string) (string, int) {
	t.Helper()

	cmd := exec.Command(binary, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "HOME="+t.TempDir(), "GITLAB_TOKEN=", "GITLAB_URL=")
	cmd.Env = append(cmd.Env, env...)
	cmd.Stdin = strings.NewReader(stdin)

	output, err := cmd.CombinedOutput()
	if exitErr, ok := err.(*exec.ExitError); ok {
		return string(output), exitErr.ExitCode()
	}
	if err != nil {
		t.Fatalf("running %v: %v", args, err)
	}
	return string(output), 0
}

func TestHelpCommand(t *testing.T) {
	output, code := run(t, t.TempDir(), "", nil, "--help")
	if code != 0 {
		t.Fatalf("--help exited %d\n%s", code, output)
	}
	for _, flag := range []string{"--jenkins-properties", "--service-parameters", "--skip-migration", "--project-id", "--no-color"} {
		if !strings.Contains(output, flag) {
			t.Errorf("help output missing %s", flag)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	output, code := run(t, t.TempDir(), "", nil, "version", "--no-color")
	if code != 0 {
		t.Fatalf("version exited %d\n%s", code, output)
	}
	if !strings.Contains(output, "Version:") {
		t.Errorf("expected version output, got: %s", output)
	}
}

func TestUnknownFlag(t *testing.T) {
	output, code := run(t, t.TempDir(), "", nil, "--bogus")
	if code != 1 {
		t.Fatalf("expected exit 1, got %d\n%s", code, output)
	}
	if !strings.Contains(output, "unknown flag") {
		t.Errorf("expected unknown flag message, got: %s", output)
	}
}

func TestMissingRequiredOptions(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no options", nil, "--jenkins-properties"},
		{"missing token", []string{"--jenkins-properties", "p", "--service-parameters", "d", "--project-id", "1"}, "--token"},
		{"missing project id", []string{"--jenkins-properties", "p", "--service-parameters", "d", "--token", "t"}, "--project-id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, code := run(t, t.TempDir(), "", nil, append(tt.args, "--no-color")...)
			if code != 1 {
				t.Fatalf("expected exit 1, got %d\n%s", code, output)
			}
			if !strings.Contains(output, "missing required option") || !strings.Contains(output, tt.want) {
				t.Errorf("expected missing %s, got: %s", tt.want, output)
			}
		})
	}
}

// TestSkipMigration runs the whole tool against fake GitLab and STS endpoints,
// declining every prompt.
func TestSkipMigration(t *testing.T) {
	gitlabServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/jenkins/Jenkinsfile/raw"):
			_, _ = w.Write([]byte(jenkinsfile))
		case strings.HasSuffix(r.URL.Path, "/gitlab/Dockerfile/raw"):
			_, _ = w.Write([]byte("FROM alpine:3.20\n"))
		case strings.HasSuffix(r.URL.Path, "/gitlab/.gitlab-ci.yml/raw"):
			_, _ = w.Write([]byte("variables:\n  APP: {{APPLICATION_NAME}}\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer gitlabServer.Close()

	stsServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		_, _ = w.Write([]byte(callerIdentity))
	}))
	defer stsServer.Close()

	dir := t.TempDir()
	files := map[string]string{
		"jenkins.properties": properties,
		"Jenkinsfile":        jenkinsfile,
	}
	for _, env := range []string{"dev", "stage", "prod"} {
		files[filepath.Join("params", "parameters-"+env+".json")] = fmt.Sprintf(
			`[{"ParameterKey": "AwsCfnEnvironmentName", "ParameterValue": "svc%s"}]`, env)
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	env := []string{
		"AWS_ACCESS_KEY_ID=AKIAEXAMPLE",
		"AWS_SECRET_ACCESS_KEY=secret",
		"AWS_REGION=eu-central-1",
		"AWS_ENDPOINT_URL_STS=" + stsServer.URL,
	}
	output, code := run(t, dir, "n\nn\nn\n", env,
		"--jenkins-properties", "jenkins.properties",
		"--service-parameters", "params",
		"--skip-migration",
		"--gitlab-url", gitlabServer.URL,
		"--no-color",
	)
	if code != 0 {
		t.Fatalf("migration exited %d\n%s", code, output)
	}

	values, err := os.ReadFile(filepath.Join(dir, "infra", "values.dev.yaml"))
	if err != nil {
		t.Fatalf("values.dev.yaml not written: %v\n%s", err, output)
	}
	if !strings.Contains(string(values), "stackName: svcdev-blue-checkout") {
		t.Errorf("unexpected values file:\n%s", values)
	}
	if _, err := os.Stat(filepath.Join(dir, "Jenkinsfile")); err != nil {
		t.Error("legacy files must survive a declined cleanup")
	}
}
