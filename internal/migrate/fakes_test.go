package migrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/stuttgart-things/jenkins2gitlab/internal/gitlab"
)

type fakeGitLab struct {
	files      map[string]string
	project    *gitlab.Project
	projectErr error
	tree       []gitlab.TreeEntry
	calls      []string
}

func fileKey(project, path string) string {
	return project + ":" + path
}

func (f *fakeGitLab) GetRawFile(ctx context.Context, project, filePath, ref string) ([]byte, error) {
	f.calls = append(f.calls, "raw "+fileKey(project, filePath)+"@"+ref)
	content, ok := f.files[fileKey(project, filePath)]
	if !ok {
		return nil, &gitlab.APIError{Method: "GET", URL: filePath, StatusCode: 404}
	}
	return []byte(content), nil
}

func (f *fakeGitLab) GetProject(ctx context.Context, project string) (*gitlab.Project, error) {
	f.calls = append(f.calls, "project "+project)
	if f.projectErr != nil {
		return nil, f.projectErr
	}
	return f.project, nil
}

func (f *fakeGitLab) ListTree(ctx context.Context, project, ref string) ([]gitlab.TreeEntry, error) {
	f.calls = append(f.calls, "tree "+project+"@"+ref)
	return f.tree, nil
}

type fakeSTS struct {
	account string
	calls   int
}

func (f *fakeSTS) GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	f.calls++
	return &sts.GetCallerIdentityOutput{
		Account: aws.String(f.account),
		Arn:     aws.String(fmt.Sprintf("arn:aws:iam::%s:user/ops", f.account)),
	}, nil
}

// fakePrompter answers Confirm by exact title and marks the variables in
// secrets as secret. Unknown titles are declined.
type fakePrompter struct {
	confirms map[string]bool
	secrets  map[string]bool
	choose   func(title string, options []string) string

	asked    []string
	options  [][]string
	shown    map[string]string
	infos    []string
	warnings []string
}

func newFakePrompter() *fakePrompter {
	return &fakePrompter{
		confirms: map[string]bool{},
		secrets:  map[string]bool{},
		shown:    map[string]string{},
	}
}

func (p *fakePrompter) Confirm(title, description string) (bool, error) {
	p.asked = append(p.asked, title)
	for key, secret := range p.secrets {
		if strings.Contains(title, "Is "+key+" a secret?") {
			return secret, nil
		}
	}
	return p.confirms[title], nil
}

func (p *fakePrompter) Select(title string, options []string) (string, error) {
	p.asked = append(p.asked, title)
	p.options = append(p.options, options)
	if p.choose != nil {
		return p.choose(title, options), nil
	}
	return options[0], nil
}

func (p *fakePrompter) Info(msg string)    { p.infos = append(p.infos, msg) }
func (p *fakePrompter) Warn(msg string)    { p.warnings = append(p.warnings, msg) }
func (p *fakePrompter) Success(msg string) { p.infos = append(p.infos, msg) }

func (p *fakePrompter) Show(title, content string) {
	p.shown[title] = content
}

func (p *fakePrompter) wasAsked(title string) bool {
	for _, a := range p.asked {
		if a == title {
			return true
		}
	}
	return false
}

// fakeEncrypter keeps every plaintext it was handed and returns an opaque
// sops document.
type fakeEncrypter struct {
	plaintext []string
	err       error
}

func (e *fakeEncrypter) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	e.plaintext = append(e.plaintext, string(plaintext))
	return []byte("sops:\n  kms: encrypted\n"), nil
}
