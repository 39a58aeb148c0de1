package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/stuttgart-things/jenkins2gitlab/internal/migrate"
)

// huhPrompter asks the operator through huh forms. Accessible mode is used
// when stdin is not a terminal, so answers can be piped in.
type huhPrompter struct {
	ctx        context.Context
	accessible bool
	out        io.Writer
}

func newHuhPrompter(ctx context.Context, accessible bool) *huhPrompter {
	return &huhPrompter{ctx: ctx, accessible: accessible, out: os.Stdout}
}

func (p *huhPrompter) Confirm(title, description string) (bool, error) {
	var ok bool
	err := p.run(huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&ok))
	return ok, err
}

func (p *huhPrompter) Select(title string, options []string) (string, error) {
	var choice string
	err := p.run(huh.NewSelect[string]().
		Title(title).
		Options(huh.NewOptions(options...)...).
		Value(&choice))
	return choice, err
}

func (p *huhPrompter) run(field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).WithAccessible(p.accessible)
	if err := form.RunWithContext(p.ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return migrate.ErrAborted
		}
		return err
	}
	return nil
}

func (p *huhPrompter) Info(msg string) {
	fmt.Fprintln(p.out, msg)
}

func (p *huhPrompter) Warn(msg string) {
	fmt.Fprintln(p.out, warnStyle.Render("⚠ "+msg))
}

func (p *huhPrompter) Success(msg string) {
	fmt.Fprintln(p.out, successStyle.Render("✓ "+msg))
}

func (p *huhPrompter) Show(title, content string) {
	fmt.Fprintln(p.out, headerStyle.Render(fmt.Sprintf("━━━ %s ━━━", title)))
	fmt.Fprintln(p.out, previewStyle.Render(content))
}
