// Package diff produces a line diff between a local file and its reference copy.
package diff

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Kind tells where a line lives
type Kind int

const (
	Both Kind = iota
	LocalOnly
	ReferenceOnly
)

// Line is one line of the diff
type Line struct {
	Kind Kind
	Text string
}

// Lines diffs reference against local line by line
func Lines(local, reference string) []Line {
	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(reference, local)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	var lines []Line
	for _, d := range diffs {
		kind := Both
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			kind = LocalOnly
		case diffmatchpatch.DiffDelete:
			kind = ReferenceOnly
		}

		for _, text := range splitLines(d.Text) {
			lines = append(lines, Line{Kind: kind, Text: text})
		}
	}

	return lines
}

// Changed counts lines present on only one side
func Changed(lines []Line) int {
	n := 0
	for _, l := range lines {
		if l.Kind != Both {
			n++
		}
	}
	return n
}

// Render writes the diff: green '+' for local-only lines, red '-' for
// reference-only lines. Color is suppressed when color.NoColor is set.
func Render(w io.Writer, lines []Line) error {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	for _, l := range lines {
		var err error
		switch l.Kind {
		case LocalOnly:
			_, err = green.Fprintf(w, "+ %s\n", l.Text)
		case ReferenceOnly:
			_, err = red.Fprintf(w, "- %s\n", l.Text)
		default:
			_, err = fmt.Fprintf(w, "  %s\n", l.Text)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
