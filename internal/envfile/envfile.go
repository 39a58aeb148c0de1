// Package envfile parses KEY=VALUE environment files and holds the
// public/private split chosen by the operator.
package envfile

import (
	"fmt"
	"slices"
	"strings"
)

// Variable is one KEY=VALUE line
type Variable struct {
	Key   string
	Value string
	Line  int
}

// Warning describes a line that was dropped or accepted with a guessed
// interpretation
type Warning struct {
	Line   int
	Text   string
	Reason string
}

const (
	reasonNoSeparator = "has no '=' separator, using an empty value"
	reasonEmptyKey    = "has an empty key, skipping it"
	reasonDuplicate   = "repeats an earlier key, keeping this value"
)

func (w Warning) String() string {
	return fmt.Sprintf("line %d: %q %s", w.Line, w.Text, w.Reason)
}

// Parse splits every non-empty, non-comment line on its first '='.
// Lines without '=' become a variable with an empty value. Lines with an
// empty key are dropped. A repeated key keeps its first position and its
// last value. Each of these cases produces a Warning.
func Parse(content string) ([]Variable, []Warning) {
	var vars []Variable
	var warnings []Warning
	seen := map[string]int{}

	for i, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lineNo := i + 1

		key, value, found := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			warnings = append(warnings, Warning{Line: lineNo, Text: line, Reason: reasonEmptyKey})
			continue
		}
		if !found {
			warnings = append(warnings, Warning{Line: lineNo, Text: line, Reason: reasonNoSeparator})
		}

		v := Variable{Key: key, Value: value, Line: lineNo}
		if idx, ok := seen[key]; ok {
			warnings = append(warnings, Warning{Line: lineNo, Text: line, Reason: reasonDuplicate})
			vars[idx] = v
			continue
		}
		seen[key] = len(vars)
		vars = append(vars, v)
	}

	return vars, warnings
}

// Classification is the operator's public/private split of an env file.
// A variable is in exactly one of the two lists.
type Classification struct {
	Public  []Variable
	Private []Variable
}

// Add appends v to the private list if secret, otherwise to the public list.
// A variable with a key already classified replaces the earlier one.
func (c *Classification) Add(v Variable, secret bool) {
	c.Public = slices.DeleteFunc(c.Public, func(p Variable) bool { return p.Key == v.Key })
	c.Private = slices.DeleteFunc(c.Private, func(p Variable) bool { return p.Key == v.Key })

	if secret {
		c.Private = append(c.Private, v)
		return
	}
	c.Public = append(c.Public, v)
}

// HasPrivate reports whether any variable was classified as secret
func (c *Classification) HasPrivate() bool {
	return len(c.Private) > 0
}
