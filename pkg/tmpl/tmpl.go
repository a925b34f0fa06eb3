// Package tmpl renders user-configurable message templates.
package tmpl

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// blockquote prefixes every line of s with "> " for markdown quoting.
func blockquote(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "> " + l
	}
	return strings.Join(lines, "\n")
}

var funcs = template.FuncMap{
	"join":  strings.Join,
	"quote": blockquote,
	"trim":  strings.TrimSpace,
}

// Render executes a Go template string with the given data.
// Returns an error if the template is invalid or references undefined keys.
//
// Available template functions:
//   - quote: markdown-blockquote a string (prefix lines with "> ")
//   - join: join a string slice with a separator
//   - trim: strip leading/trailing whitespace
func Render(tmpl string, data any) (string, error) {
	t, err := template.New("").Funcs(funcs).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}

// Validate parses the template without executing it.
func Validate(tmpl string) error {
	_, err := template.New("").Funcs(funcs).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("parse template: %w", err)
	}
	return nil
}
