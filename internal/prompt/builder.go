// Package prompt renders the language model prompts embedded in the binary.
package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

//go:embed templates/*.yaml
var templateFS embed.FS

// templates are parsed once at start up. A template referencing a field the
// data does not carry fails at render time rather than printing "<no value>".
var templates = template.Must(
	template.New("prompts").Option("missingkey=error").ParseFS(templateFS, "templates/*.yaml"),
)

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", name, err)
	}
	return buf.String(), nil
}
