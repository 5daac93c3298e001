package util

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// TemplateFuncs are the helpers available to every prompt template.
var TemplateFuncs = template.FuncMap{
	// quoted renders names as 'a', 'b'.
	"quoted": func(items []string) string {
		q := make([]string, len(items))
		for i, s := range items {
			q[i] = "'" + s + "'"
		}
		return strings.Join(q, ", ")
	},
}

// MustTemplate parses a prompt template with TemplateFuncs and panics on a
// syntax error. Intended for package-level templates.
func MustTemplate(name, text string) *template.Template {
	return template.Must(template.New(name).Funcs(TemplateFuncs).Option("missingkey=error").Parse(text))
}

// Execute renders tmpl with data.
func Execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
