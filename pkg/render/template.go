package render

import (
	"bytes"
	"strings"
	"text/template"
)

var templateFuncs = template.FuncMap{
	"shortSHA":  shortSHA,
	"firstLine": firstLine,
	"join":      strings.Join,
	"lower":     strings.ToLower,
	"upper":     strings.ToUpper,
	"trim":      strings.TrimSpace,
}

// Template renders a user-supplied text/template.
type Template struct {
	tmpl *template.Template
}

func NewTemplate(source string) (*Template, error) {
	tmpl, err := template.New("release-notes").
		Funcs(templateFuncs).
		Option("missingkey=error").
		Parse(source)
	if err != nil {
		return nil, &TemplateError{Stage: "parse", Cause: err}
	}
	return &Template{tmpl: tmpl}, nil
}

func (t *Template) Render(c *Context) (string, error) {
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, c); err != nil {
		return "", &TemplateError{Stage: "execute", Cause: err}
	}
	return buf.String(), nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimRight(s[:i], "\r")
	}
	return s
}
