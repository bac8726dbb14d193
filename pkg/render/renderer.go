package render

import "fmt"

type Renderer interface {
	Render(ctx *Context) (string, error)
}

// New returns the built-in Markdown renderer for an empty source and a
// compiled user template otherwise.
func New(source string) (Renderer, error) {
	if source == "" {
		return Markdown{}, nil
	}
	return NewTemplate(source)
}

// TemplateError reports a user template that failed to parse or execute.
type TemplateError struct {
	Stage string
	Cause error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %s: %v", e.Stage, e.Cause)
}

func (e *TemplateError) Unwrap() error { return e.Cause }

// Summary is the one-line report printed after rendering.
func Summary(commits, pullRequests, contributors int) string {
	return fmt.Sprintf("Generated release notes with %d commits, %d pull requests, and %d contributors.",
		commits, pullRequests, contributors)
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
