package reporter

import (
	"fmt"
	"io"

	"github.com/release-notes-generator/pkg/releasenotes"
)

type Reporter interface {
	Report(w io.Writer, res *releasenotes.Result) error
}

// New returns the reporter for format. An empty format means markdown.
func New(format string) (Reporter, error) {
	switch format {
	case "", "markdown":
		return &MarkdownReporter{}, nil
	case "json":
		return &JSONReporter{}, nil
	case "table":
		return &TableReporter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want markdown, json or table)", format)
	}
}

// MarkdownReporter writes the rendered notes as they are.
type MarkdownReporter struct{}

func (r *MarkdownReporter) Report(w io.Writer, res *releasenotes.Result) error {
	_, err := io.WriteString(w, res.ReleaseNotes)
	return err
}
