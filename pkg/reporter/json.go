package reporter

import (
	"encoding/json"
	"io"

	"github.com/release-notes-generator/pkg/releasenotes"
)

type JSONReporter struct{}

func (r *JSONReporter) Report(w io.Writer, res *releasenotes.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(res)
}
