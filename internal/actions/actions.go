// Package actions writes step outputs and job summaries for GitHub Actions.
package actions

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

const (
	OutputEnv  = "GITHUB_OUTPUT"
	SummaryEnv = "GITHUB_STEP_SUMMARY"
)

// Outputs are the values exposed to later workflow steps.
type Outputs struct {
	ReleaseNotes string
	Contributors []string
	Summary      string
}

// WriteOutputs appends the outputs to the file named by $GITHUB_OUTPUT.
// It does nothing when the variable is unset.
func WriteOutputs(getenv func(string) string, out Outputs) error {
	path := getenv(OutputEnv)
	if path == "" {
		return nil
	}

	people := out.Contributors
	if people == nil {
		people = []string{}
	}
	contributors, err := json.Marshal(people)
	if err != nil {
		return fmt.Errorf("encode contributors: %w", err)
	}

	var b strings.Builder
	for _, kv := range [][2]string{
		{"release-notes", out.ReleaseNotes},
		{"contributors", string(contributors)},
		{"summary", out.Summary},
	} {
		if err := writeOutput(&b, kv[0], kv[1]); err != nil {
			return err
		}
	}
	return appendFile(path, b.String())
}

// WriteStepSummary appends a job summary to the file named by
// $GITHUB_STEP_SUMMARY. It does nothing when the variable is unset.
func WriteStepSummary(getenv func(string) string, out Outputs) error {
	path := getenv(SummaryEnv)
	if path == "" {
		return nil
	}
	body := fmt.Sprintf("## Release Notes Generated\n\n%s\n\nContributors: %d\n",
		out.ReleaseNotes, len(out.Contributors))
	return appendFile(path, body)
}

// writeOutput uses the heredoc form so multi-line values survive.
func writeOutput(b *strings.Builder, name, value string) error {
	delim, err := delimiter()
	if err != nil {
		return err
	}
	for strings.Contains(value, delim) {
		if delim, err = delimiter(); err != nil {
			return err
		}
	}
	fmt.Fprintf(b, "%s<<%s\n%s\n%s\n", name, delim, value, delim)
	return nil
}

func delimiter() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate output delimiter: %w", err)
	}
	return "ghadelimiter_" + hex.EncodeToString(buf), nil
}

func appendFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
