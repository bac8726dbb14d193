package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/google/go-github/v60/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/release-notes-generator/internal/clierr"
	"github.com/release-notes-generator/pkg/vcs"
	"github.com/release-notes-generator/pkg/vcs/vcstest"
)

func init() {
	color.NoColor = true
}

func fakeClient() *vcstest.Client {
	old := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	merged := time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC)
	return &vcstest.Client{
		Tags: []vcs.Tag{{Name: "v2.0.0"}, {Name: "v1.0.0"}},
		Comparisons: map[string][]vcs.RawCommit{
			"v1.0.0...v2.0.0": {
				{SHA: "1111111111", Message: "feat: search", AuthorName: "Alice", AuthorDate: merged, URL: "https://github.com/acme/widgets/commit/1111111111"},
				{SHA: "2222222222", Message: "chore(deps): bump", AuthorName: "bot", AuthorDate: merged, URL: "https://github.com/acme/widgets/commit/2222222222"},
			},
		},
		Refs:    map[string]string{"v1.0.0": "old", "v2.0.0": "new"},
		Commits: map[string]vcs.CommitInfo{"old": {AuthorDate: old}, "new": {AuthorDate: newer}},
		PullRequests: []vcs.RawPullRequest{
			{Number: 3, Title: "Search", AuthorLogin: "alice-gh", URL: "https://github.com/acme/widgets/pull/3", MergedAt: &merged, Labels: []vcs.RawLabel{{Name: "enhancement"}}},
		},
	}
}

type harness struct {
	app    *app
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	env    map[string]string
	client *vcstest.Client
	gh     *github.Client
	owner  string
	repo   string
}

func newHarness(client *vcstest.Client) *harness {
	h := &harness{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		env:    map[string]string{},
		client: client,
	}
	h.app = &app{
		stdout: h.stdout,
		stderr: h.stderr,
		getenv: func(k string) string { return h.env[k] },
		newClient: func(_ context.Context, _, owner, repo string) (vcs.Client, *github.Client) {
			h.owner, h.repo = owner, repo
			return h.client, h.gh
		},
		detectRepository: func() (string, error) { return "", errors.New("not a git repository") },
	}
	return h
}

func (h *harness) run(args ...string) error {
	cmd := newRootCmd(h.app)
	cmd.SetArgs(args)
	cmd.SetOut(h.stdout)
	cmd.SetErr(h.stderr)
	return cmd.ExecuteContext(context.Background())
}

func TestRunMarkdown(t *testing.T) {
	h := newHarness(fakeClient())

	require.NoError(t, h.run("--repository", "https://github.com/acme/widgets.git"))

	assert.Equal(t, "acme", h.owner)
	assert.Equal(t, "widgets", h.repo)
	out := h.stdout.String()
	assert.Contains(t, out, "# Release Notes for v2.0.0")
	assert.Contains(t, out, "### Features\n\n- feat: search ([1111111](https://github.com/acme/widgets/commit/1111111111)) by Alice\n")
	assert.Contains(t, out, "### Maintenance\n\n- chore(deps): bump")
	assert.Contains(t, out, "- #3 Search ([PR](https://github.com/acme/widgets/pull/3)) by alice-gh\n")
	assert.Contains(t, out, "[Full Changelog](https://github.com/acme/widgets/compare/v1.0.0...v2.0.0)")
	assert.Contains(t, h.stderr.String(), "Generated release notes with 2 commits, 1 pull requests, and 3 contributors.")
}

func TestRunEnvironmentAndActionsOutputs(t *testing.T) {
	dir := t.TempDir()
	h := newHarness(fakeClient())
	h.env["GITHUB_REPOSITORY"] = "acme/widgets"
	h.env["GITHUB_OUTPUT"] = filepath.Join(dir, "output")
	h.env["GITHUB_STEP_SUMMARY"] = filepath.Join(dir, "summary.md")
	notesPath := filepath.Join(dir, "NOTES.md")

	require.NoError(t, h.run("--apply-ignores", "--output-file", notesPath, "--format", "json"))

	var report map[string]any
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &report))
	assert.Equal(t, "v2.0.0", report["current_tag"])
	assert.Equal(t, []any{"Alice", "alice-gh"}, report["contributors"])

	notes, err := os.ReadFile(notesPath)
	require.NoError(t, err)
	assert.Equal(t, report["release_notes"], string(notes))
	assert.NotContains(t, string(notes), "chore(deps)")

	outputs, err := os.ReadFile(h.env["GITHUB_OUTPUT"])
	require.NoError(t, err)
	assert.Contains(t, string(outputs), "\n[\"Alice\",\"alice-gh\"]\n")

	summary, err := os.ReadFile(h.env["GITHUB_STEP_SUMMARY"])
	require.NoError(t, err)
	assert.Contains(t, string(summary), "## Release Notes Generated\n\n")
	assert.Contains(t, string(summary), "Contributors: 2\n")
}

func TestRunConfigAndTemplateFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "release-notes.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("categories:\n  Shiny: [feat]\n"), 0o644))
	tmplPath := filepath.Join(dir, "notes.tmpl")
	require.NoError(t, os.WriteFile(tmplPath, []byte(
		"{{ .CurrentTag }}{{ range .CommitsByCategory }} {{ .Category }}={{ len .Commits }}{{ end }}"), 0o644))

	h := newHarness(fakeClient())
	require.NoError(t, h.run("--repository", "acme/widgets", "--config-file", cfgPath,
		"--template-file", tmplPath, "--include-pull-requests=false"))

	assert.Equal(t, "v2.0.0 Shiny=1 other=1", h.stdout.String())
	for _, call := range h.client.Calls {
		assert.NotContains(t, call, "ListClosedPullRequests")
	}
}

func TestRunTable(t *testing.T) {
	h := newHarness(fakeClient())
	require.NoError(t, h.run("--repository", "acme/widgets", "--format", "table", "--categorize=false"))
	assert.Contains(t, h.stdout.String(), "other     2        1\n")
}

func TestRunVerboseLogsDebug(t *testing.T) {
	h := newHarness(fakeClient())
	require.NoError(t, h.run("--repository", "acme/widgets", "-v"))
	assert.Contains(t, h.stderr.String(), "level=DEBUG")
}

func TestRunFailures(t *testing.T) {
	tests := map[string]struct {
		args   []string
		mutate func(h *harness)
		code   int
		msg    string
	}{
		"no tags": {
			args:   []string{"--repository", "acme/widgets"},
			mutate: func(h *harness) { h.client.Tags = nil },
			code:   clierr.CodeResolution,
			msg:    "failed to get latest tag: no tags found in the repository",
		},
		"bad template": {
			args: []string{"--repository", "acme/widgets", "--template", "{{ .Nope"},
			code: clierr.CodeTemplate,
			msg:  "template parse",
		},
		"unknown format": {
			args: []string{"--repository", "acme/widgets", "--format", "sarif"},
			code: clierr.CodeFailure,
			msg:  "unknown output format",
		},
		"no repository": {
			code: clierr.CodeFailure,
			msg:  "no repository given and none detected",
		},
		"unparsable repository": {
			args: []string{"--repository", "widgets"},
			code: clierr.CodeFailure,
			msg:  "cannot parse GitHub repo",
		},
		"missing template file": {
			args: []string{"--repository", "acme/widgets", "--template-file", "/does/not/exist"},
			code: clierr.CodeFailure,
			msg:  "read template file",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			h := newHarness(fakeClient())
			if tt.mutate != nil {
				tt.mutate(h)
			}

			err := h.run(tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, clierr.ExitCodeOf(err))
			assert.Contains(t, err.Error(), tt.msg)
			assert.Empty(t, h.stdout.String(), "no partial output")
		})
	}
}

func TestRunDetectsRepository(t *testing.T) {
	h := newHarness(fakeClient())
	h.app.detectRepository = func() (string, error) { return "octo/tools", nil }

	require.NoError(t, h.run())
	assert.Equal(t, "octo", h.owner)
	assert.Equal(t, "tools", h.repo)
}

// withGitHub points the harness's GitHub client at a test server.
func (h *harness) withGitHub(t *testing.T, mux *http.ServeMux) {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	gh := github.NewClient(nil)
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	gh.BaseURL = base
	h.gh = gh
}

func TestRunPublish(t *testing.T) {
	var created map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/releases/tags/v2.0.0", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	})
	mux.HandleFunc("/repos/acme/widgets/releases", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&created))
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":5,"html_url":"https://github.com/acme/widgets/releases/tag/v2.0.0"}`)
	})

	h := newHarness(fakeClient())
	h.withGitHub(t, mux)

	require.NoError(t, h.run("--repository", "acme/widgets", "--publish", "--draft"))

	assert.Equal(t, "v2.0.0", created["tag_name"])
	assert.Equal(t, true, created["draft"])
	assert.Equal(t, h.stdout.String(), created["body"])
	assert.Contains(t, h.stderr.String(), "release published")
}

func TestRunPublishFailureWritesNothing(t *testing.T) {
	failing := http.NewServeMux()
	failing.HandleFunc("/repos/acme/widgets/releases/tags/v2.0.0", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message":"Resource not accessible by integration"}`)
	})

	tests := map[string]struct {
		mux  *http.ServeMux
		want string
	}{
		"api rejects the lookup": {mux: failing, want: "get release v2.0.0"},
		"no github client":       {mux: nil, want: "publishing needs a GitHub client"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			notesPath := filepath.Join(dir, "NOTES.md")
			h := newHarness(fakeClient())
			h.env["GITHUB_OUTPUT"] = filepath.Join(dir, "output")
			h.env["GITHUB_STEP_SUMMARY"] = filepath.Join(dir, "summary.md")
			if tt.mux != nil {
				h.withGitHub(t, tt.mux)
			}

			err := h.run("--repository", "acme/widgets", "--publish", "--output-file", notesPath)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, clierr.CodeFailure, clierr.ExitCodeOf(err))

			assert.Empty(t, h.stdout.String())
			assert.NoFileExists(t, notesPath)
			assert.NoFileExists(t, h.env["GITHUB_OUTPUT"])
			assert.NoFileExists(t, h.env["GITHUB_STEP_SUMMARY"])
		})
	}
}
