package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t,
		[]string{"Features", "Bug Fixes", "Documentation", "Maintenance", "Refactoring", "Tests"},
		cfg.Categories.Names())
	assert.Contains(t, cfg.IgnoreCommits, "Merge pull request")
	assert.Contains(t, cfg.IgnoreLabels, "wontfix")
	assert.Empty(t, cfg.Template)
	assert.True(t, cfg.IncludeCommits)
	assert.True(t, cfg.Categorize)
	assert.Equal(t, "markdown", cfg.Format)
}

func TestLoadYAMLOverridesPerField(t *testing.T) {
	path := writeFile(t, "release-notes.yml", `
categories:
  Security: [security, sec]
  Features: [feat]
ignoreLabels: []
template: "{{ .CurrentTag }}"
transformers:
  foo: bar
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Security", "Features"}, cfg.Categories.Names(), "categories replace the defaults in file order")
	assert.Equal(t, []string{"feat"}, cfg.Categories[1].Keywords)
	assert.Empty(t, cfg.IgnoreLabels)
	assert.Equal(t, Default().IgnoreCommits, cfg.IgnoreCommits, "absent keys keep defaults")
	assert.Equal(t, "{{ .CurrentTag }}", cfg.Template)
	assert.Equal(t, map[string]string{"foo": "bar"}, cfg.Transformers)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "release-notes.json", `{
		"categories": {"Zeta": ["z"], "Alpha": ["a"]},
		"ignoreCommits": ["wip"]
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Zeta", "Alpha"}, cfg.Categories.Names())
	assert.Equal(t, []string{"wip"}, cfg.IgnoreCommits)
	assert.Equal(t, Default().IgnoreLabels, cfg.IgnoreLabels)
}

func TestLoadErrors(t *testing.T) {
	tests := map[string]string{
		"unsupported extension": writeFile(t, "config.toml", "a = 1"),
		"invalid yaml":          writeFile(t, "config.yaml", "categories: [unclosed"),
		"invalid json":          writeFile(t, "config.json", "{"),
		"categories not a map":  writeFile(t, "config.yml", "categories:\n  - a\n"),
		"missing file":          filepath.Join(t.TempDir(), "nope.yml"),
	}

	for name, path := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		var logs bytes.Buffer
		cfg := LoadOrDefault("", slog.New(slog.NewTextHandler(&logs, nil)))
		assert.Equal(t, Default(), cfg)
		assert.Empty(t, logs.String())
	})

	t.Run("missing file logs info", func(t *testing.T) {
		var logs bytes.Buffer
		cfg := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yml"), slog.New(slog.NewTextHandler(&logs, nil)))
		assert.Equal(t, Default(), cfg)
		assert.Contains(t, logs.String(), "level=INFO")
		assert.Contains(t, logs.String(), "config file not found")
	})

	t.Run("invalid file logs warning", func(t *testing.T) {
		var logs bytes.Buffer
		path := writeFile(t, "bad.yaml", "categories: [")
		cfg := LoadOrDefault(path, slog.New(slog.NewTextHandler(&logs, nil)))
		assert.Equal(t, Default(), cfg)
		assert.Contains(t, logs.String(), "level=WARN")
	})

	t.Run("valid file", func(t *testing.T) {
		path := writeFile(t, "ok.yaml", "template: hi\n")
		cfg := LoadOrDefault(path, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
		assert.Equal(t, "hi", cfg.Template)
	})
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("token", "", "")
	fs.String("repository", "", "")
	fs.String("tag", "", "")
	fs.String("previous-tag", "", "")
	fs.Bool("include-commits", true, "")
	fs.Bool("include-pull-requests", true, "")
	fs.Bool("include-contributors", true, "")
	fs.Bool("categorize", true, "")
	fs.Bool("apply-ignores", false, "")
	fs.String("output-file", "", "")
	fs.String("format", "markdown", "")
	fs.Bool("publish", false, "")
	fs.Bool("draft", false, "")
	fs.String("template", "", "")
	fs.String("template-file", "", "")
	return fs
}

func TestMergeFlags(t *testing.T) {
	fs := newFlagSet()
	require.NoError(t, fs.Parse([]string{
		"--token=tok",
		"--repository=acme/widgets",
		"--tag=v2",
		"--previous-tag=v1",
		"--include-pull-requests=false",
		"--categorize=false",
		"--apply-ignores",
		"--format=json",
		"--publish",
		"--template={{ .CurrentTag }}",
	}))

	cfg := MergeFlags(Default(), fs)

	assert.Equal(t, "tok", cfg.Token)
	assert.Equal(t, "acme/widgets", cfg.Repository)
	assert.Equal(t, "v2", cfg.Tag)
	assert.Equal(t, "v1", cfg.PreviousTag)
	assert.True(t, cfg.IncludeCommits)
	assert.False(t, cfg.IncludePullRequests)
	assert.False(t, cfg.Categorize)
	assert.True(t, cfg.ApplyIgnores)
	assert.Equal(t, "json", cfg.Format)
	assert.True(t, cfg.Publish)
	assert.False(t, cfg.Draft)
	assert.Equal(t, "{{ .CurrentTag }}", cfg.Template)
}

func TestMergeFlagsKeepsFileTemplate(t *testing.T) {
	fs := newFlagSet()
	require.NoError(t, fs.Parse(nil))

	cfg := Default()
	cfg.Template = "from file"
	cfg = MergeFlags(cfg, fs)
	assert.Equal(t, "from file", cfg.Template)
}

func TestResolveTemplate(t *testing.T) {
	tmplPath := writeFile(t, "notes.tmpl", "{{ .Repository }}")

	t.Run("template file replaces config template", func(t *testing.T) {
		fs := newFlagSet()
		require.NoError(t, fs.Parse([]string{"--template-file=" + tmplPath}))
		cfg := Default()
		cfg.Template = "from config"

		require.NoError(t, ResolveTemplate(cfg, fs))
		assert.Equal(t, "{{ .Repository }}", cfg.Template)
	})

	t.Run("inline template wins over file", func(t *testing.T) {
		fs := newFlagSet()
		require.NoError(t, fs.Parse([]string{"--template=inline", "--template-file=" + tmplPath}))
		cfg := MergeFlags(Default(), fs)

		require.NoError(t, ResolveTemplate(cfg, fs))
		assert.Equal(t, "inline", cfg.Template)
	})

	t.Run("missing template file", func(t *testing.T) {
		fs := newFlagSet()
		require.NoError(t, fs.Parse([]string{"--template-file=" + filepath.Join(t.TempDir(), "x")}))
		assert.Error(t, ResolveTemplate(Default(), fs))
	})
}
