package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/release-notes-generator/pkg/categorize"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config holds the settings read from the config file. Every key present in
// the file replaces the default of that field as a whole.
type Config struct {
	Categories    categorize.RuleSet `yaml:"categories" json:"categories"`
	IgnoreCommits []string           `yaml:"ignoreCommits" json:"ignoreCommits"`
	IgnoreLabels  []string           `yaml:"ignoreLabels" json:"ignoreLabels"`
	Template      string             `yaml:"template" json:"template"`
	Transformers  map[string]string  `yaml:"transformers" json:"transformers"`

	Token               string `yaml:"-" json:"-"`
	Repository          string `yaml:"-" json:"-"`
	Tag                 string `yaml:"-" json:"-"`
	PreviousTag         string `yaml:"-" json:"-"`
	IncludeCommits      bool   `yaml:"-" json:"-"`
	IncludePullRequests bool   `yaml:"-" json:"-"`
	IncludeContributors bool   `yaml:"-" json:"-"`
	Categorize          bool   `yaml:"-" json:"-"`
	ApplyIgnores        bool   `yaml:"-" json:"-"`
	OutputFile          string `yaml:"-" json:"-"`
	Format              string `yaml:"-" json:"-"`
	Publish             bool   `yaml:"-" json:"-"`
	Draft               bool   `yaml:"-" json:"-"`
}

func Default() *Config {
	return &Config{
		Categories: categorize.RuleSet{
			{Category: "Features", Keywords: []string{"feature", "feat", "enhancement"}},
			{Category: "Bug Fixes", Keywords: []string{"bug", "fix", "bugfix"}},
			{Category: "Documentation", Keywords: []string{"docs", "documentation"}},
			{Category: "Maintenance", Keywords: []string{"chore", "build", "ci"}},
			{Category: "Refactoring", Keywords: []string{"refactor"}},
			{Category: "Tests", Keywords: []string{"test", "tests"}},
		},
		IgnoreCommits: []string{
			"chore(release):",
			"chore(deps):",
			"Merge pull request",
			"Merge branch",
		},
		IgnoreLabels: []string{
			"duplicate",
			"wontfix",
			"invalid",
		},
		Transformers:        map[string]string{},
		IncludeCommits:      true,
		IncludePullRequests: true,
		IncludeContributors: true,
		Categorize:          true,
		Format:              "markdown",
	}
}

// Load reads a YAML (.yml, .yaml) or JSON (.json) file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(data, cfg)
	case ".json":
		err = json.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault never fails: an empty path or missing file yields the
// defaults, and unreadable or invalid files are logged and ignored.
func LoadOrDefault(path string, log *slog.Logger) *Config {
	if path == "" {
		return Default()
	}

	cfg, err := Load(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Info("config file not found, using default configuration", "path", path)
		return Default()
	case err != nil:
		log.Warn("error loading config file, using default configuration", "path", path, "err", err)
		return Default()
	}
	return cfg
}

func MergeFlags(cfg *Config, flags *pflag.FlagSet) *Config {
	if v, err := flags.GetString("token"); err == nil && v != "" {
		cfg.Token = v
	}
	if v, err := flags.GetString("repository"); err == nil && v != "" {
		cfg.Repository = v
	}
	if v, err := flags.GetString("tag"); err == nil && v != "" {
		cfg.Tag = v
	}
	if v, err := flags.GetString("previous-tag"); err == nil && v != "" {
		cfg.PreviousTag = v
	}
	if v, err := flags.GetBool("include-commits"); err == nil {
		cfg.IncludeCommits = v
	}
	if v, err := flags.GetBool("include-pull-requests"); err == nil {
		cfg.IncludePullRequests = v
	}
	if v, err := flags.GetBool("include-contributors"); err == nil {
		cfg.IncludeContributors = v
	}
	if v, err := flags.GetBool("categorize"); err == nil {
		cfg.Categorize = v
	}
	if v, err := flags.GetBool("apply-ignores"); err == nil {
		cfg.ApplyIgnores = v
	}
	if v, err := flags.GetString("output-file"); err == nil && v != "" {
		cfg.OutputFile = v
	}
	if v, err := flags.GetString("format"); err == nil && v != "" {
		cfg.Format = v
	}
	if v, err := flags.GetBool("publish"); err == nil {
		cfg.Publish = v
	}
	if v, err := flags.GetBool("draft"); err == nil {
		cfg.Draft = v
	}
	if v, err := flags.GetString("template"); err == nil && v != "" {
		cfg.Template = v
	}
	return cfg
}

// ResolveTemplate loads the template file when no inline template was given
// on the command line. An inline --template always wins.
func ResolveTemplate(cfg *Config, flags *pflag.FlagSet) error {
	if v, err := flags.GetString("template"); err == nil && v != "" {
		return nil
	}
	path, err := flags.GetString("template-file")
	if err != nil || path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read template file: %w", err)
	}
	cfg.Template = string(data)
	return nil
}
