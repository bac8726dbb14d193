package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/google/go-github/v60/github"
	"github.com/spf13/cobra"

	"github.com/release-notes-generator/internal/actions"
	"github.com/release-notes-generator/internal/clierr"
	"github.com/release-notes-generator/pkg/config"
	"github.com/release-notes-generator/pkg/publish"
	"github.com/release-notes-generator/pkg/releasenotes"
	"github.com/release-notes-generator/pkg/render"
	"github.com/release-notes-generator/pkg/reporter"
	"github.com/release-notes-generator/pkg/tags"
	"github.com/release-notes-generator/pkg/vcs"
)

// app holds the process dependencies so tests can swap them.
type app struct {
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string

	// newClient builds the API client for owner/repo. The GitHub client is
	// only needed for publishing and may be nil.
	newClient func(ctx context.Context, token, owner, repo string) (vcs.Client, *github.Client)
	// detectRepository is the fallback when no repository is configured.
	detectRepository func() (string, error)
}

func defaultApp() *app {
	return &app{
		stdout: os.Stdout,
		stderr: os.Stderr,
		getenv: os.Getenv,
		newClient: func(ctx context.Context, token, owner, repo string) (vcs.Client, *github.Client) {
			gh := github.NewClient(vcs.NewHTTPClient(ctx, token))
			return vcs.NewGitHubClient(gh, owner, repo), gh
		},
		detectRepository: func() (string, error) {
			return vcs.DetectRepository(".", "origin")
		},
	}
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "release-notes",
		Short:         "Generate release notes from the history between two tags",
		Long:          `Collects the commits and merged pull requests between two tags of a GitHub repository, sorts them into categories and renders a release-notes document.`,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd)
		},
	}

	f := cmd.Flags()
	f.String("token", a.getenv("GITHUB_TOKEN"), "GitHub token for API access")
	f.String("repository", a.getenv("GITHUB_REPOSITORY"), "Repository as owner/repo (defaults to the origin remote)")
	f.String("tag", "", "Tag to generate notes for (defaults to the latest tag)")
	f.String("previous-tag", "", "Tag to compare against (defaults to the tag before --tag)")
	f.String("config-file", "", "Path to a YAML or JSON config file")
	f.Bool("include-commits", true, "Include commits")
	f.Bool("include-pull-requests", true, "Include merged pull requests")
	f.Bool("include-contributors", true, "Include the contributor list")
	f.Bool("categorize", true, "Group changes into categories")
	f.String("template", "", "Inline template overriding the built-in document")
	f.String("template-file", "", "Path to a template file")
	f.String("output-file", "", "Also write the release notes to this file")
	f.String("format", "markdown", "Output format: markdown | json | table")
	f.Bool("apply-ignores", false, "Drop changes matching ignoreCommits and ignoreLabels")
	f.Bool("publish", false, "Create or update the GitHub release of the tag")
	f.Bool("draft", false, "Create the release as a draft when publishing")
	f.BoolP("verbose", "v", false, "Enable debug logging")

	return cmd
}

func (a *app) run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	flags := cmd.Flags()

	verbose, _ := flags.GetBool("verbose")
	log := newLogger(a.stderr, verbose)

	cfgPath, _ := flags.GetString("config-file")
	cfg := config.MergeFlags(config.LoadOrDefault(cfgPath, log), flags)
	if err := config.ResolveTemplate(cfg, flags); err != nil {
		return clierr.Wrap(clierr.CodeFailure, err)
	}

	rep, err := reporter.New(cfg.Format)
	if err != nil {
		return clierr.Wrap(clierr.CodeFailure, err)
	}

	repository := cfg.Repository
	if repository == "" {
		if repository, err = a.detectRepository(); err != nil {
			return clierr.Wrapf(clierr.CodeFailure, err, "no repository given and none detected")
		}
		log.Debug("detected repository from origin remote", "repository", repository)
	}
	owner, name, err := vcs.ParseGitHubRepo(repository)
	if err != nil {
		return clierr.Wrap(clierr.CodeFailure, err)
	}
	if cfg.Token == "" {
		log.Warn("no token given, using unauthenticated API access")
	}

	client, gh := a.newClient(ctx, cfg.Token, owner, name)
	res, err := releasenotes.New(client, log).Generate(ctx, releasenotes.Options{
		Tag:                 cfg.Tag,
		PreviousTag:         cfg.PreviousTag,
		Repository:          owner + "/" + name,
		Template:            cfg.Template,
		Categories:          cfg.Categories,
		IncludeCommits:      cfg.IncludeCommits,
		IncludePullRequests: cfg.IncludePullRequests,
		IncludeContributors: cfg.IncludeContributors,
		Categorize:          cfg.Categorize,
		ApplyIgnores:        cfg.ApplyIgnores,
		IgnoreCommits:       cfg.IgnoreCommits,
		IgnoreLabels:        cfg.IgnoreLabels,
	})
	if err != nil {
		return classify(err)
	}

	// Publishing precedes every output: a failed upload must leave none behind.
	if cfg.Publish {
		if gh == nil {
			return clierr.Wrap(clierr.CodeFailure, errors.New("publishing needs a GitHub client"))
		}
		link, err := publish.NewPublisher(gh, owner, name).
			WithLogger(log.With("component", "publisher")).
			Publish(ctx, publish.Release{Tag: res.CurrentTag, Body: res.ReleaseNotes, Draft: cfg.Draft})
		if err != nil {
			return clierr.Wrap(clierr.CodeFailure, err)
		}
		log.Info("release published", "url", link)
	}

	if err := rep.Report(a.stdout, res); err != nil {
		return clierr.Wrapf(clierr.CodeFailure, err, "write report")
	}

	if cfg.OutputFile != "" {
		if err := os.WriteFile(cfg.OutputFile, []byte(res.ReleaseNotes), 0o644); err != nil {
			return clierr.Wrapf(clierr.CodeFailure, err, "write output file")
		}
		log.Info("release notes written", "path", cfg.OutputFile)
	}

	out := actions.Outputs{
		ReleaseNotes: res.ReleaseNotes,
		Contributors: res.Contributors,
		Summary:      res.Summary,
	}
	if err := actions.WriteOutputs(a.getenv, out); err != nil {
		return clierr.Wrap(clierr.CodeFailure, err)
	}
	if err := actions.WriteStepSummary(a.getenv, out); err != nil {
		return clierr.Wrap(clierr.CodeFailure, err)
	}

	color.New(color.FgGreen).Fprintln(a.stderr, res.Summary)
	return nil
}

func classify(err error) error {
	var resErr *tags.ResolutionError
	var tmplErr *render.TemplateError
	switch {
	case errors.As(err, &resErr):
		return clierr.Wrap(clierr.CodeResolution, err)
	case errors.As(err, &tmplErr):
		return clierr.Wrap(clierr.CodeTemplate, err)
	default:
		return clierr.Wrap(clierr.CodeFailure, err)
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
