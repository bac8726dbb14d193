// Package releasenotes wires the pipeline that turns the history between two
// tags into a release-notes document.
package releasenotes

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/release-notes-generator/pkg/categorize"
	"github.com/release-notes-generator/pkg/changes"
	"github.com/release-notes-generator/pkg/contributors"
	"github.com/release-notes-generator/pkg/render"
	"github.com/release-notes-generator/pkg/tags"
	"github.com/release-notes-generator/pkg/vcs"
)

type Options struct {
	Tag         string
	PreviousTag string
	Repository  string
	Template    string
	Categories  categorize.RuleSet

	IncludeCommits      bool
	IncludePullRequests bool
	IncludeContributors bool
	Categorize          bool

	ApplyIgnores  bool
	IgnoreCommits []string
	IgnoreLabels  []string
}

type Result struct {
	ReleaseNotes string                `json:"release_notes"`
	Contributors []string              `json:"contributors"`
	Summary      string                `json:"summary"`
	CurrentTag   string                `json:"current_tag"`
	PreviousTag  string                `json:"previous_tag"`
	Commits      []changes.Commit      `json:"-"`
	PullRequests []changes.PullRequest `json:"-"`
}

type Generator struct {
	resolver *tags.Resolver
	fetcher  *changes.Fetcher
	log      *slog.Logger
}

func New(client vcs.Client, log *slog.Logger) *Generator {
	if log == nil {
		log = slog.Default()
	}
	return &Generator{
		resolver: tags.NewResolver(client),
		fetcher:  changes.NewFetcher(client).WithLogger(log.With("component", "fetcher")),
		log:      log,
	}
}

// Generate runs the whole pipeline. Tag resolution and template errors abort
// it; fetch failures only shrink the result.
func (g *Generator) Generate(ctx context.Context, opts Options) (*Result, error) {
	renderer, err := render.New(opts.Template)
	if err != nil {
		return nil, err
	}

	current, err := g.resolver.ResolveCurrent(ctx, opts.Tag)
	if err != nil {
		return nil, err
	}
	previous, err := g.resolver.ResolvePrevious(ctx, opts.PreviousTag, current)
	if err != nil {
		return nil, err
	}
	g.log.Info("generating release notes", "current_tag", current, "previous_tag", previous)

	commits, prs := g.fetch(ctx, opts, previous, current)

	if opts.ApplyIgnores {
		commits = changes.DropIgnoredCommits(commits, opts.IgnoreCommits)
		prs = changes.DropIgnoredPullRequests(prs, opts.IgnoreLabels)
	}

	people := []string{}
	if opts.IncludeContributors {
		people = contributors.Extract(commits, prs)
	}

	if opts.Categorize {
		rules := opts.Categories
		if rules == nil {
			rules = categorize.DefaultRules()
		}
		commits, prs = categorize.Categorize(commits, prs, rules)
	}

	notes, err := renderer.Render(render.NewContext(current, previous, opts.Repository, commits, prs, people))
	if err != nil {
		return nil, err
	}

	return &Result{
		ReleaseNotes: notes,
		Contributors: people,
		Summary:      render.Summary(len(commits), len(prs), len(people)),
		CurrentTag:   current,
		PreviousTag:  previous,
		Commits:      commits,
		PullRequests: prs,
	}, nil
}

func (g *Generator) fetch(ctx context.Context, opts Options, previous, current string) ([]changes.Commit, []changes.PullRequest) {
	commits := []changes.Commit{}
	prs := []changes.PullRequest{}

	var eg errgroup.Group
	if opts.IncludeCommits {
		eg.Go(func() error {
			commits = g.fetcher.Commits(ctx, previous, current)
			return nil
		})
	}
	if opts.IncludePullRequests {
		eg.Go(func() error {
			prs = g.fetcher.PullRequests(ctx, previous, current)
			return nil
		})
	}
	// Fetchers degrade to empty results, so the group never reports an error.
	_ = eg.Wait()

	g.log.Debug("fetched changes", "commits", len(commits), "pull_requests", len(prs))
	return commits, prs
}
