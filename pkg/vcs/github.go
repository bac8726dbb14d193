package vcs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/go-github/v60/github"
	"golang.org/x/oauth2"
)

const defaultMaxRetries = 3

type GitHubClient struct {
	client     *github.Client
	owner      string
	repo       string
	newBackOff func() backoff.BackOff
	maxRetries uint64
}

func NewGitHubClient(client *github.Client, owner, repo string) *GitHubClient {
	return &GitHubClient{
		client:     client,
		owner:      owner,
		repo:       repo,
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
		maxRetries: defaultMaxRetries,
	}
}

// NewHTTPClient returns an HTTP client authenticating with token, or the
// default client when token is empty.
func NewHTTPClient(ctx context.Context, token string) *http.Client {
	if token == "" {
		return http.DefaultClient
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return oauth2.NewClient(ctx, ts)
}

// WithBackOff replaces the retry policy used for transient server errors.
func (g *GitHubClient) WithBackOff(newBackOff func() backoff.BackOff, maxRetries uint64) *GitHubClient {
	g.newBackOff = newBackOff
	g.maxRetries = maxRetries
	return g
}

func (g *GitHubClient) Repository() string {
	return g.owner + "/" + g.repo
}

func (g *GitHubClient) ListTags(ctx context.Context, perPage int) ([]Tag, error) {
	var tags []*github.RepositoryTag
	err := g.retry(ctx, func() error {
		var err error
		tags, _, err = g.client.Repositories.ListTags(ctx, g.owner, g.repo, &github.ListOptions{PerPage: perPage})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list tags for %s: %w", g.Repository(), err)
	}

	out := make([]Tag, 0, len(tags))
	for _, t := range tags {
		out = append(out, Tag{
			Name:   t.GetName(),
			Commit: t.GetCommit().GetSHA(),
		})
	}
	return out, nil
}

func (g *GitHubClient) CompareCommits(ctx context.Context, base, head string) ([]RawCommit, error) {
	var comparison *github.CommitsComparison
	err := g.retry(ctx, func() error {
		var err error
		comparison, _, err = g.client.Repositories.CompareCommits(ctx, g.owner, g.repo, base, head, nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("compare %s...%s in %s: %w", base, head, g.Repository(), err)
	}

	out := make([]RawCommit, 0, len(comparison.Commits))
	for _, c := range comparison.Commits {
		raw := RawCommit{
			SHA:        c.GetSHA(),
			Message:    c.GetCommit().GetMessage(),
			AuthorName: c.GetCommit().GetAuthor().GetName(),
			URL:        c.GetHTMLURL(),
		}
		if author := c.GetCommit().GetAuthor(); author != nil && author.Date != nil {
			raw.AuthorDate = author.Date.Time
		}
		out = append(out, raw)
	}
	return out, nil
}

func (g *GitHubClient) GetRef(ctx context.Context, tag string) (string, error) {
	name := strings.TrimPrefix(tag, "refs/tags/")

	var ref *github.Reference
	err := g.retry(ctx, func() error {
		var err error
		ref, _, err = g.client.Git.GetRef(ctx, g.owner, g.repo, "tags/"+name)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("get ref tags/%s in %s: %w", name, g.Repository(), err)
	}

	sha := ref.GetObject().GetSHA()
	if ref.GetObject().GetType() != "tag" {
		return sha, nil
	}

	// Annotated tags point at a tag object rather than the commit.
	var annotated *github.Tag
	err = g.retry(ctx, func() error {
		var err error
		annotated, _, err = g.client.Git.GetTag(ctx, g.owner, g.repo, sha)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("get tag object %s in %s: %w", sha, g.Repository(), err)
	}
	return annotated.GetObject().GetSHA(), nil
}

func (g *GitHubClient) GetCommit(ctx context.Context, sha string) (CommitInfo, error) {
	var commit *github.Commit
	err := g.retry(ctx, func() error {
		var err error
		commit, _, err = g.client.Git.GetCommit(ctx, g.owner, g.repo, sha)
		return err
	})
	if err != nil {
		return CommitInfo{}, fmt.Errorf("get commit %s in %s: %w", sha, g.Repository(), err)
	}

	info := CommitInfo{
		SHA:        commit.GetSHA(),
		AuthorName: commit.GetAuthor().GetName(),
	}
	if author := commit.GetAuthor(); author != nil && author.Date != nil {
		info.AuthorDate = author.Date.Time
	}
	return info, nil
}

func (g *GitHubClient) ListClosedPullRequests(ctx context.Context, opts PullRequestListOptions) ([]RawPullRequest, error) {
	var prs []*github.PullRequest
	err := g.retry(ctx, func() error {
		var err error
		prs, _, err = g.client.PullRequests.List(ctx, g.owner, g.repo, &github.PullRequestListOptions{
			State:       "closed",
			Sort:        opts.Sort,
			Direction:   opts.Direction,
			ListOptions: github.ListOptions{PerPage: opts.PerPage},
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list closed pull requests for %s: %w", g.Repository(), err)
	}

	out := make([]RawPullRequest, 0, len(prs))
	for _, pr := range prs {
		raw := RawPullRequest{
			Number:      pr.GetNumber(),
			Title:       pr.GetTitle(),
			AuthorLogin: pr.GetUser().GetLogin(),
			URL:         pr.GetHTMLURL(),
		}
		if pr.MergedAt != nil {
			merged := pr.MergedAt.Time
			raw.MergedAt = &merged
		}
		for _, l := range pr.Labels {
			raw.Labels = append(raw.Labels, RawLabel{Name: l.GetName()})
		}
		out = append(out, raw)
	}
	return out, nil
}

// retry runs op, retrying only server-side failures. Rate limits and client
// errors are returned as is.
func (g *GitHubClient) retry(ctx context.Context, op func() error) error {
	b := backoff.WithContext(backoff.WithMaxRetries(g.newBackOff(), g.maxRetries), ctx)
	return backoff.Retry(func() error {
		err := op()
		if err != nil && !isTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}, b)
}

func isTransient(err error) bool {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return false
	}
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		return respErr.Response.StatusCode >= http.StatusInternalServerError
	}
	return false
}

// ParseGitHubRepo accepts owner/repo, https URLs and scp-style git remotes.
func ParseGitHubRepo(repoURL string) (owner, repo string, err error) {
	s := strings.TrimSpace(repoURL)
	s = strings.TrimPrefix(s, "git+")
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "ssh://")
	s = strings.TrimPrefix(s, "git://")
	s = strings.TrimPrefix(s, "git@")
	s = strings.TrimPrefix(s, "github.com/")
	s = strings.TrimPrefix(s, "github.com:")
	s = strings.TrimSuffix(s, "/")
	s = strings.TrimSuffix(s, ".git")

	parts := strings.SplitN(s, "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("cannot parse GitHub repo from %q", repoURL)
	}
	return parts[0], parts[1], nil
}
