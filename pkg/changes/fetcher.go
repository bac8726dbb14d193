package changes

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/release-notes-generator/pkg/vcs"
)

const pullRequestPageSize = 100

// Fetcher retrieves changes on a best-effort basis: failures are logged and
// produce an empty result.
type Fetcher struct {
	client vcs.Client
	log    *slog.Logger
	now    func() time.Time
}

func NewFetcher(client vcs.Client) *Fetcher {
	return &Fetcher{
		client: client,
		log:    slog.Default().With("component", "fetcher"),
		now:    time.Now,
	}
}

// WithLogger replaces the component logger.
func (f *Fetcher) WithLogger(log *slog.Logger) *Fetcher {
	f.log = log
	return f
}

// WithClock sets the clock used for commits without an author date.
func (f *Fetcher) WithClock(now func() time.Time) *Fetcher {
	f.now = now
	return f
}

// Commits returns the commits in prevTag...currTag in API order.
func (f *Fetcher) Commits(ctx context.Context, prevTag, currTag string) []Commit {
	raw, err := f.client.CompareCommits(ctx, prevTag, currTag)
	if err != nil {
		f.log.Warn("failed to get commits between tags",
			"base", prevTag, "head", currTag, "err", err)
		return []Commit{}
	}

	commits := make([]Commit, 0, len(raw))
	for _, rc := range raw {
		c := Commit{
			SHA:     rc.SHA,
			Message: rc.Message,
			Author:  rc.AuthorName,
			Date:    rc.AuthorDate,
			URL:     rc.URL,
		}
		if c.Author == "" {
			c.Author = UnknownAuthor
		}
		if c.Date.IsZero() {
			c.Date = f.now()
		}
		commits = append(commits, c)
	}
	return commits
}

// PullRequests returns the pull requests merged after prevTag's commit and
// no later than currTag's commit.
func (f *Fetcher) PullRequests(ctx context.Context, prevTag, currTag string) []PullRequest {
	prs, err := f.pullRequests(ctx, prevTag, currTag)
	if err != nil {
		f.log.Warn("failed to get pull requests between tags",
			"base", prevTag, "head", currTag, "err", err)
		return []PullRequest{}
	}
	return prs
}

func (f *Fetcher) pullRequests(ctx context.Context, prevTag, currTag string) ([]PullRequest, error) {
	prevDate, err := f.tagDate(ctx, prevTag)
	if err != nil {
		return nil, err
	}
	currDate, err := f.tagDate(ctx, currTag)
	if err != nil {
		return nil, err
	}

	raw, err := f.client.ListClosedPullRequests(ctx, vcs.PullRequestListOptions{
		Sort:      "updated",
		Direction: "desc",
		PerPage:   pullRequestPageSize,
	})
	if err != nil {
		return nil, err
	}

	prs := make([]PullRequest, 0, len(raw))
	for _, rp := range raw {
		if rp.MergedAt == nil {
			continue
		}
		merged := *rp.MergedAt
		if !merged.After(prevDate) || merged.After(currDate) {
			continue
		}

		pr := PullRequest{
			Number:   rp.Number,
			Title:    rp.Title,
			Author:   rp.AuthorLogin,
			URL:      rp.URL,
			MergedAt: merged,
			Labels:   make([]string, 0, len(rp.Labels)),
		}
		if pr.Author == "" {
			pr.Author = UnknownAuthor
		}
		for _, l := range rp.Labels {
			pr.Labels = append(pr.Labels, l.Name)
		}
		prs = append(prs, pr)
	}
	f.log.Debug("filtered pull requests", "listed", len(raw), "kept", len(prs))
	return prs, nil
}

func (f *Fetcher) tagDate(ctx context.Context, tag string) (time.Time, error) {
	sha, err := f.client.GetRef(ctx, tag)
	if err != nil {
		return time.Time{}, fmt.Errorf("resolve tag %s: %w", tag, err)
	}
	commit, err := f.client.GetCommit(ctx, sha)
	if err != nil {
		return time.Time{}, fmt.Errorf("read commit of tag %s: %w", tag, err)
	}
	return commit.AuthorDate, nil
}
