package vcs

import (
	"context"
	"time"
)

type Tag struct {
	Name   string
	Commit string
}

// RawCommit is a commit as reported by a compare call. Zero values mean the
// field was missing upstream.
type RawCommit struct {
	SHA        string
	Message    string
	AuthorName string
	AuthorDate time.Time
	URL        string
}

// CommitInfo is the subset of a git commit object needed to date a tag.
type CommitInfo struct {
	SHA        string
	AuthorName string
	AuthorDate time.Time
}

type RawLabel struct {
	Name string
}

type RawPullRequest struct {
	Number      int
	Title       string
	AuthorLogin string
	URL         string
	MergedAt    *time.Time
	Labels      []RawLabel
}

// PullRequestListOptions mirrors the query used to list closed pull requests.
type PullRequestListOptions struct {
	Sort      string
	Direction string
	PerPage   int
}

// Client is a read-only view of a single hosted repository.
type Client interface {
	// ListTags returns at most perPage tags, newest first.
	ListTags(ctx context.Context, perPage int) ([]Tag, error)

	// CompareCommits returns the commits in base...head in API order.
	CompareCommits(ctx context.Context, base, head string) ([]RawCommit, error)

	// GetRef resolves a tag name to the SHA of the commit it points at.
	GetRef(ctx context.Context, tag string) (string, error)

	// GetCommit returns author metadata of a git commit.
	GetCommit(ctx context.Context, sha string) (CommitInfo, error)

	// ListClosedPullRequests returns a single page of closed pull requests.
	ListClosedPullRequests(ctx context.Context, opts PullRequestListOptions) ([]RawPullRequest, error)
}
