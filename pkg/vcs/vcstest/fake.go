// Package vcstest provides an in-memory vcs.Client for tests.
package vcstest

import (
	"context"
	"fmt"
	"sync"

	"github.com/release-notes-generator/pkg/vcs"
)

// Client serves canned responses. Any *Err field makes the matching call fail.
type Client struct {
	Tags         []vcs.Tag
	Comparisons  map[string][]vcs.RawCommit // keyed by "base...head"
	Refs         map[string]string          // tag name -> commit sha
	Commits      map[string]vcs.CommitInfo  // sha -> commit
	PullRequests []vcs.RawPullRequest

	ListTagsErr     error
	CompareErr      error
	GetRefErr       error
	GetCommitErr    error
	PullRequestsErr error

	mu    sync.Mutex
	Calls []string
}

var _ vcs.Client = (*Client)(nil)

func (c *Client) record(call string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls = append(c.Calls, call)
}

func (c *Client) ListTags(_ context.Context, perPage int) ([]vcs.Tag, error) {
	c.record(fmt.Sprintf("ListTags(%d)", perPage))
	if c.ListTagsErr != nil {
		return nil, c.ListTagsErr
	}
	if perPage < len(c.Tags) {
		return c.Tags[:perPage], nil
	}
	return c.Tags, nil
}

func (c *Client) CompareCommits(_ context.Context, base, head string) ([]vcs.RawCommit, error) {
	c.record(fmt.Sprintf("CompareCommits(%s...%s)", base, head))
	if c.CompareErr != nil {
		return nil, c.CompareErr
	}
	return c.Comparisons[base+"..."+head], nil
}

func (c *Client) GetRef(_ context.Context, tag string) (string, error) {
	c.record("GetRef(" + tag + ")")
	if c.GetRefErr != nil {
		return "", c.GetRefErr
	}
	sha, ok := c.Refs[tag]
	if !ok {
		return "", fmt.Errorf("ref tags/%s not found", tag)
	}
	return sha, nil
}

func (c *Client) GetCommit(_ context.Context, sha string) (vcs.CommitInfo, error) {
	c.record("GetCommit(" + sha + ")")
	if c.GetCommitErr != nil {
		return vcs.CommitInfo{}, c.GetCommitErr
	}
	info, ok := c.Commits[sha]
	if !ok {
		return vcs.CommitInfo{}, fmt.Errorf("commit %s not found", sha)
	}
	return info, nil
}

func (c *Client) ListClosedPullRequests(_ context.Context, opts vcs.PullRequestListOptions) ([]vcs.RawPullRequest, error) {
	c.record(fmt.Sprintf("ListClosedPullRequests(%s,%s,%d)", opts.Sort, opts.Direction, opts.PerPage))
	if c.PullRequestsErr != nil {
		return nil, c.PullRequestsErr
	}
	return c.PullRequests, nil
}
