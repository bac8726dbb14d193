// Package render turns categorized changes into a release-notes document.
package render

import (
	"github.com/release-notes-generator/pkg/categorize"
	"github.com/release-notes-generator/pkg/changes"
)

type CommitGroup struct {
	Category string
	Commits  []changes.Commit
}

type PullRequestGroup struct {
	Category     string
	PullRequests []changes.PullRequest
}

// Context is the data a template is rendered against. Groups are ordered by
// the first appearance of each category; items keep their input order.
type Context struct {
	CurrentTag             string
	PreviousTag            string
	Repository             string
	Commits                []changes.Commit
	PullRequests           []changes.PullRequest
	Contributors           []string
	CommitsByCategory      []CommitGroup
	PullRequestsByCategory []PullRequestGroup
}

func NewContext(currentTag, previousTag, repository string, commits []changes.Commit, prs []changes.PullRequest, contributors []string) *Context {
	return &Context{
		CurrentTag:             currentTag,
		PreviousTag:            previousTag,
		Repository:             repository,
		Commits:                commits,
		PullRequests:           prs,
		Contributors:           contributors,
		CommitsByCategory:      groupCommits(commits),
		PullRequestsByCategory: groupPullRequests(prs),
	}
}

func categoryOf(c string) string {
	if c == "" {
		return categorize.Other
	}
	return c
}

func groupCommits(commits []changes.Commit) []CommitGroup {
	var groups []CommitGroup
	index := make(map[string]int)
	for _, c := range commits {
		cat := categoryOf(c.Category)
		i, ok := index[cat]
		if !ok {
			i = len(groups)
			index[cat] = i
			groups = append(groups, CommitGroup{Category: cat})
		}
		groups[i].Commits = append(groups[i].Commits, c)
	}
	return groups
}

func groupPullRequests(prs []changes.PullRequest) []PullRequestGroup {
	var groups []PullRequestGroup
	index := make(map[string]int)
	for _, pr := range prs {
		cat := categoryOf(pr.Category)
		i, ok := index[cat]
		if !ok {
			i = len(groups)
			index[cat] = i
			groups = append(groups, PullRequestGroup{Category: cat})
		}
		groups[i].PullRequests = append(groups[i].PullRequests, pr)
	}
	return groups
}
