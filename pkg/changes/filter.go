package changes

import "strings"

// DropIgnoredCommits removes commits whose message starts with one of prefixes.
func DropIgnoredCommits(commits []Commit, prefixes []string) []Commit {
	out := make([]Commit, 0, len(commits))
	for _, c := range commits {
		if !hasAnyPrefix(c.Message, prefixes) {
			out = append(out, c)
		}
	}
	return out
}

// DropIgnoredPullRequests removes pull requests carrying any of labels.
// Label names are compared case-insensitively.
func DropIgnoredPullRequests(prs []PullRequest, labels []string) []PullRequest {
	out := make([]PullRequest, 0, len(prs))
	for _, pr := range prs {
		if !hasAnyLabel(pr.Labels, labels) {
			out = append(out, pr)
		}
	}
	return out
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func hasAnyLabel(have, ignored []string) bool {
	for _, h := range have {
		for _, i := range ignored {
			if strings.EqualFold(h, i) {
				return true
			}
		}
	}
	return false
}
