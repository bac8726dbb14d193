// Package contributors derives the people credited in a release.
package contributors

import "github.com/release-notes-generator/pkg/changes"

// Extract returns commit authors followed by pull request authors in
// first-seen order, without duplicates, empty names or changes.UnknownAuthor.
func Extract(commits []changes.Commit, prs []changes.PullRequest) []string {
	seen := make(map[string]bool)
	out := []string{}

	add := func(name string) {
		if name == "" || name == changes.UnknownAuthor || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, name)
	}

	for _, c := range commits {
		add(c.Author)
	}
	for _, pr := range prs {
		add(pr.Author)
	}
	return out
}
