package categorize

import (
	"slices"
	"strings"

	"github.com/release-notes-generator/pkg/changes"
)

// Categorize returns copies of commits and prs with their Category set.
// The inputs are left untouched.
func Categorize(commits []changes.Commit, prs []changes.PullRequest, rules RuleSet) ([]changes.Commit, []changes.PullRequest) {
	outCommits := make([]changes.Commit, len(commits))
	for i, c := range commits {
		c.Category = Commit(c.Message, rules)
		outCommits[i] = c
	}

	outPRs := make([]changes.PullRequest, len(prs))
	for i, pr := range prs {
		pr.Labels = slices.Clone(pr.Labels)
		pr.Category = PullRequest(pr.Title, pr.Labels, rules)
		outPRs[i] = pr
	}
	return outCommits, outPRs
}

// Commit returns the category of a commit message: the first rule with a
// keyword written as a conventional prefix ("kw:" or "kw(").
func Commit(message string, rules RuleSet) string {
	if category, ok := matchPrefix(strings.ToLower(message), rules); ok {
		return category
	}
	return Other
}

// PullRequest matches labels first, then falls back to the commit rule on
// the title.
func PullRequest(title string, labels []string, rules RuleSet) string {
	if category, ok := matchLabels(labels, rules); ok {
		return category
	}
	if category, ok := matchPrefix(strings.ToLower(title), rules); ok {
		return category
	}
	return Other
}

func matchPrefix(text string, rules RuleSet) (string, bool) {
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			kw = normalize(kw)
			if kw == "" {
				continue
			}
			if strings.HasPrefix(text, kw+":") || strings.HasPrefix(text, kw+"(") {
				return rule.Category, true
			}
		}
	}
	return "", false
}

func matchLabels(labels []string, rules RuleSet) (string, bool) {
	for _, rule := range rules {
		for _, label := range labels {
			label = strings.ToLower(label)
			for _, kw := range rule.Keywords {
				kw = normalize(kw)
				if kw != "" && strings.Contains(label, kw) {
					return rule.Category, true
				}
			}
		}
	}
	return "", false
}

func normalize(keyword string) string {
	return strings.ToLower(strings.TrimSpace(keyword))
}
