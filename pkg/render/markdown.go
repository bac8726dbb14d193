package render

import (
	"fmt"
	"strings"
)

// Markdown is the built-in release-notes layout. Sections without content
// are left out; the compare link is always present.
type Markdown struct{}

func (Markdown) Render(c *Context) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "\n# Release Notes for %s\n\n", c.CurrentTag)

	if len(c.Commits) > 0 {
		b.WriteString("## Commits\n\n")
		for _, g := range c.CommitsByCategory {
			fmt.Fprintf(&b, "### %s\n\n", g.Category)
			for _, cm := range g.Commits {
				fmt.Fprintf(&b, "- %s ([%s](%s)) by %s\n", cm.Message, shortSHA(cm.SHA), cm.URL, cm.Author)
			}
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	if len(c.PullRequests) > 0 {
		b.WriteString("## Pull Requests\n\n")
		for _, g := range c.PullRequestsByCategory {
			fmt.Fprintf(&b, "### %s\n\n", g.Category)
			for _, pr := range g.PullRequests {
				fmt.Fprintf(&b, "- #%d %s ([PR](%s)) by %s\n", pr.Number, pr.Title, pr.URL, pr.Author)
			}
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	if len(c.Contributors) > 0 {
		b.WriteString("## Contributors\n\n")
		for _, name := range c.Contributors {
			fmt.Fprintf(&b, "- %s\n", name)
		}
	}

	b.WriteString("\n## Compare\n\n")
	fmt.Fprintf(&b, "[Full Changelog](https://github.com/%s/compare/%s...%s)\n",
		c.Repository, c.PreviousTag, c.CurrentTag)

	return b.String(), nil
}
