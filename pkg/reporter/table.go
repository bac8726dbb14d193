package reporter

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/release-notes-generator/pkg/categorize"
	"github.com/release-notes-generator/pkg/releasenotes"
)

// TableReporter prints how many commits and pull requests fell into each
// category, in order of first appearance.
type TableReporter struct{}

type categoryCount struct {
	name         string
	commits      int
	pullRequests int
}

func (r *TableReporter) Report(w io.Writer, res *releasenotes.Result) error {
	header := color.New(color.Bold, color.FgCyan)

	fmt.Fprintf(w, "%s %s...%s\n\n", header.Sprint("Release"), res.PreviousTag, res.CurrentTag)

	counts := countByCategory(res)
	if len(counts) == 0 {
		fmt.Fprintln(w, "No changes found.")
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "%s\t%s\t%s\n", header.Sprint("CATEGORY"), header.Sprint("COMMITS"), header.Sprint("PULL REQUESTS"))
		fmt.Fprintln(tw, "--------\t-------\t-------------")
		for _, c := range counts {
			fmt.Fprintf(tw, "%s\t%d\t%d\n", c.name, c.commits, c.pullRequests)
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\n", "TOTAL", len(res.Commits), len(res.PullRequests))
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "\n%s %d\n", header.Sprint("Contributors:"), len(res.Contributors))
	return nil
}

func countByCategory(res *releasenotes.Result) []categoryCount {
	var counts []categoryCount
	index := make(map[string]int)
	get := func(category string) *categoryCount {
		if category == "" {
			category = categorize.Other
		}
		i, ok := index[category]
		if !ok {
			i = len(counts)
			index[category] = i
			counts = append(counts, categoryCount{name: category})
		}
		return &counts[i]
	}

	for _, c := range res.Commits {
		get(c.Category).commits++
	}
	for _, pr := range res.PullRequests {
		get(pr.Category).pullRequests++
	}
	return counts
}
