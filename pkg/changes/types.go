// Package changes retrieves the commits and pull requests between two tags.
package changes

import "time"

// UnknownAuthor replaces missing author names and logins.
const UnknownAuthor = "Unknown"

type Commit struct {
	SHA      string    `json:"sha"`
	Message  string    `json:"message"`
	Author   string    `json:"author"`
	Date     time.Time `json:"date"`
	URL      string    `json:"url"`
	Category string    `json:"category,omitempty"`
}

type PullRequest struct {
	Number   int       `json:"number"`
	Title    string    `json:"title"`
	Author   string    `json:"author"`
	URL      string    `json:"url"`
	MergedAt time.Time `json:"merged_at"`
	Labels   []string  `json:"labels"`
	Category string    `json:"category,omitempty"`
}
