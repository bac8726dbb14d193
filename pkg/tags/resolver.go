// Package tags resolves the pair of tags that bounds a release.
package tags

import (
	"context"
	"errors"
	"fmt"

	"github.com/release-notes-generator/pkg/vcs"
)

// BeginningOfHistory stands in for a previous tag when none exists. It is
// passed to the compare API as a base ref.
const BeginningOfHistory = "HEAD~100"

const previousTagWindow = 10

// ErrNoTags is returned when the repository has no tags at all.
var ErrNoTags = errors.New("no tags found in the repository")

// ResolutionError reports that a release boundary could not be determined.
type ResolutionError struct {
	Op    string
	Cause error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("failed to get %s: %v", e.Op, e.Cause)
}

func (e *ResolutionError) Unwrap() error { return e.Cause }

type Resolver struct {
	client vcs.Client
}

func NewResolver(client vcs.Client) *Resolver {
	return &Resolver{client: client}
}

// ResolveCurrent returns explicit verbatim, or the newest tag of the repository.
func (r *Resolver) ResolveCurrent(ctx context.Context, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	latest, err := r.client.ListTags(ctx, 1)
	if err != nil {
		return "", &ResolutionError{Op: "latest tag", Cause: err}
	}
	if len(latest) == 0 {
		return "", &ResolutionError{Op: "latest tag", Cause: ErrNoTags}
	}
	return latest[0].Name, nil
}

// ResolvePrevious returns explicit verbatim, or the tag listed right after
// current. Falls back to BeginningOfHistory when there is no such tag.
func (r *Resolver) ResolvePrevious(ctx context.Context, explicit, current string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	recent, err := r.client.ListTags(ctx, previousTagWindow)
	if err != nil {
		return "", &ResolutionError{Op: "previous tag", Cause: err}
	}
	if len(recent) <= 1 {
		return BeginningOfHistory, nil
	}

	// An unlisted current tag is treated as the newest one.
	pos := 0
	for i, t := range recent {
		if t.Name == current {
			pos = i
			break
		}
	}
	next := pos + 1
	if next >= len(recent) {
		return BeginningOfHistory, nil
	}
	return recent[next].Name, nil
}
