// Package publish writes generated notes to a GitHub release.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/go-github/v60/github"
)

type Release struct {
	Tag   string
	Name  string
	Body  string
	Draft bool
}

// Publisher creates or updates the release attached to a tag.
type Publisher struct {
	client *github.Client
	owner  string
	repo   string
	log    *slog.Logger
}

func NewPublisher(client *github.Client, owner, repo string) *Publisher {
	return &Publisher{
		client: client,
		owner:  owner,
		repo:   repo,
		log:    slog.Default().With("component", "publisher"),
	}
}

func (p *Publisher) WithLogger(log *slog.Logger) *Publisher {
	p.log = log
	return p
}

// Publish edits the release of rel.Tag when one exists and creates it
// otherwise. It returns the release's web URL.
func (p *Publisher) Publish(ctx context.Context, rel Release) (string, error) {
	name := rel.Name
	if name == "" {
		name = rel.Tag
	}

	existing, err := p.findRelease(ctx, rel.Tag)
	if err != nil {
		return "", fmt.Errorf("get release %s: %w", rel.Tag, err)
	}

	if existing != nil {
		updated, _, err := p.client.Repositories.EditRelease(ctx, p.owner, p.repo, existing.GetID(), &github.RepositoryRelease{
			Name: &name,
			Body: &rel.Body,
		})
		if err != nil {
			return "", fmt.Errorf("edit release %s: %w", rel.Tag, err)
		}
		p.log.Info("updated release", "tag", rel.Tag, "id", existing.GetID())
		return updated.GetHTMLURL(), nil
	}

	created, _, err := p.client.Repositories.CreateRelease(ctx, p.owner, p.repo, &github.RepositoryRelease{
		TagName: &rel.Tag,
		Name:    &name,
		Body:    &rel.Body,
		Draft:   &rel.Draft,
	})
	if err != nil {
		return "", fmt.Errorf("create release %s: %w", rel.Tag, err)
	}
	p.log.Info("created release", "tag", rel.Tag, "draft", rel.Draft)
	return created.GetHTMLURL(), nil
}

// findRelease returns nil without error when the tag has no release yet.
func (p *Publisher) findRelease(ctx context.Context, tag string) (*github.RepositoryRelease, error) {
	rel, _, err := p.client.Repositories.GetReleaseByTag(ctx, p.owner, p.repo, tag)
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rel, nil
}
