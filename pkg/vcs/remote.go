package vcs

import (
	"fmt"

	"github.com/go-git/go-git/v5"
)

// DetectRepository returns "owner/repo" for the named remote of the git
// repository containing path.
func DetectRepository(path, remoteName string) (string, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return "", fmt.Errorf("opening repository at %s: %w", path, err)
	}

	remote, err := repo.Remote(remoteName)
	if err != nil {
		return "", fmt.Errorf("reading remote %q: %w", remoteName, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %q has no URL", remoteName)
	}

	owner, name, err := ParseGitHubRepo(urls[0])
	if err != nil {
		return "", err
	}
	return owner + "/" + name, nil
}
