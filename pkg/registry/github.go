package registry

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

// GitHubClient implements the Client interface for GitHub repository
// descriptions. GitHub is not a container registry, but GHCR package pages
// surface the linked repository's description, so syncing it keeps the
// registry UI in step with the README.
type GitHubClient struct {
	client *github.Client
}

// NewGitHubClient creates a GitHub client authenticated with the provided token
func NewGitHubClient(creds Credentials) *GitHubClient {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: creds.Token},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	return &GitHubClient{client: github.NewClient(tc)}
}

// NewGitHubClientWithBaseURL creates a GitHub client against a specific
// API endpoint (for testing)
func NewGitHubClientWithBaseURL(creds Credentials, baseURL string) (*GitHubClient, error) {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: creds.Token},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	client, err := github.NewClient(tc).WithEnterpriseURLs(baseURL, baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to configure GitHub API base URL: %w", err)
	}
	return &GitHubClient{client: client}, nil
}

// Authenticate validates the token by fetching the authenticated user
func (c *GitHubClient) Authenticate(ctx context.Context) error {
	_, _, err := c.client.Users.Get(ctx, "")
	if err != nil {
		return wrapGitHubError(err, "GitHub token validation")
	}
	return nil
}

// GetDescription returns the repository's current description
func (c *GitHubClient) GetDescription(ctx context.Context, repository Repository) (string, error) {
	repo, _, err := c.client.Repositories.Get(ctx, repository.Owner, repository.Name)
	if err != nil {
		return "", wrapGitHubError(err, fmt.Sprintf("repository %s", repository))
	}
	return repo.GetDescription(), nil
}

// UpdateDescription sets the repository's description
func (c *GitHubClient) UpdateDescription(ctx context.Context, repository Repository, text string) error {
	if len(text) > GitHubDescriptionLimit {
		return NewError(ErrorTypeValidation,
			fmt.Sprintf("description is %d bytes, GitHub allows at most %d", len(text), GitHubDescriptionLimit), nil)
	}

	_, _, err := c.client.Repositories.Edit(ctx, repository.Owner, repository.Name, &github.Repository{
		Description: github.String(text),
	})
	if err != nil {
		return wrapGitHubError(err, fmt.Sprintf("repository %s", repository))
	}
	return nil
}

// wrapGitHubError converts go-github errors into the registry taxonomy
func wrapGitHubError(err error, resource string) *Error {
	if ghErr, ok := err.(*github.ErrorResponse); ok && ghErr.Response != nil {
		regErr := ClassifyHTTPStatus(ghErr.Response.StatusCode, "", resource)
		regErr.Cause = err
		if ghErr.Response.StatusCode == http.StatusForbidden {
			regErr.Message = "insufficient permissions: the token may be missing the repo scope"
		}
		return regErr
	}

	if _, ok := err.(*github.RateLimitError); ok {
		return &Error{
			Type:      ErrorTypeRateLimit,
			Message:   "GitHub API rate limit exceeded",
			Cause:     err,
			Resource:  resource,
			Retryable: true,
		}
	}

	return WrapError(err, resource)
}

// Ensure GitHubClient implements the interface
var _ Client = (*GitHubClient)(nil)
