package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultDockerHubAPI = "https://hub.docker.com"

// DockerHubClient implements the Client interface against the Docker Hub
// API (hub.docker.com/v2). Authentication exchanges the username/password
// for a JWT that authorizes the description update.
type DockerHubClient struct {
	baseURL    string
	httpClient *http.Client
	creds      Credentials
	token      string
}

// NewDockerHubClient creates a Docker Hub client with the provided credentials
func NewDockerHubClient(creds Credentials) *DockerHubClient {
	return NewDockerHubClientWithBaseURL(creds, defaultDockerHubAPI)
}

// NewDockerHubClientWithBaseURL creates a Docker Hub client against a
// specific API endpoint (for testing)
func NewDockerHubClientWithBaseURL(creds Credentials, baseURL string) *DockerHubClient {
	return &DockerHubClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		creds: creds,
	}
}

type dockerHubLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type dockerHubLoginResponse struct {
	Token string `json:"token"`
}

type dockerHubRepository struct {
	Description     string `json:"description"`
	FullDescription string `json:"full_description"`
}

type dockerHubDescriptionUpdate struct {
	FullDescription string `json:"full_description"`
}

// Authenticate logs in to Docker Hub and stores the session JWT
func (c *DockerHubClient) Authenticate(ctx context.Context) error {
	if c.creds.Username == "" || c.creds.Password == "" {
		return NewError(ErrorTypeAuth, "Docker Hub username and password are required", nil)
	}

	body, err := json.Marshal(dockerHubLoginRequest{
		Username: c.creds.Username,
		Password: c.creds.Password,
	})
	if err != nil {
		return fmt.Errorf("failed to encode login request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/v2/users/login", "", body)
	if err != nil {
		return WrapError(err, "Docker Hub login")
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode != http.StatusOK {
		return ClassifyHTTPStatus(resp.StatusCode, string(respBody), "Docker Hub login")
	}

	var login dockerHubLoginResponse
	if err := json.Unmarshal(respBody, &login); err != nil {
		return NewError(ErrorTypeAuth, "unexpected login response from Docker Hub", err)
	}
	if login.Token == "" {
		return NewError(ErrorTypeAuth, "Docker Hub login returned no token", nil)
	}

	c.token = login.Token
	return nil
}

// GetDescription fetches the current full description of a repository
func (c *DockerHubClient) GetDescription(ctx context.Context, repository Repository) (string, error) {
	resource := fmt.Sprintf("repository %s", repository)

	resp, err := c.do(ctx, http.MethodGet, c.repositoryPath(repository), c.token, nil)
	if err != nil {
		return "", WrapError(err, resource)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != http.StatusOK {
		return "", ClassifyHTTPStatus(resp.StatusCode, "", resource)
	}

	var repo dockerHubRepository
	if err := json.Unmarshal(respBody, &repo); err != nil {
		return "", NewError(ErrorTypeUpload, "unexpected repository response from Docker Hub", err)
	}

	return repo.FullDescription, nil
}

// UpdateDescription overwrites the repository's full description
func (c *DockerHubClient) UpdateDescription(ctx context.Context, repository Repository, text string) error {
	resource := fmt.Sprintf("repository %s", repository)

	if c.token == "" {
		return NewError(ErrorTypeAuth, "not authenticated: call Authenticate() first", nil)
	}
	if len(text) > DockerHubDescriptionLimit {
		return NewError(ErrorTypeValidation,
			fmt.Sprintf("description is %d bytes, Docker Hub allows at most %d", len(text), DockerHubDescriptionLimit), nil)
	}

	body, err := json.Marshal(dockerHubDescriptionUpdate{FullDescription: text})
	if err != nil {
		return fmt.Errorf("failed to encode description update: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPatch, c.repositoryPath(repository), c.token, body)
	if err != nil {
		return WrapError(err, resource)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode != http.StatusOK {
		return ClassifyHTTPStatus(resp.StatusCode, string(respBody), resource)
	}

	return nil
}

func (c *DockerHubClient) repositoryPath(repository Repository) string {
	return fmt.Sprintf("/v2/repositories/%s/%s/", repository.Owner, repository.Name)
}

func (c *DockerHubClient) do(ctx context.Context, method, path, token string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "JWT "+token)
	}

	return c.httpClient.Do(req)
}

// Ensure DockerHubClient implements the interface
var _ Client = (*DockerHubClient)(nil)
