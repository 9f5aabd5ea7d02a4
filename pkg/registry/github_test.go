package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGitHubClient(t *testing.T, handler http.HandlerFunc) *GitHubClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewGitHubClientWithBaseURL(Credentials{Token: "test-token"}, server.URL+"/")
	require.NoError(t, err)
	return client
}

func TestGitHubClient_Authenticate(t *testing.T) {
	client := newTestGitHubClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Contains(t, r.URL.Path, "/user")
		_ = json.NewEncoder(w).Encode(map[string]any{"login": "tester"})
	})

	require.NoError(t, client.Authenticate(context.Background()))
}

func TestGitHubClient_Authenticate_RejectedToken(t *testing.T) {
	client := newTestGitHubClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "Bad credentials"}`))
	})

	err := client.Authenticate(context.Background())
	require.Error(t, err)

	var regErr *Error
	require.ErrorAs(t, err, &regErr)
	assert.Equal(t, ErrorTypeAuth, regErr.Type)
}

func TestGitHubClient_GetDescription(t *testing.T) {
	client := newTestGitHubClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Contains(t, r.URL.Path, "/repos/acme/app")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"name":        "app",
			"description": "current description",
		})
	})

	text, err := client.GetDescription(context.Background(), Repository{Owner: "acme", Name: "app"})
	require.NoError(t, err)
	assert.Equal(t, "current description", text)
}

func TestGitHubClient_UpdateDescription(t *testing.T) {
	var gotBody map[string]any

	client := newTestGitHubClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Contains(t, r.URL.Path, "/repos/acme/app")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_ = json.NewEncoder(w).Encode(map[string]any{"name": "app"})
	})

	err := client.UpdateDescription(context.Background(), Repository{Owner: "acme", Name: "app"}, "new description")
	require.NoError(t, err)
	assert.Equal(t, "new description", gotBody["description"])
}

func TestGitHubClient_UpdateDescription_TooLong(t *testing.T) {
	called := false
	client := newTestGitHubClient(t, func(_ http.ResponseWriter, _ *http.Request) {
		called = true
	})

	text := strings.Repeat("x", GitHubDescriptionLimit+1)
	err := client.UpdateDescription(context.Background(), Repository{Owner: "acme", Name: "app"}, text)
	require.Error(t, err)
	assert.False(t, called, "oversize description must not reach the API")

	var regErr *Error
	require.ErrorAs(t, err, &regErr)
	assert.Equal(t, ErrorTypeValidation, regErr.Type)
}

func TestGitHubClient_UpdateDescription_NotFound(t *testing.T) {
	client := newTestGitHubClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Not Found"}`))
	})

	err := client.UpdateDescription(context.Background(), Repository{Owner: "acme", Name: "missing"}, "text")
	require.Error(t, err)

	var regErr *Error
	require.ErrorAs(t, err, &regErr)
	assert.Equal(t, ErrorTypeNotFound, regErr.Type)
}
