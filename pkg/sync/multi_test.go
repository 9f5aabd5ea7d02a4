package sync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regsync/pkg/registry"
)

func multiRequests(t *testing.T, readme string) []Request {
	t.Helper()

	app := testRequest(t, readme)

	worker := testRequest(t, readme)
	workerRepo, err := registry.ParseRepository("acme/worker")
	require.NoError(t, err)
	worker.Repository = workerRepo
	worker.Backend = registry.BackendGitHub

	return []Request{app, worker}
}

func TestMultiSyncer_SyncAll(t *testing.T) {
	readme := writeReadme(t, "See [doc](./docs/x.md)")
	clients := map[registry.Backend]*fakeClient{
		registry.BackendDockerHub: {current: "stale"},
		registry.BackendGitHub:    {current: "stale"},
	}

	factory := func(backend registry.Backend) (registry.Client, error) {
		return clients[backend], nil
	}

	result, err := NewMultiSyncer(factory, false).SyncAll(context.Background(), multiRequests(t, readme))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Succeeded)
	assert.Zero(t, result.Failed)
	assert.Len(t, clients[registry.BackendDockerHub].updates, 1)
	assert.Len(t, clients[registry.BackendGitHub].updates, 1)
}

func TestMultiSyncer_SyncAll_DryRun(t *testing.T) {
	readme := writeReadme(t, "See [doc](./docs/x.md)")
	client := &fakeClient{current: "stale"}

	factory := func(registry.Backend) (registry.Client, error) { return client, nil }

	result, err := NewMultiSyncer(factory, true).SyncAll(context.Background(), multiRequests(t, readme))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Succeeded)
	assert.Empty(t, client.updates, "dry run must not upload")
	for _, target := range result.Targets {
		assert.True(t, target.DryRun)
		assert.Equal(t, 1, target.Replacements)
	}
}

func TestMultiSyncer_SyncAll_IndependentFailures(t *testing.T) {
	readme := writeReadme(t, "content")
	clients := map[registry.Backend]*fakeClient{
		registry.BackendDockerHub: {
			authErr: registry.NewError(registry.ErrorTypeAuth, "bad credentials", nil),
		},
		registry.BackendGitHub: {current: "stale"},
	}

	factory := func(backend registry.Backend) (registry.Client, error) {
		return clients[backend], nil
	}

	result, err := NewMultiSyncer(factory, false).SyncAll(context.Background(), multiRequests(t, readme))
	require.Error(t, err)

	var partialErr *PartialFailureError
	require.ErrorAs(t, err, &partialErr)
	assert.Equal(t, []string{"acme/worker"}, partialErr.Succeeded)
	assert.Contains(t, partialErr.FailedTargets(), "acme/app")

	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.Len(t, clients[registry.BackendGitHub].updates, 1,
		"failure of one target must not stop the others")
}

func TestMultiSyncer_SyncAll_SingleFailureReturnsCause(t *testing.T) {
	readme := writeReadme(t, "content")
	client := &fakeClient{
		authErr: registry.NewError(registry.ErrorTypeAuth, "bad credentials", nil),
	}

	factory := func(registry.Backend) (registry.Client, error) { return client, nil }

	_, err := NewMultiSyncer(factory, false).SyncAll(context.Background(),
		[]Request{testRequest(t, readme)})
	require.Error(t, err)

	var regErr *registry.Error
	require.ErrorAs(t, err, &regErr)
	assert.Equal(t, registry.ErrorTypeAuth, regErr.Type)
}

func TestMultiSyncer_SyncAll_FactoryError(t *testing.T) {
	readme := writeReadme(t, "content")
	factory := func(registry.Backend) (registry.Client, error) {
		return nil, registry.NewError(registry.ErrorTypeValidation, "no credentials configured", nil)
	}

	result, err := NewMultiSyncer(factory, false).SyncAll(context.Background(),
		[]Request{testRequest(t, readme)})
	require.Error(t, err)
	assert.Equal(t, 1, result.Failed)
}

func TestMultiSyncer_SyncAll_NoTargets(t *testing.T) {
	factory := func(registry.Backend) (registry.Client, error) { return &fakeClient{}, nil }

	_, err := NewMultiSyncer(factory, false).SyncAll(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no sync targets")
}
