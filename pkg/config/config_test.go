package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
registry:
  default: dockerhub
  dockerhub:
    username: acmebot
  github:
    token: ghp_test
  aws:
    region: us-east-1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadConfigFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "dockerhub", cfg.Registry.Default)
	assert.Equal(t, "acmebot", cfg.Registry.DockerHub.Username)
	assert.Equal(t, "ghp_test", cfg.Registry.GitHub.Token)
	assert.Equal(t, "us-east-1", cfg.Registry.AWS.Region)
}

func TestLoadConfigFromPath_MissingFileReturnsEmptyConfig(t *testing.T) {
	cfg, err := LoadConfigFromPath(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Registry.Default)
}

func TestLoadConfigFromPath_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("registry: [broken"), 0600))

	_, err := LoadConfigFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestSaveConfigToPath_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	original := &Config{
		Registry: RegistryConfig{
			Default:   "github",
			DockerHub: DockerHubConfig{Username: "acmebot"},
		},
	}
	require.NoError(t, original.SaveConfigToPath(path))

	loaded, err := LoadConfigFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "config may hold a token")
}

func TestConfig_Validate(t *testing.T) {
	valid := &Config{Registry: RegistryConfig{Default: "ecr-public"}}
	assert.NoError(t, valid.Validate())

	empty := &Config{}
	assert.NoError(t, empty.Validate())

	invalid := &Config{Registry: RegistryConfig{Default: "quay"}}
	err := invalid.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default registry")
}
