package cred

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"
	"gopkg.in/ini.v1"

	"regsync/pkg/config"
	"regsync/pkg/registry"
)

// Environment variables checked before the credentials file
const (
	EnvDockerHubUsername = "REGSYNC_DOCKERHUB_USERNAME"
	EnvDockerHubPassword = "REGSYNC_DOCKERHUB_PASSWORD"
	EnvGitHubToken       = "GITHUB_TOKEN"
)

// PasswordPrompter reads a secret interactively. Implemented by the
// terminal prompter; tests substitute a fake.
type PasswordPrompter interface {
	ReadPassword(prompt string) (string, error)
}

// TerminalPrompter reads a password from the controlling terminal without
// echoing it
type TerminalPrompter struct{}

// ReadPassword prompts on stderr and reads the secret from stdin
func (TerminalPrompter) ReadPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("stdin is not a terminal")
	}

	fmt.Fprint(os.Stderr, prompt)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	return strings.TrimSpace(string(secret)), nil
}

// Resolver resolves registry credentials from the environment, the
// credentials file, and finally an interactive prompt, in that order.
type Resolver struct {
	credentialsPath string
	prompter        PasswordPrompter
}

// NewResolver creates a resolver against the default credentials file
func NewResolver() (*Resolver, error) {
	path, err := GetCredentialsPath()
	if err != nil {
		return nil, err
	}
	return &Resolver{credentialsPath: path, prompter: TerminalPrompter{}}, nil
}

// NewResolverWithOptions creates a resolver with a specific credentials
// file and prompter (for testing)
func NewResolverWithOptions(credentialsPath string, prompter PasswordPrompter) *Resolver {
	return &Resolver{credentialsPath: credentialsPath, prompter: prompter}
}

// GetCredentialsPath returns the default credentials file path
func GetCredentialsPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".regsync", "credentials"), nil
}

// Resolve returns the credentials for a backend. The ECR Public backend
// resolves credentials through the AWS SDK default chain, so nothing is
// returned for it here.
func (r *Resolver) Resolve(backend registry.Backend, cfg *config.Config) (registry.Credentials, error) {
	switch backend {
	case registry.BackendDockerHub:
		return r.dockerHub(cfg)
	case registry.BackendGitHub:
		return r.gitHub(cfg)
	case registry.BackendECRPublic:
		return registry.Credentials{}, nil
	default:
		return registry.Credentials{}, fmt.Errorf("unknown registry backend %q", backend)
	}
}

func (r *Resolver) dockerHub(cfg *config.Config) (registry.Credentials, error) {
	section := r.fileSection("dockerhub")

	username := os.Getenv(EnvDockerHubUsername)
	if username == "" && section != nil {
		username = section.Key("username").String()
	}
	if username == "" && cfg != nil {
		username = cfg.Registry.DockerHub.Username
	}
	if username == "" {
		return registry.Credentials{}, missingCredentials(registry.BackendDockerHub)
	}

	password := os.Getenv(EnvDockerHubPassword)
	if password == "" && section != nil {
		password = section.Key("password").String()
	}
	if password == "" {
		var err error
		password, err = r.prompter.ReadPassword(fmt.Sprintf("Docker Hub password for %s: ", username))
		if err != nil || password == "" {
			return registry.Credentials{}, missingCredentials(registry.BackendDockerHub)
		}
	}

	return registry.Credentials{
		Username: strings.TrimSpace(username),
		Password: password,
	}, nil
}

func (r *Resolver) gitHub(cfg *config.Config) (registry.Credentials, error) {
	token := os.Getenv(EnvGitHubToken)
	if token == "" {
		if section := r.fileSection("github"); section != nil {
			token = section.Key("token").String()
		}
	}
	if token == "" && cfg != nil {
		token = cfg.Registry.GitHub.Token
	}
	if token == "" {
		return registry.Credentials{}, missingCredentials(registry.BackendGitHub)
	}

	return registry.Credentials{Token: strings.TrimSpace(token)}, nil
}

// fileSection loads a section from the ini credentials file, returning nil
// when the file or section is absent
func (r *Resolver) fileSection(name string) *ini.Section {
	if r.credentialsPath == "" {
		return nil
	}
	if _, err := os.Stat(r.credentialsPath); err != nil {
		return nil
	}

	file, err := ini.Load(r.credentialsPath)
	if err != nil {
		return nil
	}

	section, err := file.GetSection(name)
	if err != nil {
		return nil
	}
	return section
}

func missingCredentials(backend registry.Backend) error {
	return registry.NewError(registry.ErrorTypeAuth,
		fmt.Sprintf("no credentials found for %s", backend), nil)
}

// Instructions returns setup guidance for a backend, printed when
// credential resolution fails
func Instructions(backend registry.Backend) string {
	switch backend {
	case registry.BackendDockerHub:
		return `Docker Hub credentials are required. Set them up using one of:

1. Environment variables (recommended for CI):
   export REGSYNC_DOCKERHUB_USERNAME="your_username"
   export REGSYNC_DOCKERHUB_PASSWORD="your_password_or_access_token"

2. Credentials file (~/.regsync/credentials):
   [dockerhub]
   username = your_username
   password = your_password_or_access_token

An access token created under Docker Hub Account Settings > Security is
preferred over your account password.`

	case registry.BackendGitHub:
		return `GitHub authentication is required. Set it up using one of:

1. Environment variable (recommended for CI):
   export GITHUB_TOKEN="your_personal_access_token"

2. Credentials file (~/.regsync/credentials):
   [github]
   token = your_personal_access_token

The token needs the repo scope to update repository metadata.`

	case registry.BackendECRPublic:
		return `AWS credentials are required. The ECR Public backend uses the AWS SDK
default credential chain: environment variables, ~/.aws/credentials, or an
attached instance role. The credentials need the
ecr-public:PutRepositoryCatalogData permission.`

	default:
		return ""
	}
}
