package registry

import "context"

// Client defines the interface for registry description operations. The
// syncer depends only on this interface so a fake can stand in for the
// remote registry in tests.
type Client interface {
	// Authenticate verifies the configured credentials against the
	// registry. Rejected credentials surface as an authentication error.
	Authenticate(ctx context.Context) error

	// GetDescription returns the current description text for the
	// repository, used for change detection and dry-run planning.
	GetDescription(ctx context.Context, repository Repository) (string, error)

	// UpdateDescription overwrites the repository description wholesale.
	// The write is last-writer-wins; there is no conflict detection.
	UpdateDescription(ctx context.Context, repository Repository, text string) error
}

// Backend identifies a registry implementation
type Backend string

const (
	BackendDockerHub Backend = "dockerhub"
	BackendGitHub    Backend = "github"
	BackendECRPublic Backend = "ecr-public"
)

// ParseBackend validates a backend name from configuration
func ParseBackend(name string) (Backend, error) {
	switch Backend(name) {
	case BackendDockerHub, BackendGitHub, BackendECRPublic:
		return Backend(name), nil
	default:
		return "", NewError(ErrorTypeValidation,
			"unknown registry backend "+name+" (expected dockerhub, github, or ecr-public)", nil)
	}
}
