package registry

import (
	"fmt"
	"strings"
)

// Repository identifies a registry repository as "owner/name"
type Repository struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// ParseRepository splits an "owner/name" identifier
func ParseRepository(s string) (Repository, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Repository{}, NewError(ErrorTypeValidation,
			fmt.Sprintf("invalid repository %q: expected owner/name", s), nil)
	}
	return Repository{Owner: parts[0], Name: parts[1]}, nil
}

// String returns the "owner/name" form
func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}

// Credentials holds the secrets used to authenticate against a registry.
// Username and Password serve Docker Hub; Token serves GitHub; the AWS
// backend resolves credentials from the SDK default chain instead.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"-"`
	Token    string `json:"-"`
}

// Description length limits imposed by the registries
const (
	DockerHubDescriptionLimit = 25000
	GitHubDescriptionLimit    = 350
	ECRPublicAboutLimit       = 10240
)
