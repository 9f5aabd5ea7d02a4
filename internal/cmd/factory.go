package cmd

import (
	"context"
	"fmt"
	"os"

	"regsync/internal/cred"
	"regsync/pkg/config"
	"regsync/pkg/registry"
	"regsync/pkg/sync"
)

// newClientFactory binds resolved credentials to registry clients. Clients
// are cached so several targets on the same backend share one session.
func newClientFactory(resolver *cred.Resolver, cfg *config.Config) sync.ClientFactory {
	cache := make(map[registry.Backend]registry.Client)

	return func(backend registry.Backend) (registry.Client, error) {
		if client, ok := cache[backend]; ok {
			return client, nil
		}

		creds, err := resolver.Resolve(backend, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n\n", cred.Instructions(backend))
			return nil, err
		}

		var client registry.Client
		switch backend {
		case registry.BackendDockerHub:
			client = registry.NewDockerHubClient(creds)
		case registry.BackendGitHub:
			client = registry.NewGitHubClient(creds)
		case registry.BackendECRPublic:
			client, err = registry.NewECRPublicClient(context.Background(), cfg.Registry.AWS.Region)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s\n\n", cred.Instructions(backend))
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unknown registry backend %q", backend)
		}

		cache[backend] = client
		return client, nil
	}
}
