package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"regsync/internal/cred"
	"regsync/pkg/config"
	"regsync/pkg/fuzzy"
	"regsync/pkg/registry"
	"regsync/pkg/sync"
)

var (
	syncDryRun bool
	syncRepos  []string
	syncRef    string
	syncChoose bool
	syncConfig string
)

var syncCmd = &cobra.Command{
	Use:   "sync <manifest.yaml>",
	Short: "Sync readme files to registry repository descriptions",
	Long: `Sync reads a manifest of target repositories, rewrites each readme's
relative links into absolute raw-content URLs, and uploads the result as
the repository description on the configured registry.

Targets are processed independently: a failure in one repository does not
stop the others, and the run exits non-zero if any target failed.

Examples:
  # Sync every target in the manifest
  regsync sync regsync.yaml

  # Preview changes without uploading
  regsync sync regsync.yaml --dry-run

  # Sync selected repositories only
  regsync sync regsync.yaml --repos acme/app,acme/worker

  # Pick a target interactively
  regsync sync regsync.yaml --choose

  # Pin the ref interpolated into link templates
  regsync sync regsync.yaml --ref release-1.2`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Preview changes without uploading them")
	syncCmd.Flags().StringSliceVar(&syncRepos, "repos", nil, "Comma-separated list of repositories to sync from the manifest (e.g. --repos acme/app,acme/worker)")
	syncCmd.Flags().StringVar(&syncRef, "ref", "", "Ref name interpolated into the replacement template (overrides the manifest)")
	syncCmd.Flags().BoolVar(&syncChoose, "choose", false, "Pick a single target interactively")
	syncCmd.Flags().StringVar(&syncConfig, "config", "", "Path to the regsync config file (default ~/.regsync/config.yaml)")
}

func runSync(_ *cobra.Command, args []string) error {
	manifestFile := args[0]

	manifest, err := sync.LoadManifest(manifestFile)
	if err != nil {
		return fmt.Errorf("failed to load sync manifest: %w", err)
	}

	cfg, err := loadSyncConfig()
	if err != nil {
		return fmt.Errorf("failed to load regsync config: %w", err)
	}

	// The config's default registry backs any target that names none
	if manifest.Defaults.Registry == "" {
		manifest.Defaults.Registry = cfg.Registry.Default
	}

	filter := syncRepos
	if syncChoose && len(filter) == 0 {
		selected, err := chooseTarget(manifest)
		if err != nil {
			return err
		}
		filter = []string{selected}
	}

	requests, err := manifest.ResolveTargets(filter)
	if err != nil {
		return fmt.Errorf("invalid sync manifest: %w", err)
	}

	if syncRef != "" {
		for i := range requests {
			requests[i].RefName = syncRef
		}
	}

	resolver, err := cred.NewResolver()
	if err != nil {
		return err
	}

	multiSyncer := sync.NewMultiSyncer(newClientFactory(resolver, cfg), syncDryRun)
	result, err := multiSyncer.SyncAll(context.Background(), requests)
	if result != nil {
		printResult(result)
	}
	if err != nil {
		printFailureGuidance(err)
		return err
	}

	return nil
}

func loadSyncConfig() (*config.Config, error) {
	if syncConfig != "" {
		return config.LoadConfigFromPath(syncConfig)
	}
	return config.LoadConfig()
}

func chooseTarget(manifest *sync.Manifest) (string, error) {
	options := make([]fuzzy.Option, 0, len(manifest.Targets))
	for _, target := range manifest.Targets {
		registryName := target.Registry
		if registryName == "" {
			registryName = manifest.Defaults.Registry
		}
		options = append(options, fuzzy.Option{
			Value:       target.Repository,
			Description: registryName,
		})
	}

	picker := fuzzy.NewPicker("Select repository:")
	return picker.Pick(options)
}

func printResult(result *sync.Result) {
	for _, target := range result.Targets {
		switch {
		case target.Err != nil:
			fmt.Printf("❌ %s (%s): %v\n", target.Repository, target.Backend, target.Err)
		case target.DryRun && target.Unchanged:
			fmt.Printf("✓ %s (%s): already up to date\n", target.Repository, target.Backend)
		case target.DryRun:
			fmt.Printf("✓ %s (%s): would update description (%d links rewritten)\n",
				target.Repository, target.Backend, target.Replacements)
		case target.Unchanged:
			fmt.Printf("✓ %s (%s): already up to date\n", target.Repository, target.Backend)
		default:
			fmt.Printf("✅ %s (%s): description updated (%d links rewritten)\n",
				target.Repository, target.Backend, target.Replacements)
		}
	}

	if result.Failed > 0 {
		fmt.Printf("\n%d succeeded, %d failed\n", result.Succeeded, result.Failed)
	}
}

// printFailureGuidance prints credential setup instructions when the run
// failed on authentication
func printFailureGuidance(err error) {
	var regErr *registry.Error
	if errors.As(err, &regErr) && regErr.Type == registry.ErrorTypeAuth {
		fmt.Fprintf(os.Stderr, "\nAuthentication failed: %v\n", err)
	}
}
