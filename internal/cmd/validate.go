package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"regsync/pkg/sync"
)

var validateCmd = &cobra.Command{
	Use:   "validate <manifest.yaml>",
	Short: "Validate a sync manifest",
	Long: `Validate checks a sync manifest for structural problems without
contacting any registry: unknown backends, malformed repository
identifiers, empty rewrite patterns, and duplicate targets.

Examples:
  regsync validate regsync.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(_ *cobra.Command, args []string) error {
	manifest, err := sync.LoadManifest(args[0])
	if err != nil {
		return err
	}

	if err := manifest.Validate(); err != nil {
		fmt.Printf("❌ Manifest is invalid:\n%v\n", err)
		return err
	}

	fmt.Printf("✅ Manifest is valid (%d targets)\n", len(manifest.Targets))
	for _, name := range manifest.TargetNames() {
		fmt.Printf("  ✓ %s\n", name)
	}

	return nil
}
