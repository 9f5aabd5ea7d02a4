package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "regsync",
	Short: "A CLI tool to sync readme files to container registry descriptions",
	Long: `Regsync pushes a local readme file to the description field of a remote
registry repository. Before upload it can rewrite relative links into
absolute raw-content URLs so that links keep working on the registry page.

Supported registries: Docker Hub, GitHub, and AWS ECR Public.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(initCmd)
}
