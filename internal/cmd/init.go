package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"regsync/pkg/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize regsync configuration",
	Long:  "Create a default configuration file for regsync",
	RunE:  runInit,
}

func runInit(_ *cobra.Command, _ []string) error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("⚠️  Configuration file already exists at: %s\n", configPath)
		fmt.Print("Do you want to overwrite it? (y/N): ")
		var response string
		_, _ = fmt.Scanln(&response) // Ignore error for user input
		if response != "y" && response != "Y" {
			fmt.Println("Configuration initialization cancelled.")
			return nil
		}
	}

	// Create default configuration
	defaultConfig := &config.Config{
		Registry: config.RegistryConfig{
			Default: "dockerhub",
			DockerHub: config.DockerHubConfig{
				Username: "your-username",
			},
			AWS: config.AWSConfig{
				Region: "us-east-1",
			},
		},
	}

	// Save configuration
	if err := defaultConfig.SaveConfig(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Printf("✅ Configuration file created at: %s\n", configPath)
	fmt.Println("📝 Please edit the file to customize your registry settings.")

	return nil
}
