package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"twsearch/pkg/auth"
	"twsearch/pkg/config"
	"twsearch/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage twsearch configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (TWSEARCH_*, BEARER_TOKEN)
  - .env files (./.env, ~/.twsearch.env)
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the default values",
	Long: `Write a configuration file holding every option at its default value.

The file is created as '.twsearch.yaml' in the current directory unless a
different path is given with --config.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the configuration after merging all sources.

The bearer token is masked.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		path = ".twsearch.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("configuration file already exists: %s", path)
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}

	ui.PrintSuccess("Configuration file created: " + path)
	fmt.Fprintln(cmd.OutOrStdout(), "\nNext steps:")
	fmt.Fprintln(cmd.OutOrStdout(), "1. Set your bearer token with 'twsearch auth login' or BEARER_TOKEN")
	fmt.Fprintln(cmd.OutOrStdout(), "2. Run 'twsearch config validate' to check the configuration")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, globalOverrides())
	if err != nil {
		return err
	}

	display := *cfg
	display.API.BearerToken = auth.MaskToken(display.API.BearerToken)

	data, err := yaml.Marshal(&display)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, globalOverrides())
	if err != nil {
		return err
	}

	if cfg.API.BearerToken == "" {
		ui.PrintWarning("No bearer token in the configuration; the environment or keyring must provide one")
	}

	ui.PrintSuccess("Configuration is valid")
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  Endpoint: %s\n", cfg.API.EndpointTemplate)
	fmt.Fprintf(out, "  Interval: %gs\n", cfg.Search.Interval)
	fmt.Fprintf(out, "  Max results: %d\n", cfg.Search.MaxResults)
	if cfg.Output.File != "" {
		fmt.Fprintf(out, "  Output file: %s\n", cfg.Output.File)
	}
	fmt.Fprintf(out, "  Log level: %s\n", cfg.Logging.Level)
	return nil
}
