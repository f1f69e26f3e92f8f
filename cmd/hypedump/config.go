package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"hypedump/pkg/config"
	"hypedump/pkg/ui"
)

const defaultConfigPath = ".hypedump.yaml"

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage hypedump configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (HYPEDUMP_*)
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file holding the defaults",
	Long: `Create a configuration file holding every option at its default value.

The file is created as '.hypedump.yaml' in the current directory unless a
different path is given with the --config flag.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long: `Load the configuration from every source and check it.

This command checks:
  - YAML syntax
  - Required fields
  - Value ranges`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists: %s", configPath)
	}

	if err := config.DefaultConfig().Save(configPath); err != nil {
		return err
	}

	term := ui.NewTerminal(cmd.OutOrStdout(), noColor)
	term.PrintSuccess("Configuration file created: " + configPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nRun 'hypedump config validate' to check it after editing.")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	out := cmd.OutOrStdout()
	term := ui.NewTerminal(out, cfg.Logging.NoColor)
	term.PrintHighlight("Current Configuration")
	fmt.Fprintln(out)
	fmt.Fprint(out, string(data))

	fmt.Fprintln(out, "\nConfiguration sources (in order of priority):")
	fmt.Fprintln(out, "1. Command line flags")
	fmt.Fprintln(out, "2. Environment variables (HYPEDUMP_*)")
	if configFile != "" {
		fmt.Fprintf(out, "3. Configuration file: %s\n", configFile)
	} else {
		fmt.Fprintln(out, "3. Configuration file: (searched in default locations)")
	}
	fmt.Fprintln(out, "4. Default values")
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	term := ui.NewTerminal(out, cfg.Logging.NoColor)
	term.PrintSuccess("Configuration is valid")

	pages := fmt.Sprintf("%d", cfg.Scrape.MaxPages)
	if cfg.Scrape.MaxPages == 0 {
		pages = "all"
	}
	fmt.Fprintln(out, "\nConfiguration summary:")
	fmt.Fprintf(out, "  Base URL: %s\n", cfg.Site.BaseURL)
	fmt.Fprintf(out, "  Username: %s\n", cfg.Scrape.Username)
	fmt.Fprintf(out, "  Pages: %s\n", pages)
	fmt.Fprintf(out, "  Output directory: %s\n", cfg.Output.Directory)
	fmt.Fprintf(out, "  Log level: %s\n", cfg.Logging.Level)
	return nil
}
