package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"hypedump/pkg/config"
	"hypedump/pkg/hypem"
	"hypedump/pkg/logger"
	"hypedump/pkg/scraper"
	"hypedump/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	noColor    bool
	verbose    bool

	// Download flags
	username  string
	outputDir string
	maxPages  int
	allPages  bool
	userAgent string
	baseURL   string
)

// rootCmd downloads a user's listing when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "hypedump",
	Short: "Download the tracks of a Hype Machine listing",
	Long: `hypedump walks the pages of a Hype Machine user's listing and saves every
track it finds as "<artist> - <title>.mp3" in the output directory.

Tracks whose file is already present are skipped, so running it again only
fetches what is new.`,
	Example: `  # Download the first page of the popular listing into ./mp3s
  hypedump

  # Download three pages of a user's favourites
  hypedump -u hyperdump -m 3 -o ./hyperdump

  # Download everything, printing progress
  hypedump -u hyperdump --all -v`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDownload,
}

// versionCmd prints build information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "hypedump %s\n", rootCmd.Version)
		fmt.Fprintf(cmd.OutOrStdout(), "Go Version: %s\nOS/Arch: %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.NewTerminal(os.Stderr, noColor).PrintError("Error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .hypedump.yaml or $HOME/.config/hypedump/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "error", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.Flags().StringVarP(&username, "username", "u", config.DefaultUsername, "username of the user to download songs from")
	rootCmd.Flags().StringVarP(&outputDir, "output-directory", "o", config.DefaultOutputDirectory, "directory to save songs to, created if missing")
	rootCmd.Flags().IntVarP(&maxPages, "max-pages", "m", config.DefaultMaxPages, "number of pages of songs to download (0 for all)")
	rootCmd.Flags().BoolVar(&allPages, "all", false, "download every page")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose mode")
	rootCmd.Flags().StringVar(&userAgent, "user-agent", "", "User-Agent header sent with every request")
	rootCmd.Flags().StringVar(&baseURL, "base-url", "", "site serving the listings, and the audio unless site.serve_base_url is set")

	rootCmd.SetVersionTemplate(`hypedump {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

// flagOverrides collects the flags the user set explicitly, keyed the way
// config.MergeCommandLineFlags expects.
func flagOverrides(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if changed("username") {
		flags["username"] = username
	}
	if changed("output-directory") {
		flags["output-directory"] = outputDir
	}
	if changed("max-pages") {
		flags["max-pages"] = maxPages
	}
	if allPages {
		flags["max-pages"] = scraper.Unbounded
	}
	if changed("user-agent") {
		flags["user-agent"] = userAgent
	}
	if changed("base-url") {
		flags["base-url"] = baseURL
	}
	if changed("log-level") {
		flags["log-level"] = logLevel
	}
	if changed("no-color") {
		flags["no-color"] = noColor
	}

	return flags
}

// logLevelRank orders log levels from most to least verbose
var logLevelRank = map[string]int{
	"debug":    0,
	"info":     1,
	"warn":     2,
	"error":    3,
	"disabled": 4,
}

// verboseLevel returns the level used with --verbose: info, unless level
// already logs more than that.
func verboseLevel(level string) string {
	if rank, ok := logLevelRank[strings.ToLower(level)]; ok && rank <= logLevelRank["info"] {
		return level
	}
	return "info"
}

func runDownload(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, flagOverrides(cmd))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if verbose && !cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = verboseLevel(cfg.Logging.Level)
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	log.WithField("version", version).Info("Starting hypedump")

	term := ui.NewTerminal(cmd.OutOrStdout(), cfg.Logging.NoColor)
	if verbose {
		term.PrintBanner()
	}

	// "@someone" and "someone/" name the same listing
	target := hypem.SanitizeUsername(cfg.Scrape.Username)
	pages := "all"
	if cfg.Scrape.MaxPages != scraper.Unbounded {
		pages = fmt.Sprintf("%d", cfg.Scrape.MaxPages)
	}
	term.PrintInfo("Username", target)
	term.PrintInfo("Output directory", cfg.Output.Directory)
	term.PrintInfo("Pages", pages)

	if err := os.MkdirAll(cfg.Output.Directory, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	s, err := scraper.New(cfg, log)
	if err != nil {
		return err
	}

	summary, err := s.DownloadFromUser(cmd.Context(), target, cfg.Scrape.MaxPages)
	if err != nil {
		log.WithError(err).WithField("username", target).Error("Download failed")
		return err
	}

	term.PrintSuccess(fmt.Sprintf("Done: %d pages, %d downloaded, %d already present",
		summary.Pages, summary.Downloaded, summary.Skipped))
	return nil
}
