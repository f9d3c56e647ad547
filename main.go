package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lexandro/resourcewatch/config"
)

// cliFlags holds the persistent flags. Only flags the user set override config values.
var cliFlags struct {
	configPath     string
	root           string
	metadataFolder string
	excludes       []string
	gitignore      bool
	debounce       time.Duration
	rescanInterval time.Duration
	maxFileSize    int64
	maxResults     int
	logLevel       string
	logFile        string
	metricsAddr    string
}

var (
	settings  *config.Config
	logger    *slog.Logger
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "resourcewatch",
	Short: "Watch a project folder and search its files",
	Long: `resourcewatch monitors a project folder for file changes and searches file contents.

Without a subcommand it serves MCP tools over stdio:
  find_in_files  literal text search with case and whole-word options
  resources      list file resources by glob
  changes        recent created/changed/deleted/renamed notifications
  status         project root, file count and watcher state
  rescan         force a full rescan

Configuration is read from --config (YAML), then RW_* environment variables,
then command line flags.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},
	RunE: runServe,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cliFlags.configPath, "config", "", "Path to a YAML config file")
	flags.StringVar(&cliFlags.root, "root", "", "Project root directory (default: current working directory)")
	flags.StringVar(&cliFlags.metadataFolder, "metadata-folder", "", "Project metadata folder excluded at the root (default: celbridge)")
	flags.StringArrayVar(&cliFlags.excludes, "exclude", nil, "Extra ignore pattern (repeatable)")
	flags.BoolVar(&cliFlags.gitignore, "gitignore", true, "Apply .gitignore rules")
	flags.DurationVar(&cliFlags.debounce, "debounce", 0, "Quiet period before change notifications are flushed (default: 500ms)")
	flags.DurationVar(&cliFlags.rescanInterval, "rescan-interval", 0, "Periodic full rescan interval, 0 to disable")
	flags.Int64Var(&cliFlags.maxFileSize, "max-file-size", 0, "Maximum file size in bytes for search (default: 1MB)")
	flags.IntVar(&cliFlags.maxResults, "max-results", 0, "Maximum matches per search (default: 1000)")
	flags.StringVar(&cliFlags.logLevel, "log-level", "", "Log level: debug|info|warn|error")
	flags.StringVar(&cliFlags.logFile, "log-file", "", "Log file path, rotated by size (default: stderr)")
	flags.StringVar(&cliFlags.metricsAddr, "metrics-addr", "", "Address for the Prometheus /metrics endpoint (default: disabled)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadSettings builds the effective configuration and logger for every command.
func loadSettings(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cliFlags.configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	settings = cfg
	logger, logCloser = setupLogger(cfg.Logging)
	return nil
}

// applyFlags copies explicitly set flags over the loaded configuration.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed

	if changed("root") {
		cfg.Root = cliFlags.root
	}
	if changed("metadata-folder") {
		cfg.MetadataFolder = cliFlags.metadataFolder
	}
	if changed("exclude") {
		cfg.Excludes = append(cfg.Excludes, cliFlags.excludes...)
	}
	if changed("gitignore") {
		cfg.Gitignore = cliFlags.gitignore
	}
	if changed("debounce") {
		cfg.Debounce = cliFlags.debounce
	}
	if changed("rescan-interval") {
		cfg.RescanInterval = cliFlags.rescanInterval
	}
	if changed("max-file-size") {
		cfg.Search.MaxFileSize = cliFlags.maxFileSize
	}
	if changed("max-results") {
		cfg.Search.MaxResults = cliFlags.maxResults
	}
	if changed("log-level") {
		cfg.Logging.Level = cliFlags.logLevel
	}
	if changed("log-file") {
		cfg.Logging.File = cliFlags.logFile
	}
	if changed("metrics-addr") {
		cfg.Metrics.Addr = cliFlags.metricsAddr
	}
}
