package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"twsearch/pkg/logger"
	"twsearch/pkg/ui"
)

var (
	// Version information, set at build time
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	logFile    string
)

// rootCmd searches the archive, or counts it when a granularity flag is set
var rootCmd = &cobra.Command{
	Use:   "twsearch [flags] <query>",
	Short: "Full-archive search and counts client for the Twitter v2 API",
	Long: `twsearch retrieves posts from the full-archive search endpoint,
following the pagination cursor until it runs out or --limit is reached.

With --output-file the records are written as newline-delimited JSON,
one file per section: <stem>.json for posts and <stem>_<category>.json
for each includes category (users, media, places, ...). Without it the
merged result is printed to stdout.

With --days, --hours or --minutes a single counts request is made instead
and the response is printed to stdout.

The bearer token is read from BEARER_TOKEN or TWSEARCH_BEARER_TOKEN, the
configuration file, or the system keyring (see 'twsearch auth login').`,
	Example: `  # Search and print the merged result
  twsearch "from:golang -is:retweet"

  # Write posts and expansions to disk, stopping after about 1000 posts
  twsearch "#gopher" -o out/gopher.json --expansions author_id --limit 1000

  # Daily counts for a time range
  twsearch "golang" --days --start-time 2024-01-01T00:00:00Z

  # Keep a checkpoint and pick up an interrupted run
  twsearch "golang" -o golang.json --checkpoint
  twsearch "golang" -o golang.json --resume`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearch(cmd, args[0], rootFlags)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.PrintError("twsearch failed", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default: .twsearch.yaml or ~/.config/twsearch/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write JSON logs to this file, rotated by size")

	bindSearchFlags(rootCmd, rootFlags)

	logger.Version = version
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate)
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
Go version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
