// Package cli contains all CLI commands for driftwood.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"Driftwood/internal/cli/output"
	"Driftwood/internal/config"
)

var (
	providerName string
	limitFlag    int
	kindFlag     string
	jsonOut      bool
	debugFlag    bool

	cfg     *config.Config
	logger  *slog.Logger
	printer *output.Printer
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "driftwood",
	Short: "Bluesky and Reddit client CLI",
	Long: `driftwood is a command-line client for Bluesky and Reddit.

It logs in with the credentials from the environment (or a .env file),
reads timelines, profiles and the follow graph, and publishes posts,
replies and likes.

Example usage:
  driftwood timeline --limit 20            # Home timeline
  driftwood posts some.handle --type post  # One account's posts
  driftwood non-mutual                     # Follows that don't follow back
  driftwood post "hello" --image URL       # New post with an image
  driftwood reddit sub golang --sort top   # Subreddit listing`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&providerName, "provider", "bluesky", "provider to talk to (bluesky or reddit)")
	rootCmd.PersistentFlags().IntVar(&limitFlag, "limit", 0, "maximum number of items to return")
	rootCmd.PersistentFlags().StringVar(&kindFlag, "type", "", "post type filter (post, reply, repost, quote)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "per-page progress traces")
}

// initConfig loads the environment configuration and sets up logging.
func initConfig() error {
	cfg = config.Load()

	logLevel := slog.LevelInfo
	if debugEnabled() {
		logLevel = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	printer = output.NewPrinter(output.ResolveColors())
	return nil
}

func debugEnabled() bool {
	return debugFlag || (cfg != nil && cfg.Debug)
}
