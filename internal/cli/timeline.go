package cli

import (
	"github.com/spf13/cobra"

	"Driftwood/internal/core/feed"
)

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Show the home timeline",
	Long: `Show the authenticated account's home timeline, newest first.

Examples:
  driftwood timeline                      # Latest 10 items
  driftwood timeline --limit 25           # More of them
  driftwood timeline --type post          # Plain posts only
  driftwood timeline --exclude-self       # Hide your own posts`,
	Args: cobra.NoArgs,
	RunE: runTimeline,
}

func init() {
	rootCmd.AddCommand(timelineCmd)

	timelineCmd.Flags().Bool("exclude-self", false, "hide the authenticated account's own posts")
}

func runTimeline(cmd *cobra.Command, args []string) error {
	kind, err := postKind()
	if err != nil {
		return err
	}
	excludeSelf, _ := cmd.Flags().GetBool("exclude-self")

	client, err := providerClient(cmd.Context())
	if err != nil {
		return err
	}
	posts, err := client.GetTimeline(cmd.Context(), feed.TimelineOptions{
		Kind:        kind,
		Limit:       limitFlag,
		ExcludeSelf: excludeSelf,
	})
	if err != nil {
		return err
	}
	return renderPosts(posts)
}
