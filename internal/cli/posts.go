package cli

import (
	"github.com/spf13/cobra"

	"Driftwood/internal/core/feed"
)

var postsCmd = &cobra.Command{
	Use:   "posts [handle]",
	Short: "Show one account's posts",
	Long: `Show posts authored by an account. Without a handle the
authenticated account is used. Replies and reposts stay out unless
--type asks for them.

Examples:
  driftwood posts                          # Your own posts
  driftwood posts some.handle --limit 5    # Someone else's
  driftwood posts some.handle --type reply # Their replies`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPosts,
}

func init() {
	rootCmd.AddCommand(postsCmd)
}

func runPosts(cmd *cobra.Command, args []string) error {
	kind, err := postKind()
	if err != nil {
		return err
	}
	handle := ""
	if len(args) > 0 {
		handle = args[0]
	}

	client, err := providerClient(cmd.Context())
	if err != nil {
		return err
	}
	posts, err := client.GetProfilePosts(cmd.Context(), feed.ProfilePostsOptions{
		Handle: handle,
		Kind:   kind,
		Limit:  limitFlag,
	})
	if err != nil {
		return err
	}
	return renderPosts(posts)
}
