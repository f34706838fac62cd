package cli

import (
	"github.com/spf13/cobra"
)

var redditCmd = &cobra.Command{
	Use:   "reddit",
	Short: "Reddit-specific commands",
	Long: `Commands for Reddit's own listing surfaces. These always talk to
Reddit regardless of --provider.

Examples:
  driftwood reddit home --sort best
  driftwood reddit sub golang --sort top --limit 25
  driftwood reddit me`,
}

var redditHomeCmd = &cobra.Command{
	Use:   "home",
	Short: "Show the logged-in front page",
	Args:  cobra.NoArgs,
	RunE:  runRedditHome,
}

var redditSubCmd = &cobra.Command{
	Use:   "sub <subreddit>",
	Short: "Show one subreddit's listing",
	Args:  cobra.ExactArgs(1),
	RunE:  runRedditSub,
}

var redditMeCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the authenticated account's profile",
	Args:  cobra.NoArgs,
	RunE:  runRedditMe,
}

var redditPostCmd = &cobra.Command{
	Use:   "post <text>",
	Short: "Submit a post",
	Long: `Submit a post to the configured subreddit, or to the account's
profile when none is configured. The first line becomes the title.`,
	Args: cobra.ExactArgs(1),
	RunE: runRedditPost,
}

var redditReplyCmd = &cobra.Command{
	Use:   "reply <parent-ref> <text>",
	Short: "Comment on a post",
	Args:  cobra.ExactArgs(2),
	RunE:  runRedditReply,
}

var redditUpvoteCmd = &cobra.Command{
	Use:   "upvote <post-ref>",
	Short: "Upvote a post or comment",
	Args:  cobra.ExactArgs(1),
	RunE:  runRedditUpvote,
}

func init() {
	rootCmd.AddCommand(redditCmd)
	redditCmd.AddCommand(redditHomeCmd)
	redditCmd.AddCommand(redditSubCmd)
	redditCmd.AddCommand(redditMeCmd)
	redditCmd.AddCommand(redditPostCmd)
	redditCmd.AddCommand(redditReplyCmd)
	redditCmd.AddCommand(redditUpvoteCmd)

	redditHomeCmd.Flags().String("sort", "", "listing sort (best, hot, new, top, rising, controversial)")
	redditSubCmd.Flags().String("sort", "", "listing sort (hot, new, top, rising, controversial)")
}

func runRedditHome(cmd *cobra.Command, args []string) error {
	sort, _ := cmd.Flags().GetString("sort")

	client, err := redditClient(cmd.Context())
	if err != nil {
		return err
	}
	posts, err := client.GetHomeFeed(cmd.Context(), limitFlag, sort)
	if err != nil {
		return err
	}
	return renderPosts(posts)
}

func runRedditSub(cmd *cobra.Command, args []string) error {
	sort, _ := cmd.Flags().GetString("sort")

	client, err := redditClient(cmd.Context())
	if err != nil {
		return err
	}
	posts, err := client.GetSubredditFeed(cmd.Context(), args[0], limitFlag, sort)
	if err != nil {
		return err
	}
	return renderPosts(posts)
}

func runRedditMe(cmd *cobra.Command, args []string) error {
	client, err := redditClient(cmd.Context())
	if err != nil {
		return err
	}
	profile, err := client.GetUserProfile(cmd.Context())
	if err != nil {
		return err
	}
	return renderProfile(profile)
}

func runRedditPost(cmd *cobra.Command, args []string) error {
	client, err := redditClient(cmd.Context())
	if err != nil {
		return err
	}
	receipt, err := client.NewPost(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return renderReceipt("posted", receipt)
}

func runRedditReply(cmd *cobra.Command, args []string) error {
	client, err := redditClient(cmd.Context())
	if err != nil {
		return err
	}
	receipt, err := client.ReplyToPost(cmd.Context(), args[1], args[0])
	if err != nil {
		return err
	}
	return renderReceipt("replied", receipt)
}

func runRedditUpvote(cmd *cobra.Command, args []string) error {
	client, err := redditClient(cmd.Context())
	if err != nil {
		return err
	}
	receipt, err := client.LikePost(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return renderReceipt("upvoted", receipt)
}
