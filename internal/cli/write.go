package cli

import (
	"github.com/spf13/cobra"
)

var postCmd = &cobra.Command{
	Use:   "post <text>",
	Short: "Publish a new post",
	Long: `Publish a new post, optionally attaching images fetched from URLs.

Examples:
  driftwood post "hello world"
  driftwood post "look at this" --image https://example.com/cat.jpg
  driftwood post "title\nbody text" --provider reddit`,
	Args: cobra.ExactArgs(1),
	RunE: runPost,
}

var replyCmd = &cobra.Command{
	Use:   "reply <parent-ref> <text>",
	Short: "Reply to a post",
	Long: `Reply to a post. The parent reference is a post URL or the
provider's native identifier (an at:// URI, or a t1/t3 fullname on
Reddit).`,
	Args: cobra.ExactArgs(2),
	RunE: runReply,
}

var likeCmd = &cobra.Command{
	Use:   "like <post-ref>",
	Short: "Like (upvote) a post",
	Args:  cobra.ExactArgs(1),
	RunE:  runLike,
}

func init() {
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(replyCmd)
	rootCmd.AddCommand(likeCmd)

	postCmd.Flags().StringArray("image", nil, "image URL to attach (repeatable)")
}

func runPost(cmd *cobra.Command, args []string) error {
	images, _ := cmd.Flags().GetStringArray("image")

	client, err := providerClient(cmd.Context())
	if err != nil {
		return err
	}
	receipt, err := client.NewPost(cmd.Context(), args[0], images...)
	if err != nil {
		return err
	}
	return renderReceipt("posted", receipt)
}

func runReply(cmd *cobra.Command, args []string) error {
	client, err := providerClient(cmd.Context())
	if err != nil {
		return err
	}
	receipt, err := client.ReplyToPost(cmd.Context(), args[1], args[0])
	if err != nil {
		return err
	}
	return renderReceipt("replied", receipt)
}

func runLike(cmd *cobra.Command, args []string) error {
	client, err := providerClient(cmd.Context())
	if err != nil {
		return err
	}
	receipt, err := client.LikePost(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return renderReceipt("liked", receipt)
}
