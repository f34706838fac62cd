package cli

import (
	"github.com/spf13/cobra"
)

var followsCmd = &cobra.Command{
	Use:   "follows [handle]",
	Short: "List accounts an account follows",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFollows,
}

var followersCmd = &cobra.Command{
	Use:   "followers [handle]",
	Short: "List accounts following an account",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFollowers,
}

var nonMutualCmd = &cobra.Command{
	Use:   "non-mutual",
	Short: "List follows that don't follow back",
	Long: `List accounts the authenticated account follows that do not
follow back. Each follow page is checked with one profile lookup per
account, so this command issues more requests than a plain listing.`,
	Args: cobra.NoArgs,
	RunE: runNonMutual,
}

func init() {
	rootCmd.AddCommand(followsCmd)
	rootCmd.AddCommand(followersCmd)
	rootCmd.AddCommand(nonMutualCmd)
}

func runFollows(cmd *cobra.Command, args []string) error {
	handle := ""
	if len(args) > 0 {
		handle = args[0]
	}
	client, err := graphClient(cmd.Context())
	if err != nil {
		return err
	}
	entries, err := client.GetFollows(cmd.Context(), handle, limitFlag)
	if err != nil {
		return err
	}
	return renderFollowEntries(entries)
}

func runFollowers(cmd *cobra.Command, args []string) error {
	handle := ""
	if len(args) > 0 {
		handle = args[0]
	}
	client, err := graphClient(cmd.Context())
	if err != nil {
		return err
	}
	entries, err := client.GetFollowers(cmd.Context(), handle, limitFlag)
	if err != nil {
		return err
	}
	return renderFollowEntries(entries)
}

func runNonMutual(cmd *cobra.Command, args []string) error {
	client, err := graphClient(cmd.Context())
	if err != nil {
		return err
	}
	entries, err := client.GetNonMutualFollows(cmd.Context(), limitFlag)
	if err != nil {
		return err
	}
	return renderFollowEntries(entries)
}
