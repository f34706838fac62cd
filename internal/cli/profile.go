package cli

import (
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile [handle]",
	Short: "Show a profile",
	Long: `Show one account's profile. Without a handle the authenticated
account is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProfile,
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search for accounts",
	Long: `Search for accounts matching a free-text query.

Examples:
  driftwood search "go developers"
  driftwood search golang --limit 25 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(searchCmd)
}

func runProfile(cmd *cobra.Command, args []string) error {
	handle := ""
	if len(args) > 0 {
		handle = args[0]
	}
	client, err := providerClient(cmd.Context())
	if err != nil {
		return err
	}
	profile, err := client.GetProfile(cmd.Context(), handle)
	if err != nil {
		return err
	}
	return renderProfile(profile)
}

func runSearch(cmd *cobra.Command, args []string) error {
	client, err := providerClient(cmd.Context())
	if err != nil {
		return err
	}
	profiles, err := client.SearchUsers(cmd.Context(), args[0], limitFlag)
	if err != nil {
		return err
	}
	return renderProfiles(profiles)
}
