package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated session",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, args []string) error {
	switch providerName {
	case providerBluesky:
		client, err := blueskyClient(cmd.Context())
		if err != nil {
			return err
		}
		info, err := client.SessionInfo()
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(info)
		}
		printer.Print("handle  %s", printer.Bold("@"+info.Handle))
		printer.Print("did     %s", info.DID)
		printer.Print("host    %s", info.Host)
		if !info.ExpiresAt.IsZero() {
			printer.Print("expires %s", formatTime(info.ExpiresAt))
		}
		return nil
	case providerReddit:
		client, err := redditClient(cmd.Context())
		if err != nil {
			return err
		}
		info, err := client.SessionInfo()
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(info)
		}
		printer.Print("user %s", printer.Bold("u/"+info.Username))
		printer.Print("id   %s", info.ID)
		return nil
	default:
		return fmt.Errorf("unknown provider %q (expected bluesky or reddit)", providerName)
	}
}
