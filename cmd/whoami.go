package cmd

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// whoamiCmd represents the whoami command for displaying current authentication state.
// It reads the stored session token and shows the account it was issued for.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show current authenticated account",
	Long: `The whoami command displays the account of the stored session and when its
token expires. The token is read locally; no request is sent to the backend.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := app.authService()
		if err != nil {
			notLoggedIn()
			return nil
		}

		id, ok, err := svc.WhoAmI()
		if err != nil {
			return err
		}
		if !ok {
			notLoggedIn()
			return nil
		}

		fmt.Printf("👤 Current user: %s\n", id.Account)
		if !id.LoggedInAt.IsZero() {
			fmt.Printf("   Signed in:  %s\n", id.LoggedInAt.Local().Format(time.RFC1123))
		}
		if !id.ExpiresAt.IsZero() {
			fmt.Printf("   Expires:    %s\n", id.ExpiresAt.Local().Format(time.RFC1123))
		}
		if id.Expired {
			pterm.Warning.Println("This session has expired. Run 'chartviz login' to sign in again.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
