// Copyright (c) 2025 Chartviz
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// logoutCmd represents the logout command for clearing authentication state.
// The backend keeps no server-side session, so logout is purely local.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove all saved credentials and tokens",
	Long: `The logout command clears all authentication state from the local system.

This command removes:
- The session token from the OS keychain
- Local authentication state
- The saved database password`,

	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := app.authService()
		if err != nil {
			pterm.Error.Println("Secure storage is not available on this system.")
			return err
		}
		if err := svc.Logout(); err != nil {
			return err
		}
		fmt.Println("✅ All credentials and tokens have been removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
