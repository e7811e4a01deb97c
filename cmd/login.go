// Copyright (c) 2025 Chartviz
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"chartviz/cli/internal/httperrors"
	"chartviz/cli/internal/logging"
	"chartviz/cli/internal/terminal"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	loginUsername string
	loginForce    bool
)

// loginCmd exchanges a username and password for a session token.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Sign in to the chart backend",
	Long: `The login command asks for your username and password and exchanges them for a
session token. The token is kept in the OS keychain and sent with every chart request
until you run 'chartviz logout'.

The password can also be piped on stdin or set in CHARTVIZ_PASSWORD.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, _, err := app.authService()
		if err != nil {
			pterm.Error.Println("Secure storage is not available on this system.")
			return err
		}

		if !loginForce {
			if id, ok, _ := svc.WhoAmI(); ok && !id.Expired {
				fmt.Printf("Already logged in as %s\n", id.Account)
				fmt.Println("   Use --force to sign in again.")
				return nil
			}
		}

		username, password, err := readCredentials()
		if err != nil {
			return err
		}

		var account string
		err = withSpinner("Signing in", func() error {
			sess, err := svc.Login(ctx, username, password)
			if err != nil {
				return err
			}
			account = username
			if claims, err := sess.Claims(); err == nil && claims.Subject != "" {
				account = claims.Subject
			}
			return nil
		})
		if err != nil {
			return loginFailure(err)
		}

		fmt.Println(getRandomLoginGreeting(account))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username (prompted when omitted)")
	loginCmd.Flags().BoolVar(&loginForce, "force", false, "Sign in even if a valid session exists")
}

func readCredentials() (string, string, error) {
	username := strings.TrimSpace(loginUsername)
	if username == "" {
		username = strings.TrimSpace(os.Getenv("CHARTVIZ_USERNAME"))
	}
	if username == "" {
		if terminal.IsInteractive(os.Stdin) {
			v, err := pterm.DefaultInteractiveTextInput.Show("Username")
			if err != nil {
				return "", "", err
			}
			username = strings.TrimSpace(v)
		} else {
			line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			username = strings.TrimSpace(line)
		}
	}
	if username == "" {
		return "", "", errors.New("username is required")
	}

	password, ok := os.LookupEnv("CHARTVIZ_PASSWORD")
	if !ok {
		var err error
		const prompt = "Password: "
		password, err = terminal.ReadSecret(os.Stdin, os.Stdout, prompt)
		if err != nil {
			return "", "", fmt.Errorf("failed to read password: %w", err)
		}
		if terminal.IsInteractive(os.Stdout) {
			terminal.ClearPreviousLines(os.Stdout, len(prompt), terminal.Width(os.Stdout))
		}
	}
	return username, password, nil
}

func loginFailure(err error) error {
	if httperrors.IsNetwork(err) && httperrors.Classify(err) != httperrors.Server {
		return reportedError{httperrors.FormatNetworkError(err, "signing in", app.manifest.BaseURL)}
	}
	pterm.Error.Println(logging.Mask(err.Error()))
	return reportedError{err}
}

// getRandomLoginGreeting returns a random greeting phrase with the user's identifier
func getRandomLoginGreeting(identifier string) string {
	greetings := []string{
		"🎉 Welcome back, %s!",
		"✨ Great to see you, %s!",
		"🚀 You're all set, %s!",
		"👋 Hello %s! Ready to chart?",
		"💫 Successfully authenticated as %s",
		"⚡ Logged in as %s - let's go!",
		"🔓 Access granted! Welcome %s!",
	}
	return fmt.Sprintf(greetings[rand.IntN(len(greetings))], identifier)
}
