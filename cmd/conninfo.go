// Copyright (c) 2025 Chartviz
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"chartviz/cli/internal/config"
	"chartviz/cli/internal/dsn"
	"chartviz/cli/internal/keychain"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// conninfoCmd displays the connection the chart commands will use.
var conninfoCmd = &cobra.Command{
	Use:     "conninfo",
	Aliases: []string{"dbinfo"},
	Short:   "Show the backend and database connection in use",
	Long: `The conninfo command displays the chart backend URL, its endpoints and the database
connection sent with chart requests. The database password is masked and only its
source is shown.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		conn := app.cfg.Connection
		source := "not set"
		if _, ok := os.LookupEnv("CHARTVIZ_DB_PASSWORD"); ok {
			source = "CHARTVIZ_DB_PASSWORD environment variable"
		} else if km, err := keychain.GetManager(); err == nil {
			pw, err := km.LoadDBPassword()
			switch {
			case err == nil:
				conn.Password = pw
				source = "OS keychain"
			case !errors.Is(err, keychain.ErrNotFound):
				source = "keychain unavailable"
			}
		}

		cfgPath := app.cfgPath
		if cfgPath == "" {
			if p, err := config.DefaultPath(); err == nil {
				cfgPath = p
			}
		}

		e := app.manifest.HTTP
		backendInfo := strings.Join([]string{
			"URL:               " + app.manifest.BaseURL,
			"Login:             " + e.Login,
			"Objects:           " + e.Objects,
			"Object parameters: " + e.ObjectParameters,
			"Data:              " + e.Data,
		}, "\n")
		pterm.DefaultBox.
			WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint("Chart Backend")).
			WithPadding(1).
			Println(backendInfo)
		pterm.Println()

		dbInfo := strings.Join([]string{
			maskPassword(dsn.Build(conn.Chart(), conn.Port, nil)),
			"",
			"Password: " + source,
		}, "\n")
		pterm.DefaultBox.
			WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint("Database Connection")).
			WithPadding(1).
			Println(dbInfo)
		pterm.Println()
		pterm.Println(fmt.Sprintf("Config file: %s", cfgPath))
		pterm.Println("To update this connection, run: chartviz connect")
		pterm.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(conninfoCmd)
}

// maskPassword replaces the password in a PostgreSQL URL with asterisks.
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, hasPassword := u.User.Password(); !hasPassword {
		return raw
	}
	u.User = url.UserPassword(u.User.Username(), "***")
	return u.String()
}
