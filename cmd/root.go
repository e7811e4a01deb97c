// Copyright (c) 2025 Chartviz
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the Chartviz CLI application.
// It implements subcommands for authentication, database connection setup,
// object discovery and chart rendering using the Cobra CLI framework.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"chartviz/cli/internal/auth"
	"chartviz/cli/internal/backend"
	"chartviz/cli/internal/config"
	"chartviz/cli/internal/keychain"
	"chartviz/cli/internal/logging"
	"chartviz/cli/internal/manifest"
	"chartviz/cli/internal/xdg"

	"github.com/99designs/keyring"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	apiURLFlag  string
	configFlag  string
	envFileFlag string
	verbose     bool
)

// appContext is the wiring shared by every subcommand. It is built once per
// invocation in the root command's PersistentPreRunE.
type appContext struct {
	cfg      *config.Config
	cfgPath  string
	log      *zap.Logger
	manifest *manifest.Manifest
	api      *backend.HTTP
}

var app *appContext

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "chartviz",
	Short: "Chart database views and functions through the chart backend",
	Long: `Chartviz connects to a chart backend, lists the views and functions of a
PostgreSQL database, runs one of them with your parameters and draws the result
as a bar, line or radar chart in the terminal or as a PNG/SVG image.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupApp()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app != nil {
			_ = app.log.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the CLI application.
// It executes the root command and handles any errors that occur during execution.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var reported reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintln(os.Stderr, logging.PresentError("chartviz", err))
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "Chart backend base URL (overrides config and CHARTVIZ_API_URL)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config.yaml (default: XDG config dir)")
	rootCmd.PersistentFlags().StringVar(&envFileFlag, "env-file", ".env", "Dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
}

func setupApp() error {
	if err := config.LoadDotEnv(envFileFlag); err != nil {
		return err
	}
	cfg, err := config.Load(configFlag)
	if err != nil {
		return err
	}
	if apiURLFlag != "" {
		cfg.APIURL = apiURLFlag
	}

	log, err := logging.New(cfg.LogLevel, verbose)
	if err != nil {
		return err
	}

	keychain.Configure(keychainOptions(cfg.KeyringBackend))

	m, err := manifest.Resolve(cfg.APIURL, cfg.Endpoints)
	if err != nil {
		return err
	}
	api := backend.New(m,
		backend.WithLogger(log.Named("backend")),
		backend.WithUserAgent("chartviz-cli/"+Version),
	)

	app = &appContext{
		cfg:      cfg,
		cfgPath:  configFlag,
		log:      log,
		manifest: m,
		api:      api,
	}
	log.Debug("configuration loaded",
		zap.String("api_url", m.BaseURL),
		zap.String("log_level", cfg.LogLevel),
		zap.String("keyring_backend", cfg.KeyringBackend))
	return nil
}

// keychainOptions places the file backend under the XDG state dir and unlocks it
// with CHARTVIZ_KEYRING_PASSWORD.
func keychainOptions(backendName string) keychain.Options {
	opts := keychain.Options{Backend: backendName}
	if backendName != "file" {
		return opts
	}
	if dir, err := xdg.StateDir(); err == nil {
		opts.FileDir = filepath.Join(dir, "keyring")
	}
	if pw, ok := os.LookupEnv("CHARTVIZ_KEYRING_PASSWORD"); ok {
		opts.FilePassword = keyring.FixedStringPrompt(pw)
	}
	return opts
}

// authService opens the keychain and returns the auth service bound to it.
func (a *appContext) authService() (*auth.Service, *keychain.Manager, error) {
	km, err := keychain.GetManager()
	if err != nil {
		return nil, nil, err
	}
	return auth.NewService(a.api, km, a.log.Named("auth")), km, nil
}
