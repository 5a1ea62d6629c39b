// ABOUTME: Entry point for the picbot command
// ABOUTME: Cobra root command with serve, init, chat, token, health and version subcommands

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/2389/picbot/internal/config"
)

// version is set with -ldflags at build time.
var version = "dev"

const banner = `
       _      _           _
 _ __ (_) ___| |__   ___ | |_
| '_ \| |/ __| '_ \ / _ \| __|
| |_) | | (__| |_) | (_) | |_
| .__/|_|\___|_.__/ \___/ \__|
|_|
`

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "picbot",
		Short: "PictureBot conversational bot",
		Long: `picbot routes chat messages through a resumable dialog stack, an intent
rule engine and an optional intent classifier.

Configuration is read from --config, then $PICBOT_CONFIG, then
$XDG_CONFIG_HOME/picbot/picbot.yaml.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file (.yaml or .toml)")

	root.AddCommand(
		newServeCmd(opts),
		newInitCmd(opts),
		newChatCmd(opts),
		newTokenCmd(opts),
		newHealthCmd(opts),
		newVersionCmd(),
	)
	return root
}

// resolveConfigPath applies the flag over the environment and XDG defaults.
func (o *rootOptions) resolveConfigPath() string {
	if o.configPath != "" {
		return o.configPath
	}
	return config.DefaultPath()
}

// getDataPath returns the picbot data directory.
// Priority: XDG_DATA_HOME/picbot > ~/.local/share/picbot
func getDataPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "data"
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataDir, "picbot")
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the picbot version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "picbot %s\n", version)
		},
	}
}
