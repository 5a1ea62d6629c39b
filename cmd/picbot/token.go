// ABOUTME: token command: issues a channel bearer token for the messages endpoint
// ABOUTME: Signs with auth.jwt_secret from the config

package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/2389/picbot/internal/auth"
	"github.com/2389/picbot/internal/config"
)

func newTokenCmd(root *rootOptions) *cobra.Command {
	var expires time.Duration

	cmd := &cobra.Command{
		Use:   "token <channel-id>",
		Short: "Issue a bearer token for a channel connector",
		Long: `Issue a bearer token for a channel connector.

Examples:
  picbot token webchat
  picbot token emulator --expires 720h`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.resolveConfigPath())
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if cfg.Auth.JWTSecret == "" {
				return errors.New("auth.jwt_secret is not set")
			}

			token, err := auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret)).Generate(args[0], expires)
			if err != nil {
				return fmt.Errorf("generating token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().DurationVar(&expires, "expires", 0, "token lifetime (0 means no expiry)")
	return cmd
}
