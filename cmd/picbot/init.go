// ABOUTME: init command: interactively writes a starter config file
// ABOUTME: Generates a random auth.jwt_secret and prints a token for the first channel

package main

import (
	"bufio"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/2389/picbot/internal/auth"
	"github.com/2389/picbot/internal/config"
)

// initFile is the subset of config.Config that init asks about.
type initFile struct {
	Server struct {
		HTTPAddr string `yaml:"http_addr"`
	} `yaml:"server"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"auth"`
	Bot struct {
		ShowIntentScores bool `yaml:"show_intent_scores"`
	} `yaml:"bot"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
}

func newInitCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a new config file interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(bufio.NewReader(cmd.InOrStdin()), cmd.OutOrStdout(), root.resolveConfigPath())
		},
	}
}

func runInit(reader *bufio.Reader, out io.Writer, defaultConfigPath string) error {
	fmt.Fprintln(out, "picbot configuration setup")
	fmt.Fprintln(out, "==========================")
	fmt.Fprintln(out)

	outputFile := prompt(reader, out, "Config file path", defaultConfigPath)
	if _, err := os.Stat(outputFile); err == nil {
		if !yes(prompt(reader, out, "File exists. Overwrite?", "no")) {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	var f initFile

	fmt.Fprintln(out, "\n--- Server Configuration ---")
	f.Server.HTTPAddr = prompt(reader, out, "HTTP address", config.DefaultHTTPAddr)

	fmt.Fprintln(out, "\n--- Database Configuration ---")
	f.Database.Path = prompt(reader, out, "SQLite database path", filepath.Join(getDataPath(), "picbot.db"))

	fmt.Fprintln(out, "\n--- Channel Authentication ---")
	var channel string
	if yes(prompt(reader, out, "Require bearer tokens on /api/messages?", "yes")) {
		secret, err := generateSecret()
		if err != nil {
			return err
		}
		f.Auth.JWTSecret = secret
		channel = prompt(reader, out, "First channel ID", "webchat")
	}

	fmt.Fprintln(out, "\n--- Bot ---")
	f.Bot.ShowIntentScores = yes(prompt(reader, out, "Show classifier intent scores in replies?", "no"))

	fmt.Fprintln(out, "\n--- Logging Configuration ---")
	f.Logging.Level = prompt(reader, out, "Log level (debug/info/warn/error)", "info")
	f.Logging.Format = prompt(reader, out, "Log format (text/json)", "text")

	body, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	header := "# picbot configuration\n# Generated by picbot init\n" +
		"# Cognitive services and Matrix are off until configured; see `cognitive:` and `matrix:`.\n\n"

	if err := os.MkdirAll(filepath.Dir(outputFile), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(outputFile, append([]byte(header), body...), 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.Database.Path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	fmt.Fprintf(out, "\nConfig written to %s\n", outputFile)
	if channel != "" {
		token, err := auth.NewJWTVerifier([]byte(f.Auth.JWTSecret)).Generate(channel, 0)
		if err != nil {
			return fmt.Errorf("generating token: %w", err)
		}
		fmt.Fprintf(out, "Token for channel %q:\n  %s\n", channel, token)
	}
	fmt.Fprintln(out, "\nTo start the server:")
	fmt.Fprintln(out, "  picbot serve")
	return nil
}

func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func prompt(reader *bufio.Reader, out io.Writer, question, defaultVal string) string {
	if defaultVal != "" {
		fmt.Fprintf(out, "%s [%s]: ", question, defaultVal)
	} else {
		fmt.Fprintf(out, "%s: ", question)
	}

	input, err := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if err != nil && input == "" {
		// On EOF or error, return default
		fmt.Fprintln(out)
		return defaultVal
	}
	if input == "" {
		return defaultVal
	}
	return input
}

func yes(answer string) bool {
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}
