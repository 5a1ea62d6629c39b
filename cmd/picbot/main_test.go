// ABOUTME: Tests for the picbot CLI commands and log handler
// ABOUTME: Drives the chat REPL offline with an in-memory store

package main

import (
	"bufio"
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/picbot/internal/auth"
	"github.com/2389/picbot/internal/config"
	"github.com/2389/picbot/internal/responses"
)

func init() {
	color.NoColor = true
}

func TestVersionCmd(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "picbot dev\n", out.String())
}

func TestChat_OfflineConversation(t *testing.T) {
	cfg := config.Default(filepath.Join(t.TempDir(), "picbot.db"))
	opts := &chatOptions{memory: true, conversationID: "c1", userID: "u1"}

	in := strings.NewReader("hello\nhelp\n/quit\n")
	var out, errOut bytes.Buffer
	require.NoError(t, runChat(t.Context(), cfg, opts, in, &out, &errOut))

	text := out.String()
	assert.Contains(t, text, "bot: "+responses.Welcome)
	assert.Contains(t, text, "bot: Hi, I'm PictureBot!")
	assert.Equal(t, 1, strings.Count(text, "Hi, I'm PictureBot!"))
}

func TestChat_PersistsAcrossSessions(t *testing.T) {
	cfg := config.Default(filepath.Join(t.TempDir(), "picbot.db"))
	cfg.Logging.Level = "error"
	opts := &chatOptions{conversationID: "c1", userID: "u1"}

	var first bytes.Buffer
	require.NoError(t, runChat(t.Context(), cfg, opts, strings.NewReader("hi\n"), &first, &bytes.Buffer{}))
	require.Contains(t, first.String(), "Hi, I'm PictureBot!")

	var second bytes.Buffer
	require.NoError(t, runChat(t.Context(), cfg, opts, strings.NewReader("hi\n"), &second, &bytes.Buffer{}))
	assert.NotContains(t, second.String(), "Hi, I'm PictureBot!")
}

func TestLoadChatConfig_MissingFileIsOffline(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	cfg, err := loadChatConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.True(t, strings.HasSuffix(cfg.Database.Path, filepath.Join("picbot", "picbot.db")))
}

func TestTokenCmd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "picbot.yaml")
	body := "database:\n  path: " + filepath.Join(dir, "db") + "\nauth:\n  jwt_secret: cli-secret\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--config", path, "token", "webchat", "--expires", "1h"})
	require.NoError(t, root.Execute())

	channel, err := auth.NewJWTVerifier([]byte("cli-secret")).Verify(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "webchat", channel)
}

func TestColorHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := setupLogger(config.LoggingConfig{Level: "debug"}, &buf)

	logger.With("component", "bot").WithGroup("turn").Info("turn complete", "replies", 2, slog.Group("stack", "depth", 1))
	line := buf.String()
	assert.Contains(t, line, "INF turn complete")
	assert.Contains(t, line, "component=bot")
	assert.Contains(t, line, "turn.replies=2")
	assert.Contains(t, line, "turn.stack.depth=1")

	buf.Reset()
	setupLogger(config.LoggingConfig{Level: "warn"}, &buf).Info("hidden")
	assert.Empty(t, buf.String())
}

func TestSetupLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	setupLogger(config.LoggingConfig{Level: "info", Format: "json"}, &buf).Info("hello", "at", time.Unix(0, 0).UTC())
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}

func TestInit_WritesLoadableConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "picbot.yaml")
	answers := strings.Join([]string{
		path,
		"127.0.0.1:4000",
		filepath.Join(dir, "data", "picbot.db"),
		"yes",
		"emulator",
		"",
		"debug",
		"",
	}, "\n") + "\n"

	var out bytes.Buffer
	require.NoError(t, runInit(bufio.NewReader(strings.NewReader(answers)), &out, "unused.yaml"))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:4000", cfg.Server.HTTPAddr)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.NotEmpty(t, cfg.Auth.JWTSecret)
	assert.DirExists(t, filepath.Join(dir, "data"))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	var token string
	for i, line := range lines {
		if strings.HasPrefix(line, `Token for channel "emulator"`) {
			token = strings.TrimSpace(lines[i+1])
		}
	}
	channel, err := auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret)).Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "emulator", channel)
}

func TestInit_KeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "picbot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0o600))

	var out bytes.Buffer
	require.NoError(t, runInit(bufio.NewReader(strings.NewReader(path+"\nno\n")), &out, ""))
	assert.Contains(t, out.String(), "Aborted.")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
}
