// ABOUTME: chat command: a local REPL that talks to the bot without a server
// ABOUTME: Uses the configured database, or an in-memory store with --memory

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/2389/picbot/internal/activity"
	"github.com/2389/picbot/internal/bot"
	"github.com/2389/picbot/internal/config"
	"github.com/2389/picbot/internal/store"
)

const chatChannelID = "cli"

type chatOptions struct {
	memory         bool
	conversationID string
	userID         string
}

func newChatCmd(root *rootOptions) *cobra.Command {
	opts := &chatOptions{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the bot in the terminal",
		Long: `Chat with the bot in the terminal. Dialog state is kept in the configured
database, so a conversation resumes where it left off. Type /quit to exit.

Without a config file the bot runs offline with its database under
$XDG_DATA_HOME/picbot.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadChatConfig(root.resolveConfigPath())
			if err != nil {
				return err
			}
			return runChat(cmd.Context(), cfg, opts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().BoolVar(&opts.memory, "memory", false, "keep state in memory only")
	cmd.Flags().StringVar(&opts.conversationID, "conversation", "local-chat", "conversation ID to resume")
	cmd.Flags().StringVar(&opts.userID, "user", "local-user", "user ID to chat as")
	return cmd
}

// loadChatConfig falls back to an offline default config when no file exists.
func loadChatConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = config.Default(filepath.Join(getDataPath(), "picbot.db"))
		cfg.Logging.Level = "warn"
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func runChat(ctx context.Context, cfg *config.Config, opts *chatOptions, in io.Reader, out, errOut io.Writer) error {
	logger := setupLogger(cfg.Logging, errOut)

	var st store.StateStore
	if opts.memory {
		st = store.NewMemoryStore()
	} else {
		sqlStore, err := store.NewSQLiteStore(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		st = sqlStore
	}
	defer st.Close()

	b, err := buildBot(cfg, st, logger)
	if err != nil {
		return err
	}

	session := &chatSession{bot: b, opts: opts, out: out}
	session.send(ctx, activity.Message{
		Type:         activity.TypeConversationUpdate,
		RecipientID:  "picbot",
		MembersAdded: []string{opts.userID},
	})

	prompt := color.New(color.FgGreen)
	scanner := bufio.NewScanner(in)
	for {
		prompt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		}

		session.send(ctx, activity.Message{Type: activity.TypeMessage, UserID: opts.userID, Text: line})
		if ctx.Err() != nil {
			return nil
		}
	}
}

type chatSession struct {
	bot  *bot.Bot
	opts *chatOptions
	out  io.Writer
}

// send fills in the session fields, runs a turn and prints the replies.
func (s *chatSession) send(ctx context.Context, msg activity.Message) {
	msg.ID = uuid.New().String()
	msg.ConversationID = s.opts.conversationID
	msg.ChannelID = chatChannelID
	msg.Timestamp = time.Now().UTC()

	replies, err := s.bot.OnTurn(ctx, msg)
	for _, reply := range replies {
		printReply(s.out, reply)
	}
	if err != nil {
		color.New(color.FgHiBlack).Fprintf(s.out, "  (turn error: %v)\n", err)
	}
}

func printReply(out io.Writer, a activity.Activity) {
	bullet := color.New(color.FgCyan)
	for i, line := range strings.Split(activity.RenderMarkdown(a), "\n") {
		if i == 0 {
			bullet.Fprint(out, "bot: ")
		} else {
			fmt.Fprint(out, "     ")
		}
		fmt.Fprintln(out, line)
	}
}
