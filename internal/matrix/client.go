// ABOUTME: Matrix channel connector that turns room messages into bot turns
// ABOUTME: Replies are sent as HTML with a markdown plain-text fallback

package matrix

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"maunium.net/go/mautrix"
	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"

	"github.com/2389/picbot/internal/activity"
	"github.com/2389/picbot/internal/config"
	"github.com/2389/picbot/internal/store"
)

// ChannelID identifies Matrix activities to the bot and the dedupe cache.
const ChannelID = "matrix"

const (
	backoffMin    = 2 * time.Second
	backoffMax    = 5 * time.Minute
	typingTimeout = 30 * time.Second

	// networkTimeout bounds homeserver calls so shutdown does not hang on them
	networkTimeout = 30 * time.Second
)

// TurnHandler runs one turn. *gateway.Gateway satisfies it.
type TurnHandler interface {
	HandleActivity(ctx context.Context, msg activity.Message) ([]activity.Activity, error)
}

// Client connects one Matrix account to the bot.
type Client struct {
	client *mautrix.Client
	cfg    config.MatrixConfig
	userID id.UserID
	turns  TurnHandler
	logger *slog.Logger

	// send and typing wrap the homeserver API so handlers can be tested offline
	send   func(ctx context.Context, roomID id.RoomID, content *event.MessageEventContent) error
	typing func(ctx context.Context, roomID id.RoomID, typing bool)
}

// New creates a Matrix client. When state is non-nil the sync position is
// persisted there so a restart does not replay room history.
func New(cfg config.MatrixConfig, turns TurnHandler, state store.StateStore, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	userID := id.UserID(cfg.UserID)

	client, err := mautrix.NewClient(cfg.Homeserver, userID, cfg.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("creating Matrix client: %w", err)
	}
	if state != nil {
		client.Store = newSyncStore(state)
	}

	c := &Client{
		client: client,
		cfg:    cfg,
		userID: userID,
		turns:  turns,
		logger: logger.With("component", "matrix"),
	}
	c.send = func(ctx context.Context, roomID id.RoomID, content *event.MessageEventContent) error {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), networkTimeout)
		defer cancel()
		_, err := client.SendMessageEvent(ctx, roomID, event.EventMessage, content)
		return err
	}
	c.typing = func(ctx context.Context, roomID id.RoomID, typing bool) {
		var timeout time.Duration
		if typing {
			timeout = typingTimeout
		}
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), networkTimeout)
		defer cancel()
		if _, err := client.UserTyping(ctx, roomID, typing, timeout); err != nil {
			c.logger.Debug("failed to set typing", "room", roomID, "error", err)
		}
	}
	return c, nil
}

// Run joins the allowed rooms and syncs until ctx is canceled, reconnecting
// with exponential backoff on sync errors.
func (c *Client) Run(ctx context.Context) error {
	syncer, ok := c.client.Syncer.(*mautrix.DefaultSyncer)
	if !ok {
		return errors.New("unexpected Matrix syncer type")
	}
	syncer.OnSync(c.client.DontProcessOldEvents)
	syncer.OnEventType(event.EventMessage, c.handleMessage)
	syncer.OnEventType(event.StateMember, c.handleMember)

	for _, roomID := range c.cfg.AllowedRooms {
		if err := c.joinRoom(ctx, id.RoomID(roomID)); err != nil {
			return fmt.Errorf("joining room %s: %w", roomID, err)
		}
	}

	c.logger.Info("matrix sync starting", "user_id", c.userID, "homeserver", c.cfg.Homeserver)
	backoff := backoffMin
	for {
		err := c.client.SyncWithContext(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err == nil {
			return nil
		}

		c.logger.Error("matrix sync stopped, reconnecting", "error", err, "backoff", backoff)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, backoffMax)
	}
}

func (c *Client) joinRoom(ctx context.Context, roomID id.RoomID) error {
	_, err := c.client.JoinRoomByID(ctx, roomID)
	if errors.Is(err, mautrix.MForbidden) {
		c.logger.Warn("join refused, continuing", "room", roomID)
		return nil
	}
	return err
}

// roomAllowed reports whether the bot serves roomID. An empty list allows all rooms.
func (c *Client) roomAllowed(roomID id.RoomID) bool {
	return len(c.cfg.AllowedRooms) == 0 || slices.Contains(c.cfg.AllowedRooms, roomID.String())
}

// userAllowed reports whether the bot answers userID. An empty list allows everyone.
func (c *Client) userAllowed(userID id.UserID) bool {
	return len(c.cfg.AllowedUsers) == 0 || slices.Contains(c.cfg.AllowedUsers, userID.String())
}

func (c *Client) handleMessage(ctx context.Context, evt *event.Event) {
	if evt.Sender == c.userID || !c.roomAllowed(evt.RoomID) || !c.userAllowed(evt.Sender) {
		return
	}
	content := evt.Content.AsMessage()
	if content == nil || content.MsgType != event.MsgText {
		return
	}

	c.logger.Info("received message",
		"room", evt.RoomID,
		"sender", evt.Sender,
		"content", truncate(content.Body, 50))
	c.dispatch(ctx, evt.RoomID, toMessage(evt, c.userID, content.Body))
}

// handleMember auto-joins invites to allowed rooms and welcomes users who join.
func (c *Client) handleMember(ctx context.Context, evt *event.Event) {
	if evt.StateKey == nil || !c.roomAllowed(evt.RoomID) {
		return
	}
	member := evt.Content.AsMember()
	target := id.UserID(*evt.StateKey)

	switch {
	case member.Membership == event.MembershipInvite && target == c.userID:
		if !c.userAllowed(evt.Sender) {
			return
		}
		if err := c.joinRoom(ctx, evt.RoomID); err != nil {
			c.logger.Error("failed to accept invite", "room", evt.RoomID, "error", err)
		}
	case member.Membership == event.MembershipJoin && target != c.userID:
		if evt.Unsigned.PrevContent != nil && evt.Unsigned.PrevContent.AsMember().Membership == event.MembershipJoin {
			return // profile change, not a new member
		}
		c.dispatch(ctx, evt.RoomID, toMemberUpdate(evt, c.userID, target))
	}
}

// dispatch runs the turn and sends each reply to the room.
func (c *Client) dispatch(ctx context.Context, roomID id.RoomID, msg activity.Message) {
	logger := c.logger.With("room", roomID, "event_id", msg.ID)

	c.typing(ctx, roomID, true)
	replies, err := c.turns.HandleActivity(ctx, msg)
	c.typing(ctx, roomID, false)
	if err != nil {
		logger.Error("turn failed", "error", err)
	}

	for _, reply := range replies {
		content, err := toContent(reply)
		if err != nil {
			logger.Error("failed to render reply", "error", err)
			continue
		}
		if err := c.send(ctx, roomID, content); err != nil {
			logger.Error("failed to send reply", "error", err)
			return
		}
	}
}

// toMessage maps a room message to an inbound activity. The room is the conversation.
func toMessage(evt *event.Event, botID id.UserID, text string) activity.Message {
	return activity.Message{
		ID:             evt.ID.String(),
		Type:           activity.TypeMessage,
		ConversationID: evt.RoomID.String(),
		UserID:         evt.Sender.String(),
		RecipientID:    botID.String(),
		ChannelID:      ChannelID,
		Timestamp:      time.UnixMilli(evt.Timestamp).UTC(),
		Text:           text,
	}
}

func toMemberUpdate(evt *event.Event, botID, joined id.UserID) activity.Message {
	return activity.Message{
		ID:             evt.ID.String(),
		Type:           activity.TypeConversationUpdate,
		ConversationID: evt.RoomID.String(),
		RecipientID:    botID.String(),
		ChannelID:      ChannelID,
		Timestamp:      time.UnixMilli(evt.Timestamp).UTC(),
		MembersAdded:   []string{joined.String()},
	}
}

// toContent renders a reply as an HTML message with a markdown body.
func toContent(a activity.Activity) (*event.MessageEventContent, error) {
	html, err := activity.RenderHTML(a)
	if err != nil {
		return nil, err
	}
	content := &event.MessageEventContent{
		MsgType:       event.MsgText,
		Body:          activity.RenderMarkdown(a),
		Format:        event.FormatHTML,
		FormattedBody: html,
	}
	if a.ReplyToID != "" {
		content.RelatesTo = &event.RelatesTo{
			InReplyTo: &event.InReplyTo{EventID: id.EventID(a.ReplyToID)},
		}
	}
	return content, nil
}

// truncate shortens s to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
