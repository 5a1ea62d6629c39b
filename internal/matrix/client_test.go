// ABOUTME: Tests for the Matrix connector's event handling and rendering
// ABOUTME: Uses stubbed send hooks and an httptest homeserver for joins

package matrix

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"maunium.net/go/mautrix"
	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"

	"github.com/2389/picbot/internal/activity"
	"github.com/2389/picbot/internal/config"
	"github.com/2389/picbot/internal/store"
)

const (
	botID  = id.UserID("@picbot:example.org")
	alice  = id.UserID("@alice:example.org")
	roomID = id.RoomID("!room:example.org")
)

type fakeTurns struct {
	mu      sync.Mutex
	got     []activity.Message
	replies []activity.Activity
}

func (f *fakeTurns) HandleActivity(ctx context.Context, msg activity.Message) ([]activity.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, msg)
	return f.replies, nil
}

type sent struct {
	room    id.RoomID
	content *event.MessageEventContent
}

func newTestClient(cfg config.MatrixConfig, turns TurnHandler) (*Client, *[]sent, *[]bool) {
	var out []sent
	var typing []bool
	c := &Client{
		cfg:    cfg,
		userID: botID,
		turns:  turns,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		send: func(ctx context.Context, room id.RoomID, content *event.MessageEventContent) error {
			out = append(out, sent{room, content})
			return nil
		},
		typing: func(ctx context.Context, room id.RoomID, on bool) {
			typing = append(typing, on)
		},
	}
	return c, &out, &typing
}

func textEvent(sender id.UserID, body string) *event.Event {
	return &event.Event{
		ID:        "$evt1",
		Type:      event.EventMessage,
		Sender:    sender,
		RoomID:    roomID,
		Timestamp: 1700000000000,
		Content:   event.Content{Parsed: &event.MessageEventContent{MsgType: event.MsgText, Body: body}},
	}
}

func memberEvent(sender, target id.UserID, membership event.Membership) *event.Event {
	key := target.String()
	return &event.Event{
		ID:        "$member1",
		Type:      event.StateMember,
		Sender:    sender,
		RoomID:    roomID,
		StateKey:  &key,
		Timestamp: 1700000000000,
		Content:   event.Content{Parsed: &event.MemberEventContent{Membership: membership}},
	}
}

func TestHandleMessage_RunsTurnAndSendsReplies(t *testing.T) {
	turns := &fakeTurns{replies: []activity.Activity{
		{Text: "Hi, I'm **not** markdown", ReplyToID: "$evt1"},
		activity.WithAttachments("", "", activity.HeroAttachment(activity.HeroCard{Title: "Card"})),
	}}
	c, out, typing := newTestClient(config.MatrixConfig{}, turns)

	c.handleMessage(t.Context(), textEvent(alice, "hello"))

	require.Len(t, turns.got, 1)
	msg := turns.got[0]
	assert.Equal(t, "$evt1", msg.ID)
	assert.Equal(t, roomID.String(), msg.ConversationID)
	assert.Equal(t, alice.String(), msg.UserID)
	assert.Equal(t, botID.String(), msg.RecipientID)
	assert.Equal(t, ChannelID, msg.ChannelID)
	assert.Equal(t, "hello", msg.Text)
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), msg.Timestamp)

	require.Len(t, *out, 2)
	first := (*out)[0].content
	assert.Equal(t, event.FormatHTML, first.Format)
	assert.NotContains(t, first.FormattedBody, "<strong>")
	require.NotNil(t, first.RelatesTo)
	assert.Equal(t, id.EventID("$evt1"), first.RelatesTo.InReplyTo.EventID)
	assert.Equal(t, "<p><strong>Card</strong></p>", (*out)[1].content.FormattedBody)
	assert.Nil(t, (*out)[1].content.RelatesTo)

	assert.Equal(t, []bool{true, false}, *typing)
}

func TestHandleMessage_Filters(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.MatrixConfig
		evt  *event.Event
	}{
		{"own message", config.MatrixConfig{}, textEvent(botID, "echo")},
		{"room not allowed", config.MatrixConfig{AllowedRooms: []string{"!other:example.org"}}, textEvent(alice, "hi")},
		{"user not allowed", config.MatrixConfig{AllowedUsers: []string{"@bob:example.org"}}, textEvent(alice, "hi")},
		{"notice", config.MatrixConfig{}, &event.Event{
			Sender:  alice,
			RoomID:  roomID,
			Content: event.Content{Parsed: &event.MessageEventContent{MsgType: event.MsgNotice, Body: "bot"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			turns := &fakeTurns{}
			c, _, _ := newTestClient(tt.cfg, turns)
			c.handleMessage(t.Context(), tt.evt)
			assert.Empty(t, turns.got)
		})
	}
}

func TestHandleMessage_AllowedLists(t *testing.T) {
	turns := &fakeTurns{}
	c, _, _ := newTestClient(config.MatrixConfig{
		AllowedRooms: []string{roomID.String()},
		AllowedUsers: []string{alice.String()},
	}, turns)

	c.handleMessage(t.Context(), textEvent(alice, "hi"))
	assert.Len(t, turns.got, 1)
}

func TestHandleMember_JoinIsConversationUpdate(t *testing.T) {
	turns := &fakeTurns{replies: []activity.Activity{activity.Text("Hello and welcome!")}}
	c, out, _ := newTestClient(config.MatrixConfig{}, turns)

	c.handleMember(t.Context(), memberEvent(alice, alice, event.MembershipJoin))

	require.Len(t, turns.got, 1)
	msg := turns.got[0]
	assert.Equal(t, activity.TypeConversationUpdate, msg.Type)
	assert.Equal(t, []string{alice.String()}, msg.MembersAdded)
	assert.Equal(t, botID.String(), msg.RecipientID)
	assert.Len(t, *out, 1)
}

func TestHandleMember_IgnoresBotJoinAndProfileChanges(t *testing.T) {
	turns := &fakeTurns{}
	c, _, _ := newTestClient(config.MatrixConfig{}, turns)

	c.handleMember(t.Context(), memberEvent(botID, botID, event.MembershipJoin))

	evt := memberEvent(alice, alice, event.MembershipJoin)
	evt.Unsigned.PrevContent = &event.Content{Parsed: &event.MemberEventContent{Membership: event.MembershipJoin}}
	c.handleMember(t.Context(), evt)

	c.handleMember(t.Context(), memberEvent(alice, alice, event.MembershipLeave))
	assert.Empty(t, turns.got)
}

func TestHandleMember_AcceptsInvite(t *testing.T) {
	var joinedPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/join") {
			joinedPath = r.URL.Path
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"room_id":"!room:example.org"}`)
	}))
	defer srv.Close()

	client, err := mautrix.NewClient(srv.URL, botID, "token")
	require.NoError(t, err)

	c, _, _ := newTestClient(config.MatrixConfig{}, &fakeTurns{})
	c.client = client

	c.handleMember(t.Context(), memberEvent(alice, botID, event.MembershipInvite))
	assert.Contains(t, joinedPath, "/join")

	joinedPath = ""
	c.cfg.AllowedUsers = []string{"@bob:example.org"}
	c.handleMember(t.Context(), memberEvent(alice, botID, event.MembershipInvite))
	assert.Empty(t, joinedPath)
}

func TestToContent_PlainBodyIsMarkdown(t *testing.T) {
	content, err := toContent(activity.WithAttachments("Pick one:", activity.LayoutList,
		activity.ImageAttachment("cat", "https://example.com/cat.jpg", "")))
	require.NoError(t, err)
	assert.Equal(t, event.MsgText, content.MsgType)
	assert.Contains(t, content.Body, "![cat](https://example.com/cat.jpg)")
	assert.Contains(t, content.FormattedBody, `<img src="https://example.com/cat.jpg" alt="cat">`)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "héll...", truncate("héllo world", 4))
}

func TestSyncStore(t *testing.T) {
	state := store.NewMemoryStore()
	s := newSyncStore(state)
	ctx := t.Context()

	batch, err := s.LoadNextBatch(ctx, botID)
	require.NoError(t, err)
	assert.Empty(t, batch)

	require.NoError(t, s.SaveNextBatch(ctx, botID, "s72594_4483_1934"))
	require.NoError(t, s.SaveFilterID(ctx, botID, "filter-1"))

	batch, err = s.LoadNextBatch(ctx, botID)
	require.NoError(t, err)
	assert.Equal(t, "s72594_4483_1934", batch)

	filter, err := s.LoadFilterID(ctx, botID)
	require.NoError(t, err)
	assert.Equal(t, "filter-1", filter)

	_, err = state.Load(ctx, "channel/matrix/@picbot:example.org/next_batch")
	assert.NoError(t, err)
}
