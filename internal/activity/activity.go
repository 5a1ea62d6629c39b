// ABOUTME: Inbound message and outbound activity contracts shared by every channel
// ABOUTME: Outbound activities carry plain text plus an optional set of card attachments

package activity

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Type is the kind of an inbound or outbound activity.
type Type string

const (
	TypeMessage            Type = "message"
	TypeConversationUpdate Type = "conversationUpdate"
)

// Layout controls how multiple attachments are shown.
type Layout string

const (
	LayoutList     Layout = "list"
	LayoutCarousel Layout = "carousel"
)

// Message is one inbound activity from a channel.
type Message struct {
	ID             string    `json:"id"`
	Type           Type      `json:"type"`
	ConversationID string    `json:"conversationId"`
	UserID         string    `json:"userId"`
	RecipientID    string    `json:"recipientId,omitempty"`
	ChannelID      string    `json:"channelId"`
	Timestamp      time.Time `json:"timestamp"`
	Text           string    `json:"text"`
	MembersAdded   []string  `json:"membersAdded,omitempty"`
}

// Validate checks the fields every turn needs and fills defaults.
func (m *Message) Validate() error {
	if m.Type == "" {
		m.Type = TypeMessage
	}
	if strings.TrimSpace(m.ConversationID) == "" {
		return errors.New("conversationId is required")
	}
	switch m.Type {
	case TypeMessage:
		if strings.TrimSpace(m.UserID) == "" {
			return errors.New("userId is required")
		}
	case TypeConversationUpdate:
	default:
		return errors.New("unsupported activity type: " + string(m.Type))
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	m.Timestamp = m.Timestamp.UTC()
	return nil
}

// Activity is one outbound reply.
type Activity struct {
	ID               string       `json:"id"`
	Type             Type         `json:"type"`
	Text             string       `json:"text,omitempty"`
	Attachments      []Attachment `json:"attachments,omitempty"`
	AttachmentLayout Layout       `json:"attachmentLayout,omitempty"`
	ReplyToID        string       `json:"replyToId,omitempty"`
	Timestamp        time.Time    `json:"timestamp"`
}

// Text creates a plain text reply.
func Text(text string) Activity {
	return Activity{
		ID:        uuid.New().String(),
		Type:      TypeMessage,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
}

// WithAttachments creates a reply with text and attachments.
func WithAttachments(text string, layout Layout, attachments ...Attachment) Activity {
	a := Text(text)
	a.Attachments = attachments
	a.AttachmentLayout = layout
	return a
}
