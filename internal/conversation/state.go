// ABOUTME: Per-conversation and per-user records persisted between turns
// ABOUTME: ConversationState carries the dialog stack; UserProfile carries language and history

package conversation

import (
	"time"

	"github.com/2389/picbot/internal/dialog"
)

// GreetState records whether the user has been greeted in a conversation.
type GreetState string

const (
	NotGreeted GreetState = "not greeted"
	Greeted    GreetState = "greeted"
)

// DefaultLanguage is assumed until a message is detected otherwise.
const DefaultLanguage = "en"

// ConversationState is owned by one turn at a time and persisted at turn end.
type ConversationState struct {
	ConversationID string       `json:"conversationId"`
	Greeted        GreetState   `json:"greeted"`
	DialogStack    dialog.Stack `json:"dialogStack,omitempty"`
	LastChannelID  string       `json:"lastChannelId,omitempty"`
	LastTimestamp  time.Time    `json:"lastTimestamp"`
}

// NewConversationState returns the defaults for a conversation never seen before.
func NewConversationState(conversationID string) *ConversationState {
	return &ConversationState{
		ConversationID: conversationID,
		Greeted:        NotGreeted,
	}
}

// Touch records the channel and time of the latest message. The time is stored in UTC.
func (c *ConversationState) Touch(channelID string, at time.Time) {
	c.LastChannelID = channelID
	c.LastTimestamp = at.UTC()
}

// UserProfile follows a user across conversations.
type UserProfile struct {
	UserID           string   `json:"userId"`
	Language         string   `json:"language"`
	UtteranceHistory []string `json:"utteranceHistory,omitempty"`
}

// NewUserProfile returns the defaults for a user never seen before.
func NewUserProfile(userID string) *UserProfile {
	return &UserProfile{
		UserID:   userID,
		Language: DefaultLanguage,
	}
}

// Record appends an utterance, keeping at most limit entries. limit <= 0 keeps everything.
func (u *UserProfile) Record(text string, limit int) {
	u.UtteranceHistory = append(u.UtteranceHistory, text)
	if limit > 0 && len(u.UtteranceHistory) > limit {
		trimmed := make([]string, limit)
		copy(trimmed, u.UtteranceHistory[len(u.UtteranceHistory)-limit:])
		u.UtteranceHistory = trimmed
	}
}
