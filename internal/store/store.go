// ABOUTME: StateStore interface and key helpers for picbot persistence
// ABOUTME: Values are opaque blobs keyed by conversation or user identity

package store

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned when a key has no stored value
var ErrNotFound = errors.New("not found")

// ErrEmptyKey is returned when a caller passes an empty key
var ErrEmptyKey = errors.New("empty key")

// Key prefixes for the two kinds of state the bot keeps.
const (
	conversationPrefix = "conversation/"
	userPrefix         = "user/"
	channelPrefix      = "channel/"
)

// StateStore persists opaque state blobs.
//
// Callers must not run two read-modify-write cycles against the same key at
// the same time: implementations do not lock across Load and Save. The gateway
// serializes turns per conversation to satisfy this.
type StateStore interface {
	// Load returns the blob stored under key, or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save stores value under key, replacing any previous value.
	Save(ctx context.Context, key string, value []byte) error

	// Close releases any resources held by the store
	Close() error
}

// ConversationKey returns the storage key for a conversation's state.
func ConversationKey(conversationID string) string {
	return conversationPrefix + conversationID
}

// UserKey returns the storage key for a user's profile.
func UserKey(userID string) string {
	return userPrefix + userID
}

// ChannelKey returns the storage key for connector bookkeeping, such as a
// Matrix sync token, under a channel's namespace.
func ChannelKey(channelID, name string) string {
	return channelPrefix + channelID + "/" + name
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	return nil
}
