// ABOUTME: Service loads and persists conversation and user state through a StateStore
// ABOUTME: Missing or malformed blobs become defaults so a bad record never blocks a conversation

package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/2389/picbot/internal/store"
)

// DefaultHistoryLimit caps UtteranceHistory when no limit is configured.
const DefaultHistoryLimit = 200

// Service is the state-store adapter used by the turn router.
type Service struct {
	store        store.StateStore
	historyLimit int
	logger       *slog.Logger
}

// New creates a Service. historyLimit <= 0 disables the utterance cap.
func New(st store.StateStore, historyLimit int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:        st,
		historyLimit: historyLimit,
		logger:       logger.With("component", "conversation"),
	}
}

// HistoryLimit returns the configured utterance cap.
func (s *Service) HistoryLimit() int {
	return s.historyLimit
}

// LoadConversation returns the stored state or defaults when absent or unreadable.
// Only a storage failure is returned as an error.
func (s *Service) LoadConversation(ctx context.Context, conversationID string) (*ConversationState, error) {
	data, err := s.store.Load(ctx, store.ConversationKey(conversationID))
	if errors.Is(err, store.ErrNotFound) {
		return NewConversationState(conversationID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading conversation %q: %w", conversationID, err)
	}

	c, err := DecodeConversation(data)
	if err != nil {
		s.logger.Warn("discarding malformed conversation state",
			"conversation_id", conversationID,
			"error", err)
		return NewConversationState(conversationID), nil
	}
	c.ConversationID = conversationID
	return c, nil
}

// LoadUser returns the stored profile or defaults when absent or unreadable.
func (s *Service) LoadUser(ctx context.Context, userID string) (*UserProfile, error) {
	data, err := s.store.Load(ctx, store.UserKey(userID))
	if errors.Is(err, store.ErrNotFound) {
		return NewUserProfile(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading user %q: %w", userID, err)
	}

	u, err := DecodeUser(data)
	if err != nil {
		s.logger.Warn("discarding malformed user profile",
			"user_id", userID,
			"error", err)
		return NewUserProfile(userID), nil
	}
	u.UserID = userID
	return u, nil
}

// SaveConversation persists c. It is also used as a mid-turn checkpoint.
func (s *Service) SaveConversation(ctx context.Context, c *ConversationState) error {
	data, err := EncodeConversation(c)
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, store.ConversationKey(c.ConversationID), data); err != nil {
		return fmt.Errorf("saving conversation %q: %w", c.ConversationID, err)
	}
	s.logger.Debug("conversation saved",
		"conversation_id", c.ConversationID,
		"greeted", c.Greeted,
		"depth", c.DialogStack.Depth())
	return nil
}

// SaveUser persists u.
func (s *Service) SaveUser(ctx context.Context, u *UserProfile) error {
	data, err := EncodeUser(u)
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, store.UserKey(u.UserID), data); err != nil {
		return fmt.Errorf("saving user %q: %w", u.UserID, err)
	}
	return nil
}

// Save persists both records, attempting each even if the other fails.
func (s *Service) Save(ctx context.Context, c *ConversationState, u *UserProfile) error {
	return errors.Join(s.SaveConversation(ctx, c), s.SaveUser(ctx, u))
}

// RecordUtterance appends text to the profile under the configured cap.
func (s *Service) RecordUtterance(u *UserProfile, text string) {
	u.Record(text, s.historyLimit)
}
