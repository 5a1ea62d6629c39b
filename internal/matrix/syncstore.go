// ABOUTME: mautrix.SyncStore backed by the bot's StateStore
// ABOUTME: Keeps the filter ID and next_batch token across restarts

package matrix

import (
	"context"
	"errors"

	"maunium.net/go/mautrix"
	"maunium.net/go/mautrix/id"

	"github.com/2389/picbot/internal/store"
)

var _ mautrix.SyncStore = (*syncStore)(nil)

type syncStore struct {
	state store.StateStore
}

func newSyncStore(state store.StateStore) *syncStore {
	return &syncStore{state: state}
}

func (s *syncStore) SaveFilterID(ctx context.Context, userID id.UserID, filterID string) error {
	return s.save(ctx, userID, "filter_id", filterID)
}

func (s *syncStore) LoadFilterID(ctx context.Context, userID id.UserID) (string, error) {
	return s.load(ctx, userID, "filter_id")
}

func (s *syncStore) SaveNextBatch(ctx context.Context, userID id.UserID, nextBatchToken string) error {
	return s.save(ctx, userID, "next_batch", nextBatchToken)
}

func (s *syncStore) LoadNextBatch(ctx context.Context, userID id.UserID) (string, error) {
	return s.load(ctx, userID, "next_batch")
}

func (s *syncStore) save(ctx context.Context, userID id.UserID, name, value string) error {
	return s.state.Save(ctx, syncKey(userID, name), []byte(value))
}

// load returns ("", nil) when nothing was saved yet.
func (s *syncStore) load(ctx context.Context, userID id.UserID, name string) (string, error) {
	value, err := s.state.Load(ctx, syncKey(userID, name))
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	return string(value), err
}

func syncKey(userID id.UserID, name string) string {
	return store.ChannelKey(ChannelID, userID.String()+"/"+name)
}
