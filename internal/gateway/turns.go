// ABOUTME: Turn dispatch shared by the HTTP endpoint and channel connectors
// ABOUTME: Dedupes redelivered activities and runs one turn per conversation at a time

package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/2389/picbot/internal/activity"
	"github.com/2389/picbot/internal/dedupe"
)

// ErrInProgress is returned for a redelivered activity whose first delivery
// is still running.
var ErrInProgress = errors.New("activity already in progress")

// HandleActivity runs a turn for msg and returns its replies.
//
// A redelivery of an activity ID seen within the dedupe TTL returns the
// replies of the first delivery without running the turn again. A turn that
// failed but still produced replies (an apology) counts as delivered; one
// with no replies is forgotten so the channel's retry runs it again.
func (g *Gateway) HandleActivity(ctx context.Context, msg activity.Message) ([]activity.Activity, error) {
	if err := msg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid message: %w", err)
	}

	key := dedupeKey(msg)
	if key != "" {
		state, replies := g.dedupe.Reserve(key)
		switch state {
		case dedupe.StateDone:
			g.logger.Debug("duplicate activity replayed", "key", key, "replies", len(replies))
			return replies, nil
		case dedupe.StatePending:
			return nil, ErrInProgress
		}
	}

	replies, err := g.runTurn(ctx, msg)
	if key != "" {
		if len(replies) > 0 {
			g.dedupe.Complete(key, replies)
		} else if err != nil {
			g.dedupe.Release(key)
		} else {
			g.dedupe.Complete(key, nil)
		}
	}
	return replies, err
}

func (g *Gateway) runTurn(ctx context.Context, msg activity.Message) ([]activity.Activity, error) {
	release, err := g.locks.acquire(ctx, msg.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("waiting for conversation %s: %w", msg.ConversationID, err)
	}
	defer release()

	if timeout := g.config.Server.TurnTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	return g.turns.OnTurn(ctx, msg)
}

// dedupeKey scopes activity IDs by channel. Activities without an ID are never deduped.
func dedupeKey(msg activity.Message) string {
	if msg.ID == "" {
		return ""
	}
	return fmt.Sprintf("activity:%s:%s", msg.ChannelID, msg.ID)
}
