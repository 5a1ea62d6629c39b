// ABOUTME: HTTP handler for POST /api/messages
// ABOUTME: Decodes an inbound activity, runs the turn and returns the replies as JSON

package gateway

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/2389/picbot/internal/activity"
	"github.com/2389/picbot/internal/auth"
)

// maxRequestBytes caps inbound activity bodies.
const maxRequestBytes = 1 << 20

// MessagesResponse is the body returned for a processed activity.
type MessagesResponse struct {
	Activities []activity.Activity `json:"activities"`
}

// handleMessages runs one turn.
//
// Responses:
//   - 200 with the replies, including when the turn failed after replying
//   - 400 for malformed JSON or an invalid activity
//   - 403 when the activity names a channel other than the token's
//   - 409 while a redelivered activity is still running
//   - 500 when the turn failed without any reply
func (g *Gateway) handleMessages(w http.ResponseWriter, r *http.Request) {
	msg, err := parseMessage(r.Body)
	if err != nil {
		g.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if channelID := auth.ChannelFromContext(r.Context()); channelID != "" {
		if msg.ChannelID == "" {
			msg.ChannelID = channelID
		} else if msg.ChannelID != channelID {
			g.sendJSONError(w, http.StatusForbidden, "token not valid for channel "+msg.ChannelID)
			return
		}
	}
	if err := msg.Validate(); err != nil {
		g.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	replies, err := g.HandleActivity(r.Context(), msg)
	switch {
	case errors.Is(err, ErrInProgress):
		g.sendJSONError(w, http.StatusConflict, err.Error())
		return
	case err != nil && len(replies) == 0:
		g.logger.Error("turn failed", "conversation_id", msg.ConversationID, "error", err)
		g.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	case err != nil:
		g.logger.Warn("turn failed after replying", "conversation_id", msg.ConversationID, "error", err)
	}

	if replies == nil {
		replies = []activity.Activity{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(MessagesResponse{Activities: replies})
}

// sendJSONError writes a JSON error response.
func (g *Gateway) sendJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func parseMessage(r io.Reader) (activity.Message, error) {
	var msg activity.Message
	if err := json.NewDecoder(io.LimitReader(r, maxRequestBytes)).Decode(&msg); err != nil {
		return msg, errors.New("invalid JSON body")
	}
	return msg, nil
}
