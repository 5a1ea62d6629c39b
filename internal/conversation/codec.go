// ABOUTME: JSON encoding of conversation and user records for the opaque state store
// ABOUTME: Decoding normalizes missing fields to their defaults

package conversation

import (
	"encoding/json"
	"fmt"
)

// EncodeConversation serializes a ConversationState.
func EncodeConversation(c *ConversationState) ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding conversation %q: %w", c.ConversationID, err)
	}
	return data, nil
}

// DecodeConversation parses a stored ConversationState.
func DecodeConversation(data []byte) (*ConversationState, error) {
	var c ConversationState
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding conversation: %w", err)
	}
	switch c.Greeted {
	case Greeted, NotGreeted:
	case "":
		c.Greeted = NotGreeted
	default:
		return nil, fmt.Errorf("decoding conversation: unknown greeted value %q", c.Greeted)
	}
	if len(c.DialogStack) == 0 {
		c.DialogStack = nil
	}
	for i, f := range c.DialogStack {
		if f.DialogID == "" || f.StepIndex < 0 {
			return nil, fmt.Errorf("decoding conversation: invalid frame %d", i)
		}
	}
	return &c, nil
}

// EncodeUser serializes a UserProfile.
func EncodeUser(u *UserProfile) ([]byte, error) {
	data, err := json.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("encoding user %q: %w", u.UserID, err)
	}
	return data, nil
}

// DecodeUser parses a stored UserProfile.
func DecodeUser(data []byte) (*UserProfile, error) {
	var u UserProfile
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("decoding user: %w", err)
	}
	if u.Language == "" {
		u.Language = DefaultLanguage
	}
	return &u, nil
}
