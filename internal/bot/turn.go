// ABOUTME: Turn is the per-message handle passed to every dialog step
// ABOUTME: Collects outbound activities, caches language detection and checkpoints state

package bot

import (
	"context"
	"fmt"

	"github.com/2389/picbot/internal/activity"
	"github.com/2389/picbot/internal/conversation"
	"github.com/2389/picbot/internal/intent"
)

// Turn is the state of one inbound message while it is processed.
type Turn struct {
	ID           string
	Message      activity.Message
	Conversation *conversation.ConversationState
	User         *conversation.UserProfile

	bot        *Bot
	text       string
	language   string
	detected   bool
	resolution *intent.Resolution
	outbox     []activity.Activity
}

func newTurn(b *Bot, id string, msg activity.Message, conv *conversation.ConversationState, user *conversation.UserProfile) *Turn {
	return &Turn{
		ID:           id,
		Message:      msg,
		Conversation: conv,
		User:         user,
		bot:          b,
		text:         msg.Text,
	}
}

// Send queues an activity for delivery.
func (t *Turn) Send(a activity.Activity) {
	a.ReplyToID = t.Message.ID
	t.outbox = append(t.outbox, a)
}

// SendText queues a plain text reply without translation.
func (t *Turn) SendText(text string) {
	t.Send(activity.Text(text))
}

// SendLocalized translates text from English into the user's language and queues it.
func (t *Turn) SendLocalized(ctx context.Context, text string) error {
	if t.detected && t.language != conversation.DefaultLanguage {
		translated, err := t.bot.translator.Translate(ctx, text, conversation.DefaultLanguage, t.language)
		if err != nil {
			return fmt.Errorf("translating reply to %s: %w", t.language, err)
		}
		text = translated
	}
	t.SendText(text)
	return nil
}

// Responded reports whether anything has been queued.
func (t *Turn) Responded() bool {
	return len(t.outbox) > 0
}

// Activities returns everything queued this turn.
func (t *Turn) Activities() []activity.Activity {
	return t.outbox
}

// Text returns the message text used for routing. After DetectLanguage it is English.
func (t *Turn) Text() string {
	return t.text
}

// Language returns the detected language, or the profile's language before detection.
func (t *Turn) Language() string {
	if t.detected {
		return t.language
	}
	return t.User.Language
}

// DetectLanguage detects the message language once per turn and translates the
// routing text to English when needed. The result is stored on the user profile.
func (t *Turn) DetectLanguage(ctx context.Context) error {
	if t.detected {
		return nil
	}

	lang, err := t.bot.translator.Detect(ctx, t.Message.Text)
	if err != nil {
		return fmt.Errorf("detecting language: %w", err)
	}
	if lang == "" {
		lang = conversation.DefaultLanguage
	}

	if lang != conversation.DefaultLanguage {
		translated, err := t.bot.translator.Translate(ctx, t.Message.Text, lang, conversation.DefaultLanguage)
		if err != nil {
			return fmt.Errorf("translating message from %s: %w", lang, err)
		}
		t.text = translated
	}

	t.language = lang
	t.detected = true
	t.User.Language = lang
	return nil
}

// Resolution returns the intent resolution for the message, built on first use.
// Rules see the text as the user typed it; the classifier sees the routing text.
func (t *Turn) Resolution() *intent.Resolution {
	if t.resolution == nil {
		t.resolution = intent.NewTranslatedResolution(t.Message.Text, t.text, t.bot.rules, t.bot.classifier)
	}
	return t.resolution
}

// Checkpoint persists the conversation immediately, before the turn ends.
func (t *Turn) Checkpoint(ctx context.Context) error {
	return t.bot.conversations.SaveConversation(ctx, t.Conversation)
}
