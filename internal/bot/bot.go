// ABOUTME: Bot is the turn router: load state, drive dialogs, reply, persist
// ABOUTME: State is persisted at the end of every turn, including failed ones

package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/2389/picbot/internal/activity"
	"github.com/2389/picbot/internal/cognitive"
	"github.com/2389/picbot/internal/conversation"
	"github.com/2389/picbot/internal/dialog"
	"github.com/2389/picbot/internal/intent"
	"github.com/2389/picbot/internal/responses"
)

// persistTimeout bounds the final save when the turn's context is already done.
const persistTimeout = 5 * time.Second

// Translator detects and translates message text.
type Translator interface {
	Detect(ctx context.Context, text string) (string, error)
	Translate(ctx context.Context, text, from, to string) (string, error)
}

// SentimentScorer scores text between 0 and 1.
type SentimentScorer interface {
	Score(ctx context.Context, text string) (float64, error)
}

// Options configures a Bot. Nil collaborators fall back to offline stand-ins.
type Options struct {
	Conversations *conversation.Service
	Rules         *intent.RuleSet
	Classifier    intent.Classifier
	Translator    Translator
	Sentiment     SentimentScorer

	// ShowIntentScores adds an "Intent: <label> (<score>)." line after classifier replies.
	ShowIntentScores bool
	// MaxDialogDepth bounds dialog nesting. Zero uses dialog.DefaultMaxDepth.
	MaxDialogDepth int
	Logger         *slog.Logger
}

// Bot routes inbound messages. Safe for concurrent use across conversations;
// callers must not run two turns for the same conversation at once.
type Bot struct {
	engine        *dialog.Engine[*Turn]
	conversations *conversation.Service
	rules         *intent.RuleSet
	classifier    intent.Classifier
	translator    Translator
	sentiment     SentimentScorer
	routes        []Route

	showIntentScores bool
	logger           *slog.Logger
}

// New builds a Bot with the PictureBot dialogs and route table.
func New(opts Options) (*Bot, error) {
	if opts.Conversations == nil {
		return nil, errors.New("conversation service is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	b := &Bot{
		conversations:    opts.Conversations,
		rules:            opts.Rules,
		classifier:       opts.Classifier,
		translator:       opts.Translator,
		sentiment:        opts.Sentiment,
		showIntentScores: opts.ShowIntentScores,
		logger:           logger.With("component", "bot"),
	}
	if b.rules == nil {
		b.rules = intent.MustRuleSet(intent.DefaultRules()...)
	}
	if b.classifier == nil {
		b.classifier = cognitive.EmptyClassifier{}
	}
	if b.translator == nil {
		b.translator = cognitive.PassthroughTranslator{}
	}
	if b.sentiment == nil {
		b.sentiment = cognitive.NeutralSentiment{}
	}

	registry, err := dialog.NewRegistry(b.dialogs()...)
	if err != nil {
		return nil, fmt.Errorf("building dialog registry: %w", err)
	}
	b.engine = dialog.NewEngine(registry, opts.MaxDialogDepth, logger)
	b.routes = b.defaultRoutes()

	return b, nil
}

// OnTurn processes one inbound message and returns the replies to send.
//
// A failed turn still returns replies (an apology) together with the error.
// An invalid message returns no replies and an error.
func (b *Bot) OnTurn(ctx context.Context, msg activity.Message) ([]activity.Activity, error) {
	if err := msg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid message: %w", err)
	}

	if msg.Type == activity.TypeConversationUpdate {
		return b.welcome(msg), nil
	}

	turnID := uuid.New().String()
	logger := b.logger.With("turn_id", turnID, "conversation_id", msg.ConversationID)

	conv, err := b.conversations.LoadConversation(ctx, msg.ConversationID)
	if err != nil {
		logger.Error("failed to load conversation", "error", err)
		return []activity.Activity{b.apology(msg)}, err
	}
	user, err := b.conversations.LoadUser(ctx, msg.UserID)
	if err != nil {
		logger.Error("failed to load user", "user_id", msg.UserID, "error", err)
		return []activity.Activity{b.apology(msg)}, err
	}

	b.conversations.RecordUtterance(user, msg.Text)
	conv.Touch(msg.ChannelID, msg.Timestamp)

	turn := newTurn(b, turnID, msg, conv, user)
	runErr := b.run(ctx, turn)
	if runErr != nil {
		if errors.Is(runErr, dialog.ErrUnknownDialog) {
			logger.Error("dialog registry mismatch", "error", runErr)
		} else {
			logger.Error("turn failed", "error", runErr)
		}
		cancelled := b.engine.CancelAll(&conv.DialogStack)
		logger.Debug("dialog stack reset after failure", "cancelled", cancelled)
		turn.Send(activity.Text(responses.ErrorNotice))
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	saveErr := b.conversations.Save(saveCtx, conv, user)
	if saveErr != nil {
		logger.Error("failed to persist turn state", "error", saveErr)
	}

	logger.Info("turn complete",
		"replies", len(turn.Activities()),
		"depth", conv.DialogStack.Depth(),
		"failed", runErr != nil)

	return turn.Activities(), errors.Join(runErr, saveErr)
}

// run drives the dialog engine for one message.
func (b *Bot) run(ctx context.Context, turn *Turn) error {
	stack := &turn.Conversation.DialogStack

	if turn.Conversation.Greeted == conversation.NotGreeted {
		_, err := b.engine.Begin(ctx, stack, MainDialog, nil, turn)
		return err
	}

	status, err := b.engine.Continue(ctx, stack, turn.Message.Text, turn)
	if err != nil {
		return err
	}

	if !turn.Responded() {
		b.logger.Debug("no reply from active dialog, starting main", "turn_id", turn.ID, "status", status.String())
		_, err = b.engine.Begin(ctx, stack, MainDialog, nil, turn)
	}
	return err
}

// welcome greets each member added to the conversation other than the bot.
func (b *Bot) welcome(msg activity.Message) []activity.Activity {
	var out []activity.Activity
	for _, member := range msg.MembersAdded {
		if member == msg.RecipientID {
			continue
		}
		a := activity.Text(responses.Welcome)
		a.ReplyToID = msg.ID
		out = append(out, a)
	}
	return out
}

func (b *Bot) apology(msg activity.Message) activity.Activity {
	a := activity.Text(responses.ErrorNotice)
	a.ReplyToID = msg.ID
	return a
}
