// ABOUTME: PictureBot dialogs: main (greeting then menu) and search
// ABOUTME: The menu step walks the route table and hands off to the first matching handler

package bot

import (
	"context"
	"fmt"

	"github.com/2389/picbot/internal/conversation"
	"github.com/2389/picbot/internal/dialog"
	"github.com/2389/picbot/internal/responses"
)

// Dialog names stored in persisted frames.
const (
	MainDialog   = "main"
	SearchDialog = "search"
)

func (b *Bot) dialogs() []dialog.Dialog[*Turn] {
	return []dialog.Dialog[*Turn]{
		{Name: MainDialog, Steps: []dialog.Step[*Turn]{b.greetingStep, b.mainMenuStep}},
		{Name: SearchDialog},
	}
}

// greetingStep greets a new conversation and ends, or passes straight to the menu.
func (b *Bot) greetingStep(ctx context.Context, sc *dialog.StepContext[*Turn]) (dialog.Outcome, error) {
	turn := sc.Turn
	if turn.Conversation.Greeted == conversation.Greeted {
		return dialog.Next(nil), nil
	}

	if err := turn.DetectLanguage(ctx); err != nil {
		return dialog.Outcome{}, err
	}
	if err := turn.SendLocalized(ctx, responses.Greeting); err != nil {
		return dialog.Outcome{}, err
	}

	turn.Conversation.Greeted = conversation.Greeted
	if err := turn.Checkpoint(ctx); err != nil {
		return dialog.Outcome{}, fmt.Errorf("checkpointing greeting: %w", err)
	}

	if err := turn.SendLocalized(ctx, responses.Help); err != nil {
		return dialog.Outcome{}, err
	}
	return dialog.End(nil), nil
}

// mainMenuStep routes the message through the first matching route.
func (b *Bot) mainMenuStep(ctx context.Context, sc *dialog.StepContext[*Turn]) (dialog.Outcome, error) {
	turn := sc.Turn
	if err := turn.DetectLanguage(ctx); err != nil {
		return dialog.Outcome{}, err
	}

	res := turn.Resolution()
	for _, r := range b.routes {
		ok, err := r.Match(ctx, res)
		if err != nil {
			return dialog.Outcome{}, fmt.Errorf("route %s: %w", r.Name, err)
		}
		if !ok {
			continue
		}
		b.logger.Debug("route matched", "turn_id", turn.ID, "route", r.Name)
		return r.Handle(ctx, turn)
	}

	return dialog.End(nil), nil
}
