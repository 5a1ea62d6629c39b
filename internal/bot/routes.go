// ABOUTME: Ordered route table pairing intent matchers with reply handlers
// ABOUTME: Rule routes come first; classifier routes always finish with a sentiment reply

package bot

import (
	"context"

	"github.com/2389/picbot/internal/activity"
	"github.com/2389/picbot/internal/dialog"
	"github.com/2389/picbot/internal/intent"
	"github.com/2389/picbot/internal/responses"
)

// Handler produces the replies for a matched route and decides how the menu step ends.
type Handler func(ctx context.Context, t *Turn) (dialog.Outcome, error)

// Route pairs a matcher with a handler. Routes are evaluated top-down.
type Route struct {
	Name   string
	Match  intent.Matcher
	Handle Handler
}

func (b *Bot) defaultRoutes() []Route {
	return []Route{
		{Name: "search", Match: intent.RuleLabel("search"), Handle: searchHandler},
		{Name: "share", Match: intent.RuleLabel("share"), Handle: localized(responses.ShareConfirmation)},
		{Name: "order", Match: intent.RuleLabel("order"), Handle: localized(responses.OrderConfirmation)},
		{Name: "help", Match: intent.RuleLabel("help"), Handle: localized(responses.Help)},
		{Name: "lang", Match: intent.RuleLabel("lang"), Handle: languageHandler},
		{Name: "pizza", Match: intent.RuleLabel("pizza"), Handle: card(responses.ReceiptCard)},
		{Name: "ai-102", Match: intent.RuleLabel("ai-102"), Handle: card(responses.HeroCard)},
		{Name: "thumb", Match: intent.RuleLabel("thumb"), Handle: card(responses.ThumbnailCards)},
		{Name: "rich card", Match: intent.RuleLabel("rich card"), Handle: card(responses.RichCard)},
		{Name: "card", Match: intent.RuleLabel("card"), Handle: card(responses.ImageCard)},

		{Name: "classifier:Greeting", Match: intent.ClassifierLabel("Greeting"), Handle: b.scored(responses.Greeting, responses.Help)},
		{Name: "classifier:OrderPic", Match: intent.ClassifierLabel("OrderPic"), Handle: b.scored(responses.OrderConfirmation)},
		{Name: "classifier:SharePic", Match: intent.ClassifierLabel("SharePic"), Handle: b.scored(responses.ShareConfirmation)},
		{Name: "classifier:SearchPic", Match: intent.ClassifierLabel("SearchPic"), Handle: b.scored(responses.SearchConfirmation)},
		{Name: "classifier:none", Match: intent.ClassifierNone(), Handle: b.scored(responses.Confused)},
		{Name: "classifier:other", Match: intent.ClassifierAny(), Handle: b.scored(responses.Confused)},
	}
}

func searchHandler(ctx context.Context, t *Turn) (dialog.Outcome, error) {
	if err := t.SendLocalized(ctx, responses.SearchConfirmation); err != nil {
		return dialog.Outcome{}, err
	}
	return dialog.BeginChild(SearchDialog, nil), nil
}

func languageHandler(ctx context.Context, t *Turn) (dialog.Outcome, error) {
	t.SendText(responses.Language(t.Language()))
	return dialog.End(nil), nil
}

func localized(text string) Handler {
	return func(ctx context.Context, t *Turn) (dialog.Outcome, error) {
		if err := t.SendLocalized(ctx, text); err != nil {
			return dialog.Outcome{}, err
		}
		return dialog.End(nil), nil
	}
}

func card(build func() activity.Activity) Handler {
	return func(ctx context.Context, t *Turn) (dialog.Outcome, error) {
		t.Send(build())
		return dialog.End(nil), nil
	}
}

// scored sends texts for a classifier route, then the optional intent score
// line, then the sentiment of the message. Sentiment scores the translated
// routing text since documents are tagged with the sentiment client's
// configured language, English by default.
func (b *Bot) scored(texts ...string) Handler {
	return func(ctx context.Context, t *Turn) (dialog.Outcome, error) {
		for _, text := range texts {
			if err := t.SendLocalized(ctx, text); err != nil {
				return dialog.Outcome{}, err
			}
		}

		if b.showIntentScores {
			top, ok, err := t.Resolution().Top(ctx)
			if err != nil {
				return dialog.Outcome{}, err
			}
			if ok {
				t.SendText(responses.IntentScore(top.Label, top.Confidence))
			}
		}

		score, err := b.sentiment.Score(ctx, t.Text())
		if err != nil {
			return dialog.Outcome{}, err
		}
		t.SendText(responses.Sentiment(score))
		return dialog.End(nil), nil
	}
}
