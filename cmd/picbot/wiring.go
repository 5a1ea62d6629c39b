// ABOUTME: Builds the bot from configuration
// ABOUTME: Cognitive services are wired only when their endpoint is configured

package main

import (
	"fmt"
	"log/slog"

	"github.com/2389/picbot/internal/bot"
	"github.com/2389/picbot/internal/cognitive"
	"github.com/2389/picbot/internal/config"
	"github.com/2389/picbot/internal/conversation"
	"github.com/2389/picbot/internal/store"
)

func buildBot(cfg *config.Config, st store.StateStore, logger *slog.Logger) (*bot.Bot, error) {
	opts := bot.Options{
		Conversations:    conversation.New(st, cfg.Conversation.Limit(), logger),
		ShowIntentScores: cfg.Bot.ShowIntentScores,
		MaxDialogDepth:   cfg.Bot.MaxDialogDepth,
		Logger:           logger,
	}

	cog := cfg.Cognitive
	if cog.Classifier.Endpoint != "" {
		opts.Classifier = cognitive.NewClassifier(cognitive.ClassifierConfig{
			Endpoint: cog.Classifier.Endpoint,
			AppID:    cog.Classifier.AppID,
			Key:      cog.Classifier.Key,
			Slot:     cog.Classifier.Slot,
			Timeout:  cog.Classifier.Timeout,
		}, logger)
	}
	if cog.Translator.Endpoint != "" {
		opts.Translator = cognitive.NewTranslator(cognitive.TranslatorConfig{
			Endpoint:      cog.Translator.Endpoint,
			TokenEndpoint: cog.Translator.TokenEndpoint,
			Key:           cog.Translator.Key,
			Timeout:       cog.Translator.Timeout,
		}, logger)
	}
	if cog.Sentiment.Endpoint != "" {
		opts.Sentiment = cognitive.NewSentiment(cognitive.SentimentConfig{
			Endpoint: cog.Sentiment.Endpoint,
			Key:      cog.Sentiment.Key,
			Timeout:  cog.Sentiment.Timeout,
		}, logger)
	}

	b, err := bot.New(opts)
	if err != nil {
		return nil, fmt.Errorf("creating bot: %w", err)
	}
	return b, nil
}

// serviceStatus describes which cognitive services run online, for the startup banner.
func serviceStatus(cfg *config.Config) map[string]bool {
	return map[string]bool{
		"classifier": cfg.Cognitive.Classifier.Endpoint != "",
		"translator": cfg.Cognitive.Translator.Endpoint != "",
		"sentiment":  cfg.Cognitive.Sentiment.Endpoint != "",
	}
}
