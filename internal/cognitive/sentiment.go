// ABOUTME: HTTP client for the text analytics sentiment operation
// ABOUTME: An unusable score is reported as neutral (0.5) rather than as an error

package cognitive

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

// NeutralScore is returned when the service gives no usable score.
const NeutralScore = 0.5

// SentimentConfig configures the sentiment endpoint.
type SentimentConfig struct {
	// Endpoint is the full sentiment URL, e.g.
	// https://westus.api.cognitive.microsoft.com/text/analytics/v2.1/sentiment
	Endpoint string
	Key      string
	Language string
	Timeout  time.Duration
}

// Sentiment scores text between 0 (negative) and 1 (positive). Safe for concurrent use.
type Sentiment struct {
	cfg    SentimentConfig
	client doer
	logger *slog.Logger
}

// NewSentiment creates a sentiment client.
func NewSentiment(cfg SentimentConfig, logger *slog.Logger) *Sentiment {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	return &Sentiment{
		cfg:    cfg,
		client: newHTTPClient(cfg.Timeout),
		logger: logger.With("component", "sentiment"),
	}
}

type sentimentDocument struct {
	Language string `json:"language"`
	ID       string `json:"id"`
	Text     string `json:"text"`
}

// Score returns the sentiment of text. Transport and HTTP failures are errors;
// a missing or out of range score is NeutralScore.
func (s *Sentiment) Score(ctx context.Context, text string) (float64, error) {
	payload, err := json.Marshal(map[string][]sentimentDocument{
		"documents": {{Language: s.cfg.Language, ID: "1", Text: text}},
	})
	if err != nil {
		return 0, &ServiceError{Service: "sentiment", Op: "score", Err: err}
	}

	body, err := call(ctx, s.client, s.cfg.Timeout, "sentiment", "score", func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Ocp-Apim-Subscription-Key", s.cfg.Key)
		return req, nil
	})
	if err != nil {
		return 0, err
	}

	return parseScore(body, s.logger), nil
}

func parseScore(body []byte, logger *slog.Logger) float64 {
	score := gjson.GetBytes(body, "documents.0.score")
	if !score.Exists() || score.Type != gjson.Number {
		logger.Warn("sentiment response has no score, using neutral")
		return NeutralScore
	}
	v := score.Float()
	if v < 0 || v > 1 {
		logger.Warn("sentiment score out of range, using neutral", "score", v)
		return NeutralScore
	}
	return v
}
