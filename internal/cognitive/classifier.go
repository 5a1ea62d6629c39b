// ABOUTME: HTTP client for a LUIS-style intent prediction endpoint
// ABOUTME: Parses per-intent scores with gjson and returns them ranked by confidence

package cognitive

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/2389/picbot/internal/intent"
)

// ClassifierConfig configures the prediction endpoint.
type ClassifierConfig struct {
	// Endpoint is the service root, e.g. https://westus.api.cognitive.microsoft.com
	Endpoint string
	AppID    string
	Key      string
	// Slot selects the published slot. Defaults to "production".
	Slot    string
	Timeout time.Duration
}

// Classifier calls the prediction endpoint. Safe for concurrent use.
type Classifier struct {
	cfg    ClassifierConfig
	client doer
	logger *slog.Logger
}

// NewClassifier creates a classifier client.
func NewClassifier(cfg ClassifierConfig, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Slot == "" {
		cfg.Slot = "production"
	}
	return &Classifier{
		cfg:    cfg,
		client: newHTTPClient(cfg.Timeout),
		logger: logger.With("component", "classifier"),
	}
}

// Classify returns every intent the service scored, highest first.
func (c *Classifier) Classify(ctx context.Context, text string) ([]intent.Prediction, error) {
	body, err := call(ctx, c.client, c.cfg.Timeout, "classifier", "predict", func(ctx context.Context) (*http.Request, error) {
		u := fmt.Sprintf("%s/luis/prediction/v3.0/apps/%s/slots/%s/predict",
			strings.TrimRight(c.cfg.Endpoint, "/"), url.PathEscape(c.cfg.AppID), url.PathEscape(c.cfg.Slot))
		q := url.Values{}
		q.Set("query", text)
		q.Set("show-all-intents", "true")
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u+"?"+q.Encode(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Ocp-Apim-Subscription-Key", c.cfg.Key)
		return req, nil
	})
	if err != nil {
		return nil, err
	}

	preds, err := parsePredictions(body)
	if err != nil {
		return nil, &ServiceError{Service: "classifier", Op: "predict", Err: err}
	}

	c.logger.Debug("classified", "intents", len(preds))
	return preds, nil
}

// parsePredictions accepts the v3 "prediction.intents" object and the v2
// "intents" array.
func parsePredictions(body []byte) ([]intent.Prediction, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON response")
	}
	root := gjson.ParseBytes(body)

	var preds []intent.Prediction
	if v3 := root.Get("prediction.intents"); v3.IsObject() {
		v3.ForEach(func(key, value gjson.Result) bool {
			preds = append(preds, intent.Prediction{
				Label:      key.String(),
				Confidence: value.Get("score").Float(),
			})
			return true
		})
	} else if v2 := root.Get("intents"); v2.IsArray() {
		for _, item := range v2.Array() {
			preds = append(preds, intent.Prediction{
				Label:      item.Get("intent").String(),
				Confidence: item.Get("score").Float(),
			})
		}
	}

	sort.SliceStable(preds, func(i, j int) bool {
		return preds[i].Confidence > preds[j].Confidence
	})
	return preds, nil
}
