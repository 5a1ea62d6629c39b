// ABOUTME: HTTP client for the Translator Text Detect and Translate operations
// ABOUTME: Fetches a bearer token from the token endpoint and caches it until shortly before expiry

package cognitive

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// tokenLifetime is how long a cached bearer token is reused. Tokens are valid
// for ten minutes.
const tokenLifetime = 9 * time.Minute

// TranslatorConfig configures the translator and its token endpoint.
type TranslatorConfig struct {
	// Endpoint is the base URL, e.g. https://api.microsofttranslator.com/V2/Http.svc
	Endpoint string
	// TokenEndpoint issues bearer tokens for Key.
	TokenEndpoint string
	Key           string
	Timeout       time.Duration
}

// Translator detects and translates text. Safe for concurrent use.
type Translator struct {
	cfg    TranslatorConfig
	client doer
	logger *slog.Logger
	now    func() time.Time

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewTranslator creates a translator client.
func NewTranslator(cfg TranslatorConfig, logger *slog.Logger) *Translator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Translator{
		cfg:    cfg,
		client: newHTTPClient(cfg.Timeout),
		logger: logger.With("component", "translator"),
		now:    time.Now,
	}
}

// Detect returns the language code of text.
func (t *Translator) Detect(ctx context.Context, text string) (string, error) {
	q := url.Values{}
	q.Set("text", text)
	lang, err := t.get(ctx, "detect", "Detect", q)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(lang), nil
}

// Translate converts text from one language to another.
func (t *Translator) Translate(ctx context.Context, text, from, to string) (string, error) {
	q := url.Values{}
	q.Set("text", text)
	q.Set("from", from)
	q.Set("to", to)
	return t.get(ctx, "translate", "Translate", q)
}

func (t *Translator) get(ctx context.Context, op, path string, q url.Values) (string, error) {
	token, err := t.bearer(ctx)
	if err != nil {
		return "", err
	}

	body, err := call(ctx, t.client, t.cfg.Timeout, "translator", op, func(ctx context.Context) (*http.Request, error) {
		u := strings.TrimRight(t.cfg.Endpoint, "/") + "/" + path + "?" + q.Encode()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", token)
		return req, nil
	})
	if err != nil {
		return "", err
	}

	text, err := innerText(body)
	if err != nil {
		return "", &ServiceError{Service: "translator", Op: op, Err: err}
	}
	return text, nil
}

// bearer returns a cached token or fetches a fresh one.
func (t *Translator) bearer(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.token != "" && t.now().Before(t.tokenExpiry) {
		return t.token, nil
	}

	body, err := call(ctx, t.client, t.cfg.Timeout, "translator", "token", func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.cfg.TokenEndpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Ocp-Apim-Subscription-Key", t.cfg.Key)
		return req, nil
	})
	if err != nil {
		return "", err
	}

	raw := strings.TrimSpace(string(body))
	if raw == "" {
		return "", &ServiceError{Service: "translator", Op: "token", Err: fmt.Errorf("empty token")}
	}

	t.token = "Bearer " + raw
	t.tokenExpiry = t.now().Add(tokenLifetime)
	t.logger.Debug("translator token refreshed")
	return t.token, nil
}

// innerText returns the character data of an XML document, e.g.
// <string xmlns="http://schemas.microsoft.com/2003/10/Serialization/">fr</string>.
func innerText(body []byte) (string, error) {
	var doc struct {
		Text string `xml:",chardata"`
	}
	if err := xml.Unmarshal(body, &doc); err != nil {
		return "", fmt.Errorf("decoding XML response: %w", err)
	}
	return doc.Text, nil
}
