// ABOUTME: Tests for the cognitive service clients against httptest servers
// ABOUTME: Covers response parsing, token caching, neutral defaults and failure wrapping

package cognitive

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifier_ParsesV3AndSorts(t *testing.T) {
	var gotQuery, gotKey, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("query")
		gotKey = r.Header.Get("Ocp-Apim-Subscription-Key")
		io.WriteString(w, `{"query":"x","prediction":{"topIntent":"OrderPic","intents":{
			"SharePic":{"score":0.05},"OrderPic":{"score":0.91},"None":{"score":0.2}}}}`)
	}))
	defer srv.Close()

	c := NewClassifier(ClassifierConfig{Endpoint: srv.URL + "/", AppID: "app-1", Key: "k"}, nil)
	preds, err := c.Classify(t.Context(), "get prints")
	require.NoError(t, err)

	assert.Equal(t, "/luis/prediction/v3.0/apps/app-1/slots/production/predict", gotPath)
	assert.Equal(t, "get prints", gotQuery)
	assert.Equal(t, "k", gotKey)
	require.Len(t, preds, 3)
	assert.Equal(t, "OrderPic", preds[0].Label)
	assert.InDelta(t, 0.91, preds[0].Confidence, 1e-9)
	assert.Equal(t, "SharePic", preds[2].Label)
}

func TestParsePredictions(t *testing.T) {
	preds, err := parsePredictions([]byte(`{"intents":[{"intent":"None","score":0.1},{"intent":"Greeting","score":0.8}]}`))
	require.NoError(t, err)
	require.Len(t, preds, 2)
	assert.Equal(t, "Greeting", preds[0].Label)

	preds, err = parsePredictions([]byte(`{"prediction":{}}`))
	require.NoError(t, err)
	assert.Empty(t, preds)

	_, err = parsePredictions([]byte(`<html>`))
	assert.Error(t, err)
}

func TestClassifier_HTTPErrorIsServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClassifier(ClassifierConfig{Endpoint: srv.URL, AppID: "a"}, nil)
	_, err := c.Classify(t.Context(), "hi")

	var svcErr *ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "classifier", svcErr.Service)
	assert.Equal(t, http.StatusTooManyRequests, svcErr.Status)
}

func TestClassifier_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClassifier(ClassifierConfig{Endpoint: srv.URL, AppID: "a", Timeout: 50 * time.Millisecond}, nil)
	_, err := c.Classify(t.Context(), "hi")

	var svcErr *ServiceError
	assert.True(t, errors.As(err, &svcErr))
}

func newTranslatorServer(t *testing.T, tokenCalls *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		if r.Header.Get("Ocp-Apim-Subscription-Key") != "secret" {
			http.Error(w, "denied", http.StatusUnauthorized)
			return
		}
		io.WriteString(w, "tok-123")
	})
	mux.HandleFunc("GET /api/Detect", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			http.Error(w, "denied", http.StatusUnauthorized)
			return
		}
		io.WriteString(w, `<string xmlns="http://schemas.microsoft.com/2003/10/Serialization/">fr</string>`)
	})
	mux.HandleFunc("GET /api/Translate", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		io.WriteString(w, `<string xmlns="http://schemas.microsoft.com/2003/10/Serialization/">`+
			q.Get("from")+"&gt;"+q.Get("to")+":"+q.Get("text")+`</string>`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestTranslator_DetectAndTranslateShareToken(t *testing.T) {
	var tokenCalls atomic.Int32
	srv := newTranslatorServer(t, &tokenCalls)

	tr := NewTranslator(TranslatorConfig{
		Endpoint:      srv.URL + "/api",
		TokenEndpoint: srv.URL + "/token",
		Key:           "secret",
	}, nil)

	lang, err := tr.Detect(t.Context(), "bonjour")
	require.NoError(t, err)
	assert.Equal(t, "fr", lang)

	out, err := tr.Translate(t.Context(), "bonjour", "fr", "en")
	require.NoError(t, err)
	assert.Equal(t, "fr>en:bonjour", out)

	assert.Equal(t, int32(1), tokenCalls.Load())
}

func TestTranslator_TokenRefreshAfterExpiry(t *testing.T) {
	var tokenCalls atomic.Int32
	srv := newTranslatorServer(t, &tokenCalls)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTranslator(TranslatorConfig{
		Endpoint:      srv.URL + "/api",
		TokenEndpoint: srv.URL + "/token",
		Key:           "secret",
	}, nil)
	tr.now = func() time.Time { return now }

	_, err := tr.Detect(t.Context(), "a")
	require.NoError(t, err)

	now = now.Add(tokenLifetime + time.Second)
	_, err = tr.Detect(t.Context(), "b")
	require.NoError(t, err)

	assert.Equal(t, int32(2), tokenCalls.Load())
}

func TestTranslator_TokenFailure(t *testing.T) {
	var tokenCalls atomic.Int32
	srv := newTranslatorServer(t, &tokenCalls)

	tr := NewTranslator(TranslatorConfig{
		Endpoint:      srv.URL + "/api",
		TokenEndpoint: srv.URL + "/token",
		Key:           "wrong",
	}, nil)

	_, err := tr.Detect(t.Context(), "a")
	var svcErr *ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "token", svcErr.Op)
	assert.Equal(t, http.StatusUnauthorized, svcErr.Status)
}

func TestInnerText(t *testing.T) {
	text, err := innerText([]byte(`<string>en</string>`))
	require.NoError(t, err)
	assert.Equal(t, "en", text)

	_, err = innerText([]byte(`not xml`))
	assert.Error(t, err)
}

func TestSentiment_Score(t *testing.T) {
	var got struct {
		Documents []sentimentDocument `json:"documents"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		io.WriteString(w, `{"documents":[{"id":"1","score":0.83896893262863159}],"errors":[]}`)
	}))
	defer srv.Close()

	s := NewSentiment(SentimentConfig{Endpoint: srv.URL}, nil)
	score, err := s.Score(t.Context(), `she said "great"`)
	require.NoError(t, err)

	assert.InDelta(t, 0.838968, score, 1e-6)
	require.Len(t, got.Documents, 1)
	assert.Equal(t, `she said "great"`, got.Documents[0].Text)
	assert.Equal(t, "en", got.Documents[0].Language)
}

func TestSentiment_UnusableScoreIsNeutral(t *testing.T) {
	for name, body := range map[string]string{
		"missing":      `{"documents":[],"errors":[{"id":"1","message":"bad"}]}`,
		"not json":     `oops`,
		"string score": `{"documents":[{"id":"1","score":"high"}]}`,
		"out of range": `{"documents":[{"id":"1","score":4.2}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, body)
			}))
			defer srv.Close()

			score, err := NewSentiment(SentimentConfig{Endpoint: srv.URL}, nil).Score(t.Context(), "x")
			require.NoError(t, err)
			assert.Equal(t, NeutralScore, score)
		})
	}
}

func TestSentiment_TransportErrorIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewSentiment(SentimentConfig{Endpoint: url}, nil).Score(t.Context(), "x")
	var svcErr *ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "sentiment", svcErr.Service)
	assert.Equal(t, 0, svcErr.Status)
}

func TestOfflineStandIns(t *testing.T) {
	lang, err := PassthroughTranslator{}.Detect(t.Context(), "hola")
	require.NoError(t, err)
	assert.Equal(t, "en", lang)

	out, err := PassthroughTranslator{}.Translate(t.Context(), "hola", "es", "en")
	require.NoError(t, err)
	assert.Equal(t, "hola", out)

	preds, err := EmptyClassifier{}.Classify(t.Context(), "x")
	require.NoError(t, err)
	assert.Empty(t, preds)

	score, err := NeutralSentiment{}.Score(t.Context(), "x")
	require.NoError(t, err)
	assert.Equal(t, 0.5, score)
}
