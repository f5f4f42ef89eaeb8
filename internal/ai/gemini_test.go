package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aurabox/internal/config"
)

func newGeminiTestServer(t *testing.T, handler func(w http.ResponseWriter, body map[string]any)) (*httptest.Server, *[]*http.Request) {
	t.Helper()
	var seen []*http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r)
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var body map[string]any
		require.NoError(t, json.Unmarshal(raw, &body))
		handler(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func newTestGemini(baseURL string) *GeminiProvider {
	return NewGeminiProvider(&config.AIConfig{
		APIKey:  "secret key",
		Model:   "gemini-test",
		BaseURL: baseURL + "/",
		Timeout: 5 * time.Second,
	})
}

func TestGeminiProvider_RequestShape(t *testing.T) {
	var captured map[string]any
	srv, seen := newGeminiTestServer(t, func(w http.ResponseWriter, body map[string]any) {
		captured = body
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Rest and hydrate."}]}}]}`))
	})

	g := newTestGemini(srv.URL)
	text, err := g.Generate(context.Background(), &Prompt{
		Text:        "system block + user text",
		Image:       &InlineImage{MIMEType: "image/png", Data: "aGVsbG8="},
		CaptionNote: "The user attached an image with this note: my knee",
	})
	require.NoError(t, err)
	assert.Equal(t, "Rest and hydrate.", text)

	require.Len(t, *seen, 1)
	req := (*seen)[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/models/gemini-test:generateContent", req.URL.Path)
	assert.Equal(t, "secret key", req.URL.Query().Get("key"))
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))

	contents := captured["contents"].([]any)
	require.Len(t, contents, 1)
	parts := contents[0].(map[string]any)["parts"].([]any)
	require.Len(t, parts, 3)
	assert.Equal(t, "system block + user text", parts[0].(map[string]any)["text"])
	inline := parts[1].(map[string]any)["inline_data"].(map[string]any)
	assert.Equal(t, "image/png", inline["mime_type"])
	assert.Equal(t, "aGVsbG8=", inline["data"])
	assert.Equal(t, "The user attached an image with this note: my knee", parts[2].(map[string]any)["text"])

	gen := captured["generationConfig"].(map[string]any)
	assert.InDelta(t, 0.7, gen["temperature"], 0.0001)
	assert.EqualValues(t, 40, gen["topK"])
	assert.InDelta(t, 0.95, gen["topP"], 0.0001)
	assert.EqualValues(t, 1024, gen["maxOutputTokens"])

	safety := captured["safetySettings"].([]any)
	assert.Len(t, safety, len(FixedSafetySettings))
}

func TestGeminiProvider_TextOnly(t *testing.T) {
	var captured map[string]any
	srv, _ := newGeminiTestServer(t, func(w http.ResponseWriter, body map[string]any) {
		captured = body
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	})

	_, err := newTestGemini(srv.URL).Generate(context.Background(), &Prompt{Text: "only text"})
	require.NoError(t, err)

	parts := captured["contents"].([]any)[0].(map[string]any)["parts"].([]any)
	assert.Len(t, parts, 1)
}

func TestGeminiProvider_Failures(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "missing candidates", status: 200, body: `{}`, wantErr: ErrMalformedResponse},
		{name: "empty candidates", status: 200, body: `{"candidates":[]}`, wantErr: ErrMalformedResponse},
		{name: "no parts", status: 200, body: `{"candidates":[{"content":{"parts":[]}}]}`, wantErr: ErrMalformedResponse},
		{name: "blank text", status: 200, body: `{"candidates":[{"content":{"parts":[{"text":"  "}]}}]}`, wantErr: ErrMalformedResponse},
		{name: "not json", status: 200, body: `<html>`, wantErr: ErrMalformedResponse},
		{name: "prompt blocked", status: 200, body: `{"promptFeedback":{"blockReason":"SAFETY"}}`, wantErr: ErrBlocked},
		{name: "candidate safety stop", status: 200, body: `{"candidates":[{"finishReason":"SAFETY","content":{}}]}`, wantErr: ErrBlocked},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := newGeminiTestServer(t, func(w http.ResponseWriter, _ map[string]any) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := newTestGemini(srv.URL).Generate(context.Background(), &Prompt{Text: "x"})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
		})
	}

	t.Run("non 2xx", func(t *testing.T) {
		srv, _ := newGeminiTestServer(t, func(w http.ResponseWriter, _ map[string]any) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"quota"}}`))
		})

		_, err := newTestGemini(srv.URL).Generate(context.Background(), &Prompt{Text: "x"})
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
		assert.Contains(t, apiErr.Body, "quota")
	})

	t.Run("network error", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := newTestGemini(url).Generate(context.Background(), &Prompt{Text: "x"})
		assert.Error(t, err)
	})
}

func TestNewGeminiProvider_Defaults(t *testing.T) {
	g := NewGeminiProvider(&config.AIConfig{APIKey: "k"})
	assert.Equal(t, defaultGeminiBaseURL, g.baseURL)
	assert.Equal(t, defaultGeminiModel, g.model)
	assert.Equal(t, "gemini", g.Name())
}
