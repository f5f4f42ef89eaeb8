package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aurabox/internal/config"
	"aurabox/internal/model"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:    config.ServerConfig{Port: 8080, Mode: "test"},
		AI:        config.AIConfig{Provider: "mock"},
		Assistant: config.AssistantConfig{Name: "AuraBox Assistant", SupportPhone: "+91 80 4718 2200", DefaultLanguage: "en"},
		Widget:    config.WidgetConfig{GuestTurnLimit: 2},
		Auth:      config.AuthConfig{JWTSecret: "server-test-secret"},
	}
}

func call(t *testing.T, srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	return w
}

func TestServerGuestFlow(t *testing.T) {
	srv, err := New(testConfig())
	require.NoError(t, err)
	defer srv.widgetSvc.Shutdown()

	w := call(t, srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = call(t, srv, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = call(t, srv, http.MethodPost, "/api/v1/auth/anonymous", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tokenEnv struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tokenEnv))
	token := tokenEnv.Data.AccessToken

	w = call(t, srv, http.MethodPost, "/api/v1/widget/sessions", token, model.MountRequest{Language: "en"})
	require.Equal(t, http.StatusCreated, w.Code)
	var snap model.SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, 2, snap.Quota.Remaining)

	path := "/api/v1/widget/sessions/" + snap.ID + "/messages"
	for i := 0; i < 2; i++ {
		w = call(t, srv, http.MethodPost, path, token, model.SendMessageRequest{Text: "Do you deliver to Pune?"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = call(t, srv, http.MethodPost, path, token, model.SendMessageRequest{Text: "one more"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"auth_required":true`)

	w = call(t, srv, http.MethodPost, "/api/v1/widget/sessions", "", nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 2, srv.widgetSvc.Count())
}

func TestServerUnknownProvider(t *testing.T) {
	cfg := testConfig()
	cfg.AI = config.AIConfig{Provider: "nope", APIKey: "k"}
	_, err := New(cfg)
	assert.Error(t, err)
}
