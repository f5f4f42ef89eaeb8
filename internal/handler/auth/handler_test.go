package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authRepo "aurabox/internal/repository/auth"
	"aurabox/internal/server/middleware"
	"aurabox/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type tokenEnvelope struct {
	Code int               `json:"code"`
	Data TokenResponseData `json:"data"`
}

func newAuthRouter() *gin.Engine {
	svc := service.NewAuthService(authRepo.NewMemoryUserRepo(), "handler-secret", time.Hour)
	h := NewHandler(svc)

	r := gin.New()
	v1 := r.Group("/api/v1", middleware.Identity(svc.JWT()))
	v1.POST("/auth/anonymous", h.Anonymous)
	v1.POST("/auth/register", h.Register)
	v1.POST("/auth/login", h.Login)
	v1.GET("/auth/me", h.GetMe)
	return r
}

func do(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAnonymousToken(t *testing.T) {
	r := newAuthRouter()

	w := do(r, http.MethodPost, "/api/v1/auth/anonymous", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var env tokenEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Data.Anonymous)
	assert.Nil(t, env.Data.User)

	w = do(r, http.MethodGet, "/api/v1/auth/me", env.Data.AccessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"anonymous"`)
}

func TestRegisterLoginMe(t *testing.T) {
	r := newAuthRouter()
	reg := map[string]string{"username": "meera", "email": "meera@example.com", "password": "secret123"}

	w := do(r, http.MethodPost, "/api/v1/auth/register", "", reg)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(r, http.MethodPost, "/api/v1/auth/register", "", reg)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"code":40902`)

	w = do(r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "meera", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "meera", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)

	var env tokenEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.False(t, env.Data.Anonymous)
	require.NotNil(t, env.Data.User)
	assert.Equal(t, "meera", env.Data.User.Username)

	w = do(r, http.MethodGet, "/api/v1/auth/me", env.Data.AccessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"meera"`)
}

func TestMeWithoutToken(t *testing.T) {
	w := do(newAuthRouter(), http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
