package calendar

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"backend/internal/calendar"
	"backend/internal/config"
	"backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	require.NoError(t, logger.Init("error", "console", "stdout"))
	gin.SetMode(gin.TestMode)

	client := calendar.NewClient(config.GoogleConfig{
		ClientID:    "client-id",
		RedirectURI: "http://localhost:3001/api/calendar/callback",
	})
	return NewHandler(client)
}

func get(h gin.HandlerFunc, path string) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(resp)
	c.Request = httptest.NewRequest(http.MethodGet, path, nil)
	h(c)
	return resp
}

func TestAuthURLPointsToGoogle(t *testing.T) {
	h := newTestHandler(t)

	resp := get(h.AuthURL, "/api/calendar/auth-url")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "accounts.google.com")
	require.Contains(t, resp.Body.String(), "access_type=offline")
}

func TestCallbackWithoutCodeReturns400(t *testing.T) {
	h := newTestHandler(t)

	resp := get(h.Callback, "/api/calendar/callback")
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Contains(t, resp.Body.String(), "Authorization code missing")
}

func TestRevokeWithoutTokenReturns400(t *testing.T) {
	h := newTestHandler(t)

	resp := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(resp)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/calendar/revoke", nil)
	h.Revoke(c)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Contains(t, resp.Body.String(), "Token missing")
}
