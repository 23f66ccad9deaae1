package tracking

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"backend/internal/logger"
	"backend/internal/tracking"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestRouter(t *testing.T, name string) *gin.Engine {
	t.Helper()
	require.NoError(t, logger.Init("error", "console", "stdout"))
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&tracking.WebsiteEvent{},
		&tracking.Feedback{},
		&tracking.NewsletterSubscriber{},
	))

	h := NewHandler(tracking.NewService(db))

	router := gin.New()
	router.POST("/api/track", h.Track)
	router.POST("/api/feedback", h.SubmitFeedback)
	router.GET("/api/feedback", h.ListFeedback)
	router.POST("/api/newsletter", h.Subscribe)
	router.GET("/api/newsletter/subscribers", h.ListSubscribers)
	router.GET("/api/analytics/summary", h.Summary)
	return router
}

func post(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(resp, req)
	return resp
}

func TestTrackReturns200EvenOnBadInput(t *testing.T) {
	router := newTestRouter(t, "handler_track")

	resp := post(router, "/api/track", `{"event": "page_view", "source_page": "/pricing"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	require.JSONEq(t, `{"success": true, "stored": true}`, resp.Body.String())

	// 缺必填字段也不报 4xx，只标记失败
	resp = post(router, "/api/track", `{"source_page": "/pricing"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	require.JSONEq(t, `{"success": false}`, resp.Body.String())
}

func TestFeedbackRoundTrip(t *testing.T) {
	router := newTestRouter(t, "handler_feedback")

	resp := post(router, "/api/feedback", `{"type": "bug", "message": "demo crashed"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "Feedback received!")

	resp = post(router, "/api/feedback", `{"type": "rant", "message": "x"}`)
	require.Equal(t, http.StatusBadRequest, resp.Code)

	list := httptest.NewRecorder()
	router.ServeHTTP(list, httptest.NewRequest(http.MethodGet, "/api/feedback?status=new", nil))
	require.Equal(t, http.StatusOK, list.Code)

	var body struct {
		Feedback []tracking.Feedback `json:"feedback"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &body))
	require.Len(t, body.Feedback, 1)
	require.Equal(t, "demo crashed", body.Feedback[0].Message)
}

func TestNewsletterSubscribeAndList(t *testing.T) {
	router := newTestRouter(t, "handler_newsletter")

	resp := post(router, "/api/newsletter", `{"email": "jo@example.com", "frequency": "weekly"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "Successfully subscribed!")

	resp = post(router, "/api/newsletter", `{"email": "jo@example.com"}`)
	require.Contains(t, resp.Body.String(), "Already subscribed!")

	resp = post(router, "/api/newsletter", `{"email": "not-an-email"}`)
	require.Equal(t, http.StatusBadRequest, resp.Code)

	list := httptest.NewRecorder()
	router.ServeHTTP(list, httptest.NewRequest(http.MethodGet, "/api/newsletter/subscribers", nil))
	require.Equal(t, http.StatusOK, list.Code)

	var body struct {
		Subscribers []tracking.NewsletterSubscriber `json:"subscribers"`
		Count       int                             `json:"count"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
}

func TestSummaryShape(t *testing.T) {
	router := newTestRouter(t, "handler_summary")

	post(router, "/api/track", `{"event": "page_view", "source_page": "/"}`)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/analytics/summary?days=7", nil))
	require.Equal(t, http.StatusOK, resp.Code)

	var report tracking.SummaryReport
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &report))
	require.Equal(t, 7, report.PeriodDays)
	require.Equal(t, 1, report.TotalEvents)
	require.Equal(t, 1, report.Events["page_view"])
}
