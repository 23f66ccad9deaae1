package tracking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"backend/internal/logger"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestService(t *testing.T, name string) *Service {
	t.Helper()
	require.NoError(t, logger.Init("error", "console", "stdout"))

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&WebsiteEvent{}, &Feedback{}, &NewsletterSubscriber{}))
	return NewService(db)
}

func TestHashIP(t *testing.T) {
	// 32 位滚动哈希，负值带负号的十六进制
	require.Equal(t, "0", HashIP(""))
	require.Equal(t, HashIP("192.168.1.1"), HashIP("192.168.1.1"))
	require.NotEqual(t, HashIP("192.168.1.1"), HashIP("192.168.1.2"))

	if got := HashIP("abc"); got != "17862" {
		t.Fatalf("HashIP(\"abc\") = %q, want 17862", got)
	}
}

func TestTrackEventStoresUTMAndHash(t *testing.T) {
	svc := newTestService(t, "tracking_event")

	err := svc.TrackEvent(context.Background(), &TrackEventRequest{
		Event:      "page_view",
		SourcePage: "/pricing",
		UTM:        &UTMParams{Source: "newsletter", Campaign: "launch"},
		Metadata:   map[string]any{"plan": "pro"},
	}, "10.0.0.1")
	require.NoError(t, err)

	var stored WebsiteEvent
	require.NoError(t, svc.db.First(&stored).Error)
	require.Equal(t, "page_view", stored.EventType)
	require.Equal(t, "newsletter", stored.UTMSource)
	require.Equal(t, "launch", stored.UTMCampaign)
	require.Equal(t, HashIP("10.0.0.1"), stored.IPHash)
	require.Equal(t, "pro", stored.Metadata["plan"])
}

func TestTrackEventHonorsClientTimestamp(t *testing.T) {
	svc := newTestService(t, "tracking_ts")

	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	err := svc.TrackEvent(context.Background(), &TrackEventRequest{
		Event:      "cta_click",
		SourcePage: "/",
		Timestamp:  ts.Format(time.RFC3339),
	}, "")
	require.NoError(t, err)

	var stored WebsiteEvent
	require.NoError(t, svc.db.First(&stored).Error)
	require.True(t, stored.CreatedAt.Equal(ts))
	require.Empty(t, stored.IPHash)
}

func TestFeedbackDefaultsAndListing(t *testing.T) {
	svc := newTestService(t, "tracking_feedback")

	require.NoError(t, svc.SubmitFeedback(context.Background(), &FeedbackRequest{
		Type:    "bug",
		Message: "the demo crashed",
	}))
	require.NoError(t, svc.SubmitFeedback(context.Background(), &FeedbackRequest{
		Type:       "suggestion",
		Message:    "add dark mode",
		SourcePage: "/features",
	}))

	all, err := svc.ListFeedback(context.Background(), "", 0)
	require.NoError(t, err)
	require.Len(t, all, 2)

	bugs, err := svc.ListFeedback(context.Background(), FeedbackStatusNew, 0)
	require.NoError(t, err)
	require.Len(t, bugs, 2)
	require.Equal(t, "/", bugs[1].SourcePage)
	require.Equal(t, FeedbackStatusNew, bugs[0].Status)
}

func TestSubscribeLifecycle(t *testing.T) {
	svc := newTestService(t, "tracking_subscribe")

	msg, err := svc.Subscribe(context.Background(), &SubscribeRequest{
		Email:      "jo@example.com",
		SourcePage: "/blog",
	})
	require.NoError(t, err)
	require.Equal(t, "Successfully subscribed!", msg)

	// 新订阅会附带一条 signup 事件，metadata 只含邮箱域名
	var event WebsiteEvent
	require.NoError(t, svc.db.First(&event, "event_type = ?", "newsletter_signup").Error)
	require.Equal(t, "example.com", event.Metadata["email_domain"])
	require.Equal(t, "monthly", event.Metadata["frequency"])

	msg, err = svc.Subscribe(context.Background(), &SubscribeRequest{Email: "jo@example.com"})
	require.NoError(t, err)
	require.Equal(t, "Already subscribed!", msg)

	require.NoError(t, svc.db.Model(&NewsletterSubscriber{}).
		Where("email = ?", "jo@example.com").
		Update("status", SubscriberUnsubscribed).Error)

	msg, err = svc.Subscribe(context.Background(), &SubscribeRequest{
		Email:     "jo@example.com",
		Frequency: "weekly",
	})
	require.NoError(t, err)
	require.Equal(t, "Subscription reactivated!", msg)

	subscribers, err := svc.ListSubscribers(context.Background(), "", 0)
	require.NoError(t, err)
	require.Len(t, subscribers, 1)
	require.Equal(t, "weekly", subscribers[0].Frequency)
}

func TestSummarize(t *testing.T) {
	svc := newTestService(t, "tracking_summary")

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.TrackEvent(context.Background(), &TrackEventRequest{
			Event:      "page_view",
			SourcePage: "/pricing",
		}, ""))
	}
	require.NoError(t, svc.TrackEvent(context.Background(), &TrackEventRequest{
		Event:      "cta_click",
		SourcePage: "/",
	}, ""))

	// 窗口外的事件不计入
	old := &WebsiteEvent{EventType: "page_view", SourcePage: "/legacy", CreatedAt: time.Now().AddDate(0, 0, -40)}
	require.NoError(t, svc.db.Create(old).Error)

	_, err := svc.Subscribe(context.Background(), &SubscribeRequest{Email: "sam@example.com"})
	require.NoError(t, err)
	require.NoError(t, svc.SubmitFeedback(context.Background(), &FeedbackRequest{Type: "question", Message: "pricing?"}))

	report, err := svc.Summarize(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, 30, report.PeriodDays)
	require.Equal(t, 3, report.Events["page_view"])
	require.Equal(t, 1, report.Events["cta_click"])
	require.Equal(t, 1, report.Events["newsletter_signup"])
	require.Equal(t, 5, report.TotalEvents)
	require.Equal(t, int64(1), report.ActiveSubscribers)
	require.Equal(t, int64(1), report.PendingFeedback)

	require.Equal(t, "/pricing", report.TopSourcePages[0].Page)
	require.Equal(t, 3, report.TopSourcePages[0].Count)
}
