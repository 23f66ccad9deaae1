package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"backend/internal/automation"
	"backend/internal/config"
	"backend/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcalendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Client Google Calendar 客户端
// OAuth 授权码流程由门户代持，访问令牌由前端临时保管并随请求传入
type Client struct {
	oauth *oauth2.Config
}

// NewClient 创建 Google Calendar 客户端
func NewClient(cfg config.GoogleConfig) *Client {
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       []string{gcalendar.CalendarEventsScope},
			Endpoint:     google.Endpoint,
		},
	}
}

// AuthURL 生成 OAuth 授权地址
func (c *Client) AuthURL() string {
	return c.oauth.AuthCodeURL("",
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// ExchangeCode 用授权码换取令牌
func (c *Client) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		logger.Error("授权码换取令牌失败", zap.Error(err))
		return nil, errors.New("Failed to authenticate with Google Calendar")
	}
	return token, nil
}

// CreateEvent 创建日历事件并发送邀请
func (c *Client) CreateEvent(ctx context.Context, accessToken string, payload automation.CalendarEventPayload) *automation.Result {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})

	svc, err := gcalendar.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return c.failed(fmt.Sprintf("Failed to create calendar event: %s", err.Error()))
	}

	attendees := make([]*gcalendar.EventAttendee, 0, len(payload.Attendees))
	for _, email := range payload.Attendees {
		attendees = append(attendees, &gcalendar.EventAttendee{Email: email})
	}

	event := &gcalendar.Event{
		Summary:     payload.Summary,
		Description: payload.Description,
		Location:    payload.Location,
		Start: &gcalendar.EventDateTime{
			DateTime: payload.StartTime.Format(time.RFC3339),
			TimeZone: "America/New_York",
		},
		End: &gcalendar.EventDateTime{
			DateTime: payload.EndTime.Format(time.RFC3339),
			TimeZone: "America/New_York",
		},
		Attendees: attendees,
		ConferenceData: &gcalendar.ConferenceData{
			CreateRequest: &gcalendar.CreateConferenceRequest{
				RequestId: fmt.Sprintf("demo-portal-%d", time.Now().UnixMilli()),
				ConferenceSolutionKey: &gcalendar.ConferenceSolutionKey{
					Type: "hangoutsMeet",
				},
			},
		},
		Reminders: &gcalendar.EventReminders{
			UseDefault:      false,
			ForceSendFields: []string{"UseDefault"},
			Overrides: []*gcalendar.EventReminder{
				{Method: "email", Minutes: 24 * 60},
				{Method: "popup", Minutes: 30},
			},
		},
	}

	created, err := svc.Events.Insert("primary", event).
		ConferenceDataVersion(1).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err != nil {
		logger.Error("日历事件创建失败",
			zap.String("summary", payload.Summary),
			zap.Error(err),
		)
		return c.failed(fmt.Sprintf("Failed to create calendar event: %s", err.Error()))
	}

	logger.Info("日历事件已创建",
		zap.String("event_id", created.Id),
		zap.String("summary", payload.Summary),
		zap.Int("attendees", len(payload.Attendees)),
	)

	return &automation.Result{
		ID:             fmt.Sprintf("calendar_%d", time.Now().UnixMilli()),
		Status:         automation.StatusSuccess,
		DeliveryMethod: "calendar",
		Timestamp:      time.Now(),
		Details:        fmt.Sprintf("Calendar invite sent to %d attendee(s)", len(payload.Attendees)),
		Metadata: map[string]any{
			"eventId":     created.Id,
			"htmlLink":    created.HtmlLink,
			"hangoutLink": created.HangoutLink,
		},
	}
}

// RevokeToken 吊销访问令牌，失败只记日志
func (c *Client) RevokeToken(ctx context.Context, accessToken string) {
	form := url.Values{"token": {accessToken}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://oauth2.googleapis.com/revoke", nil)
	if err != nil {
		logger.Error("令牌吊销请求构造失败", zap.Error(err))
		return
	}
	req.URL.RawQuery = form.Encode()

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		logger.Error("令牌吊销失败", zap.Error(err))
		return
	}
	defer resp.Body.Close()

	logger.Info("日历令牌已吊销")
}

// failed 构造 failed 结果
func (c *Client) failed(details string) *automation.Result {
	return &automation.Result{
		ID:             fmt.Sprintf("calendar_%d", time.Now().UnixMilli()),
		Status:         automation.StatusFailed,
		DeliveryMethod: "calendar",
		Timestamp:      time.Now(),
		Details:        details,
	}
}
