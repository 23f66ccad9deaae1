package email

import (
	"context"
	"errors"
	"testing"

	"backend/internal/automation"
	"backend/internal/budget"
	"backend/internal/config"
	"backend/internal/logger"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, dailyCap int, send func(msg *mail.SGMailV3) (*rest.Response, error)) *Client {
	t.Helper()
	require.NoError(t, logger.Init("error", "console", "stdout"))

	c := NewClient(config.SendGridConfig{
		APIKey:    "test-key",
		FromEmail: "demo@example.com",
		FromName:  "DemoPortal",
	}, budget.NewSendBudget(dailyCap))
	c.send = send
	return c
}

func TestSendSuccess(t *testing.T) {
	var sent *mail.SGMailV3
	c := newTestClient(t, 50, func(msg *mail.SGMailV3) (*rest.Response, error) {
		sent = msg
		return &rest.Response{StatusCode: 202}, nil
	})

	result := c.Send(context.Background(), automation.EmailPayload{
		To:      "user@example.com",
		Subject: "Hello",
		Text:    "body",
	})

	require.Equal(t, automation.StatusSuccess, result.Status)
	require.Equal(t, "email", result.DeliveryMethod)
	require.Contains(t, result.ID, "email_")
	require.Equal(t, "Email sent to user@example.com", result.Details)
	require.Equal(t, 1, result.Metadata["dailyCount"])
	require.NotNil(t, sent)

	// 无 HTML 时用纯文本包一层段落
	require.Len(t, sent.Content, 2)
	require.Equal(t, "<p>body</p>", sent.Content[1].Value)
}

func TestSendProviderFailureReturnsFailedResult(t *testing.T) {
	c := newTestClient(t, 50, func(msg *mail.SGMailV3) (*rest.Response, error) {
		return nil, errors.New("connection refused")
	})

	result := c.Send(context.Background(), automation.EmailPayload{To: "user@example.com"})

	require.Equal(t, automation.StatusFailed, result.Status)
	require.Contains(t, result.Details, "Failed to send email")
	require.Contains(t, result.Details, "connection refused")

	// 失败的发送不占用配额
	require.Equal(t, 0, c.Usage().Sent)
}

func TestSendDailyCapExceeded(t *testing.T) {
	calls := 0
	c := newTestClient(t, 1, func(msg *mail.SGMailV3) (*rest.Response, error) {
		calls++
		return &rest.Response{StatusCode: 202}, nil
	})

	first := c.Send(context.Background(), automation.EmailPayload{To: "a@example.com"})
	require.Equal(t, automation.StatusSuccess, first.Status)

	second := c.Send(context.Background(), automation.EmailPayload{To: "b@example.com"})
	require.Equal(t, automation.StatusFailed, second.Status)
	require.Contains(t, second.Details, "Daily email limit (1) reached")

	// 超限时不得外呼供应商
	require.Equal(t, 1, calls)
}

func TestSendTemplate(t *testing.T) {
	var sent *mail.SGMailV3
	c := newTestClient(t, 50, func(msg *mail.SGMailV3) (*rest.Response, error) {
		sent = msg
		return &rest.Response{StatusCode: 202}, nil
	})

	result := c.SendTemplate(context.Background(), "user@example.com", "d-123", map[string]any{"name": "Demo"})

	require.Equal(t, automation.StatusSuccess, result.Status)
	require.Equal(t, "d-123", result.Metadata["templateId"])
	require.Equal(t, "d-123", sent.TemplateID)
}
