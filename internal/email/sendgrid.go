package email

import (
	"context"
	"fmt"
	"time"

	"backend/internal/automation"
	"backend/internal/budget"
	"backend/internal/config"
	"backend/internal/logger"
	"backend/internal/metrics"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Client SendGrid 邮件客户端
// 每次真实发送前先过每日配额；超限与供应商故障都转成 failed 结果，不向上抛错
type Client struct {
	fromEmail string
	fromName  string
	budget    *budget.SendBudget

	// 发送函数可注入，测试时替换为桩
	send func(msg *mail.SGMailV3) (*rest.Response, error)
}

// NewClient 创建 SendGrid 客户端
func NewClient(cfg config.SendGridConfig, sendBudget *budget.SendBudget) *Client {
	sg := sendgrid.NewSendClient(cfg.APIKey)
	return &Client{
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		budget:    sendBudget,
		send:      sg.Send,
	}
}

// Send 发送一封事务邮件
func (c *Client) Send(ctx context.Context, payload automation.EmailPayload) *automation.Result {
	if err := c.budget.Allow(); err != nil {
		logger.Warn("邮件发送被每日配额拒绝", zap.String("to", payload.To), zap.Error(err))
		return c.failed(fmt.Sprintf("Failed to send email: %s", err.Error()))
	}

	html := payload.HTML
	if html == "" {
		html = "<p>" + payload.Text + "</p>"
	}

	from := mail.NewEmail(c.fromName, c.fromEmail)
	to := mail.NewEmail("", payload.To)
	msg := mail.NewSingleEmail(from, payload.Subject, to, payload.Text, html)

	resp, err := c.send(msg)
	if err == nil && resp != nil && resp.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid 返回状态码 %d", resp.StatusCode)
	}
	if err != nil {
		metrics.EmailSendsTotal.WithLabelValues(automation.StatusFailed).Inc()
		logger.Error("邮件发送失败", zap.String("to", payload.To), zap.Error(err))
		return c.failed(fmt.Sprintf("Failed to send email: %s", err.Error()))
	}

	c.budget.Record()
	usage := c.budget.Snapshot()
	metrics.EmailSendsTotal.WithLabelValues(automation.StatusSuccess).Inc()

	logger.Info("邮件发送成功",
		zap.String("to", payload.To),
		zap.String("subject", payload.Subject),
		zap.Int("count", usage.Sent),
	)

	return &automation.Result{
		ID:             fmt.Sprintf("email_%d", time.Now().UnixMilli()),
		Status:         automation.StatusSuccess,
		DeliveryMethod: "email",
		Timestamp:      time.Now(),
		Details:        fmt.Sprintf("Email sent to %s", payload.To),
		Metadata: map[string]any{
			"subject":    payload.Subject,
			"dailyCount": usage.Sent,
		},
	}
}

// SendTemplate 发送动态模板邮件
func (c *Client) SendTemplate(ctx context.Context, to, templateID string, dynamicData map[string]any) *automation.Result {
	if err := c.budget.Allow(); err != nil {
		logger.Warn("模板邮件发送被每日配额拒绝", zap.String("to", to), zap.Error(err))
		return c.failed(fmt.Sprintf("Failed to send template email: %s", err.Error()))
	}

	msg := mail.NewV3Mail()
	msg.SetFrom(mail.NewEmail(c.fromName, c.fromEmail))
	msg.SetTemplateID(templateID)

	personalization := mail.NewPersonalization()
	personalization.AddTos(mail.NewEmail("", to))
	for key, value := range dynamicData {
		personalization.SetDynamicTemplateData(key, value)
	}
	msg.AddPersonalizations(personalization)

	resp, err := c.send(msg)
	if err == nil && resp != nil && resp.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid 返回状态码 %d", resp.StatusCode)
	}
	if err != nil {
		metrics.EmailSendsTotal.WithLabelValues(automation.StatusFailed).Inc()
		logger.Error("模板邮件发送失败", zap.String("to", to), zap.Error(err))
		return c.failed(fmt.Sprintf("Failed to send template email: %s", err.Error()))
	}

	c.budget.Record()
	usage := c.budget.Snapshot()
	metrics.EmailSendsTotal.WithLabelValues(automation.StatusSuccess).Inc()

	logger.Info("模板邮件发送成功",
		zap.String("to", to),
		zap.String("template_id", templateID),
		zap.Int("count", usage.Sent),
	)

	return &automation.Result{
		ID:             fmt.Sprintf("email_%d", time.Now().UnixMilli()),
		Status:         automation.StatusSuccess,
		DeliveryMethod: "email",
		Timestamp:      time.Now(),
		Details:        fmt.Sprintf("Template email sent to %s", to),
		Metadata: map[string]any{
			"templateId": templateID,
			"dailyCount": usage.Sent,
		},
	}
}

// Usage 当前每日发送量快照
func (c *Client) Usage() budget.SendUsage {
	return c.budget.Snapshot()
}

// failed 构造 failed 结果
func (c *Client) failed(details string) *automation.Result {
	return &automation.Result{
		ID:             fmt.Sprintf("email_%d", time.Now().UnixMilli()),
		Status:         automation.StatusFailed,
		DeliveryMethod: "email",
		Timestamp:      time.Now(),
		Details:        details,
	}
}
