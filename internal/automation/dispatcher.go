package automation

import (
	"context"
	"errors"
	"time"

	"backend/internal/logger"
	"backend/internal/metrics"
	"backend/internal/simulation"

	"go.uber.org/zap"
)

// ErrUnsupportedMethod 不支持的投递渠道
var ErrUnsupportedMethod = errors.New("unsupported delivery method")

// Dispatcher 自动化调度器
// 按渠道优先级路由到真实集成或模拟器，并把携带 ID 的结果交给写后队列异步持久化
type Dispatcher struct {
	email    EmailSender
	calendar CalendarClient
	store    ResultStore
}

// NewDispatcher 创建调度器
func NewDispatcher(email EmailSender, calendar CalendarClient, store ResultStore) *Dispatcher {
	return &Dispatcher{
		email:    email,
		calendar: calendar,
		store:    store,
	}
}

// Execute 执行一次自动化请求
// 路由优先级（先命中先执行）：
//  1. email 且非模拟 → 真实发送
//  2. calendar 且非模拟且携带令牌 → 真实建立日历事件
//  3. sms / call / webhook / slack / crm → 无论 simulate 与否一律模拟
//  4. calendar 无令牌 → 固定的缺授权说明载荷
//  5. 其余（含 email 带 simulate）→ 不支持的渠道错误
//
// 集成方故障不向上抛错，转成 failed 结果返回
func (d *Dispatcher) Execute(ctx context.Context, req *Request) (*Result, error) {
	logger.Info("收到自动化请求",
		zap.String("service", req.Service),
		zap.String("method", req.DeliveryMethod),
		zap.Bool("simulate", req.Simulate),
	)

	var result *Result

	switch {
	case req.DeliveryMethod == "email" && !req.Simulate:
		result = d.email.Send(ctx, EmailPayload{
			To:      req.Recipient,
			Subject: payloadString(req.Payload, "subject", "DemoPortal Demo"),
			Text:    payloadString(req.Payload, "message", ""),
			HTML:    payloadString(req.Payload, "html", ""),
		})

	case req.DeliveryMethod == "calendar" && !req.Simulate && req.AccessToken != "":
		result = d.calendar.CreateEvent(ctx, req.AccessToken, CalendarEventPayload{
			Summary:     payloadString(req.Payload, "summary", ""),
			Description: payloadString(req.Payload, "description", ""),
			StartTime:   payloadTime(req.Payload, "startTime"),
			EndTime:     payloadTime(req.Payload, "endTime"),
			Attendees:   payloadAttendees(req.Payload, req.Recipient),
			Location:    payloadString(req.Payload, "location", ""),
		})

	case req.DeliveryMethod == "sms":
		result = simulated("sms", simulation.SMS(req.Recipient, payloadString(req.Payload, "message", "")))

	case req.DeliveryMethod == "call":
		result = simulated("call", simulation.PhoneCall(req.Recipient, payloadString(req.Payload, "script", "")))

	case req.DeliveryMethod == "webhook":
		result = simulated("webhook", simulation.Webhook(req.Recipient, req.Payload, payloadString(req.Payload, "method", "POST")))

	case req.DeliveryMethod == "slack":
		result = simulated("slack", simulation.SlackMessage(req.Recipient, payloadString(req.Payload, "message", "")))

	case req.DeliveryMethod == "crm":
		result = simulated("crm", simulation.CRMUpdate(
			payloadString(req.Payload, "platform", "salesforce"),
			payloadRecord(req.Payload),
		))

	case req.DeliveryMethod == "calendar":
		// 无令牌时返回固定的缺授权说明，与通用模拟器区分
		result = simulated("calendar", &simulation.Result{
			Simulated:   true,
			Action:      "Calendar Invite",
			Recipient:   req.Recipient,
			Preview:     "Calendar event: " + payloadString(req.Payload, "summary", ""),
			WouldHappen: "In production, this would create a Google Calendar event and send invites.",
			TechnicalDetails: map[string]any{
				"service":      "Google Calendar API",
				"requiresAuth": true,
				"summary":      req.Payload["summary"],
				"startTime":    req.Payload["startTime"],
				"endTime":      req.Payload["endTime"],
			},
		})

	default:
		metrics.AutomationsTotal.WithLabelValues(req.DeliveryMethod, StatusFailed).Inc()
		return nil, ErrUnsupportedMethod
	}

	metrics.AutomationsTotal.WithLabelValues(req.DeliveryMethod, result.Status).Inc()

	// 仅持久化携带 ID 的真实结果，入队即返回
	if result.ID != "" && d.store != nil {
		d.store.Enqueue(result)
	}

	return result, nil
}

// simulated 把模拟器输出包装成归一化结果，ID 留空以跳过持久化
func simulated(method string, sim *simulation.Result) *Result {
	return &Result{
		Status:         StatusSimulated,
		DeliveryMethod: method,
		Timestamp:      time.Now(),
		Result:         sim,
	}
}

// payloadString 从载荷中取字符串字段
func payloadString(payload map[string]any, key, fallback string) string {
	if v, ok := payload[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// payloadTime 从载荷中解析 RFC3339 时间，解析失败返回零值并由集成方报错
func payloadTime(payload map[string]any, key string) time.Time {
	raw, ok := payload[key].(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

// payloadAttendees 从载荷中取与会人列表，缺省为收件人本人
func payloadAttendees(payload map[string]any, recipient string) []string {
	raw, ok := payload["attendees"].([]any)
	if !ok || len(raw) == 0 {
		return []string{recipient}
	}
	attendees := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			attendees = append(attendees, s)
		}
	}
	if len(attendees) == 0 {
		return []string{recipient}
	}
	return attendees
}

// payloadRecord 从载荷中取 CRM 记录
func payloadRecord(payload map[string]any) map[string]any {
	if record, ok := payload["record"].(map[string]any); ok {
		return record
	}
	return map[string]any{}
}
