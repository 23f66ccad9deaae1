package automation

import (
	"context"
	"time"

	"backend/internal/simulation"
)

// 自动化结果状态
const (
	StatusSuccess   = "success"
	StatusFailed    = "failed"
	StatusSimulated = "simulated"
)

// Request 自动化执行请求
type Request struct {
	Service        string         `json:"service" binding:"required"`
	DeliveryMethod string         `json:"deliveryMethod" binding:"required,oneof=email sms call calendar webhook slack crm"`
	Recipient      string         `json:"recipient" binding:"required"`
	Payload        map[string]any `json:"payload" binding:"required"`
	Simulate       bool           `json:"simulate"`
	AccessToken    string         `json:"accessToken"`
}

// Result 自动化结果，调度器把各渠道的异构返回归一成这一个形状
// 真实渠道（email、calendar）带渠道前缀 ID 并持久化；模拟渠道 ID 为空、仅内联模拟字段，不落库
// 创建后不可变
type Result struct {
	ID             string         `json:"id,omitempty" gorm:"primaryKey"`
	Status         string         `json:"status"`
	DeliveryMethod string         `json:"deliveryMethod" gorm:"column:delivery_method"`
	Timestamp      time.Time      `json:"timestamp"`
	Details        string         `json:"details,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty" gorm:"serializer:json"`

	*simulation.Result `gorm:"-"`
}

// TableName 指定表名
func (Result) TableName() string {
	return "automation_results"
}

// EmailPayload 邮件发送载荷
type EmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html,omitempty"`
}

// CalendarEventPayload 日历事件载荷
type CalendarEventPayload struct {
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Attendees   []string  `json:"attendees"`
	Location    string    `json:"location,omitempty"`
}

// EmailSender 邮件发送方
// 发送失败不返回 error，失败信息内嵌在 failed 结果中
type EmailSender interface {
	Send(ctx context.Context, payload EmailPayload) *Result
}

// CalendarClient 日历事件创建方
type CalendarClient interface {
	CreateEvent(ctx context.Context, accessToken string, payload CalendarEventPayload) *Result
}

// ResultStore 结果持久化队列
// 入队不阻塞、不失败：持久化异常只记日志，永不影响调用方响应
type ResultStore interface {
	Enqueue(result *Result)
}
