package tracking

import "time"

// 反馈处理状态
const (
	FeedbackStatusNew = "new"
)

// 订阅状态
const (
	SubscriberActive       = "active"
	SubscriberUnsubscribed = "unsubscribed"
)

// WebsiteEvent 站点行为事件
type WebsiteEvent struct {
	ID            uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	EventType     string         `json:"event_type" gorm:"column:event_type;index"`
	SourcePage    string         `json:"source_page" gorm:"column:source_page"`
	SourceSection string         `json:"source_section,omitempty" gorm:"column:source_section"`
	Referrer      string         `json:"referrer,omitempty"`
	UTMSource     string         `json:"utm_source,omitempty" gorm:"column:utm_source"`
	UTMMedium     string         `json:"utm_medium,omitempty" gorm:"column:utm_medium"`
	UTMCampaign   string         `json:"utm_campaign,omitempty" gorm:"column:utm_campaign"`
	UTMTerm       string         `json:"utm_term,omitempty" gorm:"column:utm_term"`
	UTMContent    string         `json:"utm_content,omitempty" gorm:"column:utm_content"`
	Metadata      map[string]any `json:"metadata,omitempty" gorm:"serializer:json"`
	UserAgent     string         `json:"user_agent,omitempty" gorm:"column:user_agent"`
	IPHash        string         `json:"ip_hash,omitempty" gorm:"column:ip_hash"`
	CreatedAt     time.Time      `json:"created_at" gorm:"column:created_at;index"`
}

// TableName 指定表名
func (WebsiteEvent) TableName() string {
	return "website_events"
}

// Feedback 用户反馈
type Feedback struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Type       string    `json:"type"`
	Message    string    `json:"message"`
	Email      string    `json:"email,omitempty"`
	SourcePage string    `json:"source_page" gorm:"column:source_page"`
	UserAgent  string    `json:"user_agent,omitempty" gorm:"column:user_agent"`
	Status     string    `json:"status" gorm:"index"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at"`
}

// TableName 指定表名
func (Feedback) TableName() string {
	return "website_feedback"
}

// NewsletterSubscriber 订阅记录，email 唯一，退订后可重新激活
type NewsletterSubscriber struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Email        string    `json:"email" gorm:"uniqueIndex"`
	Frequency    string    `json:"frequency"`
	SourcePage   string    `json:"source_page" gorm:"column:source_page"`
	Referrer     string    `json:"referrer,omitempty"`
	Status       string    `json:"status" gorm:"index"`
	SubscribedAt time.Time `json:"subscribed_at" gorm:"column:subscribed_at"`
}

// TableName 指定表名
func (NewsletterSubscriber) TableName() string {
	return "newsletter_subscribers"
}

// UTMParams 来源归因参数
type UTMParams struct {
	Source   string `json:"utm_source"`
	Medium   string `json:"utm_medium"`
	Campaign string `json:"utm_campaign"`
	Term     string `json:"utm_term"`
	Content  string `json:"utm_content"`
}

// TrackEventRequest 事件上报请求
type TrackEventRequest struct {
	Event         string         `json:"event" binding:"required"`
	SourcePage    string         `json:"source_page" binding:"required"`
	SourceSection string         `json:"source_section"`
	Referrer      string         `json:"referrer"`
	UTM           *UTMParams     `json:"utm"`
	Metadata      map[string]any `json:"metadata"`
	Timestamp     string         `json:"timestamp"`
	UserAgent     string         `json:"user_agent"`
}

// FeedbackRequest 反馈提交请求
type FeedbackRequest struct {
	Type       string `json:"type" binding:"required,oneof=bug suggestion question other"`
	Message    string `json:"message" binding:"required,min=1"`
	Email      string `json:"email" binding:"omitempty,email"`
	SourcePage string `json:"source_page"`
	UserAgent  string `json:"user_agent"`
}

// SubscribeRequest 订阅请求
type SubscribeRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Frequency  string `json:"frequency" binding:"omitempty,oneof=weekly monthly"`
	SourcePage string `json:"source_page"`
	Referrer   string `json:"referrer"`
	UserAgent  string `json:"userAgent"`
}

// PageCount 来源页访问计数
type PageCount struct {
	Page  string `json:"page"`
	Count int    `json:"count"`
}

// SummaryReport 统计摘要
type SummaryReport struct {
	PeriodDays        int            `json:"period_days"`
	Events            map[string]int `json:"events"`
	TotalEvents       int            `json:"total_events"`
	ActiveSubscribers int64          `json:"active_subscribers"`
	PendingFeedback   int64          `json:"pending_feedback"`
	TopSourcePages    []PageCount    `json:"top_source_pages"`
}
