package tracking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"backend/internal/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HashIP 把 IP 映射为短哈希，只存哈希不存原值
// 32 位滚动哈希的十六进制形式，负值带负号
func HashIP(ip string) string {
	var hash int32
	for _, char := range ip {
		hash = (hash << 5) - hash + int32(char)
	}
	return strconv.FormatInt(int64(hash), 16)
}

// Service 站点行为统计服务
type Service struct {
	db *gorm.DB

	now func() time.Time
}

// NewService 创建统计服务
func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// TrackEvent 记录一条站点事件，ip 为空时不写 ip_hash
func (s *Service) TrackEvent(ctx context.Context, req *TrackEventRequest, ip string) error {
	event := &WebsiteEvent{
		EventType:     req.Event,
		SourcePage:    req.SourcePage,
		SourceSection: req.SourceSection,
		Referrer:      req.Referrer,
		Metadata:      req.Metadata,
		UserAgent:     req.UserAgent,
		CreatedAt:     s.now(),
	}
	if event.Metadata == nil {
		event.Metadata = map[string]any{}
	}
	if req.UTM != nil {
		event.UTMSource = req.UTM.Source
		event.UTMMedium = req.UTM.Medium
		event.UTMCampaign = req.UTM.Campaign
		event.UTMTerm = req.UTM.Term
		event.UTMContent = req.UTM.Content
	}
	if ip != "" {
		event.IPHash = HashIP(ip)
	}
	if req.Timestamp != "" {
		if ts, err := time.Parse(time.RFC3339, req.Timestamp); err == nil {
			event.CreatedAt = ts
		}
	}

	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("保存站点事件失败: %w", err)
	}

	logger.Debug("站点事件已记录",
		zap.String("event", req.Event),
		zap.String("source", req.SourcePage),
	)
	return nil
}

// SubmitFeedback 保存一条用户反馈，初始状态为 new
func (s *Service) SubmitFeedback(ctx context.Context, req *FeedbackRequest) error {
	sourcePage := req.SourcePage
	if sourcePage == "" {
		sourcePage = "/"
	}

	feedback := &Feedback{
		Type:       req.Type,
		Message:    req.Message,
		Email:      req.Email,
		SourcePage: sourcePage,
		UserAgent:  req.UserAgent,
		Status:     FeedbackStatusNew,
		CreatedAt:  s.now(),
	}

	if err := s.db.WithContext(ctx).Create(feedback).Error; err != nil {
		return fmt.Errorf("保存反馈失败: %w", err)
	}

	logger.Info("收到用户反馈",
		zap.String("type", req.Type),
		zap.String("source", sourcePage),
	)
	return nil
}

// ListFeedback 查询反馈列表，status 非空时过滤
func (s *Service) ListFeedback(ctx context.Context, status string, limit int) ([]Feedback, error) {
	if limit <= 0 {
		limit = 50
	}

	query := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var feedback []Feedback
	if err := query.Find(&feedback).Error; err != nil {
		return nil, fmt.Errorf("查询反馈失败: %w", err)
	}
	return feedback, nil
}

// Subscribe 订阅邮件通讯
// 已激活订阅直接确认；退订过的重新激活；新订阅附带记录一条 signup 事件
func (s *Service) Subscribe(ctx context.Context, req *SubscribeRequest) (string, error) {
	frequency := req.Frequency
	if frequency == "" {
		frequency = "monthly"
	}
	sourcePage := req.SourcePage
	if sourcePage == "" {
		sourcePage = "/"
	}

	var existing NewsletterSubscriber
	err := s.db.WithContext(ctx).First(&existing, "email = ?", req.Email).Error
	switch {
	case err == nil:
		if existing.Status == SubscriberActive {
			return "Already subscribed!", nil
		}

		updates := map[string]any{
			"status":        SubscriberActive,
			"frequency":     frequency,
			"subscribed_at": s.now(),
		}
		if err := s.db.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
			return "", fmt.Errorf("恢复订阅失败: %w", err)
		}

		logger.Info("订阅已重新激活", zap.String("email", req.Email))
		return "Subscription reactivated!", nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		subscriber := &NewsletterSubscriber{
			Email:        req.Email,
			Frequency:    frequency,
			SourcePage:   sourcePage,
			Referrer:     req.Referrer,
			Status:       SubscriberActive,
			SubscribedAt: s.now(),
		}
		if err := s.db.WithContext(ctx).Create(subscriber).Error; err != nil {
			// 订阅落库失败不影响用户侧确认
			logger.Error("保存订阅失败", zap.Error(err))
			return "Subscribed!", nil
		}

		// 同步记一条注册事件，只留邮箱域名
		signup := &WebsiteEvent{
			EventType:  "newsletter_signup",
			SourcePage: sourcePage,
			Referrer:   req.Referrer,
			Metadata: map[string]any{
				"email_domain": emailDomain(req.Email),
				"frequency":    frequency,
			},
			CreatedAt: s.now(),
		}
		if err := s.db.WithContext(ctx).Create(signup).Error; err != nil {
			logger.Warn("记录订阅事件失败", zap.Error(err))
		}

		logger.Info("新增订阅",
			zap.String("email", req.Email),
			zap.String("source", sourcePage),
		)
		return "Successfully subscribed!", nil

	default:
		return "", fmt.Errorf("查询订阅失败: %w", err)
	}
}

// ListSubscribers 查询订阅列表，默认只看激活中的
func (s *Service) ListSubscribers(ctx context.Context, status string, limit int) ([]NewsletterSubscriber, error) {
	if status == "" {
		status = SubscriberActive
	}
	if limit <= 0 {
		limit = 100
	}

	var subscribers []NewsletterSubscriber
	err := s.db.WithContext(ctx).
		Where("status = ?", status).
		Order("subscribed_at DESC").
		Limit(limit).
		Find(&subscribers).Error
	if err != nil {
		return nil, fmt.Errorf("查询订阅列表失败: %w", err)
	}
	return subscribers, nil
}

// Summarize 汇总最近 days 天的事件分布与订阅、反馈计数
func (s *Service) Summarize(ctx context.Context, days int) (*SummaryReport, error) {
	if days <= 0 {
		days = 30
	}
	cutoff := s.now().AddDate(0, 0, -days)

	var events []WebsiteEvent
	err := s.db.WithContext(ctx).
		Select("event_type", "source_page").
		Where("created_at >= ?", cutoff).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("查询站点事件失败: %w", err)
	}

	report := &SummaryReport{
		PeriodDays:  days,
		Events:      map[string]int{},
		TotalEvents: len(events),
	}

	pageCounts := map[string]int{}
	for _, event := range events {
		report.Events[event.EventType]++
		pageCounts[event.SourcePage]++
	}

	report.TopSourcePages = topPages(pageCounts, 10)

	err = s.db.WithContext(ctx).Model(&NewsletterSubscriber{}).
		Where("status = ?", SubscriberActive).
		Count(&report.ActiveSubscribers).Error
	if err != nil {
		return nil, fmt.Errorf("统计订阅数失败: %w", err)
	}

	err = s.db.WithContext(ctx).Model(&Feedback{}).
		Where("status = ?", FeedbackStatusNew).
		Count(&report.PendingFeedback).Error
	if err != nil {
		return nil, fmt.Errorf("统计待处理反馈失败: %w", err)
	}

	return report, nil
}

func topPages(counts map[string]int, limit int) []PageCount {
	pages := make([]PageCount, 0, len(counts))
	for page, count := range counts {
		pages = append(pages, PageCount{Page: page, Count: count})
	}
	sort.Slice(pages, func(i, j int) bool {
		if pages[i].Count != pages[j].Count {
			return pages[i].Count > pages[j].Count
		}
		return pages[i].Page < pages[j].Page
	})
	if len(pages) > limit {
		pages = pages[:limit]
	}
	return pages
}

func emailDomain(email string) string {
	if i := strings.IndexByte(email, '@'); i >= 0 {
		return email[i+1:]
	}
	return ""
}
