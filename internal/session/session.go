package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotFound 会话不存在
var ErrNotFound = errors.New("session not found")

// DemoSession 匿名演示会话
// 过期后记录仍保留，由定时清理按保留期删除
type DemoSession struct {
	ID        string         `json:"id" gorm:"primaryKey"`
	UserID    string         `json:"userId,omitempty" gorm:"column:user_id;index"`
	CreatedAt time.Time      `json:"createdAt"`
	ExpiresAt time.Time      `json:"expiresAt" gorm:"index"`
	Metadata  map[string]any `json:"metadata,omitempty" gorm:"serializer:json"`
}

// TableName 指定表名
func (DemoSession) TableName() string {
	return "demo_sessions"
}

// Service 演示会话服务
type Service struct {
	db            *gorm.DB
	duration      time.Duration
	retentionDays int

	now func() time.Time
}

// NewService 创建会话服务
func NewService(db *gorm.DB, duration time.Duration, retentionDays int) *Service {
	return &Service{
		db:            db,
		duration:      duration,
		retentionDays: retentionDays,
		now:           time.Now,
	}
}

// Create 创建新会话
func (s *Service) Create(ctx context.Context, userID string, metadata map[string]any) (*DemoSession, error) {
	now := s.now()
	session := &DemoSession{
		ID:        fmt.Sprintf("session_%d", now.UnixMilli()),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.duration),
		Metadata:  metadata,
	}

	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, fmt.Errorf("保存会话失败: %w", err)
	}

	logger.Info("演示会话已创建",
		zap.String("session_id", session.ID),
		zap.Time("expires_at", session.ExpiresAt),
	)
	return session, nil
}

// Get 按 ID 查询会话，过期会话原样返回，由调用方判定
func (s *Service) Get(ctx context.Context, id string) (*DemoSession, error) {
	var session DemoSession
	if err := s.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("查询会话失败: %w", err)
	}
	return &session, nil
}

// IsExpired 判断会话是否已过期
func (s *Service) IsExpired(session *DemoSession) bool {
	return s.now().After(session.ExpiresAt)
}

// Cleanup 删除超过保留期的会话，按创建时间判定
func (s *Service) Cleanup(ctx context.Context) (int64, error) {
	cutoff := s.now().AddDate(0, 0, -s.retentionDays)

	result := s.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&DemoSession{})
	if result.Error != nil {
		return 0, fmt.Errorf("清理过期会话失败: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		logger.Info("过期会话已清理", zap.Int64("removed", result.RowsAffected))
	}
	return result.RowsAffected, nil
}
