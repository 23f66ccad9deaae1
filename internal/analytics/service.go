package analytics

import (
	"context"
	"fmt"

	"backend/internal/automation"
	"backend/internal/session"
	"backend/internal/workflow"

	"gorm.io/gorm"
)

// Summary 各核心表的累计计数
type Summary struct {
	Sessions   int64 `json:"sessions"`
	Workflows  int64 `json:"workflows"`
	Executions int64 `json:"executions"`
	APICalls   int64 `json:"apiCalls"`
}

// Service 运营数据统计服务
type Service struct {
	db *gorm.DB
}

// NewService 创建统计服务
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Summarize 统计各核心表的行数
func (s *Service) Summarize(ctx context.Context) (*Summary, error) {
	summary := &Summary{}

	counts := []struct {
		model any
		dest  *int64
	}{
		{&session.DemoSession{}, &summary.Sessions},
		{&workflow.Workflow{}, &summary.Workflows},
		{&workflow.Execution{}, &summary.Executions},
		{&automation.Result{}, &summary.APICalls},
	}

	for _, c := range counts {
		if err := s.db.WithContext(ctx).Model(c.model).Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("统计数据查询失败: %w", err)
		}
		if *c.dest < 0 {
			*c.dest = 0
		}
	}

	return summary, nil
}
