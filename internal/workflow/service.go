package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotFound 工作流不存在
var ErrNotFound = errors.New("workflow not found")

// Service 工作流管理服务
type Service struct {
	db       *gorm.DB
	maxSteps int
}

// NewService 创建工作流服务
func NewService(db *gorm.DB, maxSteps int) *Service {
	return &Service{db: db, maxSteps: maxSteps}
}

// CreateRequest 创建工作流请求
type CreateRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description"`
	Nodes       []Node `json:"nodes" binding:"required,min=1,dive"`
	Edges       []Edge `json:"edges" binding:"dive"`
	UserID      string `json:"-"`
}

// validateNodes 校验节点数量上限
// 连线的 source/target 是否指向存在的节点不在此校验，与历史行为保持一致
func (s *Service) validateNodes(nodes []Node) error {
	if len(nodes) == 0 {
		return errors.New("workflow must contain at least one node")
	}
	if len(nodes) > s.maxSteps {
		return fmt.Errorf("workflow exceeds maximum of %d nodes", s.maxSteps)
	}
	return nil
}

// Create 创建工作流
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Workflow, error) {
	if err := s.validateNodes(req.Nodes); err != nil {
		return nil, err
	}

	now := time.Now()
	wf := &Workflow{
		ID:          "workflow_" + uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Nodes:       req.Nodes,
		Edges:       req.Edges,
		UserID:      req.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if wf.Edges == nil {
		wf.Edges = []Edge{}
	}

	if err := s.db.WithContext(ctx).Create(wf).Error; err != nil {
		return nil, fmt.Errorf("保存工作流失败: %w", err)
	}

	logger.Info("工作流已创建", zap.String("workflow_id", wf.ID))
	return wf, nil
}

// Get 按 ID 查询工作流
func (s *Service) Get(ctx context.Context, id string) (*Workflow, error) {
	var wf Workflow
	if err := s.db.WithContext(ctx).First(&wf, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("查询工作流失败: %w", err)
	}
	return &wf, nil
}

// List 查询工作流列表，userID 非空时按属主过滤
func (s *Service) List(ctx context.Context, userID string, limit int) ([]Workflow, error) {
	if limit <= 0 {
		limit = 50
	}

	query := s.db.WithContext(ctx).Order("updated_at DESC").Limit(limit)
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	var workflows []Workflow
	if err := query.Find(&workflows).Error; err != nil {
		return nil, fmt.Errorf("查询工作流列表失败: %w", err)
	}
	return workflows, nil
}

// Update 整体替换名称、描述、节点与连线
func (s *Service) Update(ctx context.Context, id string, req *CreateRequest) (*Workflow, error) {
	if err := s.validateNodes(req.Nodes); err != nil {
		return nil, err
	}

	wf, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	wf.Name = req.Name
	wf.Description = req.Description
	wf.Nodes = req.Nodes
	wf.Edges = req.Edges
	if wf.Edges == nil {
		wf.Edges = []Edge{}
	}
	wf.UpdatedAt = time.Now()

	if err := s.db.WithContext(ctx).Save(wf).Error; err != nil {
		return nil, fmt.Errorf("保存工作流失败: %w", err)
	}

	logger.Info("工作流已更新", zap.String("workflow_id", id))
	return wf, nil
}

// Delete 删除工作流
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&Workflow{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("删除工作流失败: %w", err)
	}
	logger.Info("工作流已删除", zap.String("workflow_id", id))
	return nil
}
