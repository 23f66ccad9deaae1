package workflow

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"backend/internal/logger"
	"backend/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Engine 工作流执行引擎
// 按 workflow.nodes 的数组顺序线性推进，不按 edges 做拓扑遍历或分支；
// condition 与 delay 节点在执行期与其他节点同等对待。
// 执行一经开始不可中止，客户端断连不影响执行循环走完。
type Engine struct {
	db *gorm.DB

	// 单节点模拟延迟，可注入以便测试
	delay func() time.Duration
}

// NewEngine 创建执行引擎
func NewEngine(db *gorm.DB) *Engine {
	return &Engine{
		db: db,
		delay: func() time.Duration {
			return time.Duration(500+rand.Intn(1000)) * time.Millisecond
		},
	}
}

// Execute 执行一次工作流
// 执行记录先以 running 状态落库，全部步骤处理完后以 completed 覆盖写回；
// 找不到对应节点的步骤保持原状跳过，不标记失败。
func (e *Engine) Execute(ctx context.Context, wf *Workflow) (*Execution, error) {
	steps := make([]ExecutionStep, 0, len(wf.Nodes))
	for _, node := range wf.Nodes {
		steps = append(steps, ExecutionStep{
			NodeID: node.ID,
			Status: StepPending,
		})
	}

	execution := &Execution{
		ID:         "exec_" + uuid.NewString(),
		WorkflowID: wf.ID,
		Status:     ExecutionRunning,
		StartedAt:  time.Now(),
		Steps:      steps,
	}

	if err := e.db.WithContext(ctx).Create(execution).Error; err != nil {
		metrics.WorkflowExecutionsTotal.WithLabelValues(ExecutionFailed).Inc()
		return nil, fmt.Errorf("保存执行记录失败: %w", err)
	}

	nodesByID := make(map[string]*Node, len(wf.Nodes))
	for i := range wf.Nodes {
		nodesByID[wf.Nodes[i].ID] = &wf.Nodes[i]
	}

	for i := range execution.Steps {
		step := &execution.Steps[i]

		node, ok := nodesByID[step.NodeID]
		if !ok {
			continue
		}

		now := time.Now()
		step.Status = StepRunning
		step.StartedAt = &now

		time.Sleep(e.delay())

		done := time.Now()
		step.Status = StepCompleted
		step.CompletedAt = &done
		step.Output = map[string]any{
			"nodeType":  node.Type,
			"label":     node.Label,
			"simulated": true,
			"result":    fmt.Sprintf("%s executed successfully", node.Label),
		}
	}

	completed := time.Now()
	execution.Status = ExecutionCompleted
	execution.CompletedAt = &completed

	// 完成写回失败只记日志，执行结果照常返回
	err := e.db.Model(&Execution{}).
		Where("id = ?", execution.ID).
		Updates(map[string]any{
			"status":       execution.Status,
			"completed_at": execution.CompletedAt,
			"steps":        execution.Steps,
		}).Error
	if err != nil {
		logger.Error("更新执行记录失败",
			zap.String("execution_id", execution.ID),
			zap.Error(err),
		)
	}

	metrics.WorkflowExecutionsTotal.WithLabelValues(ExecutionCompleted).Inc()
	metrics.WorkflowExecutionDuration.Observe(completed.Sub(execution.StartedAt).Seconds())

	logger.Info("工作流执行完成",
		zap.String("execution_id", execution.ID),
		zap.String("workflow_id", wf.ID),
		zap.Int("steps", len(execution.Steps)),
	)

	return execution, nil
}
