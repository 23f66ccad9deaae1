package workflow

import "time"

// 工作流节点类型
const (
	NodeTypeTrigger   = "trigger"
	NodeTypeAction    = "action"
	NodeTypeCondition = "condition"
	NodeTypeDelay     = "delay"
)

// 执行状态
const (
	ExecutionRunning   = "running"
	ExecutionCompleted = "completed"
	ExecutionFailed    = "failed"
)

// 步骤状态
const (
	StepPending   = "pending"
	StepRunning   = "running"
	StepCompleted = "completed"
	StepFailed    = "failed"
)

// Position 画布坐标，仅用于前端呈现，不影响执行语义
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node 工作流节点
type Node struct {
	ID       string         `json:"id" binding:"required"`
	Type     string         `json:"type" binding:"required,oneof=trigger action condition delay"`
	Label    string         `json:"label" binding:"required"`
	Config   map[string]any `json:"config"`
	Position Position       `json:"position"`
}

// Edge 工作流连线
// label 仅作分支标注（如 Yes/No），引擎当前不按其分支
type Edge struct {
	ID     string `json:"id" binding:"required"`
	Source string `json:"source" binding:"required"`
	Target string `json:"target" binding:"required"`
	Label  string `json:"label,omitempty"`
}

// Workflow 用户编排的自动化工作流
type Workflow struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Nodes       []Node    `json:"nodes" gorm:"serializer:json"`
	Edges       []Edge    `json:"edges" gorm:"serializer:json"`
	UserID      string    `json:"userId,omitempty" gorm:"column:user_id;index"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName 指定表名
func (Workflow) TableName() string {
	return "workflows"
}

// ExecutionStep 单个节点的执行记录
type ExecutionStep struct {
	NodeID      string         `json:"nodeId"`
	Status      string         `json:"status"`
	StartedAt   *time.Time     `json:"startedAt,omitempty"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
	Output      map[string]any `json:"output,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// Execution 一次工作流执行
// 创建时为 running 且所有步骤 pending，步骤全部处理完后整体转为 completed
// 只在创建与完成两个时点落库，不做逐步持久化
type Execution struct {
	ID          string          `json:"id" gorm:"primaryKey"`
	WorkflowID  string          `json:"workflowId" gorm:"column:workflow_id;index"`
	Status      string          `json:"status"`
	StartedAt   time.Time       `json:"startedAt"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
	Steps       []ExecutionStep `json:"steps" gorm:"serializer:json"`
	Error       string          `json:"error,omitempty"`
}

// TableName 指定表名
func (Execution) TableName() string {
	return "workflow_executions"
}
