package dashboard

import (
	"net/http"
	"time"

	response "backend/api/handlers/common"
	"backend/internal/ai"
	"backend/internal/analytics"
	"backend/internal/email"

	"github.com/gin-gonic/gin"
)

// Metric 仪表盘指标卡
// change 为演示用的静态环比数字，不从历史数据计算
type Metric struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	Value      int64   `json:"value"`
	Change     float64 `json:"change"`
	ChangeType string  `json:"changeType"`
	Format     string  `json:"format"`
}

// Dataset 图表数据序列
type Dataset struct {
	Label           string `json:"label"`
	Data            []int  `json:"data"`
	BackgroundColor any    `json:"backgroundColor,omitempty"`
	BorderColor     string `json:"borderColor,omitempty"`
}

// ChartData 单张图表数据
type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Activity 动态信息流条目
type Activity struct {
	ID          int    `json:"id"`
	Type        string `json:"type"`
	Action      string `json:"action"`
	User        string `json:"user"`
	Description string `json:"description"`
	Timestamp   string `json:"timestamp"`
}

// Handler 仪表盘 Handler
type Handler struct {
	analytics *analytics.Service
	email     *email.Client
	ai        *ai.Client
}

// NewHandler 创建 Handler 实例
func NewHandler(analyticsService *analytics.Service, emailClient *email.Client, aiClient *ai.Client) *Handler {
	return &Handler{analytics: analyticsService, email: emailClient, ai: aiClient}
}

// Metrics 指标卡、邮件配额与 AI 用量
func (h *Handler) Metrics(c *gin.Context) {
	summary, err := h.analytics.Summarize(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Fail("Failed to fetch dashboard metrics"))
		return
	}

	metrics := []Metric{
		{ID: "sessions", Label: "Demo Sessions", Value: summary.Sessions, Change: 12.5, ChangeType: "increase", Format: "number"},
		{ID: "workflows", Label: "Workflows Created", Value: summary.Workflows, Change: 8.3, ChangeType: "increase", Format: "number"},
		{ID: "executions", Label: "Workflow Executions", Value: summary.Executions, Change: 15.7, ChangeType: "increase", Format: "number"},
		{ID: "automations", Label: "Automations Run", Value: summary.APICalls, Change: 23.1, ChangeType: "increase", Format: "number"},
	}

	c.JSON(http.StatusOK, response.OK(gin.H{
		"metrics":    metrics,
		"emailStats": h.email.Usage(),
		"aiStats":    h.ai.Usage(),
	}))
}

// Charts 最近七天的演示图表数据，静态样例
func (h *Handler) Charts(c *gin.Context) {
	days := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

	c.JSON(http.StatusOK, response.OK(gin.H{
		"revenue": ChartData{
			Labels: days,
			Datasets: []Dataset{{
				Label:           "Revenue",
				Data:            []int{12500, 15300, 18200, 14800, 21000, 19500, 23400},
				BackgroundColor: "rgba(59, 130, 246, 0.5)",
				BorderColor:     "rgb(59, 130, 246)",
			}},
		},
		"customers": ChartData{
			Labels: days,
			Datasets: []Dataset{{
				Label:           "New Customers",
				Data:            []int{8, 12, 15, 10, 18, 14, 20},
				BackgroundColor: "rgba(34, 197, 94, 0.5)",
				BorderColor:     "rgb(34, 197, 94)",
			}},
		},
		"automations": ChartData{
			Labels: days,
			Datasets: []Dataset{{
				Label:           "Automations",
				Data:            []int{45, 52, 61, 58, 73, 68, 82},
				BackgroundColor: "rgba(168, 85, 247, 0.5)",
				BorderColor:     "rgb(168, 85, 247)",
			}},
		},
		"categories": ChartData{
			Labels: []string{"CRM", "Marketing", "Support", "Operations"},
			Datasets: []Dataset{{
				Label: "Usage by Category",
				Data:  []int{35, 28, 22, 15},
				BackgroundColor: []string{
					"rgba(59, 130, 246, 0.8)",
					"rgba(34, 197, 94, 0.8)",
					"rgba(251, 146, 60, 0.8)",
					"rgba(168, 85, 247, 0.8)",
				},
			}},
		},
	}))
}

// ActivityFeed 动态信息流，静态样例
func (h *Handler) ActivityFeed(c *gin.Context) {
	now := time.Now()
	activities := []Activity{
		{ID: 1, Type: "workflow", Action: "created", User: "Demo User", Description: `Created workflow "Lead to CRM"`, Timestamp: now.Add(-5 * time.Minute).Format(time.RFC3339)},
		{ID: 2, Type: "automation", Action: "executed", User: "Demo User", Description: "Sent email notification", Timestamp: now.Add(-15 * time.Minute).Format(time.RFC3339)},
		{ID: 3, Type: "workflow", Action: "executed", User: "Demo User", Description: `Executed "Support Ticket Automation"`, Timestamp: now.Add(-30 * time.Minute).Format(time.RFC3339)},
		{ID: 4, Type: "chat", Action: "conversation", User: "Demo User", Description: "Started conversation with Navi", Timestamp: now.Add(-45 * time.Minute).Format(time.RFC3339)},
		{ID: 5, Type: "automation", Action: "simulated", User: "Demo User", Description: "Simulated SMS notification", Timestamp: now.Add(-60 * time.Minute).Format(time.RFC3339)},
	}

	c.JSON(http.StatusOK, response.OK(activities))
}
