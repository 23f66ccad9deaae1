package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// API 指标
var (
	// APIRequestsTotal API 请求总数
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "demoportal_api_requests_total",
			Help: "API 请求总数",
		},
		[]string{"method", "path", "status"},
	)

	// APIRequestDuration API 请求延迟（秒）
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "demoportal_api_request_duration_seconds",
			Help:    "API 请求延迟分布",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// 业务指标
var (
	// AutomationsTotal 自动化执行总数
	AutomationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "demoportal_automations_total",
			Help: "自动化执行总数",
		},
		[]string{"delivery_method", "status"},
	)

	// WorkflowExecutionsTotal 工作流执行总数
	WorkflowExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "demoportal_workflow_executions_total",
			Help: "工作流执行总数",
		},
		[]string{"status"},
	)

	// WorkflowExecutionDuration 工作流执行耗时（秒）
	WorkflowExecutionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "demoportal_workflow_execution_duration_seconds",
			Help:    "工作流执行耗时分布",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	// ChatRequestsTotal 聊天请求总数
	ChatRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "demoportal_chat_requests_total",
			Help: "聊天请求总数",
		},
		[]string{"outcome"}, // completed, degraded, error
	)

	// ChatTokensTotal 聊天消耗 token 总数
	ChatTokensTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "demoportal_chat_tokens_total",
			Help: "聊天消耗 token 总数",
		},
	)

	// EmailSendsTotal 真实邮件发送总数
	EmailSendsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "demoportal_email_sends_total",
			Help: "真实邮件发送总数",
		},
		[]string{"status"},
	)

	// ResultQueueDropsTotal 结果写后队列溢出丢弃数
	ResultQueueDropsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "demoportal_result_queue_drops_total",
			Help: "结果写后队列溢出丢弃数",
		},
	)
)
