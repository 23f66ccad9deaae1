package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"backend/internal/budget"
	"backend/internal/config"
	"backend/internal/logger"
	"backend/internal/metrics"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// systemPrompt 助手人设与能力边界
const systemPrompt = `You are Navi, an AI assistant for the DemoPortal automation platform demo.

Your role:
- Help users understand automation possibilities
- Guide them through creating workflows
- Suggest practical automation scenarios
- Explain how integrations work

When users describe what they want to automate:
1. Ask clarifying questions if needed
2. Suggest a workflow structure
3. Explain the benefits
4. Offer to create a visual workflow

Be friendly, concise, and focus on practical business value.

Available integrations: Email, SMS, Calendar, CRM (Salesforce, HubSpot), Support (Zendesk, Intercom), Marketing (Mailchimp, ActiveCampaign), Webhooks.

Available triggers: Webhook, Schedule, Email received, Form submission, Database change.
Available actions: Send email, Send SMS, Create task, Update CRM, Post to Slack, API call.
Available conditions: If/then logic, Data validation, Date/time checks.`

// jsonObjectPattern 从回复中提取 JSON 对象（可能被 markdown 代码块包裹）
var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// ChatRequest 聊天请求
type ChatRequest struct {
	Message        string `json:"message" binding:"required,min=1,max=1000"`
	Context        string `json:"context" binding:"omitempty,oneof=workflow automation general"`
	ConversationID string `json:"conversationId"`
}

// ChatResponse 聊天响应
type ChatResponse struct {
	Message        string   `json:"message"`
	ConversationID string   `json:"conversationId"`
	Suggestions    []string `json:"suggestions"`
}

// Client OpenAI 聊天客户端
// 每次外呼前先过月度 token 预算；预算耗尽或供应商故障时降级为固定应答（仍是 200 响应）
type Client struct {
	api    *openai.Client
	model  string
	budget *budget.TokenBudget

	// 补全函数可注入，测试时替换为桩
	complete func(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewClient 创建 OpenAI 客户端
func NewClient(cfg config.OpenAIConfig, tokenBudget *budget.TokenBudget) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	api := openai.NewClientWithConfig(apiCfg)

	return &Client{
		api:      api,
		model:    cfg.Model,
		budget:   tokenBudget,
		complete: api.CreateChatCompletion,
	}
}

// Chat 聊天补全，预算受限时降级，不返回错误
func (c *Client) Chat(ctx context.Context, req *ChatRequest) *ChatResponse {
	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: req.Message},
	}

	estimated := budget.EstimateTokens(systemPrompt + " " + req.Message)
	if !c.budget.HasBudget(estimated) {
		metrics.ChatRequestsTotal.WithLabelValues("degraded").Inc()
		logger.Warn("聊天预算耗尽，返回降级应答",
			zap.String("conversation_id", conversationID),
		)
		return &ChatResponse{
			Message:        "I'm currently at my monthly usage limit. Please try again next month, or contact us for immediate assistance.",
			ConversationID: conversationID,
			Suggestions:    []string{"Contact Sales", "View Pre-built Workflows", "Schedule Demo"},
		}
	}

	completion, err := c.complete(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   500,
		Temperature: 0.7,
	})
	if err != nil {
		metrics.ChatRequestsTotal.WithLabelValues("error").Inc()
		logger.Error("聊天补全失败", zap.Error(err))
		return &ChatResponse{
			Message:        "I apologize, but I encountered an error. Please try again or contact support if the issue persists.",
			ConversationID: conversationID,
			Suggestions:    []string{"Try Again", "Contact Support"},
		}
	}

	c.budget.Record(completion.Usage.TotalTokens)
	metrics.ChatTokensTotal.Add(float64(completion.Usage.TotalTokens))

	response := "I apologize, but I encountered an issue. Please try again."
	if len(completion.Choices) > 0 && completion.Choices[0].Message.Content != "" {
		response = completion.Choices[0].Message.Content
	}

	metrics.ChatRequestsTotal.WithLabelValues("completed").Inc()
	logger.Info("聊天补全完成",
		zap.String("conversation_id", conversationID),
		zap.Int("tokens", completion.Usage.TotalTokens),
		zap.String("context", req.Context),
	)

	return &ChatResponse{
		Message:        response,
		ConversationID: conversationID,
		Suggestions:    suggestionsFor(response),
	}
}

// suggestionsFor 根据应答内容给出下一步建议
func suggestionsFor(response string) []string {
	lower := strings.ToLower(response)
	if strings.Contains(lower, "workflow") || strings.Contains(lower, "automate") {
		return []string{"Create Workflow", "Show Example", "Explain More"}
	}
	return []string{"Tell Me More", "Show Demo", "Create Automation"}
}

// GenerateWorkflow 让模型从自然语言描述生成工作流 JSON
// 生成失败返回 nil（调用方按 400 处理），不向上抛错
func (c *Client) GenerateWorkflow(ctx context.Context, description string) map[string]any {
	prompt := fmt.Sprintf(`Based on this automation request, generate a workflow JSON structure:

"%s"

Return a JSON object with:
- name: Workflow name
- description: Brief description
- nodes: Array of {id, type, label, config, position}
- edges: Array of {id, source, target}

Types: trigger, action, condition, delay
Keep it simple (3-6 nodes).`, description)

	completion, err := c.complete(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   800,
		Temperature: 0.5,
	})
	if err != nil {
		logger.Error("工作流生成失败", zap.Error(err))
		return nil
	}

	c.budget.Record(completion.Usage.TotalTokens)

	if len(completion.Choices) == 0 {
		return nil
	}
	raw := jsonObjectPattern.FindString(completion.Choices[0].Message.Content)
	if raw == "" {
		return nil
	}

	var workflow map[string]any
	if err := json.Unmarshal([]byte(raw), &workflow); err != nil {
		logger.Error("工作流 JSON 解析失败", zap.Error(err))
		return nil
	}

	logger.Info("工作流已生成", zap.String("description", description))
	return workflow
}

// Usage 当前月度用量快照
func (c *Client) Usage() budget.TokenUsage {
	return c.budget.Snapshot()
}
