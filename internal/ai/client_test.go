package ai

import (
	"context"
	"errors"
	"testing"

	"backend/internal/budget"
	"backend/internal/config"
	"backend/internal/logger"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, monthlyUSD float64,
	complete func(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error),
) *Client {
	t.Helper()
	require.NoError(t, logger.Init("error", "console", "stdout"))

	c := NewClient(config.OpenAIConfig{APIKey: "test-key", Model: "gpt-4o-mini"}, budget.NewTokenBudget(monthlyUSD))
	if complete != nil {
		c.complete = complete
	}
	return c
}

func completionWith(content string, tokens int) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
		},
		Usage: openai.Usage{TotalTokens: tokens},
	}
}

func TestChatRecordsUsageAndSuggestions(t *testing.T) {
	c := newTestClient(t, 10, func(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		require.Equal(t, 500, req.MaxTokens)
		require.Len(t, req.Messages, 2)
		return completionWith("You could build a workflow for that.", 42), nil
	})

	resp := c.Chat(context.Background(), &ChatRequest{Message: "help me automate lead routing"})

	require.Equal(t, "You could build a workflow for that.", resp.Message)
	require.NotEmpty(t, resp.ConversationID)
	require.Equal(t, []string{"Create Workflow", "Show Example", "Explain More"}, resp.Suggestions)
	require.Equal(t, int64(42), c.Usage().MonthlyTokens)
}

func TestChatSuggestionsWithoutWorkflowKeyword(t *testing.T) {
	c := newTestClient(t, 10, func(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		return completionWith("Our platform connects your tools.", 10), nil
	})

	resp := c.Chat(context.Background(), &ChatRequest{Message: "what is this"})
	require.Equal(t, []string{"Tell Me More", "Show Demo", "Create Automation"}, resp.Suggestions)
}

func TestChatDegradesOnExhaustedBudget(t *testing.T) {
	called := false
	c := newTestClient(t, 10, func(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		called = true
		return completionWith("should not happen", 1), nil
	})
	c.budget.Record(1 << 40) // 远超任何预算

	resp := c.Chat(context.Background(), &ChatRequest{Message: "hello", ConversationID: "conv-1"})

	require.Contains(t, resp.Message, "monthly usage limit")
	require.Equal(t, "conv-1", resp.ConversationID)
	require.Equal(t, []string{"Contact Sales", "View Pre-built Workflows", "Schedule Demo"}, resp.Suggestions)

	// 预算不足时不得外呼
	require.False(t, called)
}

func TestChatProviderErrorReturnsCannedResponse(t *testing.T) {
	c := newTestClient(t, 10, func(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		return openai.ChatCompletionResponse{}, errors.New("rate limited")
	})

	resp := c.Chat(context.Background(), &ChatRequest{Message: "hello"})
	require.Contains(t, resp.Message, "I encountered an error")
	require.Equal(t, []string{"Try Again", "Contact Support"}, resp.Suggestions)
}

func TestGenerateWorkflowExtractsJSONFromMarkdown(t *testing.T) {
	c := newTestClient(t, 10, func(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		require.Equal(t, 800, req.MaxTokens)
		return completionWith("Here you go:\n```json\n{\"name\":\"Lead Flow\",\"nodes\":[]}\n```", 20), nil
	})

	wf := c.GenerateWorkflow(context.Background(), "route new leads to sales")
	require.NotNil(t, wf)
	require.Equal(t, "Lead Flow", wf["name"])
}

func TestGenerateWorkflowNilOnGarbage(t *testing.T) {
	c := newTestClient(t, 10, func(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		return completionWith("sorry, no JSON here", 5), nil
	})

	require.Nil(t, c.GenerateWorkflow(context.Background(), "something vague"))
}
