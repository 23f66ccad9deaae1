package simulation

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestSMSSegmentsAndTruncation(t *testing.T) {
	message := strings.Repeat("a", 250)
	result := SMS("+15551234567", message)

	require.True(t, result.Simulated)
	require.Equal(t, "SMS", result.Action)

	// 预览为前 100 字符加省略号
	require.Equal(t, message[:100]+"...", result.Preview)
	require.Len(t, result.Preview, 103)

	// 分段数 ceil(250/160) = 2，原始长度不受截断影响
	require.Equal(t, 2, result.TechnicalDetails["segmentCount"])
	require.Equal(t, 250, result.TechnicalDetails["characterCount"])
}

func TestSMSShortMessageNoEllipsis(t *testing.T) {
	result := SMS("+15551234567", "hello")
	if result.Preview != "hello" {
		t.Fatalf("短消息不应截断: %q", result.Preview)
	}
	require.Equal(t, 1, result.TechnicalDetails["segmentCount"])
}

func TestTruncationKeepsMultibyteRunesIntact(t *testing.T) {
	message := strings.Repeat("预", 150)

	sms := SMS("+8613800138000", message)
	require.True(t, utf8.ValidString(sms.Preview))
	require.Equal(t, strings.Repeat("预", 100)+"...", sms.Preview)

	slack := SlackMessage("#general", message)
	require.True(t, utf8.ValidString(slack.Preview))
	require.Equal(t, 100, utf8.RuneCountInString(slack.Preview))
}

func TestPhoneCallDuration(t *testing.T) {
	// 10 个词 → ceil(10/2.5) = 4 秒
	script := "one two three four five six seven eight nine ten"
	result := PhoneCall("+15551234567", script)

	require.Equal(t, "4 seconds", result.TechnicalDetails["estimatedDuration"])
	require.Contains(t, result.Preview, "~4 seconds")
	require.Equal(t, "$0.013 per minute (~$0.001)", result.TechnicalDetails["cost"])
}

func TestWebhookDefaultsToPost(t *testing.T) {
	payload := map[string]any{"key": "value"}
	result := Webhook("https://example.com/hook", payload, "")

	require.Equal(t, "POST request to https://example.com/hook", result.Preview)
	require.Equal(t, 3, result.TechnicalDetails["retries"])
	require.Equal(t, "30 seconds", result.TechnicalDetails["timeout"])

	headers, ok := result.TechnicalDetails["headers"].(map[string]string)
	require.True(t, ok)
	require.Equal(t, "application/json", headers["Content-Type"])
}

func TestSlackPreviewHardCut(t *testing.T) {
	message := strings.Repeat("b", 150)
	result := SlackMessage("#general", message)

	// Slack 预览为硬截断，不加省略号
	require.Len(t, result.Preview, 100)
	require.Equal(t, message, result.TechnicalDetails["message"])
}

func TestCRMPlatformShapes(t *testing.T) {
	record := map[string]any{"id": "003XX", "type": "Contact"}

	sf := CRMUpdate("salesforce", record)
	require.Equal(t, "Salesforce CRM", sf.Recipient)
	require.Equal(t, "PATCH /services/data/v58.0/sobjects/{Object}/{Id}", sf.TechnicalDetails["endpoint"])
	require.Equal(t, "OAuth 2.0", sf.TechnicalDetails["authMethod"])
	require.Equal(t, "Update Contact: 003XX", sf.Preview)

	hs := CRMUpdate("hubspot", map[string]any{})
	require.Equal(t, "PATCH /crm/v3/objects/{objectType}/{objectId}", hs.TechnicalDetails["endpoint"])
	require.Equal(t, "API Key", hs.TechnicalDetails["authMethod"])
	require.Equal(t, "Update record: New", hs.Preview)
}

func TestEmailSequenceSchedule(t *testing.T) {
	day := int64(86400000)
	result := EmailSequence([]SequenceEmail{
		{Delay: 0, Subject: "Welcome", To: "a@example.com"},
		{Delay: 2 * day, Subject: "Tips", To: "a@example.com"},
		{Delay: 3 * day, Subject: "Upgrade", To: "a@example.com"},
	})

	require.Equal(t, "3 email(s)", result.Recipient)
	require.Equal(t, "3-email drip campaign over 5 days", result.Preview)
	require.Equal(t, 3, result.TechnicalDetails["emailCount"])

	schedule, ok := result.TechnicalDetails["schedule"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, schedule, 3)
	require.Equal(t, "2 days", schedule[1]["delay"])
}
