package simulation

import (
	"fmt"
	"math"
	"strings"
)

// Result 模拟结果
// 所有渠道返回同一形状，便于调度器统一处理；previewLimit 截断只影响展示，不改动原始载荷
type Result struct {
	Simulated        bool           `json:"simulated"`
	Action           string         `json:"action"`
	Recipient        string         `json:"recipient"`
	Preview          string         `json:"preview"`
	WouldHappen      string         `json:"wouldHappen"`
	TechnicalDetails map[string]any `json:"technicalDetails"`
}

const previewLimit = 100

// truncatePreview 预览截断，超出 100 字符追加省略号
func truncatePreview(message string) string {
	if runes := []rune(message); len(runes) > previewLimit {
		return string(runes[:previewLimit]) + "..."
	}
	return message
}

// SMS 短信发送模拟
func SMS(phoneNumber, message string) *Result {
	return &Result{
		Simulated:   true,
		Action:      "SMS",
		Recipient:   phoneNumber,
		Preview:     truncatePreview(message),
		WouldHappen: fmt.Sprintf("In production, %s would receive this SMS message via Twilio.", phoneNumber),
		TechnicalDetails: map[string]any{
			"service":        "Twilio",
			"endpoint":       "POST /2010-04-01/Accounts/{AccountSid}/Messages.json",
			"cost":           "$0.0079 per message",
			"deliveryTime":   "2-5 seconds",
			"characterCount": len(message),
			"segmentCount":   int(math.Ceil(float64(len(message)) / 160)),
		},
	}
}

// PhoneCall 语音呼叫模拟
// 时长按 ~150 词/分钟估算
func PhoneCall(phoneNumber, script string) *Result {
	wordCount := len(strings.Fields(script))
	estimatedDuration := int(math.Ceil(float64(wordCount) / 2.5))

	return &Result{
		Simulated:   true,
		Action:      "Phone Call",
		Recipient:   phoneNumber,
		Preview:     fmt.Sprintf("Call to %s - Duration: ~%d seconds", phoneNumber, estimatedDuration),
		WouldHappen: fmt.Sprintf("In production, %s would receive an automated phone call with text-to-speech.", phoneNumber),
		TechnicalDetails: map[string]any{
			"service":           "Twilio Voice",
			"endpoint":          "POST /2010-04-01/Accounts/{AccountSid}/Calls.json",
			"cost":              fmt.Sprintf("$0.013 per minute (~$%.3f)", float64(estimatedDuration)/60*0.013),
			"estimatedDuration": fmt.Sprintf("%d seconds", estimatedDuration),
			"voice":             "Polly.Joanna (Neural)",
			"script":            truncateAt(script, 200),
		},
	}
}

// Webhook HTTP 回调模拟
// 重试与超时策略仅作说明，不会真正执行
func Webhook(url string, payload map[string]any, method string) *Result {
	if method == "" {
		method = "POST"
	}

	return &Result{
		Simulated:   true,
		Action:      "Webhook",
		Recipient:   url,
		Preview:     fmt.Sprintf("%s request to %s", method, url),
		WouldHappen: fmt.Sprintf("In production, a %s request would be sent to %s with the provided payload.", method, url),
		TechnicalDetails: map[string]any{
			"method": method,
			"url":    url,
			"headers": map[string]string{
				"Content-Type":           "application/json",
				"User-Agent":             "DemoPortal-Automation/1.0",
				"X-DemoPortal-Signature": "hmac-sha256-signature-would-be-here",
			},
			"payload": payload,
			"timeout": "30 seconds",
			"retries": 3,
		},
	}
}

// SlackMessage Slack 消息模拟
func SlackMessage(channel, message string) *Result {
	preview := truncateAt(message, previewLimit)

	return &Result{
		Simulated:   true,
		Action:      "Slack Message",
		Recipient:   channel,
		Preview:     preview,
		WouldHappen: fmt.Sprintf("In production, this message would be posted to %s via Slack Web API.", channel),
		TechnicalDetails: map[string]any{
			"service":  "Slack Web API",
			"endpoint": "POST /api/chat.postMessage",
			"channel":  channel,
			"message":  message,
			"features": []string{"Markdown formatting", "Mentions", "Attachments", "Threading"},
			"cost":     "Free (Slack API)",
		},
	}
}

// crmPlatformDetails 各 CRM 平台的接口形态
var crmPlatformDetails = map[string]map[string]string{
	"salesforce": {
		"endpoint":   "PATCH /services/data/v58.0/sobjects/{Object}/{Id}",
		"authMethod": "OAuth 2.0",
	},
	"hubspot": {
		"endpoint":   "PATCH /crm/v3/objects/{objectType}/{objectId}",
		"authMethod": "API Key",
	},
}

// CRMUpdate CRM 记录更新模拟，platform 为 salesforce 或 hubspot
func CRMUpdate(platform string, record map[string]any) *Result {
	details, ok := crmPlatformDetails[platform]
	if !ok {
		platform = "salesforce"
		details = crmPlatformDetails[platform]
	}

	recordType := "record"
	if t, ok := record["type"].(string); ok && t != "" {
		recordType = t
	}
	recordID := "New"
	if id, ok := record["id"].(string); ok && id != "" {
		recordID = id
	}

	return &Result{
		Simulated:   true,
		Action:      "CRM Update",
		Recipient:   capitalize(platform) + " CRM",
		Preview:     fmt.Sprintf("Update %s: %s", recordType, recordID),
		WouldHappen: fmt.Sprintf("In production, this would update/create a record in %s.", platform),
		TechnicalDetails: map[string]any{
			"platform":   platform,
			"endpoint":   details["endpoint"],
			"authMethod": details["authMethod"],
			"record":     record,
			"cost":       "Included in CRM subscription",
		},
	}
}

// SequenceEmail 邮件序列中的一封邮件，Delay 为相对首封的毫秒数
type SequenceEmail struct {
	Delay   int64  `json:"delay"`
	Subject string `json:"subject"`
	To      string `json:"to"`
}

// EmailSequence 邮件滴灌序列模拟
func EmailSequence(emails []SequenceEmail) *Result {
	var totalDuration int64
	for _, e := range emails {
		totalDuration += e.Delay
	}
	totalDays := int(math.Ceil(float64(totalDuration) / 86400000))

	schedule := make([]map[string]any, 0, len(emails))
	for i, e := range emails {
		schedule = append(schedule, map[string]any{
			"step":    i + 1,
			"subject": e.Subject,
			"delay":   fmt.Sprintf("%d days", int(math.Ceil(float64(e.Delay)/86400000))),
			"to":      e.To,
		})
	}

	return &Result{
		Simulated:   true,
		Action:      "Email Sequence",
		Recipient:   fmt.Sprintf("%d email(s)", len(emails)),
		Preview:     fmt.Sprintf("%d-email drip campaign over %d days", len(emails), totalDays),
		WouldHappen: fmt.Sprintf("In production, this would send %d emails on a schedule.", len(emails)),
		TechnicalDetails: map[string]any{
			"service":       "SendGrid Marketing Campaigns",
			"emailCount":    len(emails),
			"totalDuration": fmt.Sprintf("%d days", totalDays),
			"schedule":      schedule,
			"cost":          "$0 (within free tier)",
		},
	}
}

// truncateAt 按字符数截断，多字节字符不被截半
func truncateAt(s string, n int) string {
	if runes := []rune(s); len(runes) > n {
		return string(runes[:n])
	}
	return s
}

// capitalize 首字母大写
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
