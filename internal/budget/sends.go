package budget

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrDailyLimitReached 每日发送上限已用尽
var ErrDailyLimitReached = errors.New("daily email limit reached")

// SendBudget 邮件每日发送配额
// 日期键为本地日期字符串，跨日后先清零再检查；与聊天预算不同，超限时显式报错而非静默降级
type SendBudget struct {
	mu       sync.Mutex
	dailyCap int
	sent     int
	dayKey   string
	now      func() time.Time
}

// NewSendBudget 创建每日发送配额
func NewSendBudget(dailyCap int) *SendBudget {
	b := &SendBudget{
		dailyCap: dailyCap,
		now:      time.Now,
	}
	b.dayKey = b.currentDay()
	return b
}

// currentDay 当前日期键
func (b *SendBudget) currentDay() string {
	return b.now().Format("2006-01-02")
}

// resetIfNewDay 跨日清零，调用方需持有锁
func (b *SendBudget) resetIfNewDay() {
	if today := b.currentDay(); today != b.dayKey {
		b.sent = 0
		b.dayKey = today
	}
}

// Allow 检查是否允许一次真实发送，超限返回 ErrDailyLimitReached
func (b *SendBudget) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.resetIfNewDay()
	if b.sent >= b.dailyCap {
		return fmt.Errorf("Daily email limit (%d) reached: %w", b.dailyCap, ErrDailyLimitReached)
	}
	return nil
}

// Record 记录一次成功发送
func (b *SendBudget) Record() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.resetIfNewDay()
	b.sent++
}

// SendUsage 当前发送量快照
type SendUsage struct {
	Sent      int    `json:"sent"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
	ResetDate string `json:"resetDate"`
}

// Snapshot 返回当前发送量快照
func (b *SendBudget) Snapshot() SendUsage {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.resetIfNewDay()
	return SendUsage{
		Sent:      b.sent,
		Limit:     b.dailyCap,
		Remaining: b.dailyCap - b.sent,
		ResetDate: b.dayKey,
	}
}
