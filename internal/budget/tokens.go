package budget

import (
	"math"
	"sync"
	"time"

	"github.com/pkoukk/tiktoken-go"
)

// GPT-4o-mini 定价：输入 $0.150 / 1M token，输出 $0.600 / 1M token
// 按 50/50 均摊折算约 $0.375 / 1M token
const blendedPricePerMillionUSD = 0.375

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
)

// loadEncoding 懒加载 cl100k_base 编码表，失败时保持为 nil 并退回长度启发式
func loadEncoding() *tiktoken.Tiktoken {
	encodingOnce.Do(func() {
		if enc, err := tiktoken.GetEncoding("cl100k_base"); err == nil {
			encoding = enc
		}
	})
	return encoding
}

// EstimateTokens 估算文本的 token 数
// 估算路径不允许失败：编码表不可用时按每 4 字符 1 token 粗估
func EstimateTokens(text string) int {
	if enc := loadEncoding(); enc != nil {
		return len(enc.Encode(text, nil, nil))
	}
	return int(math.Ceil(float64(len(text)) / 4))
}

// TokenBudget 聊天月度 token 预算
// 周期键为 YYYY-MM，跨月后先清零再记账；进程重启即清零（演示级护栏，非计费口径）
type TokenBudget struct {
	mu         sync.Mutex
	monthlyUSD float64
	used       int64
	periodKey  string
	now        func() time.Time
}

// NewTokenBudget 创建月度 token 预算
func NewTokenBudget(monthlyUSD float64) *TokenBudget {
	b := &TokenBudget{
		monthlyUSD: monthlyUSD,
		now:        time.Now,
	}
	b.periodKey = b.currentPeriod()
	return b
}

// currentPeriod 当前周期键（YYYY-MM）
func (b *TokenBudget) currentPeriod() string {
	return b.now().Format("2006-01")
}

// limitTokens 月度 token 上限（$10 预算约 2660 万 token）
func (b *TokenBudget) limitTokens() int64 {
	return int64(b.monthlyUSD / blendedPricePerMillionUSD * 1_000_000)
}

// resetIfNewPeriod 跨月清零，调用方需持有锁
func (b *TokenBudget) resetIfNewPeriod() {
	if current := b.currentPeriod(); current != b.periodKey {
		b.used = 0
		b.periodKey = current
	}
}

// HasBudget 检查预算是否允许一次预估消耗
// 必须在发起付费调用之前检查；不足时调用方降级为固定应答，不得外呼
func (b *TokenBudget) HasBudget(estimatedTokens int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.resetIfNewPeriod()
	return b.used+int64(estimatedTokens) < b.limitTokens()
}

// Record 记录一次实际消耗
func (b *TokenBudget) Record(tokens int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.resetIfNewPeriod()
	b.used += int64(tokens)
}

// TokenUsage 当前用量快照
type TokenUsage struct {
	MonthlyTokens int64   `json:"monthlyTokens"`
	MonthlyBudget float64 `json:"monthlyBudget"`
	ResetDate     string  `json:"resetDate"`
}

// Snapshot 返回当前用量快照
func (b *TokenBudget) Snapshot() TokenUsage {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.resetIfNewPeriod()
	return TokenUsage{
		MonthlyTokens: b.used,
		MonthlyBudget: b.monthlyUSD,
		ResetDate:     b.periodKey,
	}
}
