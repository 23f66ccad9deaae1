package worker

import (
	"backend/internal/automation"
	"backend/internal/logger"
	"backend/internal/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Persister 自动化结果写后队列
// 显式的尽力而为契约：入队永不阻塞，队列满时丢弃并记日志，写库失败重试一次后放弃
// 持久化异常在任何情况下都不会传导回用户响应
type Persister struct {
	db    *gorm.DB
	queue chan *automation.Result
	done  chan struct{}
}

// NewPersister 创建写后队列并启动消费协程
func NewPersister(db *gorm.DB, queueSize int) *Persister {
	if queueSize <= 0 {
		queueSize = 256
	}
	p := &Persister{
		db:    db,
		queue: make(chan *automation.Result, queueSize),
		done:  make(chan struct{}),
	}
	go p.run()
	return p
}

// Enqueue 结果入队，队列满时丢弃
func (p *Persister) Enqueue(result *automation.Result) {
	select {
	case p.queue <- result:
	default:
		metrics.ResultQueueDropsTotal.Inc()
		logger.Warn("结果队列已满，丢弃自动化结果",
			zap.String("result_id", result.ID),
			zap.String("method", result.DeliveryMethod),
		)
	}
}

// run 消费队列，逐条落库
func (p *Persister) run() {
	defer close(p.done)

	for result := range p.queue {
		if err := p.db.Create(result).Error; err != nil {
			// 重试一次，仍失败则只记日志
			if err = p.db.Create(result).Error; err != nil {
				logger.Error("保存自动化结果失败",
					zap.String("result_id", result.ID),
					zap.Error(err),
				)
				continue
			}
		}
		logger.Debug("自动化结果已保存", zap.String("result_id", result.ID))
	}
}

// Shutdown 关闭队列并等待积压结果写完
func (p *Persister) Shutdown() {
	close(p.queue)
	<-p.done
}
