package infra

import (
	"context"
	"errors"
	"time"

	"backend/internal/logger"

	"go.uber.org/zap"
	gormLogger "gorm.io/gorm/logger"
)

// SQLLogger GORM 日志适配器
// SQL 日志走 zap，并从请求上下文带出 request id，与 HTTP 访问日志串联
type SQLLogger struct {
	zap           *zap.Logger
	level         gormLogger.LogLevel
	slowThreshold time.Duration
	skipNotFound  bool
}

// NewSQLLogger 创建 SQL 日志适配器
// 未命中记录（ErrRecordNotFound）是会话与工作流查询的正常分支，不作为错误记录
func NewSQLLogger(zapLogger *zap.Logger, slowThreshold time.Duration) *SQLLogger {
	return &SQLLogger{
		zap:           zapLogger,
		level:         gormLogger.Warn,
		slowThreshold: slowThreshold,
		skipNotFound:  true,
	}
}

// LogMode 设置日志级别
func (l *SQLLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

// Info 日志
func (l *SQLLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormLogger.Info {
		l.with(ctx).Sugar().Infof(msg, data...)
	}
}

// Warn 日志
func (l *SQLLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormLogger.Warn {
		l.with(ctx).Sugar().Warnf(msg, data...)
	}
}

// Error 日志
func (l *SQLLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormLogger.Error {
		l.with(ctx).Sugar().Errorf(msg, data...)
	}
}

// Trace SQL 执行日志
func (l *SQLLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormLogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.String("sql", sql),
		zap.Int64("rows", rows),
	}

	switch {
	case err != nil && !(l.skipNotFound && errors.Is(err, gormLogger.ErrRecordNotFound)):
		l.with(ctx).Error("SQL 执行错误", append(fields, zap.Error(err))...)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold:
		l.with(ctx).Warn("SQL 慢查询", fields...)
	case l.level >= gormLogger.Info:
		l.with(ctx).Debug("SQL 执行", fields...)
	}
}

// with 把请求上下文中的 request id 带进日志
func (l *SQLLogger) with(ctx context.Context) *zap.Logger {
	if requestID := logger.GetRequestID(ctx); requestID != "" {
		return l.zap.With(zap.String("request_id", requestID))
	}
	return l.zap
}
