package logger

import (
	"context"
	"errors"
	log "log/slog"
	"strings"
	"time"

	gormlogger "gorm.io/gorm/logger"
)

// SlogGormLogger SQL 日志；Info 级别只在 debug 下输出每条语句
type SlogGormLogger struct {
	level gormlogger.LogLevel
}

func NewGormLogger() *SlogGormLogger {
	return &SlogGormLogger{level: gormlogger.Warn}
}

func (l *SlogGormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	return &SlogGormLogger{level: level}
}

func (l *SlogGormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Info {
		log.InfoContext(ctx, msg, "data", data)
	}
}

func (l *SlogGormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Warn {
		log.WarnContext(ctx, msg, "data", data)
	}
}

func (l *SlogGormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Error {
		log.ErrorContext(ctx, msg, "data", data)
	}
}

func (l *SlogGormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	op := "Query"
	if f := strings.Fields(sql); len(f) > 0 {
		op = strings.ToUpper(f[0])
	}
	fields := []any{
		log.String("op", op),
		log.String("sql", sql),
		log.Duration("latency", elapsed),
		log.Int64("rows", rows),
	}

	switch {
	case err != nil && !errors.Is(err, gormlogger.ErrRecordNotFound) && l.level >= gormlogger.Error:
		log.ErrorContext(ctx, "SQL Error", append(fields, log.Any("err", err))...)
	case elapsed > slowSQL && l.level >= gormlogger.Warn:
		log.WarnContext(ctx, "SQL Slow", fields...)
	case l.level >= gormlogger.Info:
		log.DebugContext(ctx, "SQL", fields...)
	}
}
