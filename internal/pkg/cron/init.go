package cron

import (
	log "log/slog"

	"github.com/robfig/cron/v3"
)

// slogAdapter 让 cron 引擎的调度日志走 slog
type slogAdapter struct{}

func (slogAdapter) Info(msg string, keysAndValues ...interface{}) {
	log.Debug("cron "+msg, keysAndValues...)
}

func (slogAdapter) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error("cron "+msg, append(keysAndValues, "err", err)...)
}

// newEngine 任务 panic 时恢复；上一轮未结束则跳过本轮
func newEngine() *cron.Cron {
	l := slogAdapter{}
	return cron.New(
		cron.WithSeconds(),
		cron.WithLogger(l),
		cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
	)
}

func InitCron(mgr *Manager) error {
	if err := mgr.RegisterJobs(); err != nil {
		return err
	}
	mgr.Start()
	log.Info("Cron Jobs started", "entries", len(mgr.engine.Entries()))
	return nil
}
