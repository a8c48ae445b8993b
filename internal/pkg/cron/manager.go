package cron

import (
	"ReaView/internal/api/config"
	"ReaView/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

const (
	defaultPosterSpec = "0 */30 * * * *"
	defaultSlotSpec   = "0 30 3 * * *"
)

type Manager struct {
	engine           *cron.Cron
	cfg              config.CronConfig
	posterBackfill   *job.PosterBackfillJob
	slotReconcileJob *job.SlotReconcileJob
}

func NewCronManager(cfg config.CronConfig, posterBackfill *job.PosterBackfillJob, slotReconcileJob *job.SlotReconcileJob) *Manager {
	if cfg.PosterBackfill == "" {
		cfg.PosterBackfill = defaultPosterSpec
	}
	if cfg.SlotReconcile == "" {
		cfg.SlotReconcile = defaultSlotSpec
	}
	return &Manager{
		engine:           newEngine(),
		cfg:              cfg,
		posterBackfill:   posterBackfill,
		slotReconcileJob: slotReconcileJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if s.posterBackfill != nil {
		if _, err := s.engine.AddJob(s.cfg.PosterBackfill, s.posterBackfill); err != nil {
			return err
		}
	}
	if s.slotReconcileJob != nil {
		if _, err := s.engine.AddJob(s.cfg.SlotReconcile, s.slotReconcileJob); err != nil {
			return err
		}
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}
