package job

import (
	"ReaView/internal/pkg/consts"
	"ReaView/internal/pkg/logger"
	"ReaView/internal/pkg/redis"
	"ReaView/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

const slotJobTimeout = 30 * time.Minute

// SlotTables 参与主键回收的表
var SlotTables = []string{"reviews", "ratings"}

// SlotReconcileJob 全表扫描重建空闲主键表，修正增量登记遗漏的空位
type SlotReconcileJob struct {
	slotRepo repository.IDSlotRepo
	tables   []string
}

func NewSlotReconcileJob(slotRepo repository.IDSlotRepo) *SlotReconcileJob {
	return &SlotReconcileJob{
		slotRepo: slotRepo,
		tables:   SlotTables,
	}
}

func (s *SlotReconcileJob) Run() {
	traceID := "job-slot-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)
	ctx, cancel := context.WithTimeout(ctx, slotJobTimeout)
	defer cancel()

	if redis.Available() {
		ok, err := redis.TryLock(ctx, consts.SlotReconcileJob, traceID, slotJobTimeout, 1)
		if err != nil {
			log.ErrorContext(ctx, "slot reconcile lock error", "err", err)
			return
		}
		if !ok {
			return
		}
		defer redis.UnLock(context.WithoutCancel(ctx), consts.SlotReconcileJob, traceID)
	}

	s.Reconcile(ctx)
}

// Reconcile 逐表重建，单表失败不影响其他表，返回各表空位数
func (s *SlotReconcileJob) Reconcile(ctx context.Context) map[string]int {
	res := make(map[string]int, len(s.tables))
	for _, table := range s.tables {
		gaps, err := s.slotRepo.Rebuild(ctx, table)
		if err != nil {
			log.ErrorContext(ctx, "rebuild id slots error", "table", table, "err", err)
			continue
		}
		res[table] = gaps
		log.InfoContext(ctx, "id slots rebuilt", "table", table, "gaps", gaps)
	}
	return res
}
