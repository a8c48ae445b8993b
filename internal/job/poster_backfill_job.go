package job

import (
	"ReaView/internal/pkg/consts"
	"ReaView/internal/pkg/logger"
	"ReaView/internal/pkg/redis"
	"ReaView/internal/service"
	"context"
	"errors"
	log "log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const (
	defaultPosterBatch = 50
	posterJobTimeout   = 10 * time.Minute
	// 游标一天未推进即视为失效
	posterCursorTTL = 24 * time.Hour
)

// PosterBackfillJob 按主键游标分批为缺图条目补全海报
type PosterBackfillJob struct {
	posterSvc service.PosterService
	batch     int
}

func NewPosterBackfillJob(posterSvc service.PosterService, batch int) *PosterBackfillJob {
	if batch <= 0 {
		batch = defaultPosterBatch
	}
	return &PosterBackfillJob{
		posterSvc: posterSvc,
		batch:     batch,
	}
}

func (s *PosterBackfillJob) Run() {
	traceID := "job-poster-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)
	ctx, cancel := context.WithTimeout(ctx, posterJobTimeout)
	defer cancel()

	if redis.Available() {
		ok, err := redis.TryLock(ctx, consts.PosterBackfillJob, traceID, posterJobTimeout, 1)
		if err != nil {
			log.ErrorContext(ctx, "poster backfill lock error", "err", err)
			return
		}
		if !ok {
			log.InfoContext(ctx, "poster backfill is running on another instance")
			return
		}
		defer redis.UnLock(context.WithoutCancel(ctx), consts.PosterBackfillJob, traceID)
	}

	filled, err := s.RunOnce(ctx)
	if err != nil {
		log.ErrorContext(ctx, "poster backfill failed", "err", err)
		return
	}
	log.InfoContext(ctx, "poster backfill done", "filled", filled)
}

// RunOnce 处理一批，游标走到末尾后归零
func (s *PosterBackfillJob) RunOnce(ctx context.Context) (int, error) {
	cursor := s.loadCursor(ctx)

	next, filled, err := s.posterSvc.Backfill(ctx, cursor, s.batch)
	if err != nil {
		return 0, err
	}
	s.saveCursor(ctx, next)
	return filled, nil
}

func (s *PosterBackfillJob) loadCursor(ctx context.Context) uint64 {
	if !redis.Available() {
		return 0
	}
	v, err := redis.GetInt64(ctx, consts.PosterBackfillCursor)
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			log.WarnContext(ctx, "read poster cursor error", "err", err)
		}
		return 0
	}
	if v < 0 {
		return 0
	}
	return uint64(v)
}

func (s *PosterBackfillJob) saveCursor(ctx context.Context, next uint64) {
	if !redis.Available() {
		return
	}
	var err error
	if next == 0 {
		err = redis.DeleteKey(ctx, consts.PosterBackfillCursor)
	} else {
		err = redis.SetWithExpiration(ctx, consts.PosterBackfillCursor, strconv.FormatUint(next, 10), posterCursorTTL)
	}
	if err != nil {
		log.WarnContext(ctx, "save poster cursor error", "err", err)
	}
}
