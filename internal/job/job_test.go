package job

import (
	"ReaView/internal/model"
	"ReaView/internal/pkg/consts"
	"ReaView/internal/pkg/redis"
	"ReaView/internal/repository"
	"ReaView/internal/service"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func useMiniRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	redis.Rdb = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = redis.Rdb.Close()
		redis.Rdb = nil
	})
	return mr
}

// stubPosterService 每次回填推进固定步长，游标超过 last 后归零
type stubPosterService struct {
	step    uint64
	last    uint64
	cursors []uint64
}

func (s *stubPosterService) Enrich(_ context.Context, item *model.Item) *model.Item { return item }

func (s *stubPosterService) Resolve(context.Context, service.PosterTarget) string { return "" }

func (s *stubPosterService) Backfill(_ context.Context, afterID uint64, _ int) (uint64, int, error) {
	s.cursors = append(s.cursors, afterID)
	if afterID >= s.last {
		return 0, 0, nil
	}
	return afterID + s.step, 1, nil
}

func TestPosterBackfillCursor(t *testing.T) {
	mr := useMiniRedis(t)
	stub := &stubPosterService{step: 10, last: 20}
	job := NewPosterBackfillJob(stub, 0)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := job.RunOnce(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, []uint64{0, 10, 20}, stub.cursors)
	assert.False(t, mr.Exists(consts.PosterBackfillCursor))

	_, err := job.RunOnce(ctx)
	require.NoError(t, err)
	v, err := mr.Get(consts.PosterBackfillCursor)
	require.NoError(t, err)
	assert.Equal(t, "10", v)
}

func TestPosterBackfillSkipsWhenLocked(t *testing.T) {
	mr := useMiniRedis(t)
	stub := &stubPosterService{step: 10, last: 20}
	require.NoError(t, mr.Set(consts.PosterBackfillJob, "other"))

	NewPosterBackfillJob(stub, 5).Run()
	assert.Empty(t, stub.cursors)

	mr.Del(consts.PosterBackfillJob)
	NewPosterBackfillJob(stub, 5).Run()
	assert.Equal(t, []uint64{0}, stub.cursors)
	// 执行完毕释放锁
	assert.False(t, mr.Exists(consts.PosterBackfillJob))
}

func TestPosterBackfillWithoutRedis(t *testing.T) {
	stub := &stubPosterService{step: 10, last: 20}
	job := NewPosterBackfillJob(stub, 5)
	job.Run()
	job.Run()
	// 无处保存游标，每次从头开始
	assert.Equal(t, []uint64{0, 0}, stub.cursors)
}

type stubSlotRepo struct {
	gaps     map[string]int
	fail     map[string]bool
	rebuilds int
}

func (s *stubSlotRepo) WithTx(*gorm.DB) repository.IDSlotRepo { return s }

func (s *stubSlotRepo) Allocate(context.Context, string) (uint64, error) { return 0, nil }

func (s *stubSlotRepo) Release(context.Context, string, uint64) error { return nil }

func (s *stubSlotRepo) Rebuild(_ context.Context, table string) (int, error) {
	s.rebuilds++
	if s.fail[table] {
		return 0, errors.New("rebuild failed")
	}
	return s.gaps[table], nil
}

func (s *stubSlotRepo) CountFreeSlots(context.Context, string) (int64, error) { return 0, nil }

func TestSlotReconcile(t *testing.T) {
	repo := &stubSlotRepo{
		gaps: map[string]int{"reviews": 2, "ratings": 5},
		fail: map[string]bool{"reviews": true},
	}
	res := NewSlotReconcileJob(repo).Reconcile(context.Background())
	assert.Equal(t, map[string]int{"ratings": 5}, res)
}

func TestSlotReconcileRunHoldsLock(t *testing.T) {
	mr := useMiniRedis(t)
	repo := &stubSlotRepo{gaps: map[string]int{"reviews": 1}}
	require.NoError(t, mr.Set(consts.SlotReconcileJob, "other"))
	mr.SetTTL(consts.SlotReconcileJob, time.Minute)

	NewSlotReconcileJob(repo).Run()
	assert.Zero(t, repo.rebuilds)
	v, err := mr.Get(consts.SlotReconcileJob)
	require.NoError(t, err)
	assert.Equal(t, "other", v)

	mr.Del(consts.SlotReconcileJob)
	NewSlotReconcileJob(repo).Run()
	assert.Equal(t, len(SlotTables), repo.rebuilds)
	assert.False(t, mr.Exists(consts.SlotReconcileJob))
}
