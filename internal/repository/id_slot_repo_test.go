package repository

import (
	"ReaView/internal/model"
	"ReaView/internal/pkg/database"
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func allocateReview(t *testing.T, db *gorm.DB, slots IDSlotRepo) uint64 {
	t.Helper()
	ctx := context.Background()
	var id uint64
	err := NewTransactor(db).Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		id, err = slots.WithTx(tx).Allocate(ctx, "reviews")
		if err != nil {
			return err
		}
		return NewReviewRepo(tx).CreateReview(ctx, &model.Review{ID: id, UserID: 1, ItemID: 1, ReviewText: "x", CreatedAt: time.Now(), UpdatedAt: time.Now()})
	})
	require.NoError(t, err)
	return id
}

func TestAllocateReusesReleasedID(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	slots := NewIDSlotRepo(db)

	for want := uint64(1); want <= 4; want++ {
		assert.Equal(t, want, allocateReview(t, db, slots))
	}

	err := NewTransactor(db).Transaction(ctx, func(tx *gorm.DB) error {
		if err := NewReviewRepo(tx).DeleteReview(ctx, 3); err != nil {
			return err
		}
		return slots.WithTx(tx).Release(ctx, "reviews", 3)
	})
	require.NoError(t, err)

	free, err := slots.CountFreeSlots(ctx, "reviews")
	require.NoError(t, err)
	assert.Equal(t, int64(1), free)

	assert.Equal(t, uint64(3), allocateReview(t, db, slots))
	assert.Equal(t, uint64(5), allocateReview(t, db, slots))

	free, err = slots.CountFreeSlots(ctx, "reviews")
	require.NoError(t, err)
	assert.Zero(t, free)
}

func TestAllocateSkipsStaleSlots(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	slots := NewIDSlotRepo(db)

	allocateReview(t, db, slots)
	allocateReview(t, db, slots)
	// 登记了仍被占用的 1 号，以及超过 MAX(id) 的 9 号
	require.NoError(t, slots.Release(ctx, "reviews", 1))
	require.NoError(t, slots.Release(ctx, "reviews", 9))
	require.NoError(t, slots.Release(ctx, "reviews", 0))

	assert.Equal(t, uint64(3), allocateReview(t, db, slots))

	free, err := slots.CountFreeSlots(ctx, "reviews")
	require.NoError(t, err)
	assert.Zero(t, free)
}

func TestRebuildFindsGaps(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	slots := NewIDSlotRepo(db)

	for _, id := range []uint64{1, 2, 5, 7} {
		require.NoError(t, db.Create(&model.Review{ID: id, UserID: 1, ItemID: 1, ReviewText: "x"}).Error)
	}

	gaps, err := slots.Rebuild(ctx, "reviews")
	require.NoError(t, err)
	assert.Equal(t, 3, gaps)

	// 重复执行结果一致
	gaps, err = slots.Rebuild(ctx, "reviews")
	require.NoError(t, err)
	assert.Equal(t, 3, gaps)

	assert.Equal(t, uint64(3), allocateReview(t, db, slots))
	assert.Equal(t, uint64(4), allocateReview(t, db, slots))
	assert.Equal(t, uint64(6), allocateReview(t, db, slots))
	assert.Equal(t, uint64(8), allocateReview(t, db, slots))

	empty, err := slots.Rebuild(ctx, "ratings")
	require.NoError(t, err)
	assert.Zero(t, empty)
}
