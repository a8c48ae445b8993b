package service

import (
	"ReaView/internal/api/config"
	"ReaView/internal/model"
	"ReaView/internal/pkg/database"
	"ReaView/internal/pkg/provider"
	"ReaView/internal/pkg/redis"
	"ReaView/internal/repository"
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	goredis "github.com/redis/go-redis/v9"
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
	// 内存库只能单连接共享
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

// fakeProvider 按标题返回海报，未登记的标题视为查无结果
type fakeProvider struct {
	posters map[string]string
	calls   atomic.Int32
}

func (p *fakeProvider) Lookup(_ context.Context, q provider.Query) (*provider.Metadata, error) {
	p.calls.Add(1)
	url, ok := p.posters[q.Title]
	if !ok {
		return nil, provider.ErrNotFound
	}
	return &provider.Metadata{Title: q.Title, PosterURL: url}, nil
}

type testEnv struct {
	db       *gorm.DB
	provider *fakeProvider

	itemRepo     repository.ItemRepo
	activityRepo repository.ActivityRepo
	slotRepo     repository.IDSlotRepo

	rating  RatingService
	review  ReviewService
	action  ReviewActionService
	library LibraryService
	lists   CustomListService
	follow  UserFollowService
	feed    FeedService
	items   ItemService
	poster  PosterService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)

	transactor := repository.NewTransactor(db)
	userRepo := repository.NewUserRepo(db)
	followRepo := repository.NewUserFollowRepo(db)
	itemRepo := repository.NewItemRepo(db)
	reviewRepo := repository.NewReviewRepo(db)
	ratingRepo := repository.NewRatingRepo(db)
	actionRepo := repository.NewReviewActionRepo(db)
	activityRepo := repository.NewActivityRepo(db)
	slotRepo := repository.NewIDSlotRepo(db)

	fp := &fakeProvider{posters: map[string]string{}}
	poster := NewPosterService(itemRepo, fp, time.Second, time.Minute)
	rating := NewRatingService(transactor, itemRepo, reviewRepo, ratingRepo, activityRepo, slotRepo)

	return &testEnv{
		db:           db,
		provider:     fp,
		itemRepo:     itemRepo,
		activityRepo: activityRepo,
		slotRepo:     slotRepo,
		rating:       rating,
		review:       NewReviewService(transactor, reviewRepo, actionRepo, itemRepo, userRepo, activityRepo, slotRepo),
		action:       NewReviewActionService(transactor, actionRepo, reviewRepo, itemRepo, userRepo, activityRepo),
		library:      NewLibraryService(transactor, repository.NewLibraryRepo(db), itemRepo),
		lists:        NewCustomListService(transactor, repository.NewCustomListRepo(db), itemRepo, followRepo, activityRepo),
		follow:       NewUserFollowService(transactor, followRepo, userRepo, activityRepo),
		feed:         NewFeedService(followRepo, activityRepo, actionRepo, userRepo, poster, config.FeedConfig{}),
		items:        NewItemService(itemRepo, actionRepo, rating, poster),
		poster:       poster,
	}
}

func (e *testEnv) seedUser(t *testing.T, name string) *model.User {
	t.Helper()
	u := &model.User{Username: name, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, e.db.Create(u).Error)
	return u
}

func (e *testEnv) seedItem(t *testing.T, title, itemType string, external float64) *model.Item {
	t.Helper()
	it := &model.Item{Title: title, ItemType: itemType, ExternalRating: external, CreatedAt: time.Now()}
	require.NoError(t, e.itemRepo.CreateItem(context.Background(), it))
	return it
}

func (e *testEnv) countActivities(t *testing.T, activityType string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&model.Activity{}).Where("activity_type = ?", activityType).Count(&n).Error)
	return n
}

// useMiniRedis 替换全局 Redis 客户端，测试结束后恢复为未配置
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
