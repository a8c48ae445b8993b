package handler

import (
	"ReaView/internal/api/config"
	"ReaView/internal/api/dto"
	"ReaView/internal/model"
	"ReaView/internal/pkg/database"
	"ReaView/internal/repository"
	"ReaView/internal/service"
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testServer struct {
	db     *gorm.DB
	engine *gin.Engine
}

// fakeUser 以请求头模拟登录态
func fakeUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if v := c.GetHeader("X-User"); v != "" {
			id, _ := strconv.ParseUint(v, 10, 64)
			c.Set("user_id", id)
		}
		c.Next()
	}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	transactor := repository.NewTransactor(db)
	userRepo := repository.NewUserRepo(db)
	followRepo := repository.NewUserFollowRepo(db)
	itemRepo := repository.NewItemRepo(db)
	reviewRepo := repository.NewReviewRepo(db)
	actionRepo := repository.NewReviewActionRepo(db)
	activityRepo := repository.NewActivityRepo(db)
	slotRepo := repository.NewIDSlotRepo(db)

	ratingSvc := service.NewRatingService(transactor, itemRepo, reviewRepo, repository.NewRatingRepo(db), activityRepo, slotRepo)
	listSvc := service.NewCustomListService(transactor, repository.NewCustomListRepo(db), itemRepo, followRepo, activityRepo)
	feedSvc := service.NewFeedService(followRepo, activityRepo, actionRepo, userRepo, nil, config.FeedConfig{})

	rating := NewRatingHandler(ratingSvc)
	lists := NewCustomListHandler(listSvc)
	feed := NewFeedHandler(feedSvc)

	r := gin.New()
	r.Use(fakeUser())
	r.POST("/items/:item_id/rate", rating.RateItem)
	r.POST("/custom-lists", lists.CreateList)
	r.GET("/custom-lists/:list_id", lists.GetList)
	r.GET("/feed", feed.GetFeed)

	return &testServer{db: db, engine: r}
}

func (s *testServer) do(t *testing.T, method, path string, userID uint64, body any) dto.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set("X-User", strconv.FormatUint(userID, 10))
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var res dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func (s *testServer) seedItem(t *testing.T, title string) *model.Item {
	t.Helper()
	it := &model.Item{Title: title, ItemType: "movie", ExternalRating: 8, CreatedAt: time.Now()}
	require.NoError(t, s.db.Create(it).Error)
	return it
}

func TestRateItemHandler(t *testing.T) {
	s := newTestServer(t)
	item := s.seedItem(t, "Arrival")

	res := s.do(t, http.MethodPost, "/items/"+strconv.FormatUint(item.ID, 10)+"/rate", 1, map[string]int{"score": 9})
	require.Equal(t, 200, res.Code, res.Message)
	data := res.Data.(map[string]any)
	assert.Equal(t, float64(9), data["score"])
	assert.Equal(t, true, data["created"])

	// 分值越界在绑定阶段拦截
	res = s.do(t, http.MethodPost, "/items/"+strconv.FormatUint(item.ID, 10)+"/rate", 1, map[string]int{"score": 11})
	assert.Equal(t, 400, res.Code)

	res = s.do(t, http.MethodPost, "/items/abc/rate", 1, map[string]int{"score": 5})
	assert.Equal(t, 400, res.Code)

	res = s.do(t, http.MethodPost, "/items/9999/rate", 1, map[string]int{"score": 5})
	assert.Equal(t, 404, res.Code)
}

func TestGetListPrivacyCodes(t *testing.T) {
	s := newTestServer(t)
	private := model.PrivacyPrivate

	res := s.do(t, http.MethodPost, "/custom-lists", 1, map[string]any{"name": "secret", "privacy_level": private})
	require.Equal(t, 200, res.Code, res.Message)
	listID := uint64(res.Data.(map[string]any)["list_id"].(float64))
	path := "/custom-lists/" + strconv.FormatUint(listID, 10)

	assert.Equal(t, 200, s.do(t, http.MethodGet, path, 1, nil).Code)
	assert.Equal(t, 403, s.do(t, http.MethodGet, path, 2, nil).Code)
	assert.Equal(t, 403, s.do(t, http.MethodGet, path, 0, nil).Code)
	assert.Equal(t, 404, s.do(t, http.MethodGet, "/custom-lists/777", 1, nil).Code)
}

func TestGetFeedHandler(t *testing.T) {
	s := newTestServer(t)

	res := s.do(t, http.MethodGet, "/feed", 1, nil)
	require.Equal(t, 200, res.Code)
	assert.Empty(t, res.Data)

	res = s.do(t, http.MethodGet, "/feed?limit=-1", 1, nil)
	assert.Equal(t, 400, res.Code)
}
