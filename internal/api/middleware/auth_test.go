package middleware

import (
	"ReaView/internal/api/dto"
	"ReaView/internal/pkg/consts"
	"ReaView/internal/pkg/redis"
	"ReaView/internal/pkg/security"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	whoami := func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.Response{Code: 200, Data: c.GetUint64(UserIDKey)})
	}
	r.GET("/private", AuthMiddleware(), whoami)
	r.GET("/public", AuthOptionalMiddleware(), whoami)
	return r
}

func call(t *testing.T, r *gin.Engine, path, token string) dto.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var res dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func TestAuthMiddleware(t *testing.T) {
	r := newAuthEngine()
	token, err := security.GenerateToken(7, "alice")
	require.NoError(t, err)

	res := call(t, r, "/private", token)
	assert.Equal(t, 200, res.Code)
	assert.Equal(t, float64(7), res.Data)

	assert.Equal(t, 401, call(t, r, "/private", "").Code)
	assert.Equal(t, 401, call(t, r, "/private", "a.b.c").Code)
}

func TestAuthOptionalFallsBackToGuest(t *testing.T) {
	r := newAuthEngine()
	token, err := security.GenerateToken(7, "alice")
	require.NoError(t, err)

	assert.Equal(t, float64(7), call(t, r, "/public", token).Data)
	assert.Equal(t, float64(0), call(t, r, "/public", "").Data)
	assert.Equal(t, float64(0), call(t, r, "/public", "garbage").Data)
}

func TestAuthRejectsBlacklistedToken(t *testing.T) {
	mr := miniredis.RunT(t)
	redis.Rdb = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = redis.Rdb.Close()
		redis.Rdb = nil
	})

	r := newAuthEngine()
	token, err := security.GenerateToken(7, "alice")
	require.NoError(t, err)
	sig, err := security.ExtractSignature(token)
	require.NoError(t, err)
	require.NoError(t, mr.Set(consts.TokenBlacklistKey+sig, "1"))

	assert.Equal(t, 401, call(t, r, "/private", token).Code)
	assert.Equal(t, float64(0), call(t, r, "/public", token).Data)
}

func TestTraceMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TraceMiddleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestHeader, "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-1", w.Header().Get(traceHeader))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Header().Get(traceHeader), 36)
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://reaview.app/"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://reaview.app")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://reaview.app", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
