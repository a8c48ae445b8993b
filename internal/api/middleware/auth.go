package middleware

import (
	"ReaView/internal/pkg/consts"
	"ReaView/internal/pkg/redis"
	"ReaView/internal/pkg/response"
	"ReaView/internal/pkg/security"
	"context"
	"errors"
	log "log/slog"
	"strings"

	"github.com/gin-gonic/gin"
)

// UserIDKey 登录用户 ID 在 gin.Context 中的键，未登录为 0
const UserIDKey = "user_id"

var (
	errTokenMissing = errors.New("Token 缺失或格式错误")
	errTokenInvalid = errors.New("Token 无效")
	errTokenExpired = errors.New("Token 已过期")
)

// resolveViewer 解析 Bearer Token；黑名单由认证服务在登出时写入
func resolveViewer(c *gin.Context) (*security.UserClaims, error) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, errTokenMissing
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")

	signature, err := security.ExtractSignature(token)
	if err != nil {
		return nil, errTokenMissing
	}
	if redis.Available() {
		value, err := redis.GetValue(c.Request.Context(), consts.TokenBlacklistKey+signature)
		if err != nil {
			return nil, err
		}
		if value != "" {
			return nil, errTokenInvalid
		}
	}

	claims, err := security.ValidateToken(token)
	if errors.Is(err, security.ErrTokenExpired) {
		return nil, errTokenExpired
	}
	if err != nil {
		return nil, errTokenInvalid
	}
	return claims, nil
}

func setViewer(c *gin.Context, claims *security.UserClaims) {
	c.Set(UserIDKey, claims.UserID)
	c.Set("username", claims.Username)
	ctx := context.WithValue(c.Request.Context(), consts.ViewerIDKey, claims.UserID)
	c.Request = c.Request.WithContext(ctx)
}

// AuthMiddleware 写操作与关注流必须登录
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := resolveViewer(c)
		switch {
		case errors.Is(err, errTokenMissing), errors.Is(err, errTokenInvalid), errors.Is(err, errTokenExpired):
			response.Fail(c, response.Unauthorized, err.Error())
			c.Abort()
			return
		case err != nil:
			log.ErrorContext(c.Request.Context(), "check token blacklist error", "err", err)
			response.Fail(c, response.InternalServerError, "未知错误")
			c.Abort()
			return
		}
		setViewer(c, claims)
		c.Next()
	}
}

// AuthOptionalMiddleware 目录、评论、片单等只读接口，Token 无效时按游客处理
func AuthOptionalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := resolveViewer(c)
		if err != nil {
			c.Set(UserIDKey, uint64(0))
			c.Next()
			return
		}
		setViewer(c, claims)
		c.Next()
	}
}
