package security

import (
	"ReaView/internal/api/config"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultJWTSecret         = "ReaView"
	defaultJWTExpirationTime = time.Hour * 24
)

// UserClaims Token 中携带的身份信息，签发由认证服务负责
type UserClaims struct {
	UserID   uint64 `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func jwtSecret() []byte {
	if config.Cfg != nil && config.Cfg.JWT.Secret != "" {
		return []byte(config.Cfg.JWT.Secret)
	}
	return []byte(defaultJWTSecret)
}

func jwtIssuer() string {
	if config.Cfg != nil && config.Cfg.JWT.Issuer != "" {
		return config.Cfg.JWT.Issuer
	}
	return "ReaView"
}

func jwtExpiration() time.Duration {
	if config.Cfg != nil && config.Cfg.JWT.ExpireHour > 0 {
		return time.Duration(config.Cfg.JWT.ExpireHour) * time.Hour
	}
	return defaultJWTExpirationTime
}
