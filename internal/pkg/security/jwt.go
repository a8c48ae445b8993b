package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenMalformed = errors.New("token 格式不正确")
	ErrTokenExpired   = errors.New("token 已过期")
	ErrTokenInvalid   = errors.New("token 无效")
)

// 容忍认证服务与本服务之间的时钟偏差
const clockLeeway = 30 * time.Second

// GenerateToken 签发 Token，线上由认证服务签发，这里用于联调和测试
func GenerateToken(userID uint64, username string) (string, error) {
	now := time.Now()
	claims := &UserClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtIssuer(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(jwtExpiration())),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret())
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func newParser() *jwt.Parser {
	return jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(jwtIssuer()),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(clockLeeway),
	)
}

// ValidateToken 校验签名、签发方与有效期
func ValidateToken(tokenString string) (*UserClaims, error) {
	claims := &UserClaims{}
	_, err := newParser().ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return jwtSecret(), nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	default:
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if claims.UserID == 0 {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ExtractSignature 取 Token 第三段，黑名单以签名为键
func ExtractSignature(tokenString string) (string, error) {
	if strings.Count(tokenString, ".") != 2 {
		return "", ErrTokenMalformed
	}
	sig := tokenString[strings.LastIndexByte(tokenString, '.')+1:]
	if sig == "" {
		return "", ErrTokenMalformed
	}
	return sig, nil
}
