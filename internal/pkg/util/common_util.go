package util

import (
	"strconv"
	"time"
)

// PtrInt 用于将 int 转换为 *int
func PtrInt(i int) *int {
	return &i
}

// PtrUint64 用于将 uint64 转换为 *uint64
func PtrUint64(i uint64) *uint64 {
	return &i
}

// DerefUint64 nil 视为 0
func DerefUint64(p *uint64) uint64 {
	if p == nil {
		return 0
	}
	return *p
}

// StrToUint64 解析失败返回 0
func StrToUint64(s string) uint64 {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// FormatTime 统一输出 RFC3339 (UTC)，零值输出空串
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// NormalizePage 规范化 skip/limit：limit<=0 取默认值，超过上限截断，skip 不小于 0
func NormalizePage(skip, limit, defaultLimit, maxLimit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return skip, limit
}
