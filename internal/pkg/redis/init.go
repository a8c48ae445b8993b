package redis

import (
	"ReaView/internal/api/config"
	"ReaView/internal/pkg/logger"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"
)

var Rdb *redis.Client

const pingTimeout = 3 * time.Second

// InitRedis 未配置地址时不建立连接，缓存、锁与黑名单随之停用
func InitRedis(cfg config.RedisConfig) error {
	if cfg.Addr == "" {
		log.Warn("redis addr not configured, cache and locks disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  pingTimeout,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		// 单机部署不支持维护通知
		MaintNotificationsConfig: &maintnotifications.Config{Mode: maintnotifications.ModeDisabled},
	})
	client.AddHook(logger.NewRedisLogger())

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}

	Rdb = client
	log.Info("redis connected", "addr", cfg.Addr, "db", cfg.DB)
	return nil
}

// Close 关闭连接，未初始化时为空操作
func Close() error {
	if Rdb == nil {
		return nil
	}
	err := Rdb.Close()
	Rdb = nil
	return err
}
