package logger

import (
	"ReaView/internal/api/config"
	"io"
	log "log/slog"
	"net"
	"os"
	"strings"
	"time"
)

var LogWriter io.Writer = os.Stdout

// 慢操作阈值，InitLogger 按配置覆盖
var (
	slowSQL   = 200 * time.Millisecond
	slowRedis = 100 * time.Millisecond
	slowMongo = 200 * time.Millisecond
)

func parseLevel(s string) log.Level {
	switch strings.ToLower(s) {
	case "debug":
		return log.LevelDebug
	case "warn":
		return log.LevelWarn
	case "error":
		return log.LevelError
	default:
		return log.LevelInfo
	}
}

func threshold(ms int, def time.Duration) time.Duration {
	if ms <= 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

// InitLogger stdout 始终输出；Logstash 可连通时带 trace_id 的日志同时上报
func InitLogger() {
	logCfg := config.Cfg.Log
	remoteCfg := config.Cfg.Logstash

	slowSQL = threshold(logCfg.SlowSQL, slowSQL)
	slowRedis = threshold(logCfg.SlowRedis, slowRedis)
	slowMongo = threshold(logCfg.SlowMongo, slowMongo)

	opts := &log.HandlerOptions{Level: parseLevel(logCfg.Level)}
	var handler log.Handler = log.NewJSONHandler(os.Stdout, opts)

	if remoteCfg.Address != "" {
		conn, err := net.DialTimeout("tcp", remoteCfg.Address, 3*time.Second)
		if err != nil {
			log.Warn("Failed to connect to Logstash, logging to stdout only", "err", err)
		} else {
			remote := log.NewJSONHandler(conn, opts).WithAttrs([]log.Attr{
				log.String("target_index", remoteCfg.Index),
				log.String("log_token", remoteCfg.Token),
			})
			handler = &TeeHandler{handlers: []log.Handler{handler, &RemoteFilterHandler{next: remote}}}
			LogWriter = io.MultiWriter(os.Stdout, conn)
		}
	}

	log.SetDefault(log.New(&ContextHandler{handler}))
}
