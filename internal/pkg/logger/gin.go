package logger

import (
	"ReaView/internal/api/config"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

type accessLog struct {
	Time        string `json:"time"`
	Level       string `json:"level"`
	Msg         string `json:"msg"`
	TraceID     string `json:"trace_id"`
	LogToken    string `json:"log_token,omitempty"`
	TargetIndex string `json:"target_index,omitempty"`
	Method      string `json:"method"`
	Path        string `json:"path"`
	ClientIP    string `json:"client_ip"`
	Status      int    `json:"status"`
	Latency     string `json:"latency"`
	BodySize    int    `json:"body_size"`
}

func traceIDOf(p gin.LogFormatterParams) string {
	if id, ok := p.Keys[TraceIDKey].(string); ok {
		return id
	}
	if p.Request != nil {
		if id, ok := p.Request.Context().Value(TraceIDKey).(string); ok {
			return id
		}
	}
	return ""
}

// SetupGin 访问日志与 panic 恢复
func SetupGin(r *gin.Engine) {
	logCfg := config.Cfg.Log
	remoteCfg := config.Cfg.Logstash

	formatter := func(p gin.LogFormatterParams) string {
		line := accessLog{
			Time:        p.TimeStamp.Format(time.RFC3339),
			Level:       "INFO",
			Msg:         "GIN_ACCESS",
			TraceID:     traceIDOf(p),
			LogToken:    remoteCfg.Token,
			TargetIndex: remoteCfg.Index,
			Method:      p.Method,
			Path:        p.Path,
			ClientIP:    p.ClientIP,
			Status:      p.StatusCode,
			Latency:     p.Latency.String(),
			BodySize:    p.BodySize,
		}
		if p.StatusCode >= 500 {
			line.Level = "ERROR"
		}
		b, err := json.Marshal(line)
		if err != nil {
			return fmt.Sprintf("access log marshal error: %v\n", err)
		}
		return string(b) + "\n"
	}

	conf := gin.LoggerConfig{Output: LogWriter}
	if logCfg.AccessJSON {
		conf.Formatter = formatter
	}
	r.Use(gin.LoggerWithConfig(conf))
	r.Use(gin.Recovery())
}
