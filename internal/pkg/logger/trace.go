package logger

import (
	"ReaView/internal/pkg/consts"
	"context"
	log "log/slog"
)

// TraceIDKey 请求链路 ID 在 Context 中的键
const TraceIDKey = "trace_id"

// ContextHandler 从 ctx 中补齐 trace_id 与当前登录用户
type ContextHandler struct {
	log.Handler
}

func (h *ContextHandler) Handle(ctx context.Context, r log.Record) error {
	if ctx != nil {
		if traceID, ok := ctx.Value(TraceIDKey).(string); ok {
			r.AddAttrs(log.String(TraceIDKey, traceID))
		}
		if viewerID, ok := ctx.Value(consts.ViewerIDKey).(uint64); ok && viewerID != 0 {
			r.AddAttrs(log.Uint64("viewer_id", viewerID))
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []log.Attr) log.Handler {
	return &ContextHandler{h.Handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) log.Handler {
	return &ContextHandler{h.Handler.WithGroup(name)}
}
