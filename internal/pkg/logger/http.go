package logger

import (
	"bytes"
	"io"
	log "log/slog"
	"net/http"
	"time"
)

// HTTPTransport 记录外部元数据源请求，响应体只截取前 limit 字节
type HTTPTransport struct {
	Transport http.RoundTripper
	Name      string
}

func NewHTTPTransport(name string, next http.RoundTripper) *HTTPTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &HTTPTransport{Transport: next, Name: name}
}

func (t *HTTPTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := t.Transport.RoundTrip(req)
	elapsed := time.Since(start)

	fields := []any{
		log.String("provider", t.Name),
		log.String("method", req.Method),
		log.String("path", req.URL.Path),
		log.Duration("latency", elapsed),
	}

	limit := 512

	if err != nil {
		log.ErrorContext(req.Context(), "PROVIDER_ERROR", append(fields, log.Any("err", err))...)
		return nil, err
	}

	var resBody []byte
	if resp.Body != nil {
		resBody, _ = io.ReadAll(resp.Body)
		resp.Body = io.NopCloser(bytes.NewBuffer(resBody))
	}

	resStr := string(resBody)
	if len(resStr) > limit {
		resStr = resStr[:limit] + "...[truncated]"
	}
	fields = append(fields, log.Int("status", resp.StatusCode), log.String("res_body", resStr))

	if elapsed > time.Second {
		log.WarnContext(req.Context(), "PROVIDER_SLOW", fields...)
	} else {
		log.InfoContext(req.Context(), "PROVIDER_CALL", fields...)
	}

	return resp, nil
}
