package kafka

import (
	"strconv"
)

// CanalMessage 定义了 Canal 推送到 Kafka 的 JSON 数据结构
type CanalMessage struct {
	ID       int64    `json:"id"`
	Database string   `json:"database"`
	Table    string   `json:"table"`
	PKNames  []string `json:"pkNames"`
	IsDDL    bool     `json:"isDdl"`
	Type     string   `json:"type"`
	ES       int64    `json:"es"`
	TS       int64    `json:"ts"`

	// Data 存储变更后的数据，canal 中所有列值均为字符串或 null
	Data []map[string]any `json:"data"`

	// Old 存储变更前的数据
	Old []map[string]any `json:"old"`
}

// CanalRow 单行数据
type CanalRow map[string]any

func (r CanalRow) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
}

// Uint64 null 或无法解析时返回 0
func (r CanalRow) Uint64(key string) uint64 {
	v, err := strconv.ParseUint(r.String(key), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// Rows 展开 Data
func (m *CanalMessage) Rows() []CanalRow {
	rows := make([]CanalRow, 0, len(m.Data))
	for _, d := range m.Data {
		rows = append(rows, d)
	}
	return rows
}
