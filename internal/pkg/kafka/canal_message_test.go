package kafka

import (
	"testing"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanalRow(t *testing.T) {
	row := CanalRow{
		"id":          "42",
		"score":       float64(7),
		"review_id":   nil,
		"title":       "Dune",
		"bad_number":  "abc",
		"nested_list": []any{"x"},
	}

	assert.Equal(t, "42", row.String("id"))
	assert.Equal(t, "7", row.String("score"))
	assert.Equal(t, "", row.String("review_id"))
	assert.Equal(t, "", row.String("missing"))
	assert.Equal(t, "", row.String("nested_list"))

	assert.Equal(t, uint64(42), row.Uint64("id"))
	assert.Equal(t, uint64(7), row.Uint64("score"))
	assert.Zero(t, row.Uint64("review_id"))
	assert.Zero(t, row.Uint64("bad_number"))
}

func TestToCanalMessage(t *testing.T) {
	tests := []struct {
		name  string
		value string
		skip  bool
	}{
		{"insert", `{"table":"activities","type":"INSERT","data":[{"id":"1"},{"id":"2"}]}`, false},
		{"other table", `{"table":"items","type":"INSERT","data":[{"id":"1"}]}`, true},
		{"ddl", `{"table":"activities","isDdl":true,"type":"ALTER"}`, true},
		{"empty data", `{"table":"activities","type":"DELETE","data":[]}`, true},
		{"broken json", `{"table":`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := ToCanalMessage(&sarama.ConsumerMessage{Value: []byte(tt.value)}, "activities")
			if tt.skip {
				assert.ErrorIs(t, err, ErrSkipMessage)
				assert.Nil(t, msg)
				return
			}
			require.NoError(t, err)
			rows := msg.Rows()
			require.Len(t, rows, 2)
			assert.Equal(t, uint64(2), rows[1].Uint64("id"))
		})
	}
}
