package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name                   string
		skip, limit            int
		wantSkip, wantLimit    int
		defaultLimit, maxLimit int
	}{
		{"defaults", 0, 0, 0, 15, 15, 50},
		{"negative skip", -3, 10, 0, 10, 15, 50},
		{"over max", 5, 500, 5, 50, 15, 50},
		{"no max", 0, 500, 0, 500, 15, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			skip, limit := NormalizePage(tt.skip, tt.limit, tt.defaultLimit, tt.maxLimit)
			assert.Equal(t, tt.wantSkip, skip)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestFormatTime(t *testing.T) {
	assert.Empty(t, FormatTime(time.Time{}))
	loc := time.FixedZone("CST", 8*3600)
	assert.Equal(t, "2024-03-01T02:00:00Z", FormatTime(time.Date(2024, 3, 1, 10, 0, 0, 0, loc)))
}

func TestStrToUint64(t *testing.T) {
	assert.Equal(t, uint64(12), StrToUint64("12"))
	assert.Zero(t, StrToUint64("-1"))
	assert.Zero(t, StrToUint64(""))
	assert.Zero(t, DerefUint64(nil))
	assert.Equal(t, uint64(3), DerefUint64(PtrUint64(3)))
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "hi & you", SanitizeText("  <b>hi</b> &amp; you "))
	assert.Equal(t, "x", SanitizeText("<script>alert(1)</script>x"))
	assert.Empty(t, SanitizeText("<p></p>"))
	assert.Equal(t, "5 > 3", SanitizeText("5 > 3"))
}

func TestValidateDTO(t *testing.T) {
	type req struct {
		Score int `validate:"min=1,max=10"`
	}
	assert.NoError(t, ValidateDTO(&req{Score: 5}))
	err := ValidateDTO(&req{Score: 11})
	assert.ErrorContains(t, err, "Score")
}

func TestValidateItemType(t *testing.T) {
	type query struct {
		ItemType string `form:"item_type" validate:"omitempty,item_type"`
	}
	assert.NoError(t, ValidateDTO(&query{}))
	assert.NoError(t, ValidateDTO(&query{ItemType: "book"}))
	err := ValidateDTO(&query{ItemType: "podcast"})
	assert.ErrorContains(t, err, "item_type")
}
