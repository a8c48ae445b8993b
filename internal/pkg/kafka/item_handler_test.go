package kafka

import (
	"ReaView/internal/model"
	"ReaView/internal/service"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPoster struct {
	enriched []*model.Item
	url      string
}

func (p *recordingPoster) Enrich(_ context.Context, item *model.Item) *model.Item {
	p.enriched = append(p.enriched, item)
	item.PosterURL = p.url
	return item
}

func (p *recordingPoster) Resolve(context.Context, service.PosterTarget) string { return p.url }

func (p *recordingPoster) Backfill(context.Context, uint64, int) (uint64, int, error) {
	return 0, 0, nil
}

func TestItemHandlerPrefetch(t *testing.T) {
	poster := &recordingPoster{url: "https://img.example/dune.jpg"}
	h := NewItemHandler(poster)
	ctx := context.Background()

	h.HandleInsert(ctx, CanalRow{"id": "3", "title": "Dune", "item_type": "book", "external_api_id": "OL1"})
	// 已有海报、主键缺失均跳过
	h.HandleInsert(ctx, CanalRow{"id": "4", "title": "Arrival", "poster_url": "https://img.example/a.jpg"})
	h.HandleInsert(ctx, CanalRow{"title": "Ghost"})

	require.Len(t, poster.enriched, 1)
	got := poster.enriched[0]
	assert.Equal(t, uint64(3), got.ID)
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, "book", got.ItemType)
	assert.Equal(t, "OL1", got.ExternalAPIID)
}
