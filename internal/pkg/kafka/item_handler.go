package kafka

import (
	"ReaView/internal/model"
	"ReaView/internal/pkg/consts"
	"ReaView/internal/service"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ItemHandler 订阅 items 表的新增，缺海报的新条目立即预取
type ItemHandler struct {
	posterService service.PosterService
}

func NewItemHandler(posterService service.PosterService) *ItemHandler {
	return &ItemHandler{posterService: posterService}
}

func (s *ItemHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("item consumer setup")
	return nil
}

func (s *ItemHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("item consumer cleanup")
	return nil
}

func (s *ItemHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-item consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-item process batch error", "err", err)
		return err
	}
	return nil
}

func (s *ItemHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, model.Item{}.TableName())
	if err != nil {
		return err
	}
	if canalMsg.Type != consts.CanalInsert {
		return nil
	}
	for _, row := range canalMsg.Rows() {
		s.HandleInsert(ctx, row)
	}
	return nil
}

// HandleInsert 补全失败不重试，留给定时回填
func (s *ItemHandler) HandleInsert(ctx context.Context, row CanalRow) {
	if row.String("poster_url") != "" {
		return
	}
	item := &model.Item{
		ID:                row.Uint64("id"),
		Title:             row.String("title"),
		ItemType:          row.String("item_type"),
		ExternalAPIID:     row.String("external_api_id"),
		ExternalAPISource: row.String("external_api_source"),
	}
	if item.ID == 0 {
		return
	}
	if s.posterService.Enrich(ctx, item).PosterURL != "" {
		log.InfoContext(ctx, "poster prefetched", "item_id", item.ID)
	}
}
