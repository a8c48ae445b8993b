package service

import (
	"ReaView/internal/model"
	"ReaView/internal/pkg/consts"
	"ReaView/internal/pkg/provider"
	"ReaView/internal/pkg/redis"
	"ReaView/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const (
	defaultPosterTimeout = 3 * time.Second
	defaultPosterMissTTL = time.Hour
)

// PosterTarget 补全海报所需的条目信息
type PosterTarget struct {
	ItemID         uint64
	ItemType       string
	ExternalID     string
	ExternalSource string
	Title          string
}

func PosterTargetOf(item *model.Item) PosterTarget {
	return PosterTarget{
		ItemID:         item.ID,
		ItemType:       item.ItemType,
		ExternalID:     item.ExternalAPIID,
		ExternalSource: item.ExternalAPISource,
		Title:          item.Title,
	}
}

// PosterService 缺图条目的海报补全，失败时保持原样且不返回错误
type PosterService interface {
	Enrich(ctx context.Context, item *model.Item) *model.Item
	Resolve(ctx context.Context, target PosterTarget) string
	Backfill(ctx context.Context, afterID uint64, batch int) (uint64, int, error)
}

type posterServiceImpl struct {
	itemRepo repository.ItemRepo
	provider provider.MetadataProvider
	timeout  time.Duration
	missTTL  time.Duration
	group    singleflight.Group
}

func NewPosterService(itemRepo repository.ItemRepo, p provider.MetadataProvider, timeout, missTTL time.Duration) PosterService {
	if timeout <= 0 {
		timeout = defaultPosterTimeout
	}
	if missTTL <= 0 {
		missTTL = defaultPosterMissTTL
	}
	return &posterServiceImpl{
		itemRepo: itemRepo,
		provider: p,
		timeout:  timeout,
		missTTL:  missTTL,
	}
}

func (s *posterServiceImpl) Enrich(ctx context.Context, item *model.Item) *model.Item {
	if item == nil || item.PosterURL != "" {
		return item
	}
	if url := s.Resolve(ctx, PosterTargetOf(item)); url != "" {
		item.PosterURL = url
	}
	return item
}

// Resolve 返回补全后的海报地址，未取到时返回空串
// 同一条目的并发请求合并为一次外部调用
func (s *posterServiceImpl) Resolve(ctx context.Context, target PosterTarget) string {
	if s.provider == nil || target.ItemID == 0 {
		return ""
	}
	if target.ExternalID == "" && target.Title == "" {
		return ""
	}

	key := strconv.FormatUint(target.ItemID, 10)
	v, _, _ := s.group.Do(key, func() (interface{}, error) {
		return s.fetch(ctx, target), nil
	})
	url, _ := v.(string)
	return url
}

func (s *posterServiceImpl) fetch(ctx context.Context, target PosterTarget) string {
	id := strconv.FormatUint(target.ItemID, 10)
	missKey := consts.PosterMissKey + id

	if redis.Available() {
		if miss, err := redis.GetValue(ctx, missKey); err == nil && miss != "" {
			return ""
		}
		lockKey := consts.PosterFetchLock + id
		token := uuid.NewString()
		ok, err := redis.TryLock(ctx, lockKey, token, s.timeout*2, 1)
		if err == nil && !ok {
			// 其他实例正在拉取，本次直接放弃
			return ""
		}
		if ok {
			defer redis.UnLock(context.WithoutCancel(ctx), lockKey, token)
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	md, err := s.provider.Lookup(callCtx, provider.Query{
		ItemType:       target.ItemType,
		ExternalID:     target.ExternalID,
		ExternalSource: target.ExternalSource,
		Title:          target.Title,
	})
	if err != nil || md == nil || md.PosterURL == "" {
		if errors.Is(err, provider.ErrNotFound) && redis.Available() {
			_ = redis.SetWithExpiration(ctx, missKey, "1", s.missTTL)
		}
		log.DebugContext(ctx, "poster enrich skipped", "item_id", target.ItemID, "err", err)
		return ""
	}

	// 写回不受请求截止时间影响
	writeCtx, writeCancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer writeCancel()
	if _, err = s.itemRepo.UpdatePosterURL(writeCtx, target.ItemID, md.PosterURL); err != nil {
		log.WarnContext(ctx, "poster write-through failed", "item_id", target.ItemID, "err", err)
	}
	return md.PosterURL
}

// Backfill 从 afterID 之后取一批缺图条目补全，返回下一游标与成功数量
func (s *posterServiceImpl) Backfill(ctx context.Context, afterID uint64, batch int) (uint64, int, error) {
	items, err := s.itemRepo.GetItemsMissingPoster(ctx, afterID, batch)
	if err != nil {
		return afterID, 0, err
	}
	if len(items) == 0 {
		return 0, 0, nil
	}

	filled := 0
	next := afterID
	for _, item := range items {
		if ctx.Err() != nil {
			break
		}
		next = item.ID
		if s.Enrich(ctx, item).PosterURL != "" {
			filled++
		}
	}
	return next, filled, nil
}
