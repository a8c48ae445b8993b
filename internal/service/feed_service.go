package service

import (
	"ReaView/internal/api/config"
	"ReaView/internal/api/dto"
	"ReaView/internal/model"
	"ReaView/internal/pkg/util"
	"ReaView/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"
)

const (
	defaultFeedLimit        = 15
	maxFeedLimit            = 50
	defaultEnrichBudget     = 4 * time.Second
	defaultEnrichConcurrent = 4
)

type FeedService interface {
	// GetFeed 关注者的动态，按时间倒序
	GetFeed(ctx context.Context, viewerID uint64, skip, limit int) ([]*dto.FeedEntryDTO, error)
	// GetUserActivities 某用户主页上的全部动态，看不到的 list_add 不占分页名额
	GetUserActivities(ctx context.Context, viewerID, userID uint64, skip, limit int) ([]*dto.FeedEntryDTO, error)
}

type feedServiceImpl struct {
	followRepo       repository.UserFollowRepo
	activityRepo     repository.ActivityRepo
	actionRepo       repository.ReviewActionRepo
	userRepo         repository.UserRepo
	posterService    PosterService
	defaultLimit     int
	maxLimit         int
	enrichBudget     time.Duration
	enrichConcurrent int
}

func NewFeedService(
	followRepo repository.UserFollowRepo,
	activityRepo repository.ActivityRepo,
	actionRepo repository.ReviewActionRepo,
	userRepo repository.UserRepo,
	posterService PosterService,
	cfg config.FeedConfig,
) FeedService {
	s := &feedServiceImpl{
		followRepo:       followRepo,
		activityRepo:     activityRepo,
		actionRepo:       actionRepo,
		userRepo:         userRepo,
		posterService:    posterService,
		defaultLimit:     cfg.DefaultLimit,
		maxLimit:         cfg.MaxLimit,
		enrichBudget:     time.Duration(cfg.EnrichBudget) * time.Second,
		enrichConcurrent: cfg.EnrichConcurrent,
	}
	if s.defaultLimit <= 0 {
		s.defaultLimit = defaultFeedLimit
	}
	if s.maxLimit <= 0 {
		s.maxLimit = maxFeedLimit
	}
	if s.enrichBudget <= 0 {
		s.enrichBudget = defaultEnrichBudget
	}
	if s.enrichConcurrent <= 0 {
		s.enrichConcurrent = defaultEnrichConcurrent
	}
	return s
}

func (s *feedServiceImpl) GetFeed(ctx context.Context, viewerID uint64, skip, limit int) ([]*dto.FeedEntryDTO, error) {
	skip, limit = util.NormalizePage(skip, limit, s.defaultLimit, s.maxLimit)

	followees, err := s.followRepo.GetFollowingIds(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if len(followees) == 0 {
		return []*dto.FeedEntryDTO{}, nil
	}

	rows, err := s.activityRepo.ListActivityRows(ctx, followees, model.FeedActivityTypes, limit, skip)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, viewerID, rows)
}

func (s *feedServiceImpl) GetUserActivities(ctx context.Context, viewerID, userID uint64, skip, limit int) ([]*dto.FeedEntryDTO, error) {
	skip, limit = util.NormalizePage(skip, limit, s.defaultLimit, s.maxLimit)

	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	rows, err := s.activityRepo.ListProfileRows(ctx, userID, viewerID, limit, skip)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, viewerID, rows)
}

type resolvedRow struct {
	row     *repository.ActivityRow
	payload ActivityPayload
}

// assemble 解析载荷、批量统计计数并补全海报
func (s *feedServiceImpl) assemble(ctx context.Context, viewerID uint64, rows []*repository.ActivityRow) ([]*dto.FeedEntryDTO, error) {
	resolved := make([]resolvedRow, 0, len(rows))
	for _, row := range rows {
		p, err := ResolvePayload(row)
		if err != nil {
			if errors.Is(err, ErrPayloadIntegrity) {
				log.WarnContext(ctx, "skip broken activity", "activity_id", row.ActivityID, "err", err)
				continue
			}
			return nil, err
		}
		resolved = append(resolved, resolvedRow{row: row, payload: p})
	}

	stats, err := s.loadStats(ctx, viewerID, resolved)
	if err != nil {
		return nil, err
	}

	entries := make([]*dto.FeedEntryDTO, 0, len(resolved))
	for _, r := range resolved {
		e := &dto.FeedEntryDTO{
			ActivityID:   r.row.ActivityID,
			ActivityType: r.payload.Type(),
			CreatedAt:    util.FormatTime(r.row.CreatedAt),
			UserID:       r.row.ActorID,
			Username:     r.row.ActorUsername,
			AvatarURL:    r.row.ActorAvatar,
		}
		r.payload.fill(e)
		stats.apply(e, r.payload)
		entries = append(entries, e)
	}

	s.enrichPosters(ctx, resolved, entries)
	return entries, nil
}

type feedStats struct {
	reviewLikes  map[uint64]int64
	itemLikes    map[uint64]int64
	comments     map[uint64]int64
	likedReviews map[uint64]struct{}
	likedItems   map[uint64]struct{}
}

func (st *feedStats) apply(e *dto.FeedEntryDTO, p ActivityPayload) {
	reviewID, itemID := p.ReviewSubject(), p.ItemSubject()
	_, e.IsItemLikedByUser = st.likedItems[itemID]
	if reviewID != 0 {
		e.LikeCount = st.reviewLikes[reviewID]
		e.CommentCount = st.comments[reviewID]
		_, e.IsLikedByUser = st.likedReviews[reviewID]
		return
	}
	if itemID != 0 {
		e.LikeCount = st.itemLikes[itemID]
		e.IsLikedByUser = e.IsItemLikedByUser
	}
}

// loadStats 整页一次批量查询，不逐条查库
func (s *feedServiceImpl) loadStats(ctx context.Context, viewerID uint64, resolved []resolvedRow) (*feedStats, error) {
	reviewIDs := make([]uint64, 0, len(resolved))
	itemIDs := make([]uint64, 0, len(resolved))
	seenReview := make(map[uint64]struct{})
	seenItem := make(map[uint64]struct{})
	for _, r := range resolved {
		if id := r.payload.ReviewSubject(); id != 0 {
			if _, ok := seenReview[id]; !ok {
				seenReview[id] = struct{}{}
				reviewIDs = append(reviewIDs, id)
			}
		}
		if id := r.payload.ItemSubject(); id != 0 {
			if _, ok := seenItem[id]; !ok {
				seenItem[id] = struct{}{}
				itemIDs = append(itemIDs, id)
			}
		}
	}

	st := &feedStats{}
	var err error
	if st.reviewLikes, err = s.actionRepo.GetReviewLikeCounts(ctx, reviewIDs); err != nil {
		return nil, err
	}
	if st.comments, err = s.actionRepo.GetCommentCounts(ctx, reviewIDs); err != nil {
		return nil, err
	}
	if st.itemLikes, err = s.actionRepo.GetItemLikeCounts(ctx, itemIDs); err != nil {
		return nil, err
	}
	likedReviews, err := s.actionRepo.GetLikedReviewIDs(ctx, viewerID, reviewIDs)
	if err != nil {
		return nil, err
	}
	likedItems, err := s.actionRepo.GetLikedItemIDs(ctx, viewerID, itemIDs)
	if err != nil {
		return nil, err
	}
	st.likedReviews = idSet(likedReviews)
	st.likedItems = idSet(likedItems)
	return st, nil
}

// enrichPosters 同一条目只拉取一次，整体受 enrichBudget 限制，超时的条目保持空海报
func (s *feedServiceImpl) enrichPosters(ctx context.Context, resolved []resolvedRow, entries []*dto.FeedEntryDTO) {
	if s.posterService == nil {
		return
	}
	targets := make(map[uint64]PosterTarget)
	for i, r := range resolved {
		ref := r.payload.ItemRef()
		if ref == nil || ref.ID == 0 || entries[i].PosterURL != "" {
			continue
		}
		targets[ref.ID] = ref.target()
	}
	if len(targets) == 0 {
		return
	}

	budgetCtx, cancel := context.WithTimeout(ctx, s.enrichBudget)
	defer cancel()

	var mu sync.Mutex
	posters := make(map[uint64]string, len(targets))
	p := pool.New().WithMaxGoroutines(s.enrichConcurrent)
	for id, target := range targets {
		p.Go(func() {
			if budgetCtx.Err() != nil {
				return
			}
			url := s.posterService.Resolve(budgetCtx, target)
			if url == "" {
				return
			}
			mu.Lock()
			posters[id] = url
			mu.Unlock()
		})
	}
	p.Wait()

	for i, r := range resolved {
		ref := r.payload.ItemRef()
		if ref == nil || entries[i].PosterURL != "" {
			continue
		}
		if url, ok := posters[ref.ID]; ok {
			entries[i].PosterURL = url
		}
	}
}
