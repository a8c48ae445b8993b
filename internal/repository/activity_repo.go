package repository

import (
	"ReaView/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

// ActivityRow 动态与其引用记录的联表投影，被引用记录缺失时各列为零值
type ActivityRow struct {
	ActivityID   uint64
	ActivityType string
	CreatedAt    time.Time
	ActorID      uint64

	// activities 表上的原始外键
	RawItemID        *uint64
	RawReviewID      *uint64
	RawCommentID     *uint64
	RawListID        *uint64
	RawRelatedUserID *uint64

	ActorUsername string
	ActorAvatar   string

	ItemID             uint64
	ItemTitle          string
	ItemType           string
	ItemPosterURL      string
	ItemExternalID     string
	ItemExternalSource string
	ItemYear           *int
	ItemDescription    string

	ReviewText       string
	ReviewRating     *int
	ReviewAuthorID   uint64
	ReviewAuthorName string

	CommentText string
	RatingScore *int

	ListName    string
	ListPrivacy *int8
	ListOwnerID uint64

	RelatedUsername string
}

const activityRowColumns = `a.id AS activity_id, a.activity_type, a.created_at, a.user_id AS actor_id,
	a.item_id AS raw_item_id, a.review_id AS raw_review_id, a.comment_id AS raw_comment_id,
	a.list_id AS raw_list_id, a.related_user_id AS raw_related_user_id,
	COALESCE(u.username, '') AS actor_username, COALESCE(u.avatar_url, '') AS actor_avatar,
	COALESCE(i.id, 0) AS item_id, COALESCE(i.title, '') AS item_title, COALESCE(i.item_type, '') AS item_type,
	COALESCE(i.poster_url, '') AS item_poster_url, COALESCE(i.external_api_id, '') AS item_external_id,
	COALESCE(i.external_api_source, '') AS item_external_source,
	i.year AS item_year, COALESCE(i.description, '') AS item_description,
	COALESCE(r.review_text, '') AS review_text, r.rating AS review_rating,
	COALESCE(r.user_id, 0) AS review_author_id, COALESCE(ru.username, '') AS review_author_name,
	COALESCE(c.comment_text, '') AS comment_text,
	rt.score AS rating_score,
	COALESCE(l.name, '') AS list_name, l.privacy_level AS list_privacy, COALESCE(l.user_id, 0) AS list_owner_id,
	COALESCE(tu.username, '') AS related_username`

type ActivityRepo interface {
	WithTx(tx *gorm.DB) ActivityRepo
	CreateActivity(ctx context.Context, activity *model.Activity) error
	ListActivityRows(ctx context.Context, actorIDs []uint64, types []string, limit, offset int) ([]*ActivityRow, error)
	ListProfileRows(ctx context.Context, actorID, viewerID uint64, limit, offset int) ([]*ActivityRow, error)
	DeleteByReview(ctx context.Context, reviewID uint64) error
	DeleteByComment(ctx context.Context, commentID uint64) error
	DeleteByList(ctx context.Context, listID uint64) error
	DeleteReviewLike(ctx context.Context, userID, reviewID uint64) error
	DeleteItemLike(ctx context.Context, userID, itemID uint64) error
	DeleteRating(ctx context.Context, userID, itemID uint64) error
	DeleteFollow(ctx context.Context, userID, followingID uint64) error
	DeleteListAdd(ctx context.Context, listID, itemID uint64) error
}

type ActivityRepoImpl struct {
	db *gorm.DB
}

func NewActivityRepo(db *gorm.DB) ActivityRepo {
	return &ActivityRepoImpl{db: db}
}

func (s *ActivityRepoImpl) WithTx(tx *gorm.DB) ActivityRepo {
	return &ActivityRepoImpl{db: tx}
}

func (s *ActivityRepoImpl) CreateActivity(ctx context.Context, activity *model.Activity) error {
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}
	return s.db.WithContext(ctx).Create(activity).Error
}

// rowsQuery 动态联表查询
// like_review / comment_review 的条目经由评论关联，rating 的分数按 (发起人, 条目) 关联
func (s *ActivityRepoImpl) rowsQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("activities AS a").
		Select(activityRowColumns).
		Joins("LEFT JOIN users u ON u.id = a.user_id").
		Joins("LEFT JOIN reviews r ON r.id = a.review_id").
		Joins("LEFT JOIN users ru ON ru.id = r.user_id").
		Joins("LEFT JOIN review_comments c ON c.id = a.comment_id").
		Joins("LEFT JOIN items i ON i.id = CASE WHEN a.activity_type IN ('like_review', 'comment_review') THEN r.item_id ELSE a.item_id END").
		Joins("LEFT JOIN ratings rt ON a.activity_type = 'rating' AND rt.user_id = a.user_id AND rt.item_id = a.item_id").
		Joins("LEFT JOIN custom_lists l ON l.id = a.list_id").
		Joins("LEFT JOIN users tu ON tu.id = a.related_user_id")
}

func scanPage(q *gorm.DB, limit, offset int) ([]*ActivityRow, error) {
	rows := make([]*ActivityRow, 0, limit)
	err := q.Order("a.created_at DESC, a.id DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListActivityRows 一次联表取出一页动态
func (s *ActivityRepoImpl) ListActivityRows(ctx context.Context, actorIDs []uint64, types []string, limit, offset int) ([]*ActivityRow, error) {
	if len(actorIDs) == 0 || len(types) == 0 {
		return make([]*ActivityRow, 0), nil
	}
	q := s.rowsQuery(ctx).Where("a.user_id IN ? AND a.activity_type IN ?", actorIDs, types)
	return scanPage(q, limit, offset)
}

// list_add 的可见性：本人、列表所有者、公开列表、粉丝可见且 viewer 已关注所有者
// 列表已删除时 l 为空，仅本人可见
const listAddVisible = `(a.activity_type <> ? OR a.user_id = ? OR l.user_id = ? OR l.privacy_level = ?
	OR (l.privacy_level = ? AND EXISTS (
		SELECT 1 FROM user_follows f WHERE f.follower_id = ? AND f.following_id = l.user_id)))`

// ListProfileRows 用户主页动态，看不到的 list_add 在查询中剔除，分页不出现空洞
// viewerID 为 0 表示游客
func (s *ActivityRepoImpl) ListProfileRows(ctx context.Context, actorID, viewerID uint64, limit, offset int) ([]*ActivityRow, error) {
	q := s.rowsQuery(ctx).
		Where("a.user_id = ? AND a.activity_type IN ?", actorID, model.AllActivityTypes).
		Where(listAddVisible,
			model.ActivityListAdd, viewerID, viewerID,
			model.PrivacyPublic, model.PrivacyFollowers, viewerID)
	return scanPage(q, limit, offset)
}

func (s *ActivityRepoImpl) DeleteByReview(ctx context.Context, reviewID uint64) error {
	return s.db.WithContext(ctx).Where("review_id = ?", reviewID).Delete(&model.Activity{}).Error
}

func (s *ActivityRepoImpl) DeleteByComment(ctx context.Context, commentID uint64) error {
	return s.db.WithContext(ctx).Where("comment_id = ?", commentID).Delete(&model.Activity{}).Error
}

func (s *ActivityRepoImpl) DeleteByList(ctx context.Context, listID uint64) error {
	return s.db.WithContext(ctx).Where("list_id = ?", listID).Delete(&model.Activity{}).Error
}

func (s *ActivityRepoImpl) DeleteReviewLike(ctx context.Context, userID, reviewID uint64) error {
	return s.db.WithContext(ctx).
		Where("activity_type = ? AND user_id = ? AND review_id = ?", model.ActivityLikeReview, userID, reviewID).
		Delete(&model.Activity{}).Error
}

func (s *ActivityRepoImpl) DeleteItemLike(ctx context.Context, userID, itemID uint64) error {
	return s.db.WithContext(ctx).
		Where("activity_type = ? AND user_id = ? AND item_id = ?", model.ActivityLikeItem, userID, itemID).
		Delete(&model.Activity{}).Error
}

func (s *ActivityRepoImpl) DeleteRating(ctx context.Context, userID, itemID uint64) error {
	return s.db.WithContext(ctx).
		Where("activity_type = ? AND user_id = ? AND item_id = ?", model.ActivityRating, userID, itemID).
		Delete(&model.Activity{}).Error
}

func (s *ActivityRepoImpl) DeleteFollow(ctx context.Context, userID, followingID uint64) error {
	return s.db.WithContext(ctx).
		Where("activity_type = ? AND user_id = ? AND related_user_id = ?", model.ActivityFollow, userID, followingID).
		Delete(&model.Activity{}).Error
}

func (s *ActivityRepoImpl) DeleteListAdd(ctx context.Context, listID, itemID uint64) error {
	return s.db.WithContext(ctx).
		Where("activity_type = ? AND list_id = ? AND item_id = ?", model.ActivityListAdd, listID, itemID).
		Delete(&model.Activity{}).Error
}
