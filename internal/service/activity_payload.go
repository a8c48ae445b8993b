package service

import (
	"ReaView/internal/api/dto"
	"ReaView/internal/model"
	"ReaView/internal/pkg/util"
	"ReaView/internal/repository"
	"errors"
	"fmt"
)

// ErrPayloadIntegrity 动态缺少其类型必需的外键
var ErrPayloadIntegrity = errors.New("activity payload integrity")

// ActivityPayload 按 activity_type 区分的动态内容
type ActivityPayload interface {
	Type() string
	// ReviewSubject 点赞/回复统计针对的评论，0 表示主体不是评论
	ReviewSubject() uint64
	// ItemSubject 关联条目，0 表示无
	ItemSubject() uint64
	// ItemRef 需要补全海报的条目，无条目时为 nil
	ItemRef() *ItemRef
	fill(e *dto.FeedEntryDTO)
}

// ItemRef 动态中引用的条目快照，记录已删除时除 ID 外均为零值
type ItemRef struct {
	ID             uint64
	Title          string
	ItemType       string
	PosterURL      string
	ExternalID     string
	ExternalSource string
	Year           *int
	Description    string
}

func (r *ItemRef) fill(e *dto.FeedEntryDTO) {
	e.ItemID = r.ID
	e.Title = r.Title
	e.ItemType = r.ItemType
	e.PosterURL = r.PosterURL
	e.Year = r.Year
	e.Description = r.Description
}

func (r *ItemRef) target() PosterTarget {
	return PosterTarget{
		ItemID:         r.ID,
		ItemType:       r.ItemType,
		ExternalID:     r.ExternalID,
		ExternalSource: r.ExternalSource,
		Title:          r.Title,
	}
}

// ReviewRef 动态中引用的评论
type ReviewRef struct {
	ID             uint64
	Text           string
	Rating         *int
	AuthorID       uint64
	AuthorUsername string
}

func (r *ReviewRef) fill(e *dto.FeedEntryDTO) {
	e.ReviewID = r.ID
	e.ReviewText = r.Text
	e.ReviewRating = r.Rating
	e.ReviewAuthorID = r.AuthorID
	e.ReviewAuthorUsername = r.AuthorUsername
}

type ReviewPayload struct {
	Item   ItemRef
	Review ReviewRef
}

func (p *ReviewPayload) Type() string          { return model.ActivityReview }
func (p *ReviewPayload) ReviewSubject() uint64 { return p.Review.ID }
func (p *ReviewPayload) ItemSubject() uint64   { return p.Item.ID }
func (p *ReviewPayload) ItemRef() *ItemRef     { return &p.Item }
func (p *ReviewPayload) fill(e *dto.FeedEntryDTO) {
	p.Item.fill(e)
	p.Review.fill(e)
}

type RatingPayload struct {
	Item  ItemRef
	Score *int
}

func (p *RatingPayload) Type() string          { return model.ActivityRating }
func (p *RatingPayload) ReviewSubject() uint64 { return 0 }
func (p *RatingPayload) ItemSubject() uint64   { return p.Item.ID }
func (p *RatingPayload) ItemRef() *ItemRef     { return &p.Item }
func (p *RatingPayload) fill(e *dto.FeedEntryDTO) {
	p.Item.fill(e)
	e.RatingScore = p.Score
}

type FollowPayload struct {
	RelatedUserID   uint64
	RelatedUsername string
}

func (p *FollowPayload) Type() string          { return model.ActivityFollow }
func (p *FollowPayload) ReviewSubject() uint64 { return 0 }
func (p *FollowPayload) ItemSubject() uint64   { return 0 }
func (p *FollowPayload) ItemRef() *ItemRef     { return nil }
func (p *FollowPayload) fill(e *dto.FeedEntryDTO) {
	e.RelatedUserID = p.RelatedUserID
	e.RelatedUsername = p.RelatedUsername
}

// LikeReviewPayload 条目取自被点赞评论，而非动态自身的 item_id
type LikeReviewPayload struct {
	Item   ItemRef
	Review ReviewRef
}

func (p *LikeReviewPayload) Type() string          { return model.ActivityLikeReview }
func (p *LikeReviewPayload) ReviewSubject() uint64 { return p.Review.ID }
func (p *LikeReviewPayload) ItemSubject() uint64   { return p.Item.ID }
func (p *LikeReviewPayload) ItemRef() *ItemRef     { return &p.Item }
func (p *LikeReviewPayload) fill(e *dto.FeedEntryDTO) {
	p.Item.fill(e)
	p.Review.fill(e)
}

type LikeItemPayload struct {
	Item ItemRef
}

func (p *LikeItemPayload) Type() string          { return model.ActivityLikeItem }
func (p *LikeItemPayload) ReviewSubject() uint64 { return 0 }
func (p *LikeItemPayload) ItemSubject() uint64   { return p.Item.ID }
func (p *LikeItemPayload) ItemRef() *ItemRef     { return &p.Item }
func (p *LikeItemPayload) fill(e *dto.FeedEntryDTO) {
	p.Item.fill(e)
}

type CommentPayload struct {
	Item        ItemRef
	Review      ReviewRef
	CommentID   uint64
	CommentText string
}

func (p *CommentPayload) Type() string          { return model.ActivityCommentReview }
func (p *CommentPayload) ReviewSubject() uint64 { return p.Review.ID }
func (p *CommentPayload) ItemSubject() uint64   { return p.Item.ID }
func (p *CommentPayload) ItemRef() *ItemRef     { return &p.Item }
func (p *CommentPayload) fill(e *dto.FeedEntryDTO) {
	p.Item.fill(e)
	p.Review.fill(e)
	e.CommentID = p.CommentID
	e.CommentText = p.CommentText
}

// ListAddPayload 列表已删除时 ListPrivacy 为 nil，按私有处理
type ListAddPayload struct {
	Item        ItemRef
	ListID      uint64
	ListName    string
	ListOwnerID uint64
	ListPrivacy *int8
}

func (p *ListAddPayload) Type() string          { return model.ActivityListAdd }
func (p *ListAddPayload) ReviewSubject() uint64 { return 0 }
func (p *ListAddPayload) ItemSubject() uint64   { return p.Item.ID }
func (p *ListAddPayload) ItemRef() *ItemRef     { return &p.Item }
func (p *ListAddPayload) fill(e *dto.FeedEntryDTO) {
	p.Item.fill(e)
	e.ListID = p.ListID
	e.ListName = p.ListName
}

type payloadResolver func(row *repository.ActivityRow) (ActivityPayload, error)

var payloadResolvers = map[string]payloadResolver{
	model.ActivityReview:        resolveReview,
	model.ActivityRating:        resolveRating,
	model.ActivityFollow:        resolveFollow,
	model.ActivityLikeReview:    resolveLikeReview,
	model.ActivityLikeItem:      resolveLikeItem,
	model.ActivityCommentReview: resolveComment,
	model.ActivityListAdd:       resolveListAdd,
}

// ResolvePayload 按类型解析联表行；必需外键为空时返回 ErrPayloadIntegrity
func ResolvePayload(row *repository.ActivityRow) (ActivityPayload, error) {
	resolve, ok := payloadResolvers[row.ActivityType]
	if !ok {
		return nil, fmt.Errorf("%w: unknown type %q", ErrPayloadIntegrity, row.ActivityType)
	}
	return resolve(row)
}

func missing(row *repository.ActivityRow, fk string) error {
	return fmt.Errorf("%w: %s activity %d has no %s", ErrPayloadIntegrity, row.ActivityType, row.ActivityID, fk)
}

// itemRefOf 被引用条目已删除时保留原外键，其余字段为空
func itemRefOf(row *repository.ActivityRow, fallbackID uint64) ItemRef {
	ref := ItemRef{
		ID:             row.ItemID,
		Title:          row.ItemTitle,
		ItemType:       row.ItemType,
		PosterURL:      row.ItemPosterURL,
		ExternalID:     row.ItemExternalID,
		ExternalSource: row.ItemExternalSource,
		Year:           row.ItemYear,
		Description:    row.ItemDescription,
	}
	if ref.ID == 0 {
		ref.ID = fallbackID
	}
	return ref
}

func reviewRefOf(row *repository.ActivityRow) ReviewRef {
	return ReviewRef{
		ID:             util.DerefUint64(row.RawReviewID),
		Text:           row.ReviewText,
		Rating:         row.ReviewRating,
		AuthorID:       row.ReviewAuthorID,
		AuthorUsername: row.ReviewAuthorName,
	}
}

func resolveReview(row *repository.ActivityRow) (ActivityPayload, error) {
	if row.RawReviewID == nil {
		return nil, missing(row, "review_id")
	}
	return &ReviewPayload{
		Item:   itemRefOf(row, util.DerefUint64(row.RawItemID)),
		Review: reviewRefOf(row),
	}, nil
}

func resolveRating(row *repository.ActivityRow) (ActivityPayload, error) {
	if row.RawItemID == nil {
		return nil, missing(row, "item_id")
	}
	return &RatingPayload{
		Item:  itemRefOf(row, *row.RawItemID),
		Score: row.RatingScore,
	}, nil
}

func resolveFollow(row *repository.ActivityRow) (ActivityPayload, error) {
	if row.RawRelatedUserID == nil {
		return nil, missing(row, "related_user_id")
	}
	return &FollowPayload{
		RelatedUserID:   *row.RawRelatedUserID,
		RelatedUsername: row.RelatedUsername,
	}, nil
}

func resolveLikeReview(row *repository.ActivityRow) (ActivityPayload, error) {
	if row.RawReviewID == nil {
		return nil, missing(row, "review_id")
	}
	return &LikeReviewPayload{
		Item:   itemRefOf(row, 0),
		Review: reviewRefOf(row),
	}, nil
}

func resolveLikeItem(row *repository.ActivityRow) (ActivityPayload, error) {
	if row.RawItemID == nil {
		return nil, missing(row, "item_id")
	}
	return &LikeItemPayload{Item: itemRefOf(row, *row.RawItemID)}, nil
}

func resolveComment(row *repository.ActivityRow) (ActivityPayload, error) {
	if row.RawReviewID == nil {
		return nil, missing(row, "review_id")
	}
	if row.RawCommentID == nil {
		return nil, missing(row, "comment_id")
	}
	return &CommentPayload{
		Item:        itemRefOf(row, 0),
		Review:      reviewRefOf(row),
		CommentID:   *row.RawCommentID,
		CommentText: row.CommentText,
	}, nil
}

func resolveListAdd(row *repository.ActivityRow) (ActivityPayload, error) {
	if row.RawListID == nil {
		return nil, missing(row, "list_id")
	}
	if row.RawItemID == nil {
		return nil, missing(row, "item_id")
	}
	return &ListAddPayload{
		Item:        itemRefOf(row, *row.RawItemID),
		ListID:      *row.RawListID,
		ListName:    row.ListName,
		ListOwnerID: row.ListOwnerID,
		ListPrivacy: row.ListPrivacy,
	}, nil
}
