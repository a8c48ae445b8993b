package kafka

import (
	"ReaView/internal/model"
	"ReaView/internal/pkg/consts"
	"ReaView/internal/pkg/mongo"
	"ReaView/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
)

const snippetLen = 60

// ActivityHandler 订阅 activities 表的新增，为被点赞、被回复、被关注的用户写入站内通知
type ActivityHandler struct {
	reviewRepo repository.ReviewRepo
	actionRepo repository.ReviewActionRepo
	sysBoxRepo mongo.SysBoxRepo
}

func NewActivityHandler(reviewRepo repository.ReviewRepo, actionRepo repository.ReviewActionRepo, sysBox mongo.SysBoxRepo) *ActivityHandler {
	return &ActivityHandler{
		reviewRepo: reviewRepo,
		actionRepo: actionRepo,
		sysBoxRepo: sysBox,
	}
}

func (s *ActivityHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("activity consumer setup")
	return nil
}

func (s *ActivityHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("activity consumer cleanup")
	return nil
}

func (s *ActivityHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-activity consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-activity process batch error", "err", err)
		return err
	}
	return nil
}

func (s *ActivityHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, model.Activity{}.TableName())
	if err != nil {
		return err
	}
	// 动态只追加，删除不撤回已发出的通知
	if canalMsg.Type != consts.CanalInsert {
		return nil
	}
	for _, row := range canalMsg.Rows() {
		if err = s.HandleInsert(ctx, row); err != nil {
			return err
		}
	}
	return nil
}

// HandleInsert 按动态类型生成通知，自己对自己的操作不通知
func (s *ActivityHandler) HandleInsert(ctx context.Context, row CanalRow) error {
	activityID := row.Uint64("id")
	actorID := row.Uint64("user_id")

	var notice *mongo.SysBoxModel
	var err error
	switch row.String("activity_type") {
	case model.ActivityLikeReview:
		notice, err = s.reviewLikeNotice(ctx, actorID, row.Uint64("review_id"))
	case model.ActivityCommentReview:
		notice, err = s.commentNotice(ctx, actorID, row.Uint64("review_id"), row.Uint64("comment_id"))
	case model.ActivityFollow:
		notice = followNotice(actorID, row.Uint64("related_user_id"))
	default:
		return nil
	}
	if err != nil {
		return err
	}
	if notice == nil || notice.ReceiverID == 0 || notice.ReceiverID == actorID {
		return nil
	}

	notice.ActivityID = activityID
	notice.CreatedAt = time.Now()
	if err = s.sysBoxRepo.CreateNotification(ctx, notice); err != nil {
		log.ErrorContext(ctx, "failed to create notification", "activity_id", activityID, "err", err)
		return err
	}
	log.InfoContext(ctx, "notification created", "activity_id", activityID, "receiver", notice.ReceiverID)
	return nil
}

func (s *ActivityHandler) reviewLikeNotice(ctx context.Context, senderID, reviewID uint64) (*mongo.SysBoxModel, error) {
	review, err := s.reviewRepo.GetReviewById(ctx, reviewID)
	if err != nil || review == nil {
		return nil, err
	}
	return &mongo.SysBoxModel{
		ReceiverID: review.UserID,
		SenderID:   senderID,
		Type:       mongo.NoticeReviewLike,
		TargetID:   reviewID,
		Content:    "赞了你的评论",
		Payload: map[string]any{
			"item_id":     review.ItemID,
			"review_text": snippet(review.ReviewText),
		},
	}, nil
}

func (s *ActivityHandler) commentNotice(ctx context.Context, senderID, reviewID, commentID uint64) (*mongo.SysBoxModel, error) {
	review, err := s.reviewRepo.GetReviewById(ctx, reviewID)
	if err != nil || review == nil {
		return nil, err
	}
	comment, err := s.actionRepo.GetCommentByID(ctx, commentID)
	if err != nil || comment == nil {
		return nil, err
	}
	return &mongo.SysBoxModel{
		ReceiverID: review.UserID,
		SenderID:   senderID,
		Type:       mongo.NoticeReviewComment,
		TargetID:   reviewID,
		Content:    snippet(comment.CommentText),
		Payload: map[string]any{
			"item_id":    review.ItemID,
			"comment_id": commentID,
		},
	}, nil
}

func followNotice(followerID, followingID uint64) *mongo.SysBoxModel {
	return &mongo.SysBoxModel{
		ReceiverID: followingID,
		SenderID:   followerID,
		Type:       mongo.NoticeFollow,
		TargetID:   followerID,
		Content:    "关注了你",
	}
}

func snippet(s string) string {
	r := []rune(s)
	if len(r) <= snippetLen {
		return s
	}
	return string(r[:snippetLen]) + "..."
}
