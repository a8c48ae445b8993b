package service

import (
	"ReaView/internal/api/dto"
	"ReaView/internal/pkg/consts"
	"ReaView/internal/pkg/mongo"
	"ReaView/internal/pkg/util"
	"ReaView/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
)

const (
	defaultNoticePageSize = 20
	maxNoticePageSize     = 50
	systemSenderName      = "系统通知"
)

type SysBoxService interface {
	GetNotificationList(ctx context.Context, userID uint64, query *dto.SysBoxQueryDTO) ([]*dto.SysBoxDTO, error)
	GetUnreadCount(ctx context.Context, userID uint64) (*dto.SysBoxUnreadDTO, error)
	MarkRead(ctx context.Context, userID uint64, msgID string) error
	MarkAllRead(ctx context.Context, userID uint64, noticeType int8) (int64, error)
}

type sysBoxServiceImpl struct {
	sysBoxRepo mongo.SysBoxRepo
	userRepo   repository.UserRepo
}

func NewSysBoxService(sysBox mongo.SysBoxRepo, user repository.UserRepo) SysBoxService {
	return &sysBoxServiceImpl{
		sysBoxRepo: sysBox,
		userRepo:   user,
	}
}

// GetNotificationList 批量补全发送者昵称与头像
func (s *sysBoxServiceImpl) GetNotificationList(ctx context.Context, userID uint64, query *dto.SysBoxQueryDTO) ([]*dto.SysBoxDTO, error) {
	page := max(query.Page, 1)
	_, pageSize := util.NormalizePage(0, query.PageSize, defaultNoticePageSize, maxNoticePageSize)

	filter := mongo.NoticeFilter{ReceiverID: userID, Type: query.Type, UnreadOnly: query.UnreadOnly}
	list, err := s.sysBoxRepo.ListNotifications(ctx, filter, int64(pageSize), int64((page-1)*pageSize))
	if err != nil {
		return nil, err
	}

	senderIDs := make([]uint64, 0, len(list))
	for _, m := range list {
		if m.SenderID > 0 {
			senderIDs = append(senderIDs, m.SenderID)
		}
	}
	users, err := s.userRepo.GetUserByIds(ctx, senderIDs)
	if err != nil {
		return nil, err
	}
	um := userMap(users)

	res := make([]*dto.SysBoxDTO, 0, len(list))
	for _, m := range list {
		d := &dto.SysBoxDTO{
			ID:        m.ID.Hex(),
			SenderID:  m.SenderID,
			Type:      m.Type,
			TargetID:  m.TargetID,
			Content:   m.Content,
			Payload:   m.Payload,
			IsRead:    m.IsRead,
			CreatedAt: util.FormatTime(m.CreatedAt),
		}
		// SenderID 为 0 代表系统发送
		if m.SenderID == 0 {
			d.SenderName = systemSenderName
		} else if u, ok := um[m.SenderID]; ok {
			d.SenderName = u.Username
			d.AvatarURL = u.AvatarURL
		}
		if d.AvatarURL == "" {
			d.AvatarURL = consts.DefaultAvatarURL
		}
		res = append(res, d)
	}
	return res, nil
}

func (s *sysBoxServiceImpl) GetUnreadCount(ctx context.Context, userID uint64) (*dto.SysBoxUnreadDTO, error) {
	byType, err := s.sysBoxRepo.CountUnreadByType(ctx, userID)
	if err != nil {
		return nil, err
	}
	res := &dto.SysBoxUnreadDTO{
		Likes:    byType[mongo.NoticeReviewLike],
		Comments: byType[mongo.NoticeReviewComment],
		Follows:  byType[mongo.NoticeFollow],
	}
	for _, n := range byType {
		res.UnreadCount += n
	}
	return res, nil
}

// MarkRead 已读的通知直接返回；他人的通知返回 UnauthorizedError
func (s *sysBoxServiceImpl) MarkRead(ctx context.Context, userID uint64, msgID string) error {
	id, err := primitive.ObjectIDFromHex(msgID)
	if err != nil {
		return ErrParamInvalid
	}

	notice, err := s.sysBoxRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongoDB.ErrNoDocuments) {
			return ErrSysBoxNotFound
		}
		return err
	}
	if notice.ReceiverID != userID {
		return UnauthorizedError
	}
	if notice.IsRead {
		return nil
	}
	return s.sysBoxRepo.MarkAsRead(ctx, userID, id)
}

func (s *sysBoxServiceImpl) MarkAllRead(ctx context.Context, userID uint64, noticeType int8) (int64, error) {
	if noticeType < 0 || noticeType > mongo.NoticeFollow {
		return 0, ErrParamInvalid
	}
	return s.sysBoxRepo.MarkAllAsRead(ctx, userID, noticeType)
}
