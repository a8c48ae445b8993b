package service

import (
	"ReaView/internal/api/dto"
	"ReaView/internal/pkg/consts"
	"ReaView/internal/pkg/mongo"
	"ReaView/internal/repository"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
)

// fakeSysBox 内存通知箱，按插入顺序倒序返回
type fakeSysBox struct {
	notices []*mongo.SysBoxModel
	filters []mongo.NoticeFilter
}

func (f *fakeSysBox) EnsureIndexes(context.Context) error { return nil }

func (f *fakeSysBox) CreateNotification(_ context.Context, msg *mongo.SysBoxModel) error {
	msg.ID = primitive.NewObjectID()
	f.notices = append(f.notices, msg)
	return nil
}

func (f *fakeSysBox) ListNotifications(_ context.Context, filter mongo.NoticeFilter, limit, offset int64) ([]*mongo.SysBoxModel, error) {
	f.filters = append(f.filters, filter)
	res := make([]*mongo.SysBoxModel, 0)
	for i := len(f.notices) - 1; i >= 0; i-- {
		n := f.notices[i]
		if n.ReceiverID != filter.ReceiverID || (filter.Type != 0 && n.Type != filter.Type) || (filter.UnreadOnly && n.IsRead) {
			continue
		}
		res = append(res, n)
	}
	if offset >= int64(len(res)) {
		return nil, nil
	}
	res = res[offset:]
	if int64(len(res)) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (f *fakeSysBox) GetByID(_ context.Context, id primitive.ObjectID) (*mongo.SysBoxModel, error) {
	for _, n := range f.notices {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, mongoDB.ErrNoDocuments
}

func (f *fakeSysBox) MarkAsRead(_ context.Context, userID uint64, id primitive.ObjectID) error {
	n, err := f.GetByID(context.Background(), id)
	if err != nil || n.ReceiverID != userID {
		return mongoDB.ErrNoDocuments
	}
	n.IsRead = true
	return nil
}

func (f *fakeSysBox) MarkAllAsRead(_ context.Context, userID uint64, noticeType int8) (int64, error) {
	var marked int64
	for _, n := range f.notices {
		if n.ReceiverID == userID && !n.IsRead && (noticeType == 0 || n.Type == noticeType) {
			n.IsRead = true
			marked++
		}
	}
	return marked, nil
}

func (f *fakeSysBox) CountUnreadByType(_ context.Context, userID uint64) (map[int8]int64, error) {
	res := make(map[int8]int64)
	for _, n := range f.notices {
		if n.ReceiverID == userID && !n.IsRead {
			res[n.Type]++
		}
	}
	return res, nil
}

func TestSysBoxNotifications(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	ctx := context.Background()

	box := &fakeSysBox{}
	svc := NewSysBoxService(box, repository.NewUserRepo(env.db))
	for _, n := range []*mongo.SysBoxModel{
		{ReceiverID: alice.ID, SenderID: bob.ID, Type: mongo.NoticeReviewLike, TargetID: 1},
		{ReceiverID: alice.ID, SenderID: bob.ID, Type: mongo.NoticeFollow, TargetID: bob.ID},
		{ReceiverID: alice.ID, SenderID: 0, Type: mongo.NoticeReviewComment, Content: "hi"},
		{ReceiverID: bob.ID, SenderID: alice.ID, Type: mongo.NoticeFollow},
	} {
		n.CreatedAt = time.Now()
		require.NoError(t, box.CreateNotification(ctx, n))
	}

	list, err := svc.GetNotificationList(ctx, alice.ID, &dto.SysBoxQueryDTO{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "系统通知", list[0].SenderName)
	assert.Equal(t, consts.DefaultAvatarURL, list[0].AvatarURL)
	assert.Equal(t, "bob", list[1].SenderName)

	unread, err := svc.GetUnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, &dto.SysBoxUnreadDTO{UnreadCount: 3, Likes: 1, Comments: 1, Follows: 1}, unread)

	// 他人的通知不可标记
	assert.ErrorIs(t, svc.MarkRead(ctx, bob.ID, list[0].ID), UnauthorizedError)
	assert.ErrorIs(t, svc.MarkRead(ctx, alice.ID, "bad-id"), ErrParamInvalid)
	assert.ErrorIs(t, svc.MarkRead(ctx, alice.ID, primitive.NewObjectID().Hex()), ErrSysBoxNotFound)
	require.NoError(t, svc.MarkRead(ctx, alice.ID, list[0].ID))

	marked, err := svc.MarkAllRead(ctx, alice.ID, mongo.NoticeFollow)
	require.NoError(t, err)
	assert.Equal(t, int64(1), marked)

	unreadOnly, err := svc.GetNotificationList(ctx, alice.ID, &dto.SysBoxQueryDTO{Page: 1, UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, unreadOnly, 1)
	assert.Equal(t, mongo.NoticeReviewLike, unreadOnly[0].Type)

	_, err = svc.MarkAllRead(ctx, alice.ID, 9)
	assert.ErrorIs(t, err, ErrParamInvalid)
}
