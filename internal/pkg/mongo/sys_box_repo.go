package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const sysBoxCollection = "sys_box"

type SysBoxRepo interface {
	EnsureIndexes(ctx context.Context) error
	CreateNotification(ctx context.Context, msg *SysBoxModel) error
	ListNotifications(ctx context.Context, filter NoticeFilter, limit, offset int64) ([]*SysBoxModel, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*SysBoxModel, error)
	MarkAsRead(ctx context.Context, userID uint64, id primitive.ObjectID) error
	MarkAllAsRead(ctx context.Context, userID uint64, noticeType int8) (int64, error)
	CountUnreadByType(ctx context.Context, userID uint64) (map[int8]int64, error)
}

type sysBoxRepoImpl struct {
	col *mongo.Collection
}

func NewSysBoxRepo(db *mongo.Database) SysBoxRepo {
	return &sysBoxRepoImpl{col: db.Collection(sysBoxCollection)}
}

// EnsureIndexes activity_id 唯一，消费重放时不会重复通知
func (s *sysBoxRepoImpl) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "receiver_id", Value: 1}, {Key: "is_read", Value: 1}, {Key: "created_at", Value: -1}}},
		{
			Keys:    bson.D{{Key: "activity_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(bson.M{"activity_id": bson.M{"$gt": 0}}),
		},
	})
	return err
}

func (s *sysBoxRepoImpl) CreateNotification(ctx context.Context, msg *SysBoxModel) error {
	_, err := s.col.InsertOne(ctx, msg)
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return err
}

func toBson(f NoticeFilter) bson.M {
	m := bson.M{"receiver_id": f.ReceiverID}
	if f.Type != 0 {
		m["type"] = f.Type
	}
	if f.UnreadOnly {
		m["is_read"] = false
	}
	return m
}

// ListNotifications 按时间倒序分页
func (s *sysBoxRepoImpl) ListNotifications(ctx context.Context, filter NoticeFilter, limit, offset int64) ([]*SysBoxModel, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := s.col.Find(ctx, toBson(filter), opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	list := make([]*SysBoxModel, 0, limit)
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *sysBoxRepoImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*SysBoxModel, error) {
	var msg SysBoxModel
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// MarkAsRead 只能标记自己的通知，不匹配时返回 mongo.ErrNoDocuments
func (s *sysBoxRepoImpl) MarkAsRead(ctx context.Context, userID uint64, id primitive.ObjectID) error {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id, "receiver_id": userID},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// MarkAllAsRead noticeType 为 0 时清空全部未读，返回被标记的条数
func (s *sysBoxRepoImpl) MarkAllAsRead(ctx context.Context, userID uint64, noticeType int8) (int64, error) {
	filter := toBson(NoticeFilter{ReceiverID: userID, Type: noticeType, UnreadOnly: true})
	res, err := s.col.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// CountUnreadByType 各类型未读数，没有未读的类型不出现在结果中
func (s *sysBoxRepoImpl) CountUnreadByType(ctx context.Context, userID uint64) (map[int8]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"receiver_id": userID, "is_read": false}}},
		{{Key: "$group", Value: bson.M{"_id": "$type", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var rows []struct {
		Type  int8  `bson:"_id"`
		Count int64 `bson:"count"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	res := make(map[int8]int64, len(rows))
	for _, r := range rows {
		res[r.Type] = r.Count
	}
	return res, nil
}
