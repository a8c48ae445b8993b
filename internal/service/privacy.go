package service

import (
	"ReaView/internal/model"
	"ReaView/internal/repository"
	"context"
)

// CanViewList 三级可见性：所有者始终可见；2 公开；1 仅粉丝；0 仅自己
func CanViewList(viewerID, ownerID uint64, privacyLevel int8, viewerFollowsOwner bool) bool {
	if viewerID != 0 && viewerID == ownerID {
		return true
	}
	switch privacyLevel {
	case model.PrivacyPublic:
		return true
	case model.PrivacyFollowers:
		return viewerID != 0 && viewerFollowsOwner
	default:
		return false
	}
}

// privacyResolver 按需查询关注关系，同一次请求内对同一所有者只查一次
type privacyResolver struct {
	followRepo repository.UserFollowRepo
	viewerID   uint64
	follows    map[uint64]bool
}

func newPrivacyResolver(followRepo repository.UserFollowRepo, viewerID uint64) *privacyResolver {
	return &privacyResolver{
		followRepo: followRepo,
		viewerID:   viewerID,
		follows:    make(map[uint64]bool),
	}
}

func (r *privacyResolver) canView(ctx context.Context, ownerID uint64, privacyLevel int8) (bool, error) {
	if r.viewerID == ownerID || privacyLevel == model.PrivacyPublic {
		return CanViewList(r.viewerID, ownerID, privacyLevel, false), nil
	}
	if privacyLevel != model.PrivacyFollowers || r.viewerID == 0 {
		return false, nil
	}
	follows, ok := r.follows[ownerID]
	if !ok {
		f, err := r.followRepo.GetUserFollow(ctx, r.viewerID, ownerID)
		if err != nil {
			return false, err
		}
		follows = f != nil
		r.follows[ownerID] = follows
	}
	return CanViewList(r.viewerID, ownerID, privacyLevel, follows), nil
}
