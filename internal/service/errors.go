package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid         = errors.New("参数错误")
	ErrUserNotFound         = errors.New("用户不存在")
	ErrItemNotFound         = errors.New("条目不存在")
	ErrItemExist            = errors.New("条目已存在")
	ErrReviewNotFound       = errors.New("评论不存在")
	ErrRatingNotFound       = errors.New("评分不存在")
	ErrRatingInvalid        = errors.New("评分需在1到10之间")
	ErrCommentNotFound      = errors.New("回复不存在")
	ErrLibraryStatusInvalid = errors.New("书影库状态无效")
	ErrLibraryNotFound      = errors.New("书影库记录不存在")
	ErrListNotFound         = errors.New("片单不存在")
	ErrListForbidden        = errors.New("无权查看该片单")
	ErrListItemExist        = errors.New("条目已在片单中")
	ErrListItemNotFound     = errors.New("片单条目不存在")
	ErrUserFollowExist      = errors.New("用户已关注")
	ErrUserFollowNotFound   = errors.New("尚未关注该用户")
	ErrUserFollowLimit      = errors.New("用户关注数量超过限制")
	ErrUserFollowSelf       = errors.New("用户不能关注自己")
	ErrActionDuplicate      = errors.New("重复操作")
	ErrSysBoxNotFound       = errors.New("系统通知不存在")
	UnauthorizedError       = errors.New("权限不足")
	UnExpectedError         = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:         BadRequest,
	ErrUserNotFound:         NotFound,
	ErrItemNotFound:         NotFound,
	ErrItemExist:            BadRequest,
	ErrReviewNotFound:       NotFound,
	ErrRatingNotFound:       NotFound,
	ErrRatingInvalid:        BadRequest,
	ErrCommentNotFound:      NotFound,
	ErrLibraryStatusInvalid: BadRequest,
	ErrLibraryNotFound:      NotFound,
	ErrListNotFound:         NotFound,
	ErrListForbidden:        Forbidden,
	ErrListItemExist:        BadRequest,
	ErrListItemNotFound:     NotFound,
	ErrUserFollowExist:      BadRequest,
	ErrUserFollowNotFound:   BadRequest,
	ErrUserFollowLimit:      BadRequest,
	ErrUserFollowSelf:       BadRequest,
	ErrActionDuplicate:      BadRequest,
	ErrSysBoxNotFound:       NotFound,
	UnauthorizedError:       Forbidden,
	UnExpectedError:         InternalServerError,
}
