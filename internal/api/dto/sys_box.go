package dto

// SysBoxDTO 系统通知返回对象
type SysBoxDTO struct {
	ID         string         `json:"id"`
	SenderID   uint64         `json:"sender_id"`
	SenderName string         `json:"sender_name"`
	AvatarURL  string         `json:"avatar_url"`
	Type       int8           `json:"type"`      // 1-评论点赞, 2-评论回复, 3-关注
	TargetID   uint64         `json:"target_id"` // 关联的评论ID或用户ID
	Content    string         `json:"content"`   // 预览内容
	Payload    map[string]any `json:"payload"`   // 扩展字段
	IsRead     bool           `json:"is_read"`
	CreatedAt  string         `json:"created_at"`
}

// SysBoxQueryDTO 通知分页
type SysBoxQueryDTO struct {
	Page       int  `form:"page" validate:"min=1"`
	PageSize   int  `form:"page_size" validate:"min=1,max=50"`
	Type       int8 `form:"type" validate:"min=0,max=3"`
	UnreadOnly bool `form:"unread_only"`
}

// SysBoxReadDTO 标记已读
type SysBoxReadDTO struct {
	MsgID string `json:"msg_id" binding:"required,len=24"`
}

// SysBoxReadAllDTO 一键已读，type 为 0 表示全部
type SysBoxReadAllDTO struct {
	Type int8 `json:"type" binding:"min=0,max=3"`
}

// SysBoxUnreadDTO 未读数返回
type SysBoxUnreadDTO struct {
	UnreadCount int64 `json:"unread_count"`
	Likes       int64 `json:"likes"`
	Comments    int64 `json:"comments"`
	Follows     int64 `json:"follows"`
}
