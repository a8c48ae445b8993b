package consts

const (
	DefaultAvatarURL = "default_avatar.png"
)

const (
	CanalInsert = "INSERT"
	CanalUpdate = "UPDATE"
	CanalDelete = "DELETE"
)

type ctxKey string

// ViewerIDKey 登录用户 ID 在 context.Context 中的键
const ViewerIDKey ctxKey = "viewer_id"
