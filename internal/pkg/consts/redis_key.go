package consts

const (
	UserFollowerCountKey  = "user:follower:count:"
	UserFollowingCountKey = "user:following:count:"
	PosterMissKey         = "item:poster:miss:"
	PosterBackfillCursor  = "item:poster:backfill:cursor"
	TokenBlacklistKey     = "token:blacklist:"
)

const (
	PosterFetchLock   = "lock:item:poster:"
	PosterBackfillJob = "lock:job:poster_backfill"
	SlotReconcileJob  = "lock:job:slot_reconcile"
)
