package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

// gin.Context 中的键
const (
	ContextUserKey   = "user"
	ContextConfigKey = "config"
)

const (
	RedisLockPrefix    = "codementor:guidance:lock:"
	RedisRevokedPrefix = "codementor:session:revoked:"
)
