package notifications

import "errors"

var (
	ErrInvalidDeepLink        = errors.New("invalid deep link")
	ErrUnknownBackend         = errors.New("unknown notification backend")
	ErrNotificationNotFound   = errors.New("notification not found")
	ErrRedisClientUnavailable = errors.New("redis client is not configured")
)
