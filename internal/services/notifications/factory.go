package notifications

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Backends holds what the configured posters need
type Backends struct {
	DB             *gorm.DB
	DesktopCommand string
	Redis          Publisher
	RedisChannel   string
}

// NewPoster builds a poster for the named backends (tray, log, desktop, redis)
func NewPoster(names []string, deps Backends) (Poster, error) {
	var posters MultiPoster
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "tray":
			if deps.DB == nil {
				return nil, fmt.Errorf("tray backend requires a database")
			}
			posters = append(posters, NewStorePoster(deps.DB))
		case "log":
			posters = append(posters, NewLogPoster(nil))
		case "desktop":
			posters = append(posters, NewDesktopPoster(deps.DesktopCommand, nil))
		case "redis":
			if deps.Redis == nil {
				return nil, ErrRedisClientUnavailable
			}
			posters = append(posters, NewRedisPoster(deps.Redis, deps.RedisChannel))
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
		}
	}
	if len(posters) == 0 {
		posters = append(posters, NewLogPoster(nil))
	}
	return posters, nil
}
