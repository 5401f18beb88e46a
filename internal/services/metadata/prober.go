package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/killallgit/audionote/internal/services/cache"
	apperrors "github.com/killallgit/audionote/pkg/errors"
	"github.com/killallgit/audionote/pkg/ffmpeg"
	"github.com/sirupsen/logrus"
)

// DefaultTTL is how long probed metadata is reused
const DefaultTTL = time.Hour

// Reader extracts metadata with ffprobe
type Reader interface {
	GetMetadata(ctx context.Context, path string) (*ffmpeg.AudioMetadata, error)
}

// Prober reads recording metadata, caching results per file version
type Prober struct {
	reader Reader
	cache  cache.Cache
	ttl    time.Duration
}

// NewProber creates a prober. A nil cache disables caching.
func NewProber(reader Reader, c cache.Cache, ttl time.Duration) *Prober {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Prober{reader: reader, cache: c, ttl: ttl}
}

// Probe returns the metadata of the recording at path
func (p *Prober) Probe(ctx context.Context, path string) (*ffmpeg.AudioMetadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, apperrors.NotFound("audio file", path)
	}
	// a re-recorded file gets a new key
	key := fmt.Sprintf("meta:%s:%d:%d", path, info.Size(), info.ModTime().UnixNano())

	if p.cache != nil {
		if data, ok := p.cache.Get(ctx, key); ok {
			var meta ffmpeg.AudioMetadata
			if err := json.Unmarshal(data, &meta); err == nil {
				return &meta, nil
			}
		}
	}

	meta, err := p.reader.GetMetadata(ctx, path)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDeviceUnavailable, "could not read recording metadata")
	}

	if p.cache != nil {
		if data, err := json.Marshal(meta); err == nil {
			if err := p.cache.Set(ctx, key, data, p.ttl); err != nil {
				logrus.WithError(err).WithField("path", path).Debug("Failed to cache metadata")
			}
		}
	}
	return meta, nil
}
