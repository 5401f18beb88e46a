package metadata

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/killallgit/audionote/internal/services/cache"
	apperrors "github.com/killallgit/audionote/pkg/errors"
	"github.com/killallgit/audionote/pkg/ffmpeg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReader struct {
	calls int
	err   error
}

func (r *countingReader) GetMetadata(ctx context.Context, path string) (*ffmpeg.AudioMetadata, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return &ffmpeg.AudioMetadata{Duration: 5, Format: "mov,mp4,m4a,3gp,3g2,mj2", Codec: "amr_nb", Size: 3}, nil
}

func TestProbeCachesPerFileVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "1.3gp")
	require.NoError(t, os.WriteFile(path, []byte("amr"), 0o644))

	reader := &countingReader{}
	p := NewProber(reader, cache.NewMemoryCache(10), 0)
	ctx := context.Background()

	meta, err := p.Probe(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "amr_nb", meta.Codec)

	_, err = p.Probe(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 1, reader.calls)

	require.NoError(t, os.WriteFile(path, []byte("longer amr"), 0o644))
	_, err = p.Probe(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, reader.calls)
}

func TestProbeErrors(t *testing.T) {
	p := NewProber(&countingReader{}, nil, 0)
	_, err := p.Probe(context.Background(), filepath.Join(t.TempDir(), "missing.3gp"))
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))

	path := filepath.Join(t.TempDir(), "1.3gp")
	require.NoError(t, os.WriteFile(path, []byte("amr"), 0o644))
	p = NewProber(&countingReader{err: ffmpeg.ErrFFprobeNotFound}, nil, 0)
	_, err = p.Probe(context.Background(), path)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeDeviceUnavailable))
	assert.True(t, errors.Is(err, ffmpeg.ErrFFprobeNotFound))
}
