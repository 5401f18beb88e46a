package recording

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/killallgit/audionote/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	dir := t.TempDir()
	outside := t.TempDir()
	inside := filepath.Join(dir, "1700000000000.3gp")
	require.NoError(t, os.WriteFile(inside, []byte{1}, 0o644))
	secret := filepath.Join(outside, "id_rsa")
	require.NoError(t, os.WriteFile(secret, []byte("key"), 0o600))
	link := filepath.Join(dir, "link.3gp")
	require.NoError(t, os.Symlink(secret, link))

	tests := []struct {
		name    string
		dir     string
		path    string
		wantErr bool
	}{
		{name: "recording in directory", dir: dir, path: inside},
		{name: "missing recording in directory", dir: dir, path: filepath.Join(dir, "gone.3gp")},
		{name: "file elsewhere", dir: dir, path: secret, wantErr: true},
		{name: "dot-dot escape", dir: dir, path: filepath.Join(dir, "..", filepath.Base(outside), "id_rsa"), wantErr: true},
		{name: "symlink out of directory", dir: dir, path: link, wantErr: true},
		{name: "the directory itself", dir: dir, path: dir, wantErr: true},
		{name: "empty path", dir: dir, path: "", wantErr: true},
		{name: "no directory configured", dir: "", path: inside, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePath(tt.dir, tt.path)
			if tt.wantErr {
				assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidInput), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.True(t, filepath.IsAbs(got))
			assert.Equal(t, filepath.Base(tt.path), filepath.Base(got))
		})
	}
}
