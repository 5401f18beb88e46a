package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/killallgit/audionote/internal/database"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Initialize(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })
	return db.DB
}

type fakePublisher struct {
	channel string
	message interface{}
	err     error
}

func (f *fakePublisher) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	f.channel = channel
	f.message = message
	cmd := redis.NewIntCmd(ctx, "publish", channel, message)
	if f.err != nil {
		cmd.SetErr(f.err)
	} else {
		cmd.SetVal(1)
	}
	return cmd
}

func sample(id uint, title string) Notification {
	return Notification{
		NoteID:   id,
		Title:    title,
		DeepLink: DeepLink(DefaultScheme, id),
		Sound:    true,
		Vibrate:  true,
		PostedAt: time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC),
	}
}

func TestStorePosterReplacesPerNote(t *testing.T) {
	db := setupTestDB(t)
	poster := NewStorePoster(db)
	tray := NewTray(db)
	ctx := context.Background()

	require.NoError(t, poster.Post(ctx, sample(1, "first")))
	require.NoError(t, poster.Post(ctx, sample(2, "other")))
	again := sample(1, "renamed")
	again.PostedAt = again.PostedAt.Add(time.Minute)
	require.NoError(t, poster.Post(ctx, again))

	rows, err := tray.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, uint(1), rows[0].NoteID, "newest first")
	assert.Equal(t, "renamed", rows[0].Title)
	assert.Equal(t, 2, rows[0].PostCount)
	assert.Equal(t, 1, rows[1].PostCount)
}

func TestTrayDismiss(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	require.NoError(t, NewStorePoster(db).Post(ctx, sample(5, "x")))

	tray := NewTray(db)
	require.NoError(t, tray.Dismiss(ctx, 5))
	assert.ErrorIs(t, tray.Dismiss(ctx, 5), ErrNotificationNotFound)

	rows, err := tray.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRedisPoster(t *testing.T) {
	pub := &fakePublisher{}
	poster := NewRedisPoster(pub, "audionote:notifications")

	require.NoError(t, poster.Post(context.Background(), sample(9, "Lecture 1")))
	assert.Equal(t, "audionote:notifications", pub.channel)

	var got Notification
	require.NoError(t, json.Unmarshal(pub.message.([]byte), &got))
	assert.Equal(t, uint(9), got.NoteID)
	assert.Equal(t, "audionote://notes/9/edit", got.DeepLink)

	pub.err = errors.New("connection refused")
	assert.Error(t, poster.Post(context.Background(), sample(9, "x")))

	assert.ErrorIs(t, NewRedisPoster(nil, "c").Post(context.Background(), sample(1, "x")), ErrRedisClientUnavailable)
}

func TestDesktopPosterArgs(t *testing.T) {
	var gotName string
	var gotArgs []string
	poster := NewDesktopPoster("", func(ctx context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		return nil
	})

	require.NoError(t, poster.Post(context.Background(), sample(2, "Call mom")))
	assert.Equal(t, "notify-send", gotName)
	require.GreaterOrEqual(t, len(gotArgs), 2)
	assert.Equal(t, "Call mom", gotArgs[len(gotArgs)-2])
	assert.Equal(t, "audionote://notes/2/edit", gotArgs[len(gotArgs)-1])

	quiet := sample(2, "quiet")
	quiet.Sound = false
	require.NoError(t, poster.Post(context.Background(), quiet))
	assert.Contains(t, gotArgs, "--hint=boolean:suppress-sound:true")
}

func TestLogPoster(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	assert.NoError(t, NewLogPoster(logger).Post(context.Background(), sample(1, "x")))
	assert.NoError(t, NewLogPoster(nil).Post(context.Background(), sample(1, "x")))
}

func TestMultiPosterPostsToAll(t *testing.T) {
	failing := &recordingPoster{err: errors.New("boom")}
	ok := &recordingPoster{}

	err := MultiPoster{failing, ok}.Post(context.Background(), sample(1, "x"))
	assert.Error(t, err)
	assert.Len(t, ok.posts, 1, "a failing backend does not block the others")

	assert.NoError(t, MultiPoster{ok}.Post(context.Background(), sample(2, "y")))
}

func TestNewPoster(t *testing.T) {
	db := setupTestDB(t)

	p, err := NewPoster([]string{"tray", "log", "desktop"}, Backends{DB: db})
	require.NoError(t, err)
	assert.Len(t, p.(MultiPoster), 3)

	p, err = NewPoster(nil, Backends{})
	require.NoError(t, err)
	assert.Len(t, p.(MultiPoster), 1)

	_, err = NewPoster([]string{"pager"}, Backends{})
	assert.ErrorIs(t, err, ErrUnknownBackend)

	_, err = NewPoster([]string{"redis"}, Backends{})
	assert.ErrorIs(t, err, ErrRedisClientUnavailable)

	_, err = NewPoster([]string{"tray"}, Backends{})
	assert.Error(t, err)
}
