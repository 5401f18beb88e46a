package cmd

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/killallgit/audionote/internal/database"
	"github.com/killallgit/audionote/internal/services/cache"
	"github.com/killallgit/audionote/internal/services/cleanup"
	"github.com/killallgit/audionote/internal/services/editor"
	"github.com/killallgit/audionote/internal/services/jobs"
	"github.com/killallgit/audionote/internal/services/metadata"
	"github.com/killallgit/audionote/internal/services/notes"
	"github.com/killallgit/audionote/internal/services/notifications"
	"github.com/killallgit/audionote/internal/services/reminders"
	"github.com/killallgit/audionote/internal/services/settings"
	"github.com/killallgit/audionote/internal/services/viewstate"
	"github.com/killallgit/audionote/internal/services/workers"
	"github.com/killallgit/audionote/pkg/config"
	"github.com/killallgit/audionote/pkg/ffmpeg"
	"github.com/sirupsen/logrus"
)

const metadataCacheEntries = 256

// app holds the services shared by serve, record, play and tui
type app struct {
	cfg       *config.Config
	db        *database.DB
	notes     notes.Service
	jobs      jobs.Service
	reminders *reminders.Scheduler
	presenter *notifications.Presenter
	tray      *notifications.Tray
	settings  *settings.Store
	media     *ffmpeg.FFmpeg
	redis     *redis.Client
}

// openApp connects the database, migrates it and builds the services
func openApp(cfg *config.Config) (*app, error) {
	db, err := database.Open(database.Options{
		Driver:          cfg.Database.Driver,
		Path:            cfg.Database.Path,
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxConnections,
		MaxIdleConns:    cfg.Database.MaxIdleConnections,
		ConnMaxLifetime: cfg.Database.ConnectionMaxLifetime,
		Verbose:         cfg.Database.Verbose,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	a := &app{
		cfg:      cfg,
		db:       db,
		notes:    notes.NewService(notes.NewRepository(db.DB)),
		jobs:     jobs.NewService(jobs.NewRepository(db.DB)),
		tray:     notifications.NewTray(db.DB),
		settings: settings.NewStore(db.DB),
		media:    ffmpeg.New(cfg.Audio.FFmpegPath, cfg.Audio.FFprobePath, cfg.Audio.FFplayPath, cfg.Audio.StopTimeout),
	}
	a.reminders = reminders.NewScheduler(a.jobs)

	backends := notifications.Backends{
		DB:             db.DB,
		DesktopCommand: cfg.Notifications.DesktopCommand,
		RedisChannel:   cfg.Notifications.Redis.Channel,
	}
	if usesBackend(cfg.Notifications.Backends, "redis") {
		r := cfg.Notifications.Redis
		a.redis = notifications.NewRedisClient(r.Addr, r.Password, r.DB)
		backends.Redis = a.redis
	}
	poster, err := notifications.NewPoster(cfg.Notifications.Backends, backends)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to configure notifications: %w", err)
	}
	a.presenter = notifications.NewPresenter(poster, notifications.WithScheme(cfg.Notifications.DeepLinkScheme))

	return a, nil
}

func usesBackend(names []string, want string) bool {
	for _, name := range names {
		if name == want {
			return true
		}
	}
	return false
}

// newWorkerPool builds the alarm and notification workers
func (a *app) newWorkerPool() (*workers.WorkerPool, error) {
	policy, err := jobs.ParsePolicy(a.cfg.Reminders.NotificationPolicy)
	if err != nil {
		return nil, err
	}
	pool := workers.NewWorkerPool(a.jobs, a.cfg.Reminders.Workers, a.cfg.Reminders.PollInterval)
	pool.RegisterProcessor(workers.NewAlarmProcessor(a.notes, a.jobs, workers.AlarmConfig{
		Delay:    a.cfg.Reminders.NotificationDelay,
		WorkName: a.cfg.Reminders.NotificationWorkName,
		Policy:   policy,
	}))
	pool.RegisterProcessor(workers.NewNotificationProcessor(a.presenter))
	return pool, nil
}

func (a *app) newCleanup() *cleanup.Service {
	return cleanup.NewService(cleanup.Config{
		RecordingsDir:    a.cfg.Storage.RecordingsDir,
		Extension:        a.cfg.Audio.Extension,
		MaxOrphanAge:     a.cfg.Storage.MaxOrphanAge,
		Interval:         a.cfg.Storage.CleanupInterval,
		JobRetentionDays: a.cfg.Reminders.JobRetentionDays,
	}, a.notes, a.jobs)
}

func (a *app) newProber() *metadata.Prober {
	return metadata.NewProber(a.media, cache.NewMemoryCache(metadataCacheEntries), cache.DefaultTTL)
}

func (a *app) permissions() *settings.Permissions {
	return settings.NewPermissions(a.settings, func(context.Context) error {
		return a.media.ValidateBinaries()
	})
}

func (a *app) captureFormat() ffmpeg.CaptureFormat {
	audio := a.cfg.Audio
	return ffmpeg.CaptureFormat{
		InputFormat: audio.InputFormat,
		Device:      audio.InputDevice,
		SampleRate:  audio.SampleRate,
		Channels:    audio.Channels,
		Codec:       audio.Codec,
		Bitrate:     audio.Bitrate,
		Extension:   audio.Extension,
	}
}

// newEditor builds an editor over a started view-state manager. The caller
// closes both.
func (a *app) newEditor(onError viewstate.ErrorHandler, opts ...editor.Option) (*editor.Editor, *viewstate.Manager) {
	if onError == nil {
		onError = func(message string) { logrus.Warn(message) }
	}
	manager := viewstate.NewManager(a.notes,
		viewstate.WithErrorHandler(onError),
		viewstate.WithRecordingsDir(a.cfg.Storage.RecordingsDir))
	manager.Start()

	ed := editor.New(editor.Deps{
		Manager:       manager,
		Reminders:     a.reminders,
		Permissions:   a.permissions(),
		Capturer:      a.media.NewRecorder(),
		Player:        a.media.NewPlayer(),
		RecordingsDir: a.cfg.Storage.RecordingsDir,
		Format:        a.captureFormat(),
	}, opts...)
	return ed, manager
}

// Close releases the redis client and the database
func (a *app) Close() error {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close redis client")
		}
	}
	return a.db.Close()
}
