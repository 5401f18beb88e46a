package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"

	"github.com/go-redis/redis/v8"
	"github.com/killallgit/audionote/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LogPoster writes notifications to the application log
type LogPoster struct {
	logger logrus.FieldLogger
}

// NewLogPoster creates a poster logging through logger
func NewLogPoster(logger logrus.FieldLogger) *LogPoster {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogPoster{logger: logger}
}

func (p *LogPoster) Post(ctx context.Context, n Notification) error {
	p.logger.WithFields(logrus.Fields{
		"note_id":   n.NoteID,
		"deep_link": n.DeepLink,
	}).Infof("Reminder: %s", n.Title)
	return nil
}

// CommandRunner executes an external program
type CommandRunner func(ctx context.Context, name string, args ...string) error

func execRunner(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %w (output: %s)", name, err, string(out))
	}
	return nil
}

// DesktopPoster shows notifications through a notify-send compatible command
type DesktopPoster struct {
	command string
	run     CommandRunner
}

// NewDesktopPoster creates a desktop poster. A nil runner executes the command.
func NewDesktopPoster(command string, run CommandRunner) *DesktopPoster {
	if command == "" {
		command = "notify-send"
	}
	if run == nil {
		run = execRunner
	}
	return &DesktopPoster{command: command, run: run}
}

func (p *DesktopPoster) Post(ctx context.Context, n Notification) error {
	args := []string{
		"--app-name=Audio Notes",
		"--urgency=normal",
		fmt.Sprintf("--hint=string:x-audionote-link:%s", n.DeepLink),
	}
	if !n.Sound {
		args = append(args, "--hint=boolean:suppress-sound:true")
	}
	args = append(args, n.Title, n.DeepLink)
	return p.run(ctx, p.command, args...)
}

// Publisher is the part of a redis client used for publishing
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisPoster publishes notifications as JSON on a redis channel
type RedisPoster struct {
	client  Publisher
	channel string
}

// NewRedisClient connects a redis client for the poster
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// NewRedisPoster creates a poster publishing on channel
func NewRedisPoster(client Publisher, channel string) *RedisPoster {
	return &RedisPoster{client: client, channel: channel}
}

func (p *RedisPoster) Post(ctx context.Context, n Notification) error {
	if p.client == nil {
		return ErrRedisClientUnavailable
	}
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encoding notification: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, body).Err(); err != nil {
		return fmt.Errorf("publishing notification: %w", err)
	}
	return nil
}

// StorePoster keeps the latest notification per note in the database
type StorePoster struct {
	db *gorm.DB
}

// NewStorePoster creates a poster writing to the notifications table
func NewStorePoster(db *gorm.DB) *StorePoster {
	return &StorePoster{db: db}
}

func (p *StorePoster) Post(ctx context.Context, n Notification) error {
	row := models.Notification{
		NoteID:    n.NoteID,
		Title:     n.Title,
		DeepLink:  n.DeepLink,
		Sound:     n.Sound,
		Vibrate:   n.Vibrate,
		PostedAt:  n.PostedAt,
		PostCount: 1,
	}
	err := p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "note_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"title":      n.Title,
			"deep_link":  n.DeepLink,
			"sound":      n.Sound,
			"vibrate":    n.Vibrate,
			"posted_at":  n.PostedAt,
			"post_count": gorm.Expr("post_count + 1"),
		}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("storing notification: %w", err)
	}
	return nil
}

// MultiPoster posts to every poster and returns the joined errors
type MultiPoster []Poster

func (m MultiPoster) Post(ctx context.Context, n Notification) error {
	var errs []error
	for _, p := range m {
		if err := p.Post(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
