package notifications

import (
	"context"
	"fmt"

	"github.com/killallgit/audionote/internal/models"
	"gorm.io/gorm"
)

// Tray reads and dismisses posted notifications
type Tray struct {
	db *gorm.DB
}

// NewTray creates a tray backed by the notifications table
func NewTray(db *gorm.DB) *Tray {
	return &Tray{db: db}
}

// List returns posted notifications, newest first
func (t *Tray) List(ctx context.Context) ([]models.Notification, error) {
	var rows []models.Notification
	if err := t.db.WithContext(ctx).Order("posted_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	return rows, nil
}

// Dismiss removes the notification for a note
func (t *Tray) Dismiss(ctx context.Context, noteID uint) error {
	result := t.db.WithContext(ctx).Where("note_id = ?", noteID).Delete(&models.Notification{})
	if result.Error != nil {
		return fmt.Errorf("dismissing notification: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
