package notes

import (
	"context"

	"github.com/killallgit/audionote/internal/models"
)

// Unsubscribe stops a live subscription
type Unsubscribe func()

// Repository defines the interface for note data access
type Repository interface {
	// Insert stores a new note and returns its assigned identifier
	Insert(ctx context.Context, note *models.Note) (uint, error)

	// Update writes every field except the identifier and color
	Update(ctx context.Context, note *models.Note) error

	Delete(ctx context.Context, note *models.Note) error

	GetAll(ctx context.Context) ([]models.Note, error)
	GetByID(ctx context.Context, id uint) (*models.Note, error)

	// SetStarted flips the armed-alarm flag only
	SetStarted(ctx context.Context, id uint, started bool) error

	// Subscribe delivers the current collection now and after every mutation
	Subscribe(fn func([]models.Note)) Unsubscribe

	// ObserveNote delivers the note now and after every mutation, nil when absent
	ObserveNote(id uint, fn func(*models.Note)) Unsubscribe
}

// Service is the note repository used by the rest of the application
type Service interface {
	Repository
}
