package notes

import (
	"context"
	"errors"
	"fmt"

	"github.com/killallgit/audionote/internal/models"
	apperrors "github.com/killallgit/audionote/pkg/errors"
	"gorm.io/gorm"
)

// updatableColumns excludes id and color, which never change after insert
var updatableColumns = []string{
	"title",
	"description",
	"last_modification_date",
	"size",
	"audio_length",
	"file_path",
	"started",
	"reminder",
}

// RepositoryImpl implements the Repository interface on GORM
type RepositoryImpl struct {
	db  *gorm.DB
	hub *hub
}

// NewRepository creates a new note repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db, hub: newHub()}
}

// Insert stores a new note and assigns its ID
func (r *RepositoryImpl) Insert(ctx context.Context, note *models.Note) (uint, error) {
	if note.ID != 0 {
		return 0, apperrors.Wrap(ErrNoteHasID, apperrors.ErrCodeInvalidInput, "note is already stored")
	}
	if err := r.db.WithContext(ctx).Create(note).Error; err != nil {
		return 0, apperrors.Storage("insert note", err)
	}
	r.hub.publish()
	return note.ID, nil
}

// Update writes every field except id and color
func (r *RepositoryImpl) Update(ctx context.Context, note *models.Note) error {
	if note.ID == 0 {
		return apperrors.Wrap(ErrNoteIDRequired, apperrors.ErrCodeInvalidInput, "note has no id")
	}
	result := r.db.WithContext(ctx).
		Model(&models.Note{ID: note.ID}).
		Select(updatableColumns).
		Updates(note)
	if result.Error != nil {
		return apperrors.Storage("update note", result.Error)
	}
	if result.RowsAffected == 0 {
		// MySQL reports zero rows when nothing changed
		if _, err := r.GetByID(ctx, note.ID); err != nil {
			return err
		}
	}
	r.hub.publish()
	return nil
}

// Delete removes the note permanently
func (r *RepositoryImpl) Delete(ctx context.Context, note *models.Note) error {
	if note.ID == 0 {
		return apperrors.Wrap(ErrNoteIDRequired, apperrors.ErrCodeInvalidInput, "note has no id")
	}
	result := r.db.WithContext(ctx).Delete(&models.Note{}, note.ID)
	if result.Error != nil {
		return apperrors.Storage("delete note", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound(note.ID)
	}
	r.hub.publish()
	return nil
}

// GetAll returns every note, most recently modified first
func (r *RepositoryImpl) GetAll(ctx context.Context) ([]models.Note, error) {
	var notes []models.Note
	if err := r.db.WithContext(ctx).
		Order("last_modification_date DESC").
		Order("id DESC").
		Find(&notes).Error; err != nil {
		return nil, apperrors.Storage("load notes", err)
	}
	return notes, nil
}

// GetByID retrieves a note by its ID
func (r *RepositoryImpl) GetByID(ctx context.Context, id uint) (*models.Note, error) {
	var note models.Note
	if err := r.db.WithContext(ctx).First(&note, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(id)
		}
		return nil, apperrors.Storage("load note", err)
	}
	return &note, nil
}

// SetStarted updates the started flag of a note
func (r *RepositoryImpl) SetStarted(ctx context.Context, id uint, started bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.Note{}).
		Where("id = ?", id).
		Update("started", started)
	if result.Error != nil {
		return apperrors.Storage("update note", result.Error)
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	r.hub.publish()
	return nil
}

// Subscribe observes the whole collection
func (r *RepositoryImpl) Subscribe(fn func([]models.Note)) Unsubscribe {
	return r.hub.subscribe(func() {
		all, err := r.GetAll(context.Background())
		if err != nil {
			logObserveError(err, 0)
			return
		}
		fn(all)
	})
}

// ObserveNote observes a single note
func (r *RepositoryImpl) ObserveNote(id uint, fn func(*models.Note)) Unsubscribe {
	return r.hub.subscribe(func() {
		note, err := r.GetByID(context.Background(), id)
		if err != nil {
			if IsNotFound(err) {
				fn(nil)
				return
			}
			logObserveError(err, id)
			return
		}
		fn(note)
	})
}

func notFound(id uint) error {
	return apperrors.Wrap(ErrNoteNotFound, apperrors.ErrCodeNotFound, fmt.Sprintf("note %d not found", id)).
		WithDetail("id", id)
}

// IsNotFound reports whether err means the note does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNoteNotFound)
}
