package notes

import (
	"context"

	"github.com/killallgit/audionote/internal/models"
)

// ServiceImpl passes every call through to the repository
type ServiceImpl struct {
	repo Repository
}

// NewService creates a new note service
func NewService(repo Repository) Service {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) Insert(ctx context.Context, note *models.Note) (uint, error) {
	return s.repo.Insert(ctx, note)
}

func (s *ServiceImpl) Update(ctx context.Context, note *models.Note) error {
	return s.repo.Update(ctx, note)
}

func (s *ServiceImpl) Delete(ctx context.Context, note *models.Note) error {
	return s.repo.Delete(ctx, note)
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]models.Note, error) {
	return s.repo.GetAll(ctx)
}

func (s *ServiceImpl) GetByID(ctx context.Context, id uint) (*models.Note, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ServiceImpl) SetStarted(ctx context.Context, id uint, started bool) error {
	return s.repo.SetStarted(ctx, id, started)
}

func (s *ServiceImpl) Subscribe(fn func([]models.Note)) Unsubscribe {
	return s.repo.Subscribe(fn)
}

func (s *ServiceImpl) ObserveNote(id uint, fn func(*models.Note)) Unsubscribe {
	return s.repo.ObserveNote(id, fn)
}
