package notes

import (
	"context"
	"errors"
	"testing"

	"github.com/killallgit/audionote/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRepository records calls for pass-through checks
type mockRepository struct {
	calls    []string
	notes    []models.Note
	err      error
	observed uint
}

func (m *mockRepository) Insert(ctx context.Context, note *models.Note) (uint, error) {
	m.calls = append(m.calls, "insert")
	note.ID = 7
	return 7, m.err
}

func (m *mockRepository) Update(ctx context.Context, note *models.Note) error {
	m.calls = append(m.calls, "update")
	return m.err
}

func (m *mockRepository) Delete(ctx context.Context, note *models.Note) error {
	m.calls = append(m.calls, "delete")
	return m.err
}

func (m *mockRepository) GetAll(ctx context.Context) ([]models.Note, error) {
	m.calls = append(m.calls, "all")
	return m.notes, m.err
}

func (m *mockRepository) GetByID(ctx context.Context, id uint) (*models.Note, error) {
	m.calls = append(m.calls, "get")
	return nil, m.err
}

func (m *mockRepository) SetStarted(ctx context.Context, id uint, started bool) error {
	m.calls = append(m.calls, "started")
	return m.err
}

func (m *mockRepository) Subscribe(fn func([]models.Note)) Unsubscribe {
	m.calls = append(m.calls, "subscribe")
	fn(m.notes)
	return func() {}
}

func (m *mockRepository) ObserveNote(id uint, fn func(*models.Note)) Unsubscribe {
	m.calls = append(m.calls, "observe")
	m.observed = id
	return func() {}
}

func TestServicePassesThrough(t *testing.T) {
	repo := &mockRepository{notes: []models.Note{{ID: 1}}}
	svc := NewService(repo)
	ctx := context.Background()

	id, err := svc.Insert(ctx, &models.Note{})
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)
	require.NoError(t, svc.Update(ctx, &models.Note{ID: 7}))
	require.NoError(t, svc.Delete(ctx, &models.Note{ID: 7}))
	all, err := svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	_, _ = svc.GetByID(ctx, 7)
	require.NoError(t, svc.SetStarted(ctx, 7, false))

	var delivered []models.Note
	svc.Subscribe(func(n []models.Note) { delivered = n })()
	svc.ObserveNote(3, func(*models.Note) {})()

	assert.Equal(t, []string{"insert", "update", "delete", "all", "get", "started", "subscribe", "observe"}, repo.calls)
	assert.Len(t, delivered, 1)
	assert.Equal(t, uint(3), repo.observed)
}

func TestServicePropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(&mockRepository{err: boom})

	_, err := svc.GetAll(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, svc.Update(context.Background(), &models.Note{ID: 1}), boom)
}
