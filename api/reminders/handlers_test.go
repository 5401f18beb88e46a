package reminders_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/audionote/api/reminders"
	"github.com/killallgit/audionote/api/types"
	"github.com/killallgit/audionote/internal/database"
	"github.com/killallgit/audionote/internal/models"
	"github.com/killallgit/audionote/internal/services/jobs"
	notesService "github.com/killallgit/audionote/internal/services/notes"
	reminderService "github.com/killallgit/audionote/internal/services/reminders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reminderSuite struct {
	deps   *types.Dependencies
	jobs   jobs.Service
	router *gin.Engine
	now    time.Time
	note   models.Note
}

func setup(t *testing.T) *reminderSuite {
	gin.SetMode(gin.TestMode)

	db, err := database.Initialize(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })

	s := &reminderSuite{now: time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)}
	clock := func() time.Time { return s.now }
	s.jobs = jobs.NewService(jobs.NewRepository(db.DB), jobs.WithClock(clock))
	s.deps = &types.Dependencies{
		NoteService: notesService.NewService(notesService.NewRepository(db.DB)),
		Reminders:   reminderService.NewScheduler(s.jobs),
		Now:         clock,
	}

	s.note = models.NewNote(s.now, 3)
	s.note.Title = "call back"
	s.note.AudioLength = 4
	_, err = s.deps.NoteService.Insert(context.Background(), &s.note)
	require.NoError(t, err)

	s.router = gin.New()
	reminders.RegisterRoutes(s.router.Group("/notes"), s.deps)
	return s
}

func (s *reminderSuite) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *reminderSuite) pending(t *testing.T) []*models.Job {
	t.Helper()
	pending, err := s.jobs.ListJobs(context.Background(), jobs.ListFilter{
		UniqueKey: reminderService.AlarmKey(s.note.ID),
		Status:    models.JobStatusPending,
	})
	require.NoError(t, err)
	return pending
}

func TestSetReminder(t *testing.T) {
	s := setup(t)
	fireAt := s.now.Add(time.Minute)

	w := s.do(t, http.MethodPut, "/notes/1/reminder", map[string]int64{"fire_at": fireAt.UnixMilli()})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp types.SingleNoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Note.Reminder)
	assert.Equal(t, fireAt.UnixMilli(), *resp.Note.Reminder)
	assert.True(t, resp.Note.Started)
	assert.Equal(t, "pending", resp.Note.ReminderState)

	stored, err := s.deps.NoteService.GetByID(context.Background(), s.note.ID)
	require.NoError(t, err)
	assert.True(t, stored.Started)
	require.NotNil(t, stored.Reminder)

	pending := s.pending(t)
	require.Len(t, pending, 1)
	assert.True(t, pending[0].RunAt.Equal(fireAt))

	later := s.now.Add(2 * time.Minute)
	w = s.do(t, http.MethodPut, "/notes/1/reminder", map[string]int64{"fire_at": later.UnixMilli()})
	require.Equal(t, http.StatusOK, w.Code)
	pending = s.pending(t)
	require.Len(t, pending, 1, "a new reminder replaces the pending one")
	assert.True(t, pending[0].RunAt.Equal(later))
}

func TestSetReminderInThePastMovesToTomorrow(t *testing.T) {
	s := setup(t)
	past := s.now.Add(-time.Hour)

	w := s.do(t, http.MethodPut, "/notes/1/reminder", map[string]int64{"fire_at": past.UnixMilli()})
	require.Equal(t, http.StatusOK, w.Code)

	pending := s.pending(t)
	require.Len(t, pending, 1)
	assert.True(t, pending[0].RunAt.Equal(past.AddDate(0, 0, 1)))
}

func TestSetReminderErrors(t *testing.T) {
	s := setup(t)

	w := s.do(t, http.MethodPut, "/notes/7/reminder", map[string]int64{"fire_at": s.now.Add(time.Hour).UnixMilli()})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPut, "/notes/1/reminder", map[string]string{"fire_at": "soon"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, "/notes/0/reminder", map[string]int64{"fire_at": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClearReminder(t *testing.T) {
	s := setup(t)

	w := s.do(t, http.MethodPut, "/notes/1/reminder", map[string]int64{"fire_at": s.now.Add(time.Hour).UnixMilli()})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodDelete, "/notes/1/reminder", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Empty(t, s.pending(t))

	stored, err := s.deps.NoteService.GetByID(context.Background(), s.note.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Reminder)
	assert.False(t, stored.Started)

	w = s.do(t, http.MethodDelete, "/notes/1/reminder", nil)
	assert.Equal(t, http.StatusOK, w.Code, "clearing twice is not an error")
}
