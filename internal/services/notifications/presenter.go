package notifications

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/killallgit/audionote/internal/models"
)

const DefaultScheme = "audionote"

// Notification is what the user sees when a reminder is due.
// Notifications are keyed by note id; a newer one for the same note replaces the older.
type Notification struct {
	NoteID   uint      `json:"note_id"`
	Title    string    `json:"title"`
	DeepLink string    `json:"deep_link"`
	Sound    bool      `json:"sound"`
	Vibrate  bool      `json:"vibrate"`
	PostedAt time.Time `json:"posted_at"`
}

// Poster delivers a notification to the user
type Poster interface {
	Post(ctx context.Context, n Notification) error
}

// Presenter builds and posts reminder notifications
type Presenter struct {
	poster Poster
	scheme string
	now    func() time.Time
}

// PresenterOption configures a Presenter
type PresenterOption func(*Presenter)

// WithScheme sets the deep link scheme
func WithScheme(scheme string) PresenterOption {
	return func(p *Presenter) {
		if scheme != "" {
			p.scheme = scheme
		}
	}
}

// WithClock sets the time source for PostedAt
func WithClock(now func() time.Time) PresenterOption {
	return func(p *Presenter) {
		p.now = now
	}
}

// NewPresenter creates a presenter posting through poster
func NewPresenter(poster Poster, opts ...PresenterOption) *Presenter {
	p := &Presenter{poster: poster, scheme: DefaultScheme, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Build creates the notification for note with default sound and vibration
func (p *Presenter) Build(note models.Note) Notification {
	return Notification{
		NoteID:   note.ID,
		Title:    note.Title,
		DeepLink: DeepLink(p.scheme, note.ID),
		Sound:    true,
		Vibrate:  true,
		PostedAt: p.now(),
	}
}

// Present posts the notification for note
func (p *Presenter) Present(ctx context.Context, note models.Note) error {
	return p.poster.Post(ctx, p.Build(note))
}

// DeepLink returns the link that opens the edit screen of a note
func DeepLink(scheme string, noteID uint) string {
	return fmt.Sprintf("%s://notes/%d/edit", scheme, noteID)
}

// ParseDeepLink returns the note id a deep link points to
func ParseDeepLink(link string) (uint, error) {
	u, err := url.Parse(link)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidDeepLink, err)
	}
	if u.Scheme == "" || u.Host != "notes" {
		return 0, fmt.Errorf("%w: %s", ErrInvalidDeepLink, link)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) != 2 || parts[1] != "edit" {
		return 0, fmt.Errorf("%w: %s", ErrInvalidDeepLink, link)
	}

	id, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: bad note id in %s", ErrInvalidDeepLink, link)
	}
	return uint(id), nil
}
