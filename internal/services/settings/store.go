package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/killallgit/audionote/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	KeyFirstTimeLogin       = "first_time_login"
	KeyTheme                = "theme"
	KeyMicrophonePermission = "microphone_permission"
)

// Theme is the color scheme preference
type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

var themes = []Theme{ThemeSystem, ThemeLight, ThemeDark}

// ErrUnknownTheme is returned for theme values outside the known set
var ErrUnknownTheme = errors.New("unknown theme")

// ParseTheme validates a stored or user supplied theme name
func ParseTheme(s string) (Theme, error) {
	for _, t := range themes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTheme, s)
}

// Next returns the theme that follows t in the settings cycle
func (t Theme) Next() Theme {
	for i, candidate := range themes {
		if candidate == t {
			return themes[(i+1)%len(themes)]
		}
	}
	return ThemeSystem
}

// Store persists preferences as key/value rows
type Store struct {
	db *gorm.DB
}

// NewStore creates a preference store
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Get returns the value for key and whether it was set
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var pref models.Preference
	err := s.db.WithContext(ctx).Where(&models.Preference{Key: key}).First(&pref).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading preference %s: %w", key, err)
	}
	return pref.Value, true, nil
}

// Set stores value under key
func (s *Store) Set(ctx context.Context, key, value string) error {
	pref := models.Preference{Key: key, Value: value}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&pref).Error
	if err != nil {
		return fmt.Errorf("writing preference %s: %w", key, err)
	}
	return nil
}

// IsFirstLaunch reports whether onboarding has not been completed yet
func (s *Store) IsFirstLaunch(ctx context.Context) (bool, error) {
	value, ok, err := s.Get(ctx, KeyFirstTimeLogin)
	if err != nil || !ok {
		return true, err
	}
	first, err := strconv.ParseBool(value)
	if err != nil {
		return true, nil
	}
	return first, nil
}

// CompleteOnboarding records that the onboarding screens were shown
func (s *Store) CompleteOnboarding(ctx context.Context) error {
	return s.Set(ctx, KeyFirstTimeLogin, strconv.FormatBool(false))
}

// Theme returns the stored theme, following the system by default
func (s *Store) Theme(ctx context.Context) (Theme, error) {
	value, ok, err := s.Get(ctx, KeyTheme)
	if err != nil || !ok {
		return ThemeSystem, err
	}
	theme, err := ParseTheme(value)
	if err != nil {
		return ThemeSystem, nil
	}
	return theme, nil
}

func (s *Store) SetTheme(ctx context.Context, theme Theme) error {
	if _, err := ParseTheme(string(theme)); err != nil {
		return err
	}
	return s.Set(ctx, KeyTheme, string(theme))
}
