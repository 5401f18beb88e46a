package models

import "time"

// Preference is a single persisted user preference
type Preference struct {
	Key       string    `json:"key" gorm:"primaryKey;size:64"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Preference) TableName() string {
	return "preferences"
}

// AllModels lists every model managed by migrations
func AllModels() []interface{} {
	return []interface{}{
		&Note{},
		&Job{},
		&Notification{},
		&Preference{},
	}
}
