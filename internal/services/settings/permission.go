package settings

import (
	"context"

	"github.com/sirupsen/logrus"
)

const (
	permissionGranted = "granted"
	permissionDenied  = "denied"
)

// DeviceProbe checks that audio capture is possible on this machine
type DeviceProbe func(ctx context.Context) error

// Permissions tracks whether the user allowed microphone capture
type Permissions struct {
	store *Store
	probe DeviceProbe
}

// NewPermissions creates a permission tracker. probe may be nil.
func NewPermissions(store *Store, probe DeviceProbe) *Permissions {
	if probe == nil {
		probe = func(context.Context) error { return nil }
	}
	return &Permissions{store: store, probe: probe}
}

// Check reports whether microphone access was granted
func (p *Permissions) Check(ctx context.Context) (bool, error) {
	value, _, err := p.store.Get(ctx, KeyMicrophonePermission)
	if err != nil {
		return false, err
	}
	return value == permissionGranted, nil
}

// Request grants microphone access when the capture device can be used
func (p *Permissions) Request(ctx context.Context) (bool, error) {
	if err := p.probe(ctx); err != nil {
		logrus.WithError(err).Warn("Microphone is not available")
		return false, p.store.Set(ctx, KeyMicrophonePermission, permissionDenied)
	}
	if err := p.store.Set(ctx, KeyMicrophonePermission, permissionGranted); err != nil {
		return false, err
	}
	return true, nil
}

// Revoke withdraws microphone access
func (p *Permissions) Revoke(ctx context.Context) error {
	return p.store.Set(ctx, KeyMicrophonePermission, permissionDenied)
}
