package apperrors

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrNoActiveSession     = errors.New("no active session")
	ErrActiveSessionExists = errors.New("active session already exists")
	ErrSessionClosed       = errors.New("session already closed")
	ErrHarvestExists       = errors.New("harvest already recorded")
	ErrNoActiveGround      = errors.New("no active ground")
	ErrForbidden           = errors.New("permission denied")
	ErrHeatmapDisabled     = errors.New("heatmap disabled for ground")

	// Remote store classification. Anything that is not a conflict is
	// treated as unavailable and triggers the local fallback.
	ErrRemoteUnavailable = errors.New("remote store unavailable")
	ErrConflict          = errors.New("remote conflict")

	// ErrLocalStorage marks failures of the durable local tier; there is no
	// further fallback so callers must propagate it.
	ErrLocalStorage = errors.New("local storage failure")
	ErrOffline      = errors.New("offline")
)
