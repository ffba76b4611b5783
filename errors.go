package brbshorts

import (
	"brbshorts/catalog"
	"brbshorts/internal/storage"
	"brbshorts/settings"
	"brbshorts/youtube"
)

// Type aliases for convenient error handling.
type (
	// APIError wraps a failed YouTube Data API call.
	APIError = youtube.APIError
	// RefreshError reports the stage at which a catalog refresh failed.
	RefreshError = catalog.RefreshError
	// StorageError wraps failures reading or writing the settings file.
	StorageError = storage.Error
)

// Sentinel errors exported from sub-packages.
var (
	// ErrNotConfigured indicates no API key or channel has been set up.
	ErrNotConfigured = catalog.ErrNotConfigured
	// ErrIncomplete indicates setup was submitted without a key or channel.
	ErrIncomplete = settings.ErrIncomplete
	// ErrPaginationLoop indicates the API repeated a page token.
	ErrPaginationLoop = catalog.ErrPaginationLoop
	// ErrTooManyPages indicates a playlist exceeded the page limit.
	ErrTooManyPages = catalog.ErrTooManyPages

	// ErrChannelNotFound indicates the channel id matches no channel.
	ErrChannelNotFound = youtube.ErrChannelNotFound
	// ErrMissingAPIKey indicates a client was created without a key.
	ErrMissingAPIKey = youtube.ErrMissingAPIKey
	// ErrQuotaExceeded indicates the API key ran out of quota.
	ErrQuotaExceeded = youtube.ErrQuotaExceeded
	// ErrInvalidAPIKey indicates the API rejected the key.
	ErrInvalidAPIKey = youtube.ErrInvalidAPIKey

	// Storage errors
	// ErrCorrupt indicates the settings file is not valid JSON.
	ErrCorrupt = storage.ErrCorrupt
	// ErrLockTimeout indicates the settings file stayed locked.
	ErrLockTimeout = storage.ErrLockTimeout
)
