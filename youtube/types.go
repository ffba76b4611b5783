// Package youtube talks to the YouTube Data API v3 on behalf of the catalog.
//
// It exposes the three read-only calls the catalog needs (uploads playlist
// lookup, paged playlist items, batched video durations) plus a channel
// existence check used during setup, and the ISO-8601 duration parser used
// to filter videos by length.
package youtube

import (
	"errors"
	"fmt"
)

// MaxBatchSize is the largest page or id batch the Data API accepts.
const MaxBatchSize = 50

// Sentinel errors for API operations.
var (
	ErrChannelNotFound = errors.New("youtube: channel not found")
	ErrMissingAPIKey   = errors.New("youtube: api key required")
	ErrQuotaExceeded   = errors.New("youtube: quota exceeded")
	ErrInvalidAPIKey   = errors.New("youtube: invalid api key")
	ErrBatchTooLarge   = errors.New("youtube: batch exceeds 50 ids")
)

// PlaylistItem is one entry of a playlist page. VideoID may be empty when
// the API returned an item without a resource id (deleted or private uploads).
type PlaylistItem struct {
	VideoID     string `json:"video_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Page is a single playlistItems.list response.
type Page struct {
	Items []PlaylistItem
	// NextPageToken is empty on the last page.
	NextPageToken string
}

// APIError wraps a failed Data API call with the provider's own message.
// Use errors.As() to extract it:
//
//	var apiErr *youtube.APIError
//	if errors.As(err, &apiErr) {
//		fmt.Printf("%s failed with %d: %s\n", apiErr.Op, apiErr.Code, apiErr.Message)
//	}
type APIError struct {
	// Op is the API method that failed ("channels.list", "playlistItems.list", "videos.list").
	Op string
	// Code is the HTTP status code, 0 for transport failures.
	Code int
	// Reason is the first error reason reported by the API (e.g. "quotaExceeded").
	Reason string
	// Message is the human readable message from the API.
	Message string
	// Err is the underlying error.
	Err error
}

// Error returns the provider message prefixed with the failing operation.
func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("youtube: %s: %s (status %d)", e.Op, e.Message, e.Code)
	}
	return fmt.Sprintf("youtube: %s: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *APIError) Unwrap() error { return e.Err }

// Is reports quota and credential failures as the matching sentinel.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrQuotaExceeded:
		return e.Reason == "quotaExceeded" || e.Reason == "rateLimitExceeded" || e.Reason == "dailyLimitExceeded"
	case ErrInvalidAPIKey:
		return e.Reason == "keyInvalid" || e.Reason == "keyExpired"
	}
	return false
}
