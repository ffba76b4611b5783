// Package settings holds the channel configuration entered through the setup
// wizard and the stores that persist it.
package settings

import (
	"context"
	"errors"
	"strings"
)

// ErrIncomplete indicates that the API key or the channel id is missing.
var ErrIncomplete = errors.New("settings: missing API key or channel ID")

// FilterMode selects which uploads qualify for playback.
type FilterMode string

const (
	// FilterHashtag keeps videos tagged #shorts that run 60 seconds or less.
	FilterHashtag FilterMode = "hashtag"
	// FilterDuration keeps any video that runs 90 seconds or less.
	FilterDuration FilterMode = "duration"
)

// ParseFilterMode maps user input to a FilterMode. Anything other than
// "duration" selects FilterHashtag, matching what the setup form defaults to.
func ParseFilterMode(s string) FilterMode {
	if strings.EqualFold(strings.TrimSpace(s), string(FilterDuration)) {
		return FilterDuration
	}
	return FilterHashtag
}

// Settings is the configured channel. It is replaced wholesale, never patched.
type Settings struct {
	APIKey     string     `json:"api_key"`
	ChannelID  string     `json:"channel_id"`
	FilterMode FilterMode `json:"filter_mode"`
}

// Configured reports whether both the API key and the channel id are set.
func (s Settings) Configured() bool {
	return s.APIKey != "" && s.ChannelID != ""
}

// Normalize trims whitespace and resolves the filter mode.
func (s Settings) Normalize() Settings {
	return Settings{
		APIKey:     strings.TrimSpace(s.APIKey),
		ChannelID:  strings.TrimSpace(s.ChannelID),
		FilterMode: ParseFilterMode(string(s.FilterMode)),
	}
}

// Validate returns ErrIncomplete unless both credentials are present.
func (s Settings) Validate() error {
	if !s.Configured() {
		return ErrIncomplete
	}
	return nil
}

// Store persists Settings. Load on an empty store returns zero Settings and
// no error; callers check Configured.
type Store interface {
	// Load returns the current settings.
	Load(ctx context.Context) (Settings, error)
	// Save replaces the current settings.
	Save(ctx context.Context, s Settings) error
	// Clear removes all settings.
	Clear(ctx context.Context) error
}
