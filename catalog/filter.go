package catalog

import (
	"strings"

	"brbshorts/settings"
)

// ShortsMarker is the text that tags an upload as a short in hashtag mode.
const ShortsMarker = "#shorts"

// Duration caps in seconds. Hashtag-tagged uploads follow the platform's
// 60 second shorts limit; duration mode is deliberately looser.
const (
	HashtagMaxSeconds  = 60
	DurationMaxSeconds = 90
)

// Rule decides which uploads qualify for playback.
type Rule struct {
	// Marker must appear in title or description, case-insensitively.
	// Empty means no text requirement.
	Marker string
	// MaxSeconds is the inclusive duration cap.
	MaxSeconds int
}

// RuleFor returns the rule for a filter mode.
func RuleFor(mode settings.FilterMode) Rule {
	if mode == settings.FilterDuration {
		return Rule{MaxSeconds: DurationMaxSeconds}
	}
	return Rule{Marker: ShortsMarker, MaxSeconds: HashtagMaxSeconds}
}

// MatchesText reports whether an upload passes the text stage.
func (r Rule) MatchesText(title, description string) bool {
	if r.Marker == "" {
		return true
	}
	text := strings.ToLower(title + " " + description)
	return strings.Contains(text, strings.ToLower(r.Marker))
}

// AcceptsDuration reports whether a parsed duration passes the length stage.
// Zero means unknown or unparseable and never passes.
func (r Rule) AcceptsDuration(seconds int) bool {
	return seconds > 0 && seconds <= r.MaxSeconds
}
