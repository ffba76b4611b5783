// Package catalog builds and caches the list of channel uploads that qualify
// for "be right back" playback.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"brbshorts/settings"
	"brbshorts/youtube"
)

// DefaultMaxPages bounds pagination at 50,000 uploads.
const DefaultMaxPages = 1000

// Pagination failures.
var (
	ErrPaginationLoop = errors.New("catalog: playlist returned a page token it already used")
	ErrTooManyPages   = errors.New("catalog: playlist exceeded the page limit")
)

// Provider is the subset of the YouTube Data API a refresh needs.
type Provider interface {
	// UploadsPlaylist returns the channel's uploads playlist id, or "" when
	// the channel is unknown or has no uploads playlist.
	UploadsPlaylist(ctx context.Context, channelID string) (string, error)
	// PlaylistItems returns one page of at most 50 items.
	PlaylistItems(ctx context.Context, playlistID, pageToken string) (*youtube.Page, error)
	// VideoDurations returns ISO-8601 durations for at most 50 ids.
	VideoDurations(ctx context.Context, ids []string) (map[string]string, error)
}

// State is a step of a refresh.
type State int

const (
	StateFetchingChannel State = iota
	StatePaging
	StateFetchingDetails
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateFetchingChannel:
		return "fetching channel"
	case StatePaging:
		return "paging"
	case StateFetchingDetails:
		return "fetching details"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// RefreshError reports the step at which a refresh failed.
type RefreshError struct {
	Stage State
	Err   error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("catalog: refresh failed while %s: %v", e.Stage, e.Err)
}

func (e *RefreshError) Unwrap() error { return e.Err }

// Fetcher enumerates a channel's uploads and filters them.
type Fetcher struct {
	provider Provider
	maxPages int
	log      logrus.FieldLogger

	// OnState, when set, is called on every state the refresh enters.
	OnState func(State)
}

// NewFetcher returns a Fetcher over p. maxPages <= 0 selects DefaultMaxPages.
func NewFetcher(p Provider, maxPages int, log logrus.FieldLogger) *Fetcher {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Fetcher{provider: p, maxPages: maxPages, log: log}
}

// candidate is an upload that passed the text stage.
type candidate struct {
	id    string
	title string
}

// refresh carries the state of one Refresh call.
type refresh struct {
	f         *Fetcher
	rule      Rule
	channelID string

	playlistID string
	pageToken  string
	usedTokens map[string]bool
	pages      int
	scanned    int

	seen       map[string]bool
	candidates []candidate
	result     []string

	stage State
	err   error
}

// Refresh returns the ids of the channel's qualifying uploads in discovery
// order. A channel without uploads yields an empty, non-nil list. Any
// provider failure aborts the whole refresh with a *RefreshError; no partial
// list is ever returned.
func (f *Fetcher) Refresh(ctx context.Context, channelID string, mode settings.FilterMode) ([]string, error) {
	r := &refresh{
		f:          f,
		rule:       RuleFor(mode),
		channelID:  channelID,
		usedTokens: make(map[string]bool),
		seen:       make(map[string]bool),
	}

	state := StateFetchingChannel
	for {
		if f.OnState != nil {
			f.OnState(state)
		}

		switch state {
		case StateFetchingChannel:
			state = r.resolveUploads(ctx)
		case StatePaging:
			state = r.nextPage(ctx)
		case StateFetchingDetails:
			state = r.fetchDetails(ctx)
		case StateDone:
			f.log.WithFields(logrus.Fields{
				"channel_id": channelID,
				"mode":       mode,
				"pages":      r.pages,
				"scanned":    r.scanned,
				"candidates": len(r.candidates),
				"qualified":  len(r.result),
			}).Info("catalog refreshed")
			return r.result, nil
		case StateFailed:
			return nil, &RefreshError{Stage: r.stage, Err: r.err}
		}
	}
}

func (r *refresh) fail(stage State, err error) State {
	r.stage = stage
	r.err = err
	return StateFailed
}

func (r *refresh) finishEmpty() State {
	r.result = []string{}
	return StateDone
}

func (r *refresh) resolveUploads(ctx context.Context) State {
	id, err := r.f.provider.UploadsPlaylist(ctx, r.channelID)
	if err != nil {
		return r.fail(StateFetchingChannel, err)
	}
	if id == "" {
		r.f.log.WithField("channel_id", r.channelID).Info("channel has no uploads playlist")
		return r.finishEmpty()
	}
	r.playlistID = id
	return StatePaging
}

func (r *refresh) nextPage(ctx context.Context) State {
	if err := ctx.Err(); err != nil {
		return r.fail(StatePaging, err)
	}

	page, err := r.f.provider.PlaylistItems(ctx, r.playlistID, r.pageToken)
	if err != nil {
		return r.fail(StatePaging, err)
	}
	r.pages++
	if r.pageToken != "" {
		r.usedTokens[r.pageToken] = true
	}

	for _, item := range page.Items {
		r.scanned++
		if item.VideoID == "" || r.seen[item.VideoID] {
			continue
		}
		r.seen[item.VideoID] = true
		if r.rule.MatchesText(item.Title, item.Description) {
			r.candidates = append(r.candidates, candidate{id: item.VideoID, title: item.Title})
		}
	}

	r.f.log.WithFields(logrus.Fields{
		"page":       r.pages,
		"items":      len(page.Items),
		"candidates": len(r.candidates),
	}).Debug("playlist page fetched")

	next := page.NextPageToken
	switch {
	case next == "":
		if len(r.candidates) == 0 {
			return r.finishEmpty()
		}
		return StateFetchingDetails
	case next == r.pageToken || r.usedTokens[next]:
		return r.fail(StatePaging, ErrPaginationLoop)
	case r.pages >= r.f.maxPages:
		return r.fail(StatePaging, fmt.Errorf("%w (%d)", ErrTooManyPages, r.f.maxPages))
	}
	r.pageToken = next
	return StatePaging
}

func (r *refresh) fetchDetails(ctx context.Context) State {
	result := make([]string, 0, len(r.candidates))

	for start := 0; start < len(r.candidates); start += youtube.MaxBatchSize {
		end := min(start+youtube.MaxBatchSize, len(r.candidates))
		batch := r.candidates[start:end]

		ids := make([]string, len(batch))
		for i, c := range batch {
			ids[i] = c.id
		}

		durations, err := r.f.provider.VideoDurations(ctx, ids)
		if err != nil {
			return r.fail(StateFetchingDetails, err)
		}

		for _, c := range batch {
			raw, ok := durations[c.id]
			if !ok {
				continue
			}
			seconds := youtube.ParseDuration(raw)
			if r.rule.AcceptsDuration(seconds) {
				result = append(result, c.id)
			} else {
				r.f.log.WithFields(logrus.Fields{
					"video_id": c.id,
					"title":    c.title,
					"duration": raw,
				}).Trace("video excluded by duration")
			}
		}
	}

	r.result = result
	return StateDone
}
