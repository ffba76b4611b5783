package catalog

import (
	"context"
	"fmt"
	"sync"

	"brbshorts/youtube"
)

// fakeProvider serves a scripted channel. Pages are keyed by the token that
// requests them; the first page has key "".
type fakeProvider struct {
	mu sync.Mutex

	uploads    string
	uploadsErr error
	pages      map[string]*youtube.Page
	pageErr    map[string]error
	durations  map[string]string
	detailsErr error
	verifyErr  error

	channelCalls int
	pageCalls    []string
	detailCalls  [][]string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		uploads:   "UUchannel",
		pages:     map[string]*youtube.Page{},
		pageErr:   map[string]error{},
		durations: map[string]string{},
	}
}

func (f *fakeProvider) UploadsPlaylist(ctx context.Context, channelID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channelCalls++
	return f.uploads, f.uploadsErr
}

func (f *fakeProvider) PlaylistItems(ctx context.Context, playlistID, pageToken string) (*youtube.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pageCalls = append(f.pageCalls, pageToken)
	if err := f.pageErr[pageToken]; err != nil {
		return nil, err
	}
	page, ok := f.pages[pageToken]
	if !ok {
		return nil, fmt.Errorf("unexpected page token %q", pageToken)
	}
	return page, nil
}

func (f *fakeProvider) VideoDurations(ctx context.Context, ids []string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailCalls = append(f.detailCalls, append([]string(nil), ids...))
	if f.detailsErr != nil {
		return nil, f.detailsErr
	}
	if len(ids) > youtube.MaxBatchSize {
		return nil, youtube.ErrBatchTooLarge
	}
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		if d, ok := f.durations[id]; ok {
			out[id] = d
		}
	}
	return out, nil
}

func (f *fakeProvider) VerifyChannel(ctx context.Context, channelID string) error {
	return f.verifyErr
}

func (f *fakeProvider) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.channelCalls + len(f.pageCalls) + len(f.detailCalls)
}

// addPage registers the page returned for token.
func (f *fakeProvider) addPage(token, next string, items ...youtube.PlaylistItem) {
	f.pages[token] = &youtube.Page{Items: items, NextPageToken: next}
}

func item(id, title, description string) youtube.PlaylistItem {
	return youtube.PlaylistItem{VideoID: id, Title: title, Description: description}
}
