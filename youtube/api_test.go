package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

// fakeDataAPI serves canned Data API responses keyed by resource path.
type fakeDataAPI struct {
	t *testing.T

	mu       sync.Mutex
	requests []*http.Request
	handlers map[string]func(w http.ResponseWriter, r *http.Request)
}

func newFakeDataAPI(t *testing.T) (*fakeDataAPI, *APIClient) {
	t.Helper()

	f := &fakeDataAPI{t: t, handlers: map[string]func(http.ResponseWriter, *http.Request){}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.Clone(context.Background()))
		h, ok := f.handlers[r.URL.Path]
		f.mu.Unlock()

		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("key = %q, want test-key", got)
		}
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := NewAPIClient(context.Background(), "test-key", srv.Client(), option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)
	return f, client
}

func (f *fakeDataAPI) handle(path, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers["/youtube/v3/"+path] = func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}
}

func (f *fakeDataAPI) handleFunc(path string, h func(w http.ResponseWriter, r *http.Request)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers["/youtube/v3/"+path] = h
}

func (f *fakeDataAPI) fail(path string, status int, reason, message string) {
	f.handleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		fmt.Fprintf(w, `{"error":{"code":%d,"message":%q,"errors":[{"reason":%q,"message":%q,"domain":"youtube"}]}}`,
			status, message, reason, message)
	})
}

func (f *fakeDataAPI) lastQuery() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(f.t, f.requests)
	q := f.requests[len(f.requests)-1].URL.Query()
	out := make(map[string]string, len(q))
	for k := range q {
		out[k] = q.Get(k)
	}
	return out
}

func (f *fakeDataAPI) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func TestNewAPIClientRequiresKey(t *testing.T) {
	_, err := NewAPIClient(context.Background(), "", nil)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestUploadsPlaylist(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "found",
			body: `{"items":[{"id":"UCabc","contentDetails":{"relatedPlaylists":{"uploads":"UUabc"}}}]}`,
			want: "UUabc",
		},
		{name: "unknown channel", body: `{"items":[]}`, want: ""},
		{name: "no content details", body: `{"items":[{"id":"UCabc"}]}`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, client := newFakeDataAPI(t)
			api.handle("channels", tt.body)

			got, err := client.UploadsPlaylist(context.Background(), "UCabc")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			q := api.lastQuery()
			assert.Equal(t, "contentDetails", q["part"])
			assert.Equal(t, "UCabc", q["id"])
		})
	}
}

func TestVerifyChannel(t *testing.T) {
	api, client := newFakeDataAPI(t)

	api.handle("channels", `{"items":[{"id":"UCabc"}]}`)
	require.NoError(t, client.VerifyChannel(context.Background(), "UCabc"))
	assert.Equal(t, "id", api.lastQuery()["part"])

	api.handle("channels", `{"items":[]}`)
	assert.ErrorIs(t, client.VerifyChannel(context.Background(), "UCabc"), ErrChannelNotFound)
}

func TestPlaylistItems(t *testing.T) {
	api, client := newFakeDataAPI(t)
	api.handleFunc("playlistItems", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("pageToken") == "" {
			fmt.Fprint(w, `{
				"nextPageToken": "page2",
				"items": [
					{"snippet": {"title": "First #shorts", "description": "d1", "resourceId": {"kind": "youtube#video", "videoId": "vid1"}}},
					{"snippet": {"title": "Deleted video", "description": ""}}
				]
			}`)
			return
		}
		fmt.Fprint(w, `{"items": [{"snippet": {"title": "Second", "resourceId": {"videoId": "vid2"}}}]}`)
	})

	page, err := client.PlaylistItems(context.Background(), "UUabc", "")
	require.NoError(t, err)
	assert.Equal(t, "page2", page.NextPageToken)
	assert.Equal(t, []PlaylistItem{
		{VideoID: "vid1", Title: "First #shorts", Description: "d1"},
		{VideoID: "", Title: "Deleted video"},
	}, page.Items)

	q := api.lastQuery()
	assert.Equal(t, "snippet", q["part"])
	assert.Equal(t, "UUabc", q["playlistId"])
	assert.Equal(t, "50", q["maxResults"])
	assert.NotContains(t, q, "pageToken")

	page, err = client.PlaylistItems(context.Background(), "UUabc", "page2")
	require.NoError(t, err)
	assert.Empty(t, page.NextPageToken)
	assert.Equal(t, []PlaylistItem{{VideoID: "vid2", Title: "Second"}}, page.Items)
	assert.Equal(t, "page2", api.lastQuery()["pageToken"])
}

func TestVideoDurations(t *testing.T) {
	api, client := newFakeDataAPI(t)
	api.handle("videos", `{"items": [
		{"id": "a", "contentDetails": {"duration": "PT45S"}},
		{"id": "b", "contentDetails": {}},
		{"id": "c"}
	]}`)

	got, err := client.VideoDurations(context.Background(), []string{"a", "b", "c", "gone"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "PT45S", "b": "PT0S", "c": "PT0S"}, got)

	q := api.lastQuery()
	assert.Equal(t, "contentDetails", q["part"])
	assert.Equal(t, "a,b,c,gone", q["id"])
}

func TestVideoDurationsBatchLimits(t *testing.T) {
	api, client := newFakeDataAPI(t)

	got, err := client.VideoDurations(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	ids := strings.Split(strings.Repeat("x,", MaxBatchSize+1), ",")[:MaxBatchSize+1]
	_, err = client.VideoDurations(context.Background(), ids)
	assert.ErrorIs(t, err, ErrBatchTooLarge)

	assert.Zero(t, api.count())
}

func TestAPIErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		reason   string
		message  string
		sentinel error
	}{
		{"quota", http.StatusForbidden, "quotaExceeded", "The request cannot be completed because you have exceeded your quota.", ErrQuotaExceeded},
		{"bad key", http.StatusBadRequest, "keyInvalid", "API key not valid. Please pass a valid API key.", ErrInvalidAPIKey},
		{"other", http.StatusNotFound, "playlistNotFound", "The playlist identified with the request's playlistId parameter cannot be found.", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, client := newFakeDataAPI(t)
			api.fail("playlistItems", tt.status, tt.reason, tt.message)

			_, err := client.PlaylistItems(context.Background(), "UUabc", "")
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, "playlistItems.list", apiErr.Op)
			assert.Equal(t, tt.status, apiErr.Code)
			assert.Equal(t, tt.reason, apiErr.Reason)
			assert.Equal(t, tt.message, apiErr.Message)
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			} else {
				assert.NotErrorIs(t, err, ErrQuotaExceeded)
				assert.NotErrorIs(t, err, ErrInvalidAPIKey)
			}
		})
	}
}

func TestContextErrorsPassThrough(t *testing.T) {
	_, client := newFakeDataAPI(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.UploadsPlaylist(ctx, "UCabc")
	assert.ErrorIs(t, err, context.Canceled)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}
