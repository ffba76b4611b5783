package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"brbshorts/internal/httpclient"
)

// APIClient implements the catalog's provider calls using YouTube Data API v3.
// Every method performs exactly one API request and never retries; callers
// decide what a failure means.
type APIClient struct {
	service *youtube.Service
}

// NewAPIClient creates a Data API client authenticated with apiKey.
//
// When hc is nil the library's default transport is used. Otherwise hc is
// used for every request and the key is attached by a wrapping transport,
// since the library ignores option.WithAPIKey once a client is supplied.
func NewAPIClient(ctx context.Context, apiKey string, hc *http.Client, opts ...option.ClientOption) (*APIClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	var base []option.ClientOption
	if hc != nil {
		base = append(base, option.WithHTTPClient(httpclient.WithAPIKey(hc, apiKey)))
	} else {
		base = append(base, option.WithAPIKey(apiKey))
	}

	service, err := youtube.NewService(ctx, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return &APIClient{service: service}, nil
}

// VerifyChannel checks that channelID names an existing channel. It returns
// ErrChannelNotFound when the lookup succeeds but yields no channel.
func (a *APIClient) VerifyChannel(ctx context.Context, channelID string) error {
	resp, err := a.service.Channels.List([]string{"id"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return wrapAPIError("channels.list", err)
	}
	if len(resp.Items) == 0 {
		return ErrChannelNotFound
	}
	return nil
}

// UploadsPlaylist returns the id of the channel's uploads playlist. A missing
// channel or a channel without an uploads playlist yields "" and no error.
func (a *APIClient) UploadsPlaylist(ctx context.Context, channelID string) (string, error) {
	resp, err := a.service.Channels.List([]string{"contentDetails"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return "", wrapAPIError("channels.list", err)
	}

	if len(resp.Items) == 0 {
		return "", nil
	}
	channel := resp.Items[0]
	if channel.ContentDetails == nil || channel.ContentDetails.RelatedPlaylists == nil {
		return "", nil
	}
	return channel.ContentDetails.RelatedPlaylists.Uploads, nil
}

// PlaylistItems fetches one page of a playlist. An empty pageToken requests
// the first page.
func (a *APIClient) PlaylistItems(ctx context.Context, playlistID, pageToken string) (*Page, error) {
	call := a.service.PlaylistItems.List([]string{"snippet"}).
		PlaylistId(playlistID).
		MaxResults(MaxBatchSize).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, wrapAPIError("playlistItems.list", err)
	}

	page := &Page{
		Items:         make([]PlaylistItem, 0, len(resp.Items)),
		NextPageToken: resp.NextPageToken,
	}
	for _, item := range resp.Items {
		var pi PlaylistItem
		if item.Snippet != nil {
			pi.Title = item.Snippet.Title
			pi.Description = item.Snippet.Description
			if item.Snippet.ResourceId != nil {
				pi.VideoID = item.Snippet.ResourceId.VideoId
			}
		}
		page.Items = append(page.Items, pi)
	}
	return page, nil
}

// VideoDurations returns the raw ISO-8601 duration of each requested video
// keyed by video id. Videos the API does not return (deleted, private) are
// absent from the map.
func (a *APIClient) VideoDurations(ctx context.Context, ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}
	if len(ids) > MaxBatchSize {
		return nil, ErrBatchTooLarge
	}

	resp, err := a.service.Videos.List([]string{"contentDetails"}).
		Id(strings.Join(ids, ",")).
		Context(ctx).
		Do()
	if err != nil {
		return nil, wrapAPIError("videos.list", err)
	}

	durations := make(map[string]string, len(resp.Items))
	for _, v := range resp.Items {
		duration := "PT0S"
		if v.ContentDetails != nil && v.ContentDetails.Duration != "" {
			duration = v.ContentDetails.Duration
		}
		durations[v.Id] = duration
	}
	return durations, nil
}

// wrapAPIError converts library errors into an *APIError carrying the
// provider's message. Context errors pass through untouched.
func wrapAPIError(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	apiErr := &APIError{Op: op, Message: err.Error(), Err: err}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		apiErr.Code = gerr.Code
		if gerr.Message != "" {
			apiErr.Message = gerr.Message
		}
		if len(gerr.Errors) > 0 {
			apiErr.Reason = gerr.Errors[0].Reason
		}
	}
	return apiErr
}
