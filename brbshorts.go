package brbshorts

import (
	"context"

	"google.golang.org/api/option"

	"brbshorts/catalog"
	"brbshorts/internal/httpclient"
	"brbshorts/internal/logging"
	"brbshorts/settings"
	"brbshorts/youtube"
)

// FetchShorts runs one uncached catalog refresh for channelID and returns the
// qualifying video ids in discovery order. opts are passed to the Data API
// client, for example option.WithEndpoint.
func FetchShorts(ctx context.Context, apiKey, channelID string, mode settings.FilterMode, opts ...option.ClientOption) ([]string, error) {
	client, err := youtube.NewAPIClient(ctx, apiKey, httpclient.New(nil), opts...)
	if err != nil {
		return nil, err
	}
	return catalog.NewFetcher(client, catalog.DefaultMaxPages, logging.Discard()).
		Refresh(ctx, channelID, mode)
}
