// Package brbshorts serves a rotating playlist of a channel's YouTube Shorts
// for an OBS "be right back" browser source.
//
// Overview
//
// The server discovers every upload of one configured channel through the
// YouTube Data API v3, keeps the uploads that qualify as shorts, and caches
// the resulting id list for six hours. A player page polls that list and
// plays it in shuffled cycles.
//
// A video qualifies in one of two filter modes:
//
//   - hashtag: "#shorts" appears in the title or description and the video
//     runs 1 to 60 seconds
//   - duration: the video runs 1 to 90 seconds
//
// Quick Start
//
// Fetch the qualifying ids of a channel without running the server:
//
//	ctx := context.Background()
//	ids, err := brbshorts.FetchShorts(ctx, apiKey, "UCxxxxxxxxxxxxxxxxxxxxxx", settings.FilterHashtag)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(len(ids), "shorts")
//
// Configuration
//
// The command loads its settings from multiple sources:
//
//  1. Environment variables (highest priority)
//  2. Config file (BRB_CONFIG, brbshorts.json or ~/.config/brbshorts/brbshorts.json)
//  3. Default values (lowest priority)
//
// Environment variables:
//
//   - BRB_ADDR, BRB_PORT: Listen address, or only its port
//   - BRB_CACHE_TTL: How long a catalog stays fresh
//   - BRB_FETCH_TIMEOUT: Upper bound for one catalog refresh
//   - BRB_SETTINGS_BACKEND: "env" or "file"
//   - BRB_LOG_LEVEL, BRB_LOG_FORMAT: Logging
//
// The channel itself (API key, channel id, filter mode) is entered on the
// /setup page and kept in OBS_BRB_* environment variables or a settings file.
//
// Error Handling
//
// Checking for sentinel errors:
//
//	if errors.Is(err, brbshorts.ErrQuotaExceeded) {
//		fmt.Println("Daily API quota used up")
//	}
//
// Extracting wrapped error details:
//
//	var apiErr *brbshorts.APIError
//	if errors.As(err, &apiErr) {
//		fmt.Printf("%s failed: %s\n", apiErr.Op, apiErr.Message)
//	}
//
// Advanced Usage
//
// For more control, use the sub-packages directly:
//
//   - youtube: Data API client and ISO-8601 duration parsing
//   - catalog: Fetcher, cache and the Service behind /api/shorts
//   - playback: Shuffled playback order
//   - settings: Channel settings and their stores
//   - server: HTTP routes and pages
//   - config: Process configuration
package brbshorts
