package main

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"brbshorts/catalog"
	"brbshorts/config"
	"brbshorts/internal/httpclient"
	"brbshorts/settings"
	"brbshorts/youtube"
)

func cfgDuration(d config.Duration) time.Duration {
	return time.Duration(d)
}

// newStore returns the settings store selected by the config.
func newStore(cfg *config.Config, log logrus.FieldLogger) settings.Store {
	if cfg.SettingsBackend == config.BackendFile {
		path := cfg.SettingsPath
		if path == "" {
			path = settings.DefaultFilePath()
		}
		return settings.NewFileStore(path)
	}
	return settings.NewEnvStore(log)
}

// storageDescription tells the user where settings live.
func storageDescription(cfg *config.Config, store settings.Store) string {
	if fs, ok := store.(*settings.FileStore); ok {
		return "file " + fs.Path()
	}
	vars := strings.Join([]string{settings.EnvAPIKey, settings.EnvChannelID, settings.EnvFilterMode}, ", ")
	if runtime.GOOS == "windows" {
		return "Windows user environment variables (" + vars + ")"
	}
	return "process environment variables (" + vars + ")"
}

// newClientFactory creates YouTube Data API clients sharing one pooled
// HTTP client.
func newClientFactory(cfg *config.Config) catalog.ClientFactory {
	hcfg := httpclient.DefaultConfig()
	hcfg.Timeout = cfgDuration(cfg.APITimeout)
	hc := httpclient.New(hcfg)

	return func(ctx context.Context, apiKey string) (catalog.Client, error) {
		c, err := youtube.NewAPIClient(ctx, apiKey, hc)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// browserCommand returns the command that opens url in the default browser.
func browserCommand(goos, url string) (string, []string) {
	switch goos {
	case "windows":
		return "cmd", []string{"/c", "start", "", url}
	case "darwin":
		return "open", []string{url}
	default:
		return "xdg-open", []string{url}
	}
}

func openBrowser(ctx context.Context, url string) error {
	name, args := browserCommand(runtime.GOOS, url)
	cmd := exec.CommandContext(ctx, name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", name, err)
	}
	go cmd.Wait()
	return nil
}

type bannerInfo struct {
	Port    string
	LocalIP string
	Storage string
}

func printBanner(w io.Writer, b bannerInfo) {
	local := "http://localhost:" + b.Port
	lan := "http://" + b.LocalIP + ":" + b.Port
	rule := strings.Repeat("=", 58)
	sep := "  " + strings.Repeat("-", 53)

	lines := []string{
		"",
		rule,
		"   OBS BRB Shorts - Server Running!",
		rule,
		"",
		"  PLAYER URLs:",
		sep,
		"  This computer:     " + local + "/player",
		"  Other devices:     " + lan + "/player",
		"",
		"  Use 'localhost' if OBS is on this computer.",
		"  Use the IP address (" + b.LocalIP + ") to access from",
		"  other computers on your local network.",
		"",
		"  SETUP & HELP:",
		sep,
		"  First-time setup:  " + local + "/setup",
		"  OBS Guide:         " + local + "/obs-guide",
		"  Settings:          " + local + "/settings",
		"",
		"  Settings stored in: " + b.Storage,
		rule,
		"",
		"  Keep this window open while streaming!",
		"  Press Ctrl+C to stop the server.",
		"",
	}
	fmt.Fprintln(w, strings.Join(lines, "\n"))
}
