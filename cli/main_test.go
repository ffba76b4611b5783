package main

import (
	"bytes"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brbshorts/config"
	"brbshorts/internal/logging"
	"brbshorts/playback"
	"brbshorts/settings"
)

func TestPrintListDiscoveryOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printList(&buf, []string{"abc", "def"}, 0, nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "VIDEO ID")
	assert.Contains(t, lines[1], "abc")
	assert.Contains(t, lines[1], "https://youtube.com/shorts/abc")
	assert.Contains(t, lines[2], "def")
}

func TestPrintListShuffledPicks(t *testing.T) {
	ids := []string{"a", "b", "c"}
	seq := playback.New(ids, rand.New(rand.NewPCG(1, 2)))

	var buf bytes.Buffer
	require.NoError(t, printList(&buf, ids, 7, seq))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 8)
	assert.Equal(t, 3, seq.Cycle())
}

func TestPrintListEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printList(&buf, nil, 5, nil))
	assert.Equal(t, "No videos found.\n", buf.String())
}

func TestBrowserCommand(t *testing.T) {
	tests := []struct {
		goos     string
		wantName string
		wantArgs []string
	}{
		{"windows", "cmd", []string{"/c", "start", "", "http://localhost:3000"}},
		{"darwin", "open", []string{"http://localhost:3000"}},
		{"linux", "xdg-open", []string{"http://localhost:3000"}},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			name, args := browserCommand(tt.goos, "http://localhost:3000")
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestNewStore(t *testing.T) {
	cfg := config.DefaultConfig()
	_, ok := newStore(cfg, logging.Discard()).(*settings.EnvStore)
	assert.True(t, ok)

	cfg.SettingsBackend = config.BackendFile
	cfg.SettingsPath = t.TempDir() + "/settings.json"
	store := newStore(cfg, logging.Discard())
	fs, ok := store.(*settings.FileStore)
	require.True(t, ok)
	assert.Equal(t, cfg.SettingsPath, fs.Path())
	assert.Equal(t, "file "+cfg.SettingsPath, storageDescription(cfg, store))
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	printBanner(&buf, bannerInfo{Port: "3000", LocalIP: "192.0.2.7", Storage: "file /tmp/s.json"})

	out := buf.String()
	assert.Contains(t, out, "http://localhost:3000/player")
	assert.Contains(t, out, "http://192.0.2.7:3000/player")
	assert.Contains(t, out, "http://localhost:3000/setup")
	assert.Contains(t, out, "file /tmp/s.json")
}

func TestIsFlag(t *testing.T) {
	assert.True(t, isFlag("--addr"))
	assert.True(t, isFlag("-no-browser"))
	assert.False(t, isFlag("list"))
	assert.False(t, isFlag("-h"))
	assert.False(t, isFlag(""))
}
