package settings

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brbshorts/internal/logging"
)

func TestParseFilterMode(t *testing.T) {
	tests := []struct {
		in   string
		want FilterMode
	}{
		{"duration", FilterDuration},
		{" Duration ", FilterDuration},
		{"DURATION", FilterDuration},
		{"hashtag", FilterHashtag},
		{"", FilterHashtag},
		{"anything", FilterHashtag},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFilterMode(tt.in))
		})
	}
}

func TestNormalizeValidate(t *testing.T) {
	s := Settings{APIKey: "  key ", ChannelID: "\tUCabc\n", FilterMode: "Duration"}.Normalize()
	assert.Equal(t, Settings{APIKey: "key", ChannelID: "UCabc", FilterMode: FilterDuration}, s)
	assert.NoError(t, s.Validate())

	tests := []Settings{
		{},
		{APIKey: "key"},
		{ChannelID: "UCabc"},
		Settings{APIKey: "   ", ChannelID: "UCabc"}.Normalize(),
	}
	for _, s := range tests {
		assert.ErrorIs(t, s.Validate(), ErrIncomplete)
		assert.False(t, s.Configured())
	}
}

// storeContract runs the behaviour every Store shares.
func storeContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	s, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, s.Configured())

	require.NoError(t, store.Save(ctx, Settings{APIKey: " key ", ChannelID: "UCabc", FilterMode: "duration"}))
	s, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Settings{APIKey: "key", ChannelID: "UCabc", FilterMode: FilterDuration}, s)

	require.NoError(t, store.Save(ctx, Settings{APIKey: "key2", ChannelID: "UCdef"}))
	s, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Settings{APIKey: "key2", ChannelID: "UCdef", FilterMode: FilterHashtag}, s)

	require.NoError(t, store.Clear(ctx))
	s, err = store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, s.Configured())
	assert.Equal(t, FilterHashtag, s.FilterMode)
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore(Settings{}))
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brbshorts", "settings.json")
	store := NewFileStore(path)
	assert.Equal(t, path, store.Path())
	storeContract(t, store)

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "Clear removes the file")
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("nope"), 0o600))

	_, err := NewFileStore(path).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load settings")
}

type persisted struct {
	mu   sync.Mutex
	vars map[string]string
	err  error
}

func (p *persisted) persist(ctx context.Context, key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.vars == nil {
		p.vars = map[string]string{}
	}
	p.vars[key] = value
	return p.err
}

func TestEnvStore(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvChannelID, "")
	t.Setenv(EnvFilterMode, "")

	p := &persisted{}
	storeContract(t, NewEnvStoreWithPersist(p.persist, logging.Discard()))

	assert.Equal(t, map[string]string{EnvAPIKey: "", EnvChannelID: "", EnvFilterMode: ""}, p.vars,
		"Clear persists empty values")
}

func TestEnvStoreSavePersists(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvChannelID, "")
	t.Setenv(EnvFilterMode, "")

	p := &persisted{err: errors.New("setx failed")}
	store := NewEnvStoreWithPersist(p.persist, logging.Discard())

	require.NoError(t, store.Save(context.Background(), Settings{APIKey: "k", ChannelID: "UCabc"}),
		"persistence failures are logged only")
	assert.Equal(t, map[string]string{EnvAPIKey: "k", EnvChannelID: "UCabc", EnvFilterMode: "hashtag"}, p.vars)
	assert.Equal(t, "UCabc", os.Getenv(EnvChannelID))
}

func TestEnvStoreLoadFromEnvironment(t *testing.T) {
	t.Setenv(EnvAPIKey, "key")
	t.Setenv(EnvChannelID, "UCabc")
	t.Setenv(EnvFilterMode, "duration")

	s, err := NewEnvStoreWithPersist(nil, nil).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Settings{APIKey: "key", ChannelID: "UCabc", FilterMode: FilterDuration}, s)
}
