package settings

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// Environment variable names holding the settings.
const (
	EnvAPIKey     = "OBS_BRB_YT_API_KEY"
	EnvChannelID  = "OBS_BRB_YT_CHANNEL_ID"
	EnvFilterMode = "OBS_BRB_FILTER_MODE"
)

// PersistFunc writes one variable to storage that outlives the process.
type PersistFunc func(ctx context.Context, key, value string) error

// EnvStore keeps settings in the process environment. When a PersistFunc is
// set (by default on Windows, using setx) each write is also persisted to the
// user environment so the next launch picks it up. Persistence failures are
// logged and otherwise ignored: the running process already has the values.
type EnvStore struct {
	persist PersistFunc
	log     logrus.FieldLogger
}

// NewEnvStore returns an EnvStore with the platform default persistence.
func NewEnvStore(log logrus.FieldLogger) *EnvStore {
	var persist PersistFunc
	if runtime.GOOS == "windows" {
		persist = Setx
	}
	return NewEnvStoreWithPersist(persist, log)
}

// NewEnvStoreWithPersist returns an EnvStore using persist, which may be nil.
func NewEnvStoreWithPersist(persist PersistFunc, log logrus.FieldLogger) *EnvStore {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &EnvStore{persist: persist, log: log}
}

// Load reads the settings from the environment.
func (e *EnvStore) Load(ctx context.Context) (Settings, error) {
	s := Settings{
		APIKey:     os.Getenv(EnvAPIKey),
		ChannelID:  os.Getenv(EnvChannelID),
		FilterMode: ParseFilterMode(os.Getenv(EnvFilterMode)),
	}
	return s, nil
}

// Save writes the settings to the environment.
func (e *EnvStore) Save(ctx context.Context, s Settings) error {
	s = s.Normalize()
	return e.write(ctx, map[string]string{
		EnvAPIKey:     s.APIKey,
		EnvChannelID:  s.ChannelID,
		EnvFilterMode: string(s.FilterMode),
	})
}

// Clear removes the settings from the environment.
func (e *EnvStore) Clear(ctx context.Context) error {
	for _, key := range []string{EnvAPIKey, EnvChannelID, EnvFilterMode} {
		if err := os.Unsetenv(key); err != nil {
			return fmt.Errorf("unset %s: %w", key, err)
		}
	}
	e.persistAll(ctx, map[string]string{EnvAPIKey: "", EnvChannelID: "", EnvFilterMode: ""})
	return nil
}

func (e *EnvStore) write(ctx context.Context, vars map[string]string) error {
	for key, value := range vars {
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}
	e.persistAll(ctx, vars)
	return nil
}

func (e *EnvStore) persistAll(ctx context.Context, vars map[string]string) {
	if e.persist == nil {
		return
	}
	for key, value := range vars {
		if err := e.persist(ctx, key, value); err != nil {
			e.log.WithError(err).WithField("variable", key).Warn("could not persist environment variable")
		}
	}
}

// Setx persists a user environment variable with the Windows setx command.
// Double quotes are stripped from the value since setx cannot escape them.
func Setx(ctx context.Context, key, value string) error {
	value = strings.ReplaceAll(value, `"`, "")
	cmd := exec.CommandContext(ctx, "setx", key, value)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("setx %s: %w: %s", key, err, strings.TrimSpace(string(out)))
	}
	return nil
}
