package storage

import (
	"os"
	"path/filepath"
	"time"
)

const lockPollInterval = 10 * time.Millisecond

// acquire takes an exclusive advisory lock on path+".lock", retrying until
// timeout. The returned release func unlocks and closes the lock file.
func acquire(path string, timeout time.Duration) (release func(), err error) {
	lockPath := path + ".lock"
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, &Error{Op: "lock", Path: lockPath, Err: err}
	}

	deadline := time.Now().Add(timeout)
	for tryLock(f) != nil {
		if !time.Now().Before(deadline) {
			f.Close()
			return nil, &Error{Op: "lock", Path: lockPath, Err: ErrLockTimeout}
		}
		time.Sleep(lockPollInterval)
	}

	return func() {
		unlock(f)
		f.Close()
	}, nil
}

// writeAtomic replaces path with data through a synced temp file in the same
// directory, so readers see either the old document or the new one.
func writeAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".brbshorts-*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
