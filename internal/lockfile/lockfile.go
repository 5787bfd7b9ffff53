package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultStaleAfter is how old a lock file must be before another
// run may take it over.
const DefaultStaleAfter = 6 * time.Hour

// ErrHeld is returned when another live run holds the lock.
var ErrHeld = errors.New("lock held by another run")

// Lock is a coarse single-writer guard for batch runs. It relies on
// O_EXCL creation, so it protects against concurrent runs on one
// machine, not across hosts.
type Lock struct {
	Path       string
	StaleAfter time.Duration // <=0 means DefaultStaleAfter
}

func (l *Lock) staleAfter() time.Duration {
	if l.StaleAfter > 0 {
		if l.StaleAfter < time.Minute {
			return time.Minute
		}
		return l.StaleAfter
	}
	return DefaultStaleAfter
}

// Acquire takes the lock, removing a stale file left behind by a
// crashed run first. The run id is written inside for debugging.
func (l *Lock) Acquire(runID string) error {
	if err := os.MkdirAll(filepath.Dir(l.Path), 0o755); err != nil {
		return err
	}

	if info, err := os.Stat(l.Path); err == nil {
		if time.Since(info.ModTime()) > l.staleAfter() {
			_ = os.Remove(l.Path)
		}
	}

	f, err := os.OpenFile(l.Path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return ErrHeld
		}
		return err
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "pid=%d run_id=%s started=%s\n",
		os.Getpid(), runID, time.Now().Format("2006-01-02T15:04:05"))
	return err
}

// Release removes the lock file. Releasing an already-released lock
// is not an error.
func (l *Lock) Release() error {
	err := os.Remove(l.Path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
