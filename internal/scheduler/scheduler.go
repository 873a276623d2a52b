package scheduler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/gofrs/flock"
	"github.com/robfig/cron/v3"

	"careers-scraper/internal/scrape/types"
)

// ErrLocked is returned when another run holds the lock file.
var ErrLocked = errors.New("another run is in progress")

// TryLock takes an exclusive lock on lockPath without waiting. It returns
// ErrLocked when another run holds it; the caller must call unlock when done.
func TryLock(lockPath string) (unlock func(), err error) {
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("lock dir: %w", err)
	}
	fl := flock.New(lockPath)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", lockPath, err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return func() {
		if err := fl.Unlock(); err != nil {
			log.Printf("[WARN] [scheduler] unlock %s: %v", lockPath, err)
		}
	}, nil
}

// RunLocked runs task while holding the lock on lockPath.
// It does not wait: if the lock is taken the run is skipped with ErrLocked.
func RunLocked(ctx context.Context, lockPath, name string, task types.Task) error {
	unlock, err := TryLock(lockPath)
	if errors.Is(err, ErrLocked) {
		log.Printf("[WARN] [%s] lock %s held by another run, skipping", name, lockPath)
	}
	if err != nil {
		return err
	}
	defer unlock()
	return task(ctx)
}

// Cron runs task on the standard cron spec until ctx is done. Each run takes
// the lock file, so overlapping fires are skipped. Errors are logged, not returned.
func Cron(ctx context.Context, spec, name, lockPath string, loc *time.Location, task types.Task) error {
	if loc == nil {
		loc = time.UTC
	}
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return fmt.Errorf("bad cron spec %q: %w", spec, err)
	}

	c := cron.New(cron.WithLocation(loc))
	c.Schedule(sched, cron.FuncJob(func() {
		st := time.Now()
		err := RunLocked(ctx, lockPath, name, task)
		switch {
		case errors.Is(err, ErrLocked):
		case err != nil:
			log.Printf("[ERROR] [%s] failed in %s: %v", name, time.Since(st).Truncate(time.Millisecond), err)
		default:
			log.Printf("[INFO] [%s] done in %s", name, time.Since(st).Truncate(time.Millisecond))
		}
		log.Printf("[INFO] [%s] next run at %s", name, sched.Next(time.Now().In(loc)).Format(time.RFC3339))
	}))

	c.Start()
	log.Printf("[INFO] [%s] scheduled %q, next run at %s", name, spec, sched.Next(time.Now().In(loc)).Format(time.RFC3339))

	<-ctx.Done()
	<-c.Stop().Done()
	log.Printf("[INFO] [%s] scheduler stopped", name)
	return nil
}
