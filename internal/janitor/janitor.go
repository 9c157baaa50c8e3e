// Package janitor periodically removes expired artifacts and orphaned
// request directories from the downloads directory. Everything here is best
// effort; a failed sweep never affects the pipeline.
package janitor

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dazzlo/video-downloader/internal/download"
)

// Janitor sweeps the downloads directory on a cron schedule.
type Janitor struct {
	logger    *slog.Logger
	dir       string
	retention time.Duration
	cron      *cron.Cron
}

// New creates a janitor for dir. Files and request directories older than
// retention are removed on each sweep.
func New(log *slog.Logger, dir string, retention time.Duration) *Janitor {
	if log == nil {
		log = slog.Default()
	}
	return &Janitor{
		logger:    log.With("component", "janitor"),
		dir:       dir,
		retention: retention,
		cron:      cron.New(),
	}
}

// Start schedules sweeps using the given cron spec and runs one sweep
// immediately.
func (j *Janitor) Start(schedule string) error {
	if _, err := j.cron.AddFunc(schedule, j.Sweep); err != nil {
		return err
	}
	j.cron.Start()
	go j.Sweep()
	return nil
}

// Stop stops the schedule. A sweep already in flight finishes.
func (j *Janitor) Stop() {
	j.cron.Stop()
}

// Sweep removes entries older than the retention: published files and
// orphaned request directories alike.
func (j *Janitor) Sweep() {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		j.logger.Warn("sweep skipped", "error", err)
		return
	}

	cutoff := time.Now().Add(-j.retention)
	removed := 0
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if !j.expired(entry.Name(), entry.IsDir(), info.ModTime(), cutoff) {
			continue
		}
		path := filepath.Join(j.dir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			j.logger.Warn("remove failed", "path", path, "error", err)
			continue
		}
		removed++
	}
	if removed > 0 {
		j.logger.Info("sweep finished", "removed", removed)
	}
}

// expired decides whether an entry should go. Orphaned request directories
// age out like everything else; a live request touches its directory well
// within any sane retention.
func (j *Janitor) expired(name string, isDir bool, mtime time.Time, cutoff time.Time) bool {
	if isDir && !strings.HasPrefix(name, download.RequestIDPrefix) {
		// Not ours, leave it alone.
		return false
	}
	return mtime.Before(cutoff)
}
