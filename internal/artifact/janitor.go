package artifact

import (
	"context"
	"path/filepath"
	"time"

	"github.com/hbomb79/Reel/pkg/logger"
	"github.com/labstack/gommon/bytes"
	"github.com/spf13/afero"
)

var log = logger.Get("Janitor")

type (
	// Janitor is responsible for removing artifacts from the download
	// directory once they exceed the configured retention. It holds no
	// record of the artifacts; each sweep works purely from the directory
	// listing.
	Janitor struct {
		store  *Store
		config Config
		now    func() time.Time
	}

	SweepReport struct {
		Scanned int   `json:"scanned"`
		Removed int   `json:"removed"`
		Failed  int   `json:"failed"`
		Freed   int64 `json:"freed_bytes"`
	}
)

func NewJanitor(store *Store, config Config) *Janitor {
	return &Janitor{store: store, config: config, now: time.Now}
}

// WithClock replaces the clock used to determine file age.
func (janitor *Janitor) WithClock(now func() time.Time) *Janitor {
	janitor.now = now
	return janitor
}

// Run is the main entry point of this service. A sweep is performed
// immediately, and then on every tick of the configured interval.
// To kill the service, the calling code should cancel the context
// provided.
func (janitor *Janitor) Run(ctx context.Context) error {
	interval := janitor.config.SweepInterval
	if interval <= 0 {
		interval = 30 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	janitor.Sweep()
	for {
		select {
		case <-ticker.C:
			janitor.Sweep()
		case <-ctx.Done():
			return nil
		}
	}
}

// Sweep removes every regular file in the download directory whose age
// exceeds the retention. Failures for individual files are logged and do
// not stop the sweep.
func (janitor *Janitor) Sweep() SweepReport {
	report := SweepReport{}

	entries, err := afero.ReadDir(janitor.store.fs, janitor.store.dir)
	if err != nil {
		log.Emit(logger.WARNING, "Failed to list download directory %s: %v\n", janitor.store.dir, err)
		report.Failed++
		return report
	}

	now := janitor.now()
	for _, entry := range entries {
		if !entry.Mode().IsRegular() {
			continue
		}

		report.Scanned++
		age := now.Sub(entry.ModTime())
		if age <= janitor.config.Retention {
			continue
		}

		path := filepath.Join(janitor.store.dir, entry.Name())
		if err := janitor.store.fs.Remove(path); err != nil {
			log.Emit(logger.WARNING, "Failed to remove expired artifact %s: %v\n", path, err)
			report.Failed++
			continue
		}

		report.Removed++
		report.Freed += entry.Size()
		log.Emit(logger.REMOVE, "Removed artifact %s (%s, age %s)\n", entry.Name(), bytes.Format(entry.Size()), age.Truncate(time.Second))
	}

	if report.Removed > 0 || report.Failed > 0 {
		log.Emit(logger.INFO, "Sweep complete: scanned %d, removed %d (%s), failed %d\n", report.Scanned, report.Removed, bytes.Format(report.Freed), report.Failed)
	} else {
		log.Emit(logger.VERBOSE, "Sweep complete: scanned %d, nothing expired\n", report.Scanned)
	}

	return report
}
