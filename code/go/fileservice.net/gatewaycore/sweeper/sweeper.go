// Package sweeper reconciles the remote backend against the record store. An
// upload persists its record only after the backend store succeeded, so a
// crash between the two steps leaves an orphan object behind; the sweep walks
// the dated directories and deletes objects no record points at.
package sweeper

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"sync"
	"time"

	"github.com/remeh/sizedwaitgroup"
	"go.uber.org/zap"

	"github.com/DTSwithAI/file-service/code/go/fileservice.net/core/logging"
	"github.com/DTSwithAI/file-service/code/go/fileservice.net/gatewaycore/config"
	"github.com/DTSwithAI/file-service/code/go/fileservice.net/gatewaycore/datastore"
	"github.com/DTSwithAI/file-service/code/go/fileservice.net/gatewaycore/reference"
	"github.com/DTSwithAI/file-service/code/go/fileservice.net/gatewaycore/transfer"
)

// Report summarizes one sweep run.
type Report struct {
	DirectoriesScanned int `json:"directories_scanned"`
	OrphansDeleted     int `json:"orphans_deleted"`
	Failures           int `json:"failures"`
}

// Sweep runs one reconciliation pass. Directories younger than the grace
// period are skipped entirely: an object there may belong to an upload whose
// record has not committed yet. Directories are swept concurrently, one
// session per worker, since a backend connection serves one transfer at a
// time.
func Sweep(ctx context.Context, dialer transfer.Dialer, cfg *config.Config) (*Report, error) {
	dirs, err := listStaleDirs(ctx, dialer, cfg.FTP.BaseDir, cfg.SweeperGracePeriod)
	if err != nil {
		return nil, err
	}

	report := &Report{DirectoriesScanned: len(dirs)}

	numWorkers := cfg.SweeperNumWorkers
	if numWorkers <= 0 {
		numWorkers = 1
	}

	var mu sync.Mutex
	swg := sizedwaitgroup.New(numWorkers)
	for _, dir := range dirs {
		if ctx.Err() != nil {
			break
		}
		swg.Add()
		go func(dir string) {
			defer swg.Done()

			deleted, err := sweepDir(ctx, dialer, dir)
			mu.Lock()
			report.OrphansDeleted += deleted
			if err != nil {
				report.Failures++
			}
			mu.Unlock()

			if err != nil {
				logging.Logger.Error("sweep: directory failed",
					zap.String("directory", dir), zap.Error(err))
			}
		}(dir)
	}
	swg.Wait()

	logging.Logger.Info("sweep complete",
		zap.Int("directories", report.DirectoriesScanned),
		zap.Int("orphans_deleted", report.OrphansDeleted),
		zap.Int("failures", report.Failures))

	return report, nil
}

// listStaleDirs walks base/yyyy/mm/dd and keeps the directories whose whole
// day ended before the grace cutoff.
func listStaleDirs(ctx context.Context, dialer transfer.Dialer, baseDir string, grace time.Duration) ([]string, error) {
	sess, err := dialer.Dial(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Close() //nolint:errcheck

	cutoff := time.Now().Add(-grace)

	var dirs []string
	years, err := sess.ListNames(baseDir)
	if err != nil {
		return nil, err
	}
	for _, yearName := range years {
		year, ok := parseSegment(yearName, 4)
		if !ok {
			continue
		}
		yearDir := path.Join(baseDir, yearName)
		months, err := sess.ListNames(yearDir)
		if err != nil {
			return nil, err
		}
		for _, monthName := range months {
			month, ok := parseSegment(monthName, 2)
			if !ok || month < 1 || month > 12 {
				continue
			}
			monthDir := path.Join(yearDir, monthName)
			days, err := sess.ListNames(monthDir)
			if err != nil {
				return nil, err
			}
			for _, dayName := range days {
				day, ok := parseSegment(dayName, 2)
				if !ok || day < 1 || day > 31 {
					continue
				}
				// directories are named by the server-local date, so the day
				// boundary must be local too or the active day gets swept
				dayEnd := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local).
					Add(24 * time.Hour)
				if dayEnd.After(cutoff) {
					continue
				}
				dirs = append(dirs, path.Join(monthDir, dayName))
			}
		}
	}
	return dirs, nil
}

func parseSegment(name string, width int) (int, bool) {
	if len(name) != width {
		return 0, false
	}
	n, err := strconv.Atoi(name)
	if err != nil {
		return 0, false
	}
	return n, true
}

func sweepDir(ctx context.Context, dialer transfer.Dialer, dir string) (int, error) {
	var known map[string]bool
	err := datastore.GetStore().WithNewTransaction(func(ctx context.Context) error {
		var err error
		known, err = reference.ListRecordedNames(ctx, dir)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("loading records for %s: %w", dir, err)
	}

	sess, err := dialer.Dial(ctx)
	if err != nil {
		return 0, err
	}
	defer sess.Close() //nolint:errcheck

	names, err := sess.ListNames(dir)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, name := range names {
		if known[name] {
			continue
		}
		if err := sess.Delete(dir, name); err != nil {
			if transfer.IsNotFound(err) {
				continue
			}
			return deleted, err
		}
		logging.Logger.Info("sweep: deleted orphan",
			zap.String("directory", dir), zap.String("name", name))
		deleted++
	}
	return deleted, nil
}
