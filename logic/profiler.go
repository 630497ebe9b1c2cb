package logic

import (
	"context"
	"fmt"
	"gibber/shared"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strings"
	"sync"
	"time"
)

const profilerStartDelay = 10 * time.Second
const profilerInterval = time.Minute
const profileFileSuffix = ".goroutines.txt"

// IProfiler periodically writes goroutine dumps to the diagnostics directory.
// A stuck remote fetch shows up there as a goroutine parked in the apub client.
type IProfiler interface {
	Start()
	Stop()
}

type profiler struct {
	logger   shared.ILogger
	dir      string
	keepDays int
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func NewProfiler(cfg *shared.Config, logger shared.ILogger) IProfiler {
	return &profiler{
		logger:   logger,
		dir:      cfg.DiagnosticsDir,
		keepDays: cfg.DiagnosticsKeepDays,
	}
}

func (prof *profiler) Start() {
	if prof.dir == "" {
		return
	}
	if err := os.MkdirAll(prof.dir, 0755); err != nil {
		prof.logger.Warnf("Goroutine dumps disabled: cannot create %s: %v", prof.dir, err)
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	prof.cancel = cancel
	prof.wg.Add(1)
	go func() {
		defer prof.wg.Done()
		prof.loop(ctx)
	}()
	prof.logger.Infof("Writing goroutine dumps to %s", prof.dir)
}

func (prof *profiler) Stop() {
	if prof.cancel == nil {
		return
	}
	prof.cancel()
	prof.wg.Wait()
}

func (prof *profiler) loop(ctx context.Context) {
	wait := profilerStartDelay
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
		wait = profilerInterval
		if _, err := saveGoroutineDump(prof.dir, time.Now()); err != nil {
			prof.logger.Warnf("Failed to write goroutine dump: %v", err)
		}
		if err := purgeOldDumps(prof.dir, prof.keepDays, time.Now()); err != nil {
			prof.logger.Warnf("Failed to purge old goroutine dumps: %v", err)
		}
	}
}

func saveGoroutineDump(dir string, now time.Time) (string, error) {
	fname := now.Format("2006-01-02!15-04-05") + profileFileSuffix
	profPath := filepath.Join(dir, fname)
	f, err := os.Create(profPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err = fmt.Fprintf(f, "Goroutine count: %d\n\n", runtime.NumGoroutine()); err != nil {
		return "", err
	}
	if err = pprof.Lookup("goroutine").WriteTo(f, 2); err != nil {
		return "", err
	}
	return profPath, nil
}

// Removes dumps last modified more than keepDays ago. Other files in the directory are left alone.
func purgeOldDumps(dir string, keepDays int, now time.Time) error {
	cutoff := now.AddDate(0, 0, -keepDays)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), profileFileSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		if info.ModTime().Before(cutoff) {
			if err = os.Remove(filepath.Join(dir, entry.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}
