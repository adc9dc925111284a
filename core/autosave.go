package core

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultAutoSaveDelay is how long AutoSaver waits after the last change to a pack
const DefaultAutoSaveDelay = 3 * time.Second

// AutoSaver debounces backups: every Touch for a pack restarts its timer, and the
// backup runs once the pack has been quiet for Delay.
type AutoSaver struct {
	Delay  time.Duration
	Backup func(ctx context.Context, id string) error
	Log    *logrus.Entry

	mu      sync.Mutex
	pending map[string]*pendingSave
	gen     uint64
	closed  bool
	wg      sync.WaitGroup
}

type pendingSave struct {
	timer *time.Timer
	gen   uint64
}

// NewAutoSaver creates an AutoSaver backing packs up through repo
func NewAutoSaver(repo *Repository, delay time.Duration) *AutoSaver {
	if delay <= 0 {
		delay = DefaultAutoSaveDelay
	}
	return &AutoSaver{
		Delay: delay,
		Backup: func(ctx context.Context, id string) error {
			_, err := repo.BackupPack(ctx, id)
			return err
		},
		Log: repo.Log.WithField("component", "autosave"),
	}
}

// Touch schedules a backup of id, replacing any backup already scheduled for it
func (a *AutoSaver) Touch(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	if a.pending == nil {
		a.pending = make(map[string]*pendingSave)
	}
	if p, ok := a.pending[id]; ok && p.timer.Stop() {
		a.wg.Done()
	}
	a.gen++
	gen := a.gen
	a.wg.Add(1)
	a.pending[id] = &pendingSave{
		gen: gen,
		timer: time.AfterFunc(a.Delay, func() {
			defer a.wg.Done()
			if a.take(id, gen) {
				a.run(context.Background(), id)
			}
		}),
	}
}

// take removes the pending entry for id if it still belongs to generation gen
func (a *AutoSaver) take(id string, gen uint64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	p, ok := a.pending[id]
	if !ok || p.gen != gen {
		return false
	}
	delete(a.pending, id)
	return true
}

func (a *AutoSaver) run(ctx context.Context, id string) {
	if err := a.Backup(ctx, id); err != nil {
		a.logger().WithError(err).WithField("pack", id).Error("Auto-save failed")
		return
	}
	a.logger().WithField("pack", id).Debug("Auto-saved")
}

func (a *AutoSaver) logger() *logrus.Entry {
	if a.Log == nil {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return a.Log
}

// Pending returns the IDs with a scheduled backup, sorted
func (a *AutoSaver) Pending() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	ids := make([]string, 0, len(a.pending))
	for id := range a.pending {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Flush runs every scheduled backup now, returning the first error
func (a *AutoSaver) Flush(ctx context.Context) error {
	a.mu.Lock()
	var ids []string
	for id, p := range a.pending {
		if p.timer.Stop() {
			a.wg.Done()
		}
		delete(a.pending, id)
		ids = append(ids, id)
	}
	a.mu.Unlock()
	sort.Strings(ids)

	var firstErr error
	for _, id := range ids {
		if err := a.Backup(ctx, id); err != nil {
			a.logger().WithError(err).WithField("pack", id).Error("Auto-save failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Close cancels scheduled backups and waits for any that are already running.
// Touch is a no-op afterwards.
func (a *AutoSaver) Close() {
	a.mu.Lock()
	a.closed = true
	for id, p := range a.pending {
		if p.timer.Stop() {
			a.wg.Done()
		}
		delete(a.pending, id)
	}
	a.mu.Unlock()
	a.wg.Wait()
}
