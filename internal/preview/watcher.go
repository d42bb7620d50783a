package preview

import (
	"context"
	"os"
	"sync"
	"time"
)

// Watcher polls a fixed set of files and reports modifications.
type Watcher struct {
	paths    []string
	interval time.Duration

	mu       sync.Mutex
	onChange func([]string)
	stamps   map[string]time.Time
	running  bool
	stopCh   chan struct{}
}

// NewWatcher creates a Watcher. A non-positive interval means 300ms.
func NewWatcher(interval time.Duration, paths ...string) *Watcher {
	if interval <= 0 {
		interval = 300 * time.Millisecond
	}
	return &Watcher{
		paths:    paths,
		interval: interval,
		stamps:   make(map[string]time.Time),
	}
}

// OnChange sets the callback that receives the changed paths of each poll.
func (w *Watcher) OnChange(fn func(changed []string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start polls until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	stop := w.stopCh
	w.mu.Unlock()

	w.poll()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return ctx.Err()
		case <-stop:
			return nil
		case <-ticker.C:
			if changed := w.poll(); len(changed) > 0 {
				w.mu.Lock()
				fn := w.onChange
				w.mu.Unlock()
				if fn != nil {
					fn(changed)
				}
			}
		}
	}
}

// Stop stops a running watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		close(w.stopCh)
		w.running = false
	}
}

// poll records modification times and returns the paths that changed since
// the previous poll. A file that disappears or appears counts as changed.
// The first poll only records.
func (w *Watcher) poll() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	first := len(w.stamps) == 0
	var changed []string
	for _, p := range w.paths {
		var mod time.Time
		if info, err := os.Stat(p); err == nil {
			mod = info.ModTime()
		}
		last, seen := w.stamps[p]
		w.stamps[p] = mod
		if !first && (!seen || !mod.Equal(last)) {
			changed = append(changed, p)
		}
	}
	return changed
}
