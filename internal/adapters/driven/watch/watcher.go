package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/pagespin/internal/core/ports/driven"
	"github.com/custodia-labs/pagespin/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.FileWatcher = (*Watcher)(nil)

// ErrClosed is returned by Watch after Close.
var ErrClosed = errors.New("watcher closed")

// DefaultSettle is how long the watcher waits after the first event of a
// burst before reporting it, so that a writer can finish.
const DefaultSettle = 100 * time.Millisecond

// Watcher reports changes to individual files using fsnotify.
// The parent directory is watched so that editors which save by
// replacing the file are still seen.
type Watcher struct {
	minInterval time.Duration
	settle      time.Duration

	mu       sync.Mutex
	closed   bool
	watchers []*fsnotify.Watcher
}

// New creates a watcher that reports at most one change per minInterval.
func New(minInterval time.Duration) *Watcher {
	return &Watcher{minInterval: minInterval, settle: DefaultSettle}
}

// Watch starts watching path.
func (w *Watcher) Watch(ctx context.Context, path string) (<-chan struct{}, error) {
	target, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(target); err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, ErrClosed
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(target)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	w.watchers = append(w.watchers, fw)

	out := make(chan struct{}, 1)
	go w.loop(ctx, fw, target, out)

	logger.Debug("watching %s", target)
	return out, nil
}

// Close stops all watches. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true

	var errs []error
	for _, fw := range w.watchers {
		errs = append(errs, fw.Close())
	}
	w.watchers = nil
	return errors.Join(errs...)
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher, target string, out chan<- struct{}) {
	defer close(out)
	defer w.release(fw)

	limit := rate.Inf
	if w.minInterval > 0 {
		limit = rate.Every(w.minInterval)
	}
	limiter := rate.NewLimiter(limit, 1)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if !relevant(event, target) || fire != nil {
				continue
			}
			delay := max(limiter.Reserve().Delay(), w.settle)
			timer = time.NewTimer(delay)
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			logger.Warn("watch %s: %v", target, err)

		case <-fire:
			fire = nil
			select {
			case out <- struct{}{}:
			default:
				// A change is already pending for the reader.
			}
		}
	}
}

// release closes fw and forgets it. Close may already have closed it.
func (w *Watcher) release(fw *fsnotify.Watcher) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, other := range w.watchers {
		if other == fw {
			w.watchers = append(w.watchers[:i], w.watchers[i+1:]...)
			break
		}
	}
	if err := fw.Close(); err != nil {
		logger.Warn("closing watch: %v", err)
	}
}

// active returns the number of open fsnotify watchers.
func (w *Watcher) active() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.watchers)
}

// relevant reports whether event means target may have new content.
func relevant(event fsnotify.Event, target string) bool {
	if filepath.Clean(event.Name) != target {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
