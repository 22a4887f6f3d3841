package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/humus/pkg/core"
)

// Watch reports changes to documents whose "kind/id" matches pattern.
// An empty pattern matches everything. The channel closes when ctx is done.
func (r *Repository) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "**"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: bad watch pattern %q", core.ErrInvalidArgument, pattern)
	}

	events := make(chan core.Event)
	w := newWatchWorker(r, pattern, events)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := w.Stop(stopCtx)
		close(events)
		return err
	}, lifecycle.WithErrorHandler(r.reportError))

	return events, nil
}

func (r *Repository) reportError(err error) {
	if r.config.ErrorHandler != nil {
		r.config.ErrorHandler(err)
		return
	}
	r.config.Logger.Error("watcher error", "error", err)
}

// recursiveAdd watches the root and every kind directory under it.
func (r *Repository) recursiveAdd(watcher *fsnotify.Watcher) error {
	if err := watcher.Add(r.Path); err != nil {
		return fmt.Errorf("failed to watch %s: %w", r.Path, err)
	}
	kinds, err := r.Kinds()
	if err != nil {
		return err
	}
	for _, kind := range kinds {
		if err := watcher.Add(filepath.Join(r.Path, kind)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", kind, err)
		}
	}
	return nil
}

// resolveRef maps a file path to its kind and id.
func (r *Repository) resolveRef(path string) (kind, id string, err error) {
	rel, err := filepath.Rel(r.Path, path)
	if err != nil {
		return "", "", err
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%s is not a document path", rel)
	}
	ext := filepath.Ext(parts[1])
	if _, ok := r.serializer(ext); !ok {
		return "", "", fmt.Errorf("%s has no known extension", rel)
	}
	return parts[0], strings.TrimSuffix(parts[1], ext), nil
}

// isKindDir reports whether path is a kind directory directly under the root.
func (r *Repository) isKindDir(path string) bool {
	if filepath.Dir(path) != filepath.Clean(r.Path) {
		return false
	}
	name := filepath.Base(path)
	if name == r.config.SystemDir || strings.HasPrefix(name, ".") {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (r *Repository) shouldIgnore(event fsnotify.Event) bool {
	base := filepath.Base(event.Name)
	return strings.HasPrefix(base, TempFilePrefix) || strings.HasPrefix(base, ".")
}

// debouncer coalesces bursts of events for the same document.
type debouncer struct {
	delay   time.Duration
	mu      sync.Mutex
	pending map[string]*pendingEvent
	wg      sync.WaitGroup
	stopped bool
}

type pendingEvent struct {
	event core.Event
	timer *time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay, pending: make(map[string]*pendingEvent)}
}

// add schedules emit for event, replacing any pending event of the same document.
// A pending CREATE absorbs a following MODIFY.
func (d *debouncer) add(event core.Event, emit func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	key := event.Kind + "/" + event.ID
	if p, ok := d.pending[key]; ok {
		// A timer that already fired has its emit queued behind d.mu; leave it be.
		if p.timer.Stop() {
			if p.event.Type == core.EventCreate && event.Type == core.EventModify {
				event.Type = core.EventCreate
			}
			p.event = event
			p.timer.Reset(d.delay)
			return
		}
	}

	p := &pendingEvent{event: event}
	d.wg.Add(1)
	p.timer = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		d.mu.Lock()
		e := p.event
		if d.pending[key] == p {
			delete(d.pending, key)
		}
		d.mu.Unlock()
		emit(e)
	})
	d.pending[key] = p
}

// stopAndWait drops pending events and waits up to timeout for emits in flight.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for key, p := range d.pending {
		if p.timer.Stop() {
			d.wg.Done()
		}
		delete(d.pending, key)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}
