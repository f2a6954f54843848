// Package watch turns edits of a single file into a stream of snapshots.
//
// The parent directory is watched rather than the file itself so that editors
// which save by writing a temporary file and renaming it over the original
// are still seen. Bursts of events are debounced, and a save that leaves the
// content unchanged produces no snapshot.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/fyrsmithlabs/codesim/internal/engine"
	"github.com/fyrsmithlabs/codesim/internal/logging"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period after the last event before the file
// is read.
const DefaultDebounce = 200 * time.Millisecond

// ErrWatcherFailed indicates the filesystem watcher failed to initialize.
var ErrWatcherFailed = errors.New("failed to initialize filesystem watcher")

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the watcher logger.
func WithLogger(l *logging.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// Watcher emits a Snapshot each time the watched file settles with new
// content. Versions count from 1; the first snapshot is the content at Start.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *logging.Logger
	events   chan engine.Snapshot
	stop     chan struct{}

	version int
	last    string
}

// New creates a Watcher for path. The file must exist.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("watching %s: is a directory", path)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatcherFailed, err)
	}

	w := &Watcher{
		path:     abs,
		watcher:  fw,
		debounce: DefaultDebounce,
		logger:   logging.Nop(),
		events:   make(chan engine.Snapshot, 10),
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start emits the current content as version 1 and begins watching in a
// background goroutine. The Snapshots channel is closed when watching ends.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}

	code, err := os.ReadFile(w.path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", w.path, err)
	}
	w.record(string(code))
	w.events <- w.snapshot()

	go w.processEvents(ctx)
	return nil
}

// Stop stops the watcher and releases its resources.
func (w *Watcher) Stop() {
	select {
	case <-w.stop:
		return
	default:
		close(w.stop)
		_ = w.watcher.Close()
	}
}

// Snapshots returns the channel of new versions.
func (w *Watcher) Snapshots() <-chan engine.Snapshot {
	return w.events
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.stop:
			return
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			if !w.reload(ctx) {
				continue
			}
			select {
			case w.events <- w.snapshot():
			case <-w.stop:
				return
			case <-ctx.Done():
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn(ctx, "file watcher error", zap.String("path", w.path), zap.Error(err))
		}
	}
}

// reload reads the file and reports whether its content changed.
func (w *Watcher) reload(ctx context.Context) bool {
	code, err := os.ReadFile(w.path)
	if err != nil {
		// The file may be mid-rename; the next event retries.
		w.logger.Debug(ctx, "reading watched file failed", zap.String("path", w.path), zap.Error(err))
		return false
	}
	if string(code) == w.last {
		return false
	}
	w.record(string(code))
	return true
}

func (w *Watcher) record(code string) {
	w.version++
	w.last = code
}

func (w *Watcher) snapshot() engine.Snapshot {
	return engine.Snapshot{
		Snippet: engine.Snippet{
			ID:        fmt.Sprintf("%s@v%d", filepath.Base(w.path), w.version),
			Code:      w.last,
			Timestamp: time.Now(),
		},
		Version: w.version,
	}
}
