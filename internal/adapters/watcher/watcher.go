package watcher

import (
	"context"
	"iter"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/droidcfg/internal/core/domain"
	"go.trai.ch/droidcfg/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

const eventChannelBuffer = 16

// Watcher implements ports.Watcher using fsnotify. The underlying
// fsnotify handle is only opened by Start.
type Watcher struct {
	mu        sync.Mutex
	fsWatcher *fsnotify.Watcher
	events    chan ports.WatchEvent
	target    string
	errs      func(error)
	stopOnce  sync.Once
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithErrorHandler sets the function called for errors reported by fsnotify.
func WithErrorHandler(fn func(error)) Option {
	return func(w *Watcher) {
		w.errs = fn
	}
}

// NewWatcher creates a new config file watcher.
func NewWatcher(opts ...Option) *Watcher {
	w := &Watcher{
		events: make(chan ports.WatchEvent, eventChannelBuffer),
		errs:   func(error) {},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins watching path. The parent directory is watched so that
// editors replacing the file through a rename are still observed.
func (w *Watcher) Start(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWatchFailed.Error()), "path", path)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsWatcher != nil {
		return zerr.With(domain.ErrWatchFailed, "reason", "already started")
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return zerr.Wrap(err, domain.ErrWatchFailed.Error())
	}
	if err := fsWatcher.Add(filepath.Dir(abs)); err != nil {
		_ = fsWatcher.Close()
		return zerr.With(zerr.Wrap(err, domain.ErrWatchFailed.Error()), "path", path)
	}
	w.target = abs
	w.fsWatcher = fsWatcher

	go w.processEvents(ctx, fsWatcher)
	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.fsWatcher == nil {
			// No event loop owns the channel.
			close(w.events)
			return
		}
		err = w.fsWatcher.Close()
	})
	return err
}

// Events returns an iterator of events concerning the watched file.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

func (w *Watcher) processEvents(ctx context.Context, fsWatcher *fsnotify.Watcher) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.target {
				continue
			}
			watchEvent, ok := convertEvent(event)
			if !ok {
				continue
			}
			select {
			case w.events <- watchEvent:
			case <-ctx.Done():
				return
			}
		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return
			}
			w.errs(err)
		}
	}
}

func convertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	var op ports.WatchOp
	switch {
	case event.Has(fsnotify.Write):
		op = ports.OpWrite
	case event.Has(fsnotify.Create):
		op = ports.OpCreate
	case event.Has(fsnotify.Remove):
		op = ports.OpRemove
	case event.Has(fsnotify.Rename):
		op = ports.OpRename
	default:
		return ports.WatchEvent{}, false
	}
	return ports.WatchEvent{Path: event.Name, Operation: op}, true
}
