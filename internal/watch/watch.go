// Package watch provides a debounced single-file watcher for the sync
// tool. Editors commonly replace files by writing a temp file and
// renaming it over the target, so the watcher monitors the parent
// directory and filters for the target path.
package watch

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrClosed is returned when operating on a closed watcher.
var ErrClosed = errors.New("watcher is closed")

// Event signals that the watched file changed.
type Event struct {
	Path string
}

// Watcher watches one file and coalesces bursts of change events into a
// single notification per debounce window.
type Watcher struct {
	path     string
	debounce time.Duration

	fsw    *fsnotify.Watcher
	events chan Event
	errs   chan error

	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// New creates a watcher for path with the given debounce window.
func New(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		debounce: debounce,
		fsw:      fsw,
		events:   make(chan Event, 1),
		errs:     make(chan error, 1),
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Events delivers change notifications. The channel closes when the
// watcher closes.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors delivers watcher errors.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops the watcher and closes the event channel.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	defer close(w.events)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		case <-fire:
			timer = nil
			fire = nil
			select {
			case w.events <- Event{Path: w.path}:
			default:
				// A pending undelivered event already covers this change.
			}
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Name != w.path {
		return false
	}
	return ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename)
}
