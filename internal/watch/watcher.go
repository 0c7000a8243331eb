package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/verte-zerg/subcrack/internal/textfile"
)

// Field identifies which session input a watched file feeds.
type Field int

const (
	// FieldCalibration is the calibration text.
	FieldCalibration Field = iota
	// FieldCipher is the cipher text.
	FieldCipher
)

func (f Field) String() string {
	switch f {
	case FieldCalibration:
		return "calibration"
	case FieldCipher:
		return "cipher"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// Handler receives reloaded file contents.
type Handler func(field Field, text string)

// ErrorHandler receives non-fatal watch and read errors.
type ErrorHandler func(err error)

type target struct {
	field     Field
	path      string
	debouncer *Debouncer
}

// Watcher follows input files and delivers their contents once each burst of
// changes settles. Parent directories are watched so that editors replacing the
// file by rename are followed too.
type Watcher struct {
	watcher *fsnotify.Watcher
	delay   time.Duration
	targets map[string]*target
	dirs    map[string]struct{}
	onText  Handler
	onError ErrorHandler

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// New creates a Watcher. Register paths with Add, then call Start.
func New(delay time.Duration, onText Handler, onError ErrorHandler) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if onError == nil {
		onError = func(error) {}
	}
	return &Watcher{
		watcher: fw,
		delay:   delay,
		targets: map[string]*target{},
		dirs:    map[string]struct{}{},
		onText:  onText,
		onError: onError,
		done:    make(chan struct{}),
	}, nil
}

// Add starts following path for field.
func (w *Watcher) Add(field Field, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	abs = filepath.Clean(abs)
	if existing, ok := w.targets[abs]; ok {
		return fmt.Errorf("%s is already watched as %s text", path, existing.field)
	}
	dir := filepath.Dir(abs)
	if _, ok := w.dirs[dir]; !ok {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		w.dirs[dir] = struct{}{}
	}
	t := &target{field: field, path: abs}
	t.debouncer = NewDebouncer(w.delay, func(string) {
		w.reload(t)
	})
	w.targets[abs] = t
	return nil
}

// Start runs the event loop until ctx is cancelled or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	go func() {
		defer close(w.done)
		w.loop(ctx)
	}()
}

// Close stops the watcher and cancels pending reloads.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		if w.cancel != nil {
			w.cancel()
		}
		for _, t := range w.targets {
			t.debouncer.Stop()
		}
		if cerr := w.watcher.Close(); cerr != nil {
			err = fmt.Errorf("failed to close file watcher: %w", cerr)
		}
		if w.cancel != nil {
			<-w.done
		}
	})
	return err
}

func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !relevant(event.Op) {
				continue
			}
			if t, ok := w.targets[filepath.Clean(event.Name)]; ok {
				t.debouncer.Trigger(event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.onError(fmt.Errorf("file watcher: %w", err))
		}
	}
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename)
}

func (w *Watcher) reload(t *target) {
	text, err := textfile.Load(t.path)
	if err != nil {
		// A rename-based save may leave the path briefly missing; the Create that
		// follows triggers another reload.
		w.onError(fmt.Errorf("reload %s text: %w", t.field, err))
		return
	}
	w.onText(t.field, text)
}
