// Package watch triggers rebuild callbacks when authored content changes on
// disk. Events are debounced so editor save bursts collapse into one run.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-site/internal/logging"
	"github.com/goliatone/go-site/pkg/interfaces"
)

// DefaultDebounce batches rapid filesystem events.
const DefaultDebounce = 300 * time.Millisecond

var ErrDirRequired = errors.New("watch: directory is required")

// Handler receives the batch of paths that changed since the last trigger.
type Handler func(ctx context.Context, changed []string)

// Config controls the watcher.
type Config struct {
	// Dirs are the root directories to watch. Sub-directories are added
	// automatically.
	Dirs []string
	// Extensions limits triggers to matching files (defaults to .md and .yml).
	Extensions []string
	// Debounce is the quiet period before the handler fires.
	Debounce time.Duration
}

// Watcher drives a Handler from filesystem events.
type Watcher struct {
	cfg     Config
	handler Handler
	logger  interfaces.Logger
}

// Option customizes watcher construction.
type Option func(*Watcher)

// WithLogger attaches a module logger to the watcher.
func WithLogger(logger interfaces.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New builds a watcher that invokes handler on debounced content changes.
func New(cfg Config, handler Handler, opts ...Option) (*Watcher, error) {
	if len(cfg.Dirs) == 0 {
		return nil, ErrDirRequired
	}
	if handler == nil {
		return nil, errors.New("watch: handler is required")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".md", ".yml", ".yaml"}
	}

	w := &Watcher{
		cfg:     cfg,
		handler: handler,
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run blocks, dispatching handler calls until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer notifier.Close()

	for _, dir := range w.cfg.Dirs {
		if err := addRecursive(notifier, dir); err != nil {
			return err
		}
	}

	var (
		pending map[string]struct{}
		timer   *time.Timer
		timerC  <-chan time.Time
	)

	flush := func() {
		if len(pending) == 0 {
			return
		}
		changed := make([]string, 0, len(pending))
		for path := range pending {
			changed = append(changed, path)
		}
		pending = nil
		timerC = nil
		w.logger.Debug("content changed", "files", len(changed))
		w.handler(ctx, changed)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()

		case event, ok := <-notifier.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// New directories join the watch set so nested content is seen.
			if event.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					_ = addRecursive(notifier, event.Name)
					continue
				}
			}
			if !w.matches(event.Name) {
				continue
			}
			if pending == nil {
				pending = map[string]struct{}{}
			}
			pending[event.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.cfg.Debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.cfg.Debounce)
			}
			timerC = timer.C

		case err, ok := <-notifier.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", "error", err)

		case <-timerC:
			flush()
		}
	}
}

func (w *Watcher) matches(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range w.cfg.Extensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

func addRecursive(notifier *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return notifier.Add(path)
		}
		return nil
	})
}
