package server

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DebounceDelay collapses bursts of writes into one reload.
const DebounceDelay = 100 * time.Millisecond

// Watcher reloads the server when a watched log file changes.
type Watcher struct {
	server  *Server
	files   map[string]bool
	watcher *fsnotify.Watcher
	logger  *zap.Logger
	delay   time.Duration
	stopCh  chan struct{}
	once    sync.Once

	mu      sync.Mutex
	timer   *time.Timer
	reloads int
}

// NewWatcher watches the directories holding files. Directories are
// watched rather than files so editors that replace a file on save are
// still seen.
func NewWatcher(s *Server, files []string, logger *zap.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{
		server:  s,
		files:   make(map[string]bool, len(files)),
		watcher: fsWatcher,
		logger:  logger,
		delay:   DebounceDelay,
		stopCh:  make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			abs = f
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsWatcher.Add(dir); err != nil {
			_ = fsWatcher.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
		logger.Debug("watching log directory", zap.String("dir", dir))
	}
	return w, nil
}

// Start runs the event loop until Close.
func (w *Watcher) Start(ctx context.Context) {
	go w.loop(ctx)
}

// Close stops watching.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stopCh)
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		err = w.watcher.Close()
	})
	return err
}

// Reloads counts completed reloads.
func (w *Watcher) Reloads() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads
}

func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !w.files[name] {
				continue
			}
			w.logger.Info("log source changed",
				zap.String("file", event.Name),
				zap.String("operation", event.Op.String()))
			w.schedule(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", zap.Error(err))

		case <-ctx.Done():
			return

		case <-w.stopCh:
			return
		}
	}
}

func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, func() {
		if err := w.server.Reload(ctx); err != nil {
			w.logger.Error("reload failed, keeping previous dataset", zap.Error(err))
		} else {
			w.logger.Info("dataset reloaded")
		}
		w.mu.Lock()
		w.reloads++
		w.mu.Unlock()
	})
}
