package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	domainconfig "brainstorm/domain/config"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const debounceDuration = 100 * time.Millisecond

// Watcher reloads the engine config overlay whenever its file changes.
// Invalid revisions are logged and the last good config stays in effect.
type Watcher struct {
	path     string
	base     *domainconfig.EngineConfig
	watcher  *fsnotify.Watcher
	logger   *zap.Logger
	stopCh   chan struct{}
	stopOnce sync.Once

	mu       sync.RWMutex
	current  *domainconfig.EngineConfig
	onChange []func(*domainconfig.EngineConfig)
}

// NewWatcher loads the overlay at path onto base and prepares to watch it
func NewWatcher(path string, base *domainconfig.EngineConfig, logger *zap.Logger) (*Watcher, error) {
	initial, err := LoadEngineFile(path, base)
	if err != nil {
		return nil, fmt.Errorf("failed to load initial engine config: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory so editors that save by rename are noticed
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	return &Watcher{
		path:    path,
		base:    base,
		watcher: fw,
		logger:  logger,
		stopCh:  make(chan struct{}),
		current: initial,
	}, nil
}

// Current returns the config in effect
func (w *Watcher) Current() *domainconfig.EngineConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// OnChange registers a callback invoked with every successfully reloaded config
func (w *Watcher) OnChange(fn func(*domainconfig.EngineConfig)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, fn)
}

// Start begins watching for changes
func (w *Watcher) Start() {
	go w.watchLoop()
	w.logger.Info("Engine config watcher started", zap.String("path", w.path))
}

// Stop stops watching for changes
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.watcher.Close()
	})
}

func (w *Watcher) watchLoop() {
	var debounce *time.Timer

	for {
		select {
		case <-w.stopCh:
			if debounce != nil {
				debounce.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDuration, w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("File watcher error", zap.Error(err))
		}
	}
}

// reload re-reads the file and notifies listeners
func (w *Watcher) reload() {
	next, err := LoadEngineFile(w.path, w.base)
	if err != nil {
		w.logger.Error("Failed to reload engine config, keeping current", zap.Error(err))
		return
	}

	w.mu.Lock()
	w.current = next
	listeners := append([]func(*domainconfig.EngineConfig){}, w.onChange...)
	w.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
	w.logger.Info("Engine config reloaded", zap.String("path", w.path))
}
