// Package watch regenerates the ontology whenever its input document changes.
package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when Config.Debounce is not positive.
const DefaultDebounce = 500 * time.Millisecond

// Config configures document watching.
type Config struct {
	// Debounce is how long to wait for more changes before regenerating.
	Debounce time.Duration
}

// GetDebounce returns the debounce delay, falling back to DefaultDebounce.
func (c Config) GetDebounce() time.Duration {
	if c.Debounce <= 0 {
		return DefaultDebounce
	}
	return c.Debounce
}

// RegenerateFunc rebuilds the outputs from the watched document.
type RegenerateFunc func(ctx context.Context) error

// Watcher watches a single document. The parent directory is watched so
// editors that save by rename are still observed.
type Watcher struct {
	config  Config
	path    string
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	pendingMu sync.Mutex
	pending   bool

	hashMu sync.RWMutex
	hash   string

	regenerations atomic.Int64
	failures      atomic.Int64
}

// New creates a watcher for the document at path.
func New(config Config, path string, logger *slog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		config:  config,
		path:    abs,
		watcher: fsw,
		logger:  logger,
	}, nil
}

// Path returns the absolute path of the watched document.
func (w *Watcher) Path() string {
	return w.path
}

// Run regenerates once, then again after every debounced content change,
// until ctx is canceled. Regeneration runs serially on the calling
// goroutine; its errors are logged and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context, regenerate RegenerateFunc) error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	w.logger.Info("Watching document",
		"path", w.path,
		"debounce", w.config.GetDebounce())

	w.markPending()
	w.flushPending(ctx, regenerate)

	ticker := time.NewTicker(w.config.GetDebounce())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending(ctx, regenerate)
		}
	}
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// SetHash records the content hash of the last processed version.
func (w *Watcher) SetHash(hash string) {
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	w.hash = hash
}

// Hash returns the content hash of the last processed version.
func (w *Watcher) Hash() string {
	w.hashMu.RLock()
	defer w.hashMu.RUnlock()
	return w.hash
}

// Regenerations returns how many times regenerate was invoked.
func (w *Watcher) Regenerations() int64 {
	return w.regenerations.Load()
}

// Failures returns how many regenerations returned an error.
func (w *Watcher) Failures() int64 {
	return w.failures.Load()
}

// ContentHash computes a SHA256 hash of the content.
func ContentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// handleFSEvent marks the document pending when the event concerns it.
func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}

	w.markPending()
	w.logger.Debug("Document change detected",
		"path", w.path,
		"op", event.Op.String())
}

func (w *Watcher) markPending() {
	w.pendingMu.Lock()
	w.pending = true
	w.pendingMu.Unlock()
}

// flushPending regenerates when a change is pending and the content differs
// from the last processed version.
func (w *Watcher) flushPending(ctx context.Context, regenerate RegenerateFunc) {
	w.pendingMu.Lock()
	if !w.pending {
		w.pendingMu.Unlock()
		return
	}
	w.pending = false
	w.pendingMu.Unlock()

	content, err := os.ReadFile(w.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// Regenerate once it reappears, even with identical content
			w.SetHash("")
			w.logger.Warn("Watched document is missing", "path", w.path)
			return
		}
		w.logger.Warn("Failed to read document for hash check",
			"path", w.path,
			"error", err)
		return
	}

	newHash := ContentHash(content)
	if newHash == w.Hash() {
		w.logger.Debug("Document content unchanged", "path", w.path)
		return
	}

	w.regenerations.Add(1)
	if err := regenerate(ctx); err != nil {
		// Hash stays stale so saving the same content retries
		w.failures.Add(1)
		w.logger.Error("Regeneration failed", "path", w.path, "error", err)
		return
	}
	w.SetHash(newHash)
	w.logger.Debug("Regenerated", "path", w.path)
}
