package folio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 300 * time.Millisecond

// Watcher calls OnChange after files under its directories stop changing
// for the debounce interval. Changes that arrive while OnChange runs are
// folded into one more call.
type Watcher struct {
	Dirs     []string
	Debounce time.Duration
	OnChange func(ctx context.Context) error
	Logger   *zap.Logger
}

// Run watches until ctx is done. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	logger := w.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer fw.Close()
	for _, dir := range w.Dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}
		if err := addDirsRecursive(fw, dir, logger); err != nil {
			return err
		}
	}
	logger.Info("watching for changes", zap.Strings("dirs", w.Dirs))

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if shouldIgnoreEvent(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					_ = addDirsRecursive(fw, ev.Name, logger)
				}
			}
			logger.Debug("file change detected", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
			timer.Reset(debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		case <-timer.C:
			if err := w.OnChange(ctx); err != nil {
				logger.Warn("rebuild failed", zap.Error(err))
			}
		}
	}
}

func addDirsRecursive(w *fsnotify.Watcher, root string, logger *zap.Logger) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			logger.Warn("watch add failed", zap.String("dir", path), zap.Error(err))
		}
		return nil
	})
}

// shouldIgnoreEvent reports editor and VCS noise that should not trigger a
// rebuild.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	for _, suffix := range []string{"~", ".swp", ".swx", ".tmp"} {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	return strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#")
}

// Watch reindexes the content when files in the content or static
// directories change. It blocks until ctx is done.
func (a *App) Watch(ctx context.Context) error {
	w := &Watcher{
		Dirs:   []string{a.Config.Build.ContentDir, a.Config.Build.StaticDir},
		Logger: a.Logger.Named("watch"),
		OnChange: func(ctx context.Context) error {
			_, err := a.Reindex(ctx, "watch")
			return err
		},
	}
	return w.Run(ctx)
}
