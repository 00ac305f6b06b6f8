package planner

import (
	"context"
	"log/slog"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads template overrides whenever a .tmpl file in dir changes,
// until ctx is cancelled. Reload errors are logged and the previous
// templates stay in effect.
func Watch(ctx context.Context, templates *Templates, dir string, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("template watcher: started", slog.String("dir", dir))

	for {
		select {
		case <-ctx.Done():
			logger.Info("template watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, ".tmpl") {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if err := templates.Reload(dir); err != nil {
				logger.Warn("template watcher: reload failed",
					slog.String("file", ev.Name),
					slog.String("error", err.Error()))
				continue
			}
			logger.Info("template watcher: reloaded", slog.String("file", ev.Name))

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("template watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
