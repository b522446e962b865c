package app

import (
	"context"
	"fmt"
	"time"

	"github.com/philipparndt/fiducials/pkg/watcher"
)

// setupFileWatcher reloads the scene when its file is changed by another
// program
func (app *App) setupFileWatcher(ctx context.Context) error {
	fw, err := watcher.NewFileWatcher(app.cfg.View.Debounce, app.log)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	callback := func(changedFile string) {
		app.FileWatch.needsReload.Store(true)
	}
	if err := fw.Watch([]string{app.Document.path}, callback); err != nil {
		fw.Close()
		return fmt.Errorf("failed to watch files: %w", err)
	}

	fw.Start(ctx)
	app.FileWatch.fileWatcher = fw
	app.log.Info("watching scene for changes", "path", app.Document.path)
	return nil
}

// reloadScene replaces the scene with the file content. Reloads caused by
// our own save are skipped.
func (app *App) reloadScene() {
	if time.Since(app.FileWatch.savedAt) < app.cfg.View.Debounce*2 {
		return
	}
	app.cancelDrag()
	if err := app.Document.scene.SaveStateForUndo(nil); err != nil {
		app.log.Error("undo checkpoint", "error", err)
	}
	start := time.Now()
	if err := app.Document.scene.LoadFile(app.Document.path); err != nil {
		app.setStatus("reload failed: %v", err)
		return
	}
	app.Document.dirty = false
	app.setStatus("scene reloaded in %.2fs", time.Since(start).Seconds())
}

func (app *App) save() {
	if err := app.Document.scene.SaveFile(app.Document.path); err != nil {
		app.setStatus("save failed: %v", err)
		return
	}
	app.FileWatch.savedAt = time.Now()
	app.Document.dirty = false
	app.setStatus("saved %s", app.Document.path)
}
