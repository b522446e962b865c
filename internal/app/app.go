// Package app is the interactive fiducial editor window
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/fiducials/internal/config"
	"github.com/philipparndt/fiducials/internal/markups"
	"github.com/philipparndt/fiducials/internal/mrml"
	"github.com/philipparndt/fiducials/pkg/geometry"
	"github.com/philipparndt/fiducials/pkg/viewer"
)

// Options configures Run
type Options struct {
	ScenePath string
	Config    config.Config
	Logger    *slog.Logger
}

type App struct {
	Camera      CameraState
	Document    DocumentState
	Interaction InteractionState
	FileWatch   FileWatchState
	UI          UIState

	cfg config.Config
	log *slog.Logger
}

// Run opens the editor window on a scene file and blocks until it closes.
// A missing scene file starts an empty scene saved to that path.
func Run(ctx context.Context, opts Options) error {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	cfg := opts.Config

	scene := mrml.NewScene(mrml.WithLogger(log), mrml.WithUndoCapacity(cfg.Undo.Capacity))
	if err := scene.LoadFile(opts.ScenePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading scene: %w", err)
	}
	scene.Interaction().SetPlaceModePersistent(cfg.Placement.Persistent)

	width, height := cfg.View.Width, cfg.View.Height
	camera := viewer.NewCamera(geometry.Vector3{}, cfg.View.Size, float64(width), float64(height))

	app := &App{
		Camera: CameraState{
			view:          camera,
			defaultDist:   camera.Distance,
			defaultAngleX: 0.3,
			defaultAngleY: 0.3,
		},
		Document:    DocumentState{scene: scene, path: opts.ScenePath},
		Interaction: InteractionState{hovered: -1},
		cfg:         cfg,
		log:         log,
	}
	app.Document.manager = markups.New(scene, camera,
		markups.WithLogger(log),
		markups.WithDefaultStyle(cfg.Display),
		markups.WithNodeName(cfg.Placement.NodeName),
	)
	defer app.Document.manager.Close()
	app.resetCameraView()

	if err := app.setupFileWatcher(ctx); err != nil {
		log.Warn("auto-reload unavailable", "error", err)
	} else {
		defer app.FileWatch.fileWatcher.Close()
	}

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(width), int32(height), "Fiducials")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)
	// escape cancels a drag instead of closing
	rl.SetExitKey(rl.KeyNull)

	app.Camera.camera = rl.Camera3D{
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       45.0,
		Projection: rl.CameraPerspective,
	}

	for !rl.WindowShouldClose() {
		if ctx.Err() != nil {
			break
		}
		ctrlPressed := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl)
		if ctrlPressed && rl.IsKeyPressed(rl.KeyQ) {
			break
		}
		if app.FileWatch.needsReload.CompareAndSwap(true, false) {
			app.reloadScene()
		}

		app.updateCamera()
		app.handleInput()
		app.updateCamera()

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(15, 18, 25, 255))

		rl.BeginMode3D(app.Camera.camera)
		app.drawGrid()
		handles := app.Document.manager.VisibleHandles()
		app.drawHandles(handles)
		rl.EndMode3D()

		app.drawLabels(handles)
		app.drawUI()
		rl.EndDrawing()
	}

	if app.Document.dirty {
		app.log.Info("unsaved changes discarded", "path", app.Document.path)
	}
	return nil
}

// gridSpacing picks a power of ten close to a tenth of the view size
func gridSpacing(size float64) float32 {
	return float32(math.Pow(10, math.Round(math.Log10(size/10))))
}

func (app *App) setStatus(format string, args ...any) {
	app.UI.status = fmt.Sprintf(format, args...)
	app.UI.statusTime = time.Now()
	app.log.Info(app.UI.status)
}
