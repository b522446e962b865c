package app

import (
	"sync/atomic"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/fiducials/internal/markups"
	"github.com/philipparndt/fiducials/internal/mrml"
	"github.com/philipparndt/fiducials/internal/widget"
	"github.com/philipparndt/fiducials/pkg/viewer"
	"github.com/philipparndt/fiducials/pkg/watcher"
)

// CameraState holds the orbit camera and its raylib mirror
type CameraState struct {
	view          *viewer.Camera
	camera        rl.Camera3D
	defaultDist   float64
	defaultAngleX float64
	defaultAngleY float64
}

// DocumentState holds the scene being edited
type DocumentState struct {
	scene   *mrml.Scene
	manager *markups.Manager
	path    string
	dirty   bool
}

// dragPart is the part of a handle grabbed by the mouse
type dragPart int

const (
	partCenter dragPart = iota
	partPointer
)

// InteractionState holds mouse and interaction state
type InteractionState struct {
	dragging     widget.Handle
	dragPart     dragPart
	dragAnchor   markups.VisibleHandle
	hovered      int // index into the current handle list, -1 for none
	mouseDownPos rl.Vector2
	mouseMoved   bool
	isPanning    bool
}

// FileWatchState holds scene file watching state
type FileWatchState struct {
	fileWatcher *watcher.FileWatcher
	needsReload atomic.Bool
	savedAt     time.Time // own writes within the debounce are not reloads
}

// UIState holds the status line
type UIState struct {
	status     string
	statusTime time.Time
	showHelp   bool
}
