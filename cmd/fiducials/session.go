package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/philipparndt/fiducials/internal/config"
	"github.com/philipparndt/fiducials/internal/markups"
	"github.com/philipparndt/fiducials/internal/mrml"
	"github.com/philipparndt/fiducials/pkg/geometry"
)

// cursor is the coordinate adapter of headless edits: every display
// position maps to the point given on the command line
type cursor struct {
	point geometry.Vector3
}

func (c *cursor) DisplayToWorld(x, y float64) geometry.Vector3 { return c.point }

func (c *cursor) WorldToDisplay(p geometry.Vector3) (float64, float64) { return p.X, p.Y }

// session is a loaded scene with its handles
type session struct {
	cfg     config.Config
	log     *slog.Logger
	scene   *mrml.Scene
	manager *markups.Manager
	cursor  *cursor
}

func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		found, err := config.Find(".")
		if err != nil {
			return config.Config{}, err
		}
		path = found
	}
	return config.Load(path)
}

func newLogger(cfg config.Config) *slog.Logger {
	level, _ := cfg.Level()
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func openSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := newLogger(cfg)

	scene := mrml.NewScene(mrml.WithLogger(log), mrml.WithUndoCapacity(cfg.Undo.Capacity))
	if err := scene.LoadFile(scenePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	c := &cursor{}
	manager := markups.New(scene, c,
		markups.WithLogger(log),
		markups.WithDefaultStyle(cfg.Display),
		markups.WithNodeName(cfg.Placement.NodeName),
	)
	return &session{cfg: cfg, log: log, scene: scene, manager: manager, cursor: c}, nil
}

func (s *session) close() {
	s.manager.Close()
}

func (s *session) save() error {
	return s.scene.SaveFile(scenePath)
}

// node resolves a node by ID or name. An empty reference selects the
// active point-set.
func (s *session) node(ref string) (*mrml.FiducialNode, error) {
	if ref == "" {
		ref = string(s.scene.Selection().ActivePlaceNodeID())
		if ref == "" {
			return nil, errors.New("no active point-set, pass a node")
		}
	}
	if n := s.scene.FiducialNode(mrml.NodeID(ref)); n != nil {
		return n, nil
	}
	for _, n := range s.scene.FiducialNodes() {
		if n.Name() == ref {
			return n, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", mrml.ErrNodeNotFound, ref)
}

func (s *session) widgets(node *mrml.FiducialNode) (*markups.WidgetSet, error) {
	ws, ok := s.manager.Widgets(node.ID())
	if !ok {
		return nil, fmt.Errorf("%w: %s", markups.ErrNoWidgets, node.ID())
	}
	return ws, nil
}

func parseVector(args []string) (geometry.Vector3, error) {
	if len(args) != 3 {
		return geometry.Vector3{}, fmt.Errorf("expected 3 coordinates, got %d", len(args))
	}
	var v [3]float64
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return geometry.Vector3{}, fmt.Errorf("coordinate %q: %w", a, err)
		}
		v[i] = f
	}
	return geometry.Vector3FromArray(v), nil
}

func parseIndex(node *mrml.FiducialNode, arg string) (int, error) {
	i, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("point index %q: %w", arg, err)
	}
	if i < 0 || i >= node.NumberOfPoints() {
		return 0, fmt.Errorf("%w: %d not in [0, %d)", mrml.ErrIndexOutOfRange, i, node.NumberOfPoints())
	}
	return i, nil
}

func formatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}
