package main

import (
	"errors"
	"fmt"

	"github.com/philipparndt/fiducials/internal/mrml"
	"github.com/spf13/cobra"
)

var errHandleInactive = errors.New("handle ignores input (point hidden, locked or in another mode)")

var moveCmd = &cobra.Command{
	Use:   "move <node> <index> <x> <y> <z>",
	Short: "Drag a point to new world coordinates",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := parseVector(args[2:])
		if err != nil {
			return err
		}
		return editPoint(args[0], args[1], func(s *session, node *mrml.FiducialNode, i int) error {
			ws, err := s.widgets(node)
			if err != nil {
				return err
			}
			h := ws.Position(i)
			if h == nil || !h.Press() {
				return errHandleInactive
			}
			h.DragTo(target)
			h.Release()
			fmt.Printf("Moved %s-%d to %s\n", node.Name(), i, formatVector(target))
			return nil
		})
	},
}

var orientCmd = &cobra.Command{
	Use:   "orient <node> <index> <dx> <dy> <dz>",
	Short: "Point the orientation of a point along a direction",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := parseVector(args[2:])
		if err != nil {
			return err
		}
		if dir.Length() == 0 {
			return errors.New("direction must not be zero")
		}
		return editPoint(args[0], args[1], func(s *session, node *mrml.FiducialNode, i int) error {
			mode := node.Mode()
			node.SetMode(mrml.OrientationMode)
			defer node.SetMode(mode)

			ws, err := s.widgets(node)
			if err != nil {
				return err
			}
			h := ws.Orientation(i)
			if h == nil || !h.Press() {
				return errHandleInactive
			}
			h.DragPointerTo(h.Center().Add(dir.Normalize()))
			h.Release()
			fmt.Printf("Oriented %s-%d along %s\n", node.Name(), i, formatVector(dir.Normalize()))
			return nil
		})
	},
}

var removeCmd = &cobra.Command{
	Use:     "remove <node> <index>",
	Aliases: []string{"rm"},
	Short:   "Remove a point",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editPoint(args[0], args[1], func(s *session, node *mrml.FiducialNode, i int) error {
			if err := s.scene.SaveStateForUndo(node); err != nil {
				return err
			}
			if err := node.RemovePoint(i); err != nil {
				return err
			}
			fmt.Printf("Removed point %d from %s\n", i, node.Name())
			return nil
		})
	},
}

var unlock bool

var lockCmd = &cobra.Command{
	Use:   "lock <node> [index]",
	Short: "Lock a point-set, or a single point",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		node, err := s.node(args[0])
		if err != nil {
			return err
		}
		if len(args) == 1 {
			node.SetLocked(!unlock)
		} else {
			i, err := parseIndex(node, args[1])
			if err != nil {
				return err
			}
			if err := node.SetPointLocked(i, !unlock); err != nil {
				return err
			}
		}
		return s.save()
	},
}

var modeCmd = &cobra.Command{
	Use:       "mode <node> <position|orientation>",
	Short:     "Switch the handles a point-set shows",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"position", "orientation"},
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := mrml.ParseFiducialMode(args[1])
		if err != nil {
			return err
		}
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		node, err := s.node(args[0])
		if err != nil {
			return err
		}
		node.SetMode(mode)
		return s.save()
	},
}

var labelCmd = &cobra.Command{
	Use:   "label <node> <index> <text>",
	Short: "Rename a point",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editPoint(args[0], args[1], func(s *session, node *mrml.FiducialNode, i int) error {
			return node.SetLabel(i, args[2])
		})
	},
}

func init() {
	lockCmd.Flags().BoolVar(&unlock, "off", false, "unlock instead")
	rootCmd.AddCommand(moveCmd, orientCmd, removeCmd, lockCmd, modeCmd, labelCmd)
}

// editPoint opens a session, resolves the point and saves the scene after fn
func editPoint(nodeRef, indexArg string, fn func(s *session, node *mrml.FiducialNode, i int) error) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	node, err := s.node(nodeRef)
	if err != nil {
		return err
	}
	i, err := parseIndex(node, indexArg)
	if err != nil {
		return err
	}
	if err := fn(s, node, i); err != nil {
		return err
	}
	return s.save()
}
