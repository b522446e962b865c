package main

import (
	"fmt"

	"github.com/philipparndt/fiducials/internal/markups"
	"github.com/philipparndt/fiducials/internal/mrml"
	"github.com/spf13/cobra"
)

var (
	placeNode       string
	placeLabel      string
	placeAssociated string
	placePersistent bool
)

var placeCmd = &cobra.Command{
	Use:   "place <x> <y> <z>",
	Short: "Place a fiducial point",
	Long: `Place a point at world coordinates in the active point-set, or in the
point-set given with --node. A new point-set is created when none is active.`,
	Args: cobra.ExactArgs(3),
	RunE: runPlace,
}

func init() {
	placeCmd.Flags().StringVarP(&placeNode, "node", "n", "", "point-set ID or name to place into")
	placeCmd.Flags().StringVarP(&placeLabel, "label", "l", "", "label (default: <name>-<n>)")
	placeCmd.Flags().StringVar(&placeAssociated, "associated", "", "ID of the node the point is placed on")
	placeCmd.Flags().BoolVar(&placePersistent, "persistent", false, "stay in place mode afterwards")
	rootCmd.AddCommand(placeCmd)
}

func runPlace(cmd *cobra.Command, args []string) error {
	world, err := parseVector(args)
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	if placeNode != "" {
		node, err := s.node(placeNode)
		if err != nil {
			return err
		}
		s.scene.Selection().SetActivePlaceNodeID(node.ID())
	}

	interaction := s.scene.Interaction()
	interaction.SetPlaceModePersistent(placePersistent || s.cfg.Placement.Persistent)
	interaction.SetMode(mrml.Place)

	s.cursor.point = world
	var placed markups.Placement
	if placeAssociated == "" {
		placed, err = s.manager.OnKeyPress(markups.PlaceKey, 0, 0)
	} else {
		placed, err = s.manager.OnClick(0, 0, placeAssociated)
	}
	if err != nil {
		return err
	}

	node := s.scene.FiducialNode(placed.Node)
	if placeLabel != "" {
		if err := node.SetLabel(placed.Index, placeLabel); err != nil {
			return err
		}
	}
	if err := s.save(); err != nil {
		return err
	}

	p, _ := node.Point(placed.Index)
	fmt.Printf("Placed %s in %s (%s) at %s\n", p.Label, node.Name(), node.ID(), formatVector(placed.World))
	return nil
}
