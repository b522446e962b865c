package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/philipparndt/fiducials/internal/mrml"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List point-sets and their points",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()
		return printScene(os.Stdout, s.scene)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func printScene(out io.Writer, scene *mrml.Scene) error {
	nodes := scene.FiducialNodes()
	if len(nodes) == 0 {
		_, err := fmt.Fprintln(out, "No point-sets")
		return err
	}

	active := scene.Selection().ActivePlaceNodeID()
	interaction := scene.Interaction()
	fmt.Fprintf(out, "Interaction: %s", interaction.Mode())
	if interaction.PlaceModePersistent() {
		fmt.Fprint(out, " (persistent)")
	}
	fmt.Fprintln(out)

	for _, node := range nodes {
		marker := ""
		if node.ID() == active {
			marker = " *"
		}
		fmt.Fprintf(out, "\n%s (%s)%s mode=%s locked=%t display=%s\n",
			node.Name(), node.ID(), marker, node.Mode(), node.Locked(), displayName(node))

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  #\tLabel\tPosition\tDirection\tFlags")
		for i := range node.NumberOfPoints() {
			p, _ := node.Point(i)
			world, _ := node.WorldPosition(i)
			q, _ := node.WorldOrientation(i)
			fmt.Fprintf(w, "  %d\t%s\t%s\t%s\t%s\n", i, p.Label, formatVector(world),
				formatVector(q.ToMatrix3().Column(2)), pointFlags(p))
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func displayName(node *mrml.FiducialNode) string {
	d := node.DisplayNode()
	if d == nil {
		return "none"
	}
	style := d.Style()
	if !style.Visibility {
		return fmt.Sprintf("%s hidden", style.Glyph)
	}
	return style.Glyph.String()
}

func pointFlags(p mrml.Point) string {
	flags := ""
	if !p.Visible {
		flags += "H"
	}
	if p.Selected {
		flags += "S"
	}
	if p.Locked {
		flags += "L"
	}
	if flags == "" {
		return "-"
	}
	return flags
}
