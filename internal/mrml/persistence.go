package mrml

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/philipparndt/fiducials/pkg/geometry"
	"gopkg.in/yaml.v3"
)

const sceneFormatVersion = 1

type sceneDocument struct {
	Version     int            `yaml:"version"`
	Interaction interactionDoc `yaml:"interaction"`
	ActiveNode  NodeID         `yaml:"active_place_node,omitempty"`
	Displays    []displayDoc   `yaml:"display_nodes,omitempty"`
	Fiducials   []fiducialDoc  `yaml:"fiducials,omitempty"`
}

type interactionDoc struct {
	Mode       string `yaml:"mode"`
	Persistent bool   `yaml:"persistent"`
}

type displayDoc struct {
	ID    NodeID `yaml:"id"`
	Style `yaml:",inline"`
}

type transformDoc struct {
	Rotation    [4]float64 `yaml:"rotation,flow"`
	Translation [3]float64 `yaml:"translation,flow"`
}

type fiducialDoc struct {
	ID           NodeID        `yaml:"id"`
	Name         string        `yaml:"name"`
	Display      NodeID        `yaml:"display,omitempty"`
	Locked       bool          `yaml:"locked,omitempty"`
	Mode         string        `yaml:"mode"`
	Transform    *transformDoc `yaml:"transform,omitempty"`
	LabelCounter int           `yaml:"label_counter"`
	Points       []pointDoc    `yaml:"points"`
}

type pointDoc struct {
	ID          string     `yaml:"id"`
	Label       string     `yaml:"label"`
	Position    [3]float64 `yaml:"position,flow"`
	Orientation [4]float64 `yaml:"orientation,flow"`
	Visible     bool       `yaml:"visible"`
	Selected    bool       `yaml:"selected"`
	Locked      bool       `yaml:"locked"`
	Associated  string     `yaml:"associated,omitempty"`
}

// UnmarshalYAML fills omitted style fields from DefaultStyle
func (d *displayDoc) UnmarshalYAML(value *yaml.Node) error {
	type plain displayDoc
	p := plain{Style: DefaultStyle()}
	if err := value.Decode(&p); err != nil {
		return err
	}
	*d = displayDoc(p)
	return nil
}

// UnmarshalYAML makes omitted points visible and identity-oriented
func (p *pointDoc) UnmarshalYAML(value *yaml.Node) error {
	type plain pointDoc
	v := plain{Visible: true, Orientation: geometry.IdentityQuaternion().Array()}
	if err := value.Decode(&v); err != nil {
		return err
	}
	*p = pointDoc(v)
	return nil
}

func (s *Scene) document() sceneDocument {
	doc := sceneDocument{
		Version: sceneFormatVersion,
		Interaction: interactionDoc{
			Mode:       s.interaction.mode.String(),
			Persistent: s.interaction.persistent,
		},
		ActiveNode: s.selection.activePlaceNodeID,
	}
	for _, d := range s.DisplayNodes() {
		doc.Displays = append(doc.Displays, displayDoc{ID: d.id, Style: d.style})
	}
	for _, n := range s.FiducialNodes() {
		fd := fiducialDoc{
			ID:           n.id,
			Name:         n.name,
			Display:      n.displayNodeID,
			Locked:       n.locked,
			Mode:         n.mode.String(),
			LabelCounter: n.labelCounter,
			Points:       make([]pointDoc, 0, len(n.points)),
		}
		if n.transform != IdentityTransform() {
			fd.Transform = &transformDoc{
				Rotation:    n.transform.Rotation.Array(),
				Translation: n.transform.Translation.Array(),
			}
		}
		for _, p := range n.points {
			fd.Points = append(fd.Points, pointDoc{
				ID:          p.ID,
				Label:       p.Label,
				Position:    p.Position.Array(),
				Orientation: p.Orientation.Array(),
				Visible:     p.Visible,
				Selected:    p.Selected,
				Locked:      p.Locked,
				Associated:  p.AssociatedNodeID,
			})
		}
		doc.Fiducials = append(doc.Fiducials, fd)
	}
	return doc
}

func decodeDocument(doc sceneDocument) ([]*DisplayNode, []*FiducialNode, error) {
	if doc.Version != sceneFormatVersion {
		return nil, nil, fmt.Errorf("unsupported scene version %d", doc.Version)
	}
	seen := make(map[NodeID]bool)
	var displays []*DisplayNode
	for _, dd := range doc.Displays {
		if dd.ID == "" || seen[dd.ID] {
			return nil, nil, fmt.Errorf("display node: missing or duplicate id %q", dd.ID)
		}
		seen[dd.ID] = true
		if err := dd.Style.Validate(); err != nil {
			return nil, nil, fmt.Errorf("display node %s: %w", dd.ID, err)
		}
		displays = append(displays, &DisplayNode{id: dd.ID, style: dd.Style})
	}
	var fiducials []*FiducialNode
	for _, fd := range doc.Fiducials {
		if fd.ID == "" || seen[fd.ID] {
			return nil, nil, fmt.Errorf("fiducial node: missing or duplicate id %q", fd.ID)
		}
		seen[fd.ID] = true
		mode, err := ParseFiducialMode(fd.Mode)
		if err != nil {
			return nil, nil, fmt.Errorf("fiducial node %s: %w", fd.ID, err)
		}
		n := &FiducialNode{
			id:            fd.ID,
			name:          fd.Name,
			locked:        fd.Locked,
			mode:          mode,
			displayNodeID: fd.Display,
			transform:     IdentityTransform(),
			labelCounter:  fd.LabelCounter,
		}
		if fd.Transform != nil {
			n.transform = Transform{
				Rotation:    geometry.QuaternionFromArray(fd.Transform.Rotation).Normalize(),
				Translation: geometry.Vector3FromArray(fd.Transform.Translation),
			}
		}
		for _, pd := range fd.Points {
			n.points = append(n.points, Point{
				ID:               pd.ID,
				Label:            pd.Label,
				Position:         geometry.Vector3FromArray(pd.Position),
				Orientation:      geometry.QuaternionFromArray(pd.Orientation).Normalize(),
				Visible:          pd.Visible,
				Selected:         pd.Selected,
				Locked:           pd.Locked,
				AssociatedNodeID: pd.Associated,
			})
		}
		if n.labelCounter < len(n.points) {
			n.labelCounter = len(n.points)
		}
		fiducials = append(fiducials, n)
	}
	return displays, fiducials, nil
}

// replace swaps the scene content for doc, emitting the removal and
// addition events observers need to rebuild their state.
func (s *Scene) replace(doc sceneDocument) error {
	mode, err := ParseInteractionMode(doc.Interaction.Mode)
	if err != nil {
		return err
	}
	displays, fiducials, err := decodeDocument(doc)
	if err != nil {
		return err
	}

	s.Clear()
	for _, d := range displays {
		if _, err := s.AddDisplayNode(d); err != nil {
			return err
		}
	}
	for _, n := range fiducials {
		if _, err := s.AddFiducialNode(n); err != nil {
			return err
		}
	}
	s.interaction.SetPlaceModePersistent(doc.Interaction.Persistent)
	s.interaction.SetMode(mode)
	if doc.ActiveNode != "" && s.FiducialNode(doc.ActiveNode) != nil {
		s.selection.SetActivePlaceNodeID(doc.ActiveNode)
	}
	return nil
}

// Save writes the scene as YAML
func (s *Scene) Save(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s.document()); err != nil {
		return fmt.Errorf("encoding scene: %w", err)
	}
	return enc.Close()
}

// Load replaces the scene content with the YAML read from r
func (s *Scene) Load(r io.Reader) error {
	var doc sceneDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("decoding scene: %w", err)
	}
	return s.replace(doc)
}

// LoadFile loads a scene file
func (s *Scene) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening scene: %w", err)
	}
	defer f.Close()
	if err := s.Load(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// SaveFile writes the scene to path through a temporary file in the same directory
func (s *Scene) SaveFile(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".scene-*.yaml")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := s.Save(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
