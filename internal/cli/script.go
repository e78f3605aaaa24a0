package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/canopy/pkg/canvas"
	"github.com/matzehuels/canopy/pkg/drag"
	"github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/grid"
)

// script is a recorded sequence of user gestures:
//
//	steps:
//	  - toggle: drive
//	  - drag:
//	      node: drive
//	      path: [[200, 150], [200, 190]]
//	      frames: 1
type script struct {
	Steps []step `yaml:"steps"`
}

// step is either a toggle or a drag.
type step struct {
	Toggle string      `yaml:"toggle,omitempty"`
	Drag   *dragGesture `yaml:"drag,omitempty"`
}

// dragGesture replays pointer samples for one node. A frame runs after every
// Frames samples; the last sample is the release.
type dragGesture struct {
	Node   string       `yaml:"node"`
	Path   [][2]float64 `yaml:"path"`
	Frames int          `yaml:"frames"`
}

// Step kinds reported in stepResult.Kind.
const (
	stepToggle = "toggle"
	stepDrag   = "drag"
)

// stepResult reports what one step did.
type stepResult struct {
	Kind     string
	NodeID   string
	Expanded bool
	Frames   int
	Drag     drag.Result
}

func loadScript(path string) (script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return script{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read script %s", path)
	}
	return parseScript(data)
}

func parseScript(data []byte) (script, error) {
	var s script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, errors.Wrap(errors.ErrCodeInvalidScript, err, "parse script")
	}
	for i, st := range s.Steps {
		if err := st.validate(); err != nil {
			return s, errors.Wrap(errors.ErrCodeInvalidScript, err, "step %d", i+1)
		}
	}
	return s, nil
}

func (st step) validate() error {
	switch {
	case st.Toggle != "" && st.Drag != nil:
		return fmt.Errorf("step has both toggle and drag")
	case st.Toggle != "":
		return errors.ValidateNodeID(st.Toggle)
	case st.Drag != nil:
		if err := errors.ValidateNodeID(st.Drag.Node); err != nil {
			return err
		}
		if len(st.Drag.Path) == 0 {
			return fmt.Errorf("drag of %q has an empty path", st.Drag.Node)
		}
		if st.Drag.Frames < 0 {
			return fmt.Errorf("frames must not be negative")
		}
		for _, p := range st.Drag.Path {
			if err := errors.ValidatePoint(p[0], p[1]); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("step needs toggle or drag")
	}
}

// replay runs every step against cv and stops at the first node that is
// not part of the canvas.
func replay(cv *canvas.Canvas, s script) ([]stepResult, error) {
	results := make([]stepResult, 0, len(s.Steps))
	for i, st := range s.Steps {
		if st.Toggle != "" {
			expanded, ok := cv.OnToggle(st.Toggle)
			if !ok {
				return results, errors.New(errors.ErrCodeNotFound, "step %d: node %q not in tree", i+1, st.Toggle)
			}
			results = append(results, stepResult{Kind: stepToggle, NodeID: st.Toggle, Expanded: expanded})
			continue
		}

		g := st.Drag
		every := max(g.Frames, 1)
		frames := 0
		last := len(g.Path) - 1
		for j, p := range g.Path[:last] {
			if !cv.OnDrag(g.Node, grid.Point{X: p[0], Y: p[1]}) {
				return results, errors.New(errors.ErrCodeNotFound, "step %d: node %q is not visible", i+1, g.Node)
			}
			if (j+1)%every == 0 && cv.Tick() {
				frames++
			}
		}
		end := g.Path[last]
		res, ok := cv.OnDragStop(g.Node, grid.Point{X: end[0], Y: end[1]})
		if !ok {
			return results, errors.New(errors.ErrCodeNotFound, "step %d: node %q is not visible", i+1, g.Node)
		}
		results = append(results, stepResult{Kind: stepDrag, NodeID: g.Node, Frames: frames, Drag: res})
	}
	return results, nil
}
