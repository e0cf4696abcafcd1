package app

import (
	"encoding/json"
	"fmt"
	"io"

	"xray-overlay/internal/editor"
	"xray-overlay/pkg/geometry"
)

// Step is one recorded input event. Exactly one field is set.
type Step struct {
	Tool  string            `json:"tool,omitempty"`
	Down  *geometry.Point2D `json:"down,omitempty"`
	Move  *geometry.Point2D `json:"move,omitempty"`
	Up    *geometry.Point2D `json:"up,omitempty"`
	Leave bool              `json:"leave,omitempty"`
	Text  *string           `json:"text,omitempty"`
	Color string            `json:"color,omitempty"`
	Clear string            `json:"clear,omitempty"`
}

// ReadScript decodes a JSON array of steps.
func ReadScript(r io.Reader) ([]Step, error) {
	var steps []Step
	if err := json.NewDecoder(r).Decode(&steps); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	return steps, nil
}

// Replay feeds steps to the session editors. Pointer steps go to the editor
// of the most recently selected tool, the annotation editor at first.
func (s *State) Replay(steps []Step) error {
	ed := s.Annotations
	for i, st := range steps {
		switch {
		case st.Tool != "":
			t, ok := editor.ParseTool(st.Tool)
			if !ok {
				return fmt.Errorf("step %d: unknown tool %q", i, st.Tool)
			}
			if t != editor.ToolNone {
				ed = s.Editor(t.Kit())
			}
			if err := ed.SelectTool(t); err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
		case st.Down != nil:
			ed.PointerDown(*st.Down)
		case st.Move != nil:
			ed.PointerMove(*st.Move)
		case st.Up != nil:
			ed.PointerUp(*st.Up)
		case st.Leave:
			ed.PointerLeave()
		case st.Text != nil:
			if _, ok := ed.PendingText(); !ok {
				return fmt.Errorf("step %d: no text anchor pending", i)
			}
			ed.SubmitText(*st.Text)
		case st.Color != "":
			cfg := s.Config()
			cfg.Color = st.Color
			if err := s.ApplyConfig(cfg); err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
		case st.Clear != "":
			switch st.Clear {
			case editor.KitAnnotation.String():
				s.Annotations.Clear()
			case editor.KitMeasurement.String():
				s.Measurements.Clear()
			default:
				return fmt.Errorf("step %d: unknown layer %q", i, st.Clear)
			}
		default:
			return fmt.Errorf("step %d: empty step", i)
		}
	}
	return nil
}
