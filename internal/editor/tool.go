package editor

// Kit is the family of tools an editor offers.
type Kit int

const (
	KitAnnotation Kit = iota
	KitMeasurement
)

func (k Kit) String() string {
	if k == KitMeasurement {
		return "measurement"
	}
	return "annotation"
}

// Tool is the active pointer tool.
type Tool int

const (
	ToolNone Tool = iota
	ToolDraw
	ToolText
	ToolNote
	ToolEraser
	ToolDistance
	ToolAngle
	ToolArea
	ToolMove
)

func (t Tool) String() string {
	switch t {
	case ToolDraw:
		return "draw"
	case ToolText:
		return "text"
	case ToolNote:
		return "note"
	case ToolEraser:
		return "eraser"
	case ToolDistance:
		return "distance"
	case ToolAngle:
		return "angle"
	case ToolArea:
		return "area"
	case ToolMove:
		return "move"
	}
	return "none"
}

// Kit returns the kit a tool belongs to. ToolNone belongs to both.
func (t Tool) Kit() Kit {
	switch t {
	case ToolDistance, ToolAngle, ToolArea, ToolMove:
		return KitMeasurement
	}
	return KitAnnotation
}

// Tools lists the tools of a kit in toolbar order.
func (k Kit) Tools() []Tool {
	if k == KitMeasurement {
		return []Tool{ToolDistance, ToolAngle, ToolArea, ToolMove}
	}
	return []Tool{ToolDraw, ToolText, ToolNote, ToolEraser}
}

// ParseTool maps a tool name back to its Tool.
func ParseTool(name string) (Tool, bool) {
	for t := ToolNone; t <= ToolMove; t++ {
		if t.String() == name {
			return t, true
		}
	}
	return ToolNone, false
}

// Phase is the interaction state of an editor.
type Phase int

const (
	// PhaseIdle: no tool selected.
	PhaseIdle Phase = iota
	// PhaseArmed: a tool is selected and nothing is in progress.
	PhaseArmed
	// PhaseCollecting: a stroke, point sequence or text anchor is pending.
	PhaseCollecting
	// PhaseDragging: a measurement point follows the pointer.
	PhaseDragging
)

func (p Phase) String() string {
	switch p {
	case PhaseArmed:
		return "armed"
	case PhaseCollecting:
		return "collecting"
	case PhaseDragging:
		return "dragging"
	}
	return "idle"
}
