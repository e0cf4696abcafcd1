package shape

import (
	"image/color"

	"xray-overlay/pkg/geometry"
)

// Draft is the uncommitted, in-progress shape of an editor: the stroke being
// drawn, the measurement points collected so far, or a pending text anchor.
type Draft struct {
	Active bool
	Kind   Kind
	Points []geometry.Point2D
	// Cursor is the last hover position, used for rubber-band previews.
	Cursor    geometry.Point2D
	HasCursor bool
	Color     color.RGBA
}
