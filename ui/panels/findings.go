// Package panels provides UI panels for the application.
package panels

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"xray-overlay/internal/app"
)

// FindingsPanel lists the committed measurements and annotation notes.
type FindingsPanel struct {
	state     *app.State
	container fyne.CanvasObject

	summary      *widget.Label
	measurements *widget.List
	notes        *widget.List

	rows     []string
	noteRows []string
}

// NewFindingsPanel creates the panel and subscribes it to state changes.
func NewFindingsPanel(state *app.State) *FindingsPanel {
	fp := &FindingsPanel{state: state}

	fp.summary = widget.NewLabel("")
	fp.measurements = widget.NewList(
		func() int { return len(fp.rows) },
		func() fyne.CanvasObject { return widget.NewLabel("Distance  000.0 mm") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < len(fp.rows) {
				obj.(*widget.Label).SetText(fp.rows[id])
			}
		},
	)
	fp.notes = widget.NewList(
		func() int { return len(fp.noteRows) },
		func() fyne.CanvasObject {
			l := widget.NewLabel("note")
			l.Truncation = fyne.TextTruncateEllipsis
			return l
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < len(fp.noteRows) {
				obj.(*widget.Label).SetText(fp.noteRows[id])
			}
		},
	)

	split := container.NewVSplit(
		widget.NewCard("Measurements", "", fp.measurements),
		widget.NewCard("Notes", "", fp.notes),
	)
	split.Offset = 0.6
	fp.container = container.NewBorder(fp.summary, nil, nil, nil, split)

	refresh := func(interface{}) { fp.Refresh() }
	state.On(app.EventOverlayChanged, refresh)
	state.On(app.EventConfigChanged, refresh)
	state.On(app.EventImageLoaded, refresh)

	fp.Refresh()
	return fp
}

// Container returns the panel's root object.
func (fp *FindingsPanel) Container() fyne.CanvasObject {
	return fp.container
}

// Rows returns the measurement lines currently shown.
func (fp *FindingsPanel) Rows() []string {
	return fp.rows
}

// Notes returns the annotation lines currently shown.
func (fp *FindingsPanel) Notes() []string {
	return fp.noteRows
}

// Refresh rebuilds the lists from the state.
func (fp *FindingsPanel) Refresh() {
	f := fp.state.Findings()
	fp.rows = f.Rows()
	fp.noteRows = f.Notes()

	fp.summary.SetText(fmt.Sprintf("%.3f mm/px, %d measurements, %d annotations",
		float64(fp.state.Calibration()), len(f.Measurements), len(f.Annotations)))
	fp.measurements.Refresh()
	fp.notes.Refresh()
}
