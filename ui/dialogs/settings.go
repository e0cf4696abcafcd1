// Package dialogs provides application dialogs.
package dialogs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"xray-overlay/internal/config"
	"xray-overlay/pkg/colorutil"
)

// SettingsDialog provides a property sheet for the calibration and
// pointer tolerances.
type SettingsDialog struct {
	cfg    config.Config
	window fyne.Window

	// Calibration
	mmPerPixelEntry *widget.Entry
	imageDPICheck   *widget.Check

	// Tolerances
	closeRadiusEntry  *widget.Entry
	maxPointsEntry    *widget.Entry
	eraserPathEntry   *widget.Entry
	eraserAnchorEntry *widget.Entry
	dragRadiusEntry   *widget.Entry

	// Annotation
	colorEntry  *widget.Entry
	colorSwatch *fynecanvas.Rectangle

	exportDirEntry *widget.Entry

	onSave func(config.Config)
}

// NewSettingsDialog creates a settings dialog seeded from cfg.
func NewSettingsDialog(cfg config.Config, window fyne.Window, onSave func(config.Config)) *SettingsDialog {
	d := &SettingsDialog{
		cfg:    cfg,
		window: window,
		onSave: onSave,
	}
	d.createEntries()
	return d
}

// Show displays the dialog.
func (d *SettingsDialog) Show() {
	dlg := dialog.NewCustomConfirm(
		"Preferences",
		"Save",
		"Cancel",
		d.createContent(),
		func(save bool) {
			if !save {
				return
			}
			cfg, err := d.Result()
			if err != nil {
				dialog.ShowError(err, d.window)
				return
			}
			if d.onSave != nil {
				d.onSave(cfg)
			}
		},
		d.window,
	)
	dlg.Resize(fyne.NewSize(460, 560))
	dlg.Show()
}

func (d *SettingsDialog) createEntries() {
	d.mmPerPixelEntry = widget.NewEntry()
	d.mmPerPixelEntry.SetText(strconv.FormatFloat(d.cfg.MMPerPixel, 'f', -1, 64))
	d.imageDPICheck = widget.NewCheck("Use TIFF resolution when present", nil)
	d.imageDPICheck.SetChecked(d.cfg.UseImageDPI)

	d.closeRadiusEntry = widget.NewEntry()
	d.closeRadiusEntry.SetText(fmt.Sprintf("%g", d.cfg.AreaCloseRadius))
	d.maxPointsEntry = widget.NewEntry()
	d.maxPointsEntry.SetText(strconv.Itoa(d.cfg.AreaMaxPoints))
	d.eraserPathEntry = widget.NewEntry()
	d.eraserPathEntry.SetText(fmt.Sprintf("%g", d.cfg.EraserPathRadius))
	d.eraserAnchorEntry = widget.NewEntry()
	d.eraserAnchorEntry.SetText(fmt.Sprintf("%g", d.cfg.EraserAnchorRadius))
	d.dragRadiusEntry = widget.NewEntry()
	d.dragRadiusEntry.SetText(fmt.Sprintf("%g", d.cfg.DragRadius))

	d.colorSwatch = fynecanvas.NewRectangle(colorutil.Red)
	d.colorSwatch.SetMinSize(fyne.NewSize(40, 24))
	d.colorEntry = widget.NewEntry()
	d.colorEntry.OnChanged = func(string) { d.updateColorSwatch() }
	d.colorEntry.SetText(d.cfg.Color)

	d.exportDirEntry = widget.NewEntry()
	d.exportDirEntry.SetText(d.cfg.ExportDir)
}

func (d *SettingsDialog) createContent() fyne.CanvasObject {
	calibrationForm := widget.NewForm(
		widget.NewFormItem("mm per pixel", d.mmPerPixelEntry),
		widget.NewFormItem("", d.imageDPICheck),
	)

	toleranceForm := widget.NewForm(
		widget.NewFormItem("Area close (px)", d.closeRadiusEntry),
		widget.NewFormItem("Area max points", d.maxPointsEntry),
		widget.NewFormItem("Eraser stroke (px)", d.eraserPathEntry),
		widget.NewFormItem("Eraser label (px)", d.eraserAnchorEntry),
		widget.NewFormItem("Drag (px)", d.dragRadiusEntry),
	)

	annotationForm := widget.NewForm(
		widget.NewFormItem("Color", container.NewBorder(nil, nil, nil, d.colorSwatch, d.colorEntry)),
	)

	exportForm := widget.NewForm(
		widget.NewFormItem("Directory", d.exportDirEntry),
	)

	return container.NewVBox(
		widget.NewCard("Calibration", "", calibrationForm),
		widget.NewCard("Pointer Tolerances", "", toleranceForm),
		widget.NewCard("Annotation", "", annotationForm),
		widget.NewCard("Export", "", exportForm),
	)
}

// Result parses the entries into a validated configuration.
func (d *SettingsDialog) Result() (config.Config, error) {
	cfg := d.cfg
	var err error
	parse := func(label string, e *widget.Entry, dst *float64) {
		if err != nil {
			return
		}
		v, perr := strconv.ParseFloat(strings.TrimSpace(e.Text), 64)
		if perr != nil {
			err = fmt.Errorf("%s: %q is not a number", label, e.Text)
			return
		}
		*dst = v
	}
	parse("mm per pixel", d.mmPerPixelEntry, &cfg.MMPerPixel)
	parse("area close radius", d.closeRadiusEntry, &cfg.AreaCloseRadius)
	parse("eraser stroke radius", d.eraserPathEntry, &cfg.EraserPathRadius)
	parse("eraser label radius", d.eraserAnchorEntry, &cfg.EraserAnchorRadius)
	parse("drag radius", d.dragRadiusEntry, &cfg.DragRadius)
	if err != nil {
		return d.cfg, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(d.maxPointsEntry.Text))
	if err != nil {
		return d.cfg, fmt.Errorf("area max points: %q is not a whole number", d.maxPointsEntry.Text)
	}
	cfg.AreaMaxPoints = n
	cfg.UseImageDPI = d.imageDPICheck.Checked
	cfg.Color = strings.TrimSpace(d.colorEntry.Text)
	cfg.ExportDir = strings.TrimSpace(d.exportDirEntry.Text)

	if err := cfg.Validate(); err != nil {
		return d.cfg, err
	}
	return cfg, nil
}

// updateColorSwatch previews the color entry, or gray while it does not parse.
func (d *SettingsDialog) updateColorSwatch() {
	c, err := colorutil.ParseHex(d.colorEntry.Text)
	if err != nil {
		d.colorSwatch.FillColor = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	} else {
		d.colorSwatch.FillColor = c
	}
	fynecanvas.Refresh(d.colorSwatch)
}
