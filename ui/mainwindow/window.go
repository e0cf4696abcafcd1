// Package mainwindow provides the main application window.
package mainwindow

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"xray-overlay/internal/app"
	"xray-overlay/internal/config"
	"xray-overlay/internal/editor"
	"xray-overlay/internal/image"
	"xray-overlay/internal/version"
	"xray-overlay/pkg/colorutil"
	"xray-overlay/ui/dialogs"
	"xray-overlay/ui/overlay"
	"xray-overlay/ui/panels"
	"xray-overlay/ui/prefs"
)

const (
	prefKeyLastDir   = "lastDirectory"
	prefKeyLastImage = "lastImage"

	appTitle = "X-ray Overlay"
)

// Overlay size used until a radiograph is loaded.
const (
	blankWidth  = 1024
	blankHeight = 768
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app      fyne.App
	state    *app.State
	prefs    *prefs.Prefs
	view     *overlay.View
	findings *panels.FindingsPanel

	statusBar   *widget.Label
	toolButtons map[editor.Tool]*widget.Button
	colorSwatch *fynecanvas.Rectangle
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow(appTitle)

	mw := &MainWindow{
		Window:      win,
		app:         fyneApp,
		state:       state,
		prefs:       p,
		toolButtons: make(map[editor.Tool]*widget.Button),
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.Resize(fyne.NewSize(1280, 860))

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	w, h := mw.state.ImageSize()
	if w == 0 || h == 0 {
		w, h = blankWidth, blankHeight
	}
	mw.view = overlay.New(w, h, mw.state.Style(), mw.state.Annotations, mw.state.Measurements)
	if mw.state.Image != nil {
		mw.view.SetImage(mw.state.Image.Image)
	}

	mw.findings = panels.NewFindingsPanel(mw.state)
	mw.statusBar = widget.NewLabel("Open a radiograph to begin")

	viewArea := container.NewBorder(
		mw.createToolbar(), // top
		nil,                // bottom
		nil,                // left
		nil,                // right
		mw.view,            // center
	)

	split := container.NewHSplit(mw.findings.Container(), viewArea)
	split.SetOffset(0.22)

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		split,                             // center
	)

	mw.SetContent(content)
	mw.Canvas().SetOnTypedKey(mw.onTypedKey)
}

// createToolbar creates one row per tool kit.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	annotation := container.NewHBox(widget.NewLabel("Annotate:"))
	for _, t := range editor.KitAnnotation.Tools() {
		annotation.Add(mw.toolButton(t))
	}
	mw.colorSwatch = fynecanvas.NewRectangle(mw.state.Annotations.Color())
	mw.colorSwatch.SetMinSize(fyne.NewSize(24, 24))
	annotation.Add(widget.NewButton("Color", mw.onPickColor))
	annotation.Add(mw.colorSwatch)
	annotation.Add(widget.NewButton("Clear", mw.onClearAnnotations))
	annotation.Add(widget.NewButton("Save", mw.onSave))

	measurement := container.NewHBox(widget.NewLabel("Measure:"))
	for _, t := range editor.KitMeasurement.Tools() {
		measurement.Add(mw.toolButton(t))
	}
	measurement.Add(widget.NewButton("Clear", mw.onClearMeasurements))

	return container.NewVBox(annotation, measurement)
}

func (mw *MainWindow) toolButton(t editor.Tool) *widget.Button {
	btn := widget.NewButton(toolLabel(t), func() { mw.selectTool(t) })
	mw.toolButtons[t] = btn
	return btn
}

func toolLabel(t editor.Tool) string {
	name := t.String()
	return strings.ToUpper(name[:1]) + name[1:]
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mw.onOpenImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Annotated Image", mw.onSave),
		fyne.NewMenuItem("Export Findings PDF", mw.onExportReport),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Clear Annotations", mw.onClearAnnotations),
		fyne.NewMenuItem("Clear Measurements", mw.onClearMeasurements),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences...", mw.onPreferences),
	)

	var toolItems []*fyne.MenuItem
	for _, kit := range []editor.Kit{editor.KitAnnotation, editor.KitMeasurement} {
		if len(toolItems) > 0 {
			toolItems = append(toolItems, fyne.NewMenuItemSeparator())
		}
		for _, t := range kit.Tools() {
			t := t
			toolItems = append(toolItems, fyne.NewMenuItem(toolLabel(t), func() { mw.selectTool(t) }))
		}
	}
	toolsMenu := fyne.NewMenu("Tools", toolItems...)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, toolsMenu, helpMenu))
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventImageLoaded, func(data interface{}) {
		layer, ok := data.(*image.Layer)
		if !ok {
			return
		}
		mw.view.SetImage(layer.Image)
		mw.SetTitle(appTitle + " - " + filepath.Base(layer.Path))
		mw.updateStatus(fmt.Sprintf("Loaded %s (%dx%d)", filepath.Base(layer.Path), layer.Width(), layer.Height()))
	})

	mw.state.On(app.EventOverlayChanged, func(data interface{}) {
		mw.view.Redraw()
		mw.updateToolButtons()
		if ed := mw.view.Active(); ed != nil && ed.Tool() != editor.ToolNone {
			mw.updateStatus(ed.Hint())
		}
	})

	mw.state.On(app.EventTextRequested, func(data interface{}) {
		if req, ok := data.(editor.TextRequest); ok {
			dialogs.NewTextEntryDialog(mw.state.Editor(req.Tool.Kit()), req, mw.Window).Show()
		}
	})

	mw.state.On(app.EventConfigChanged, func(data interface{}) {
		mw.colorSwatch.FillColor = mw.state.Annotations.Color()
		fynecanvas.Refresh(mw.colorSwatch)
		mw.view.Redraw()
	})

	mw.state.On(app.EventExported, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.updateStatus("Saved " + path)
		}
	})
}

// selectTool arms t on its kit's editor and disarms the other kit, so
// only one tool receives pointer input. Selecting the armed tool disarms it.
func (mw *MainWindow) selectTool(t editor.Tool) {
	ed := mw.state.Editor(t.Kit())
	for _, other := range []*editor.Editor{mw.state.Annotations, mw.state.Measurements} {
		if other != ed && other.Tool() != editor.ToolNone {
			_ = other.SelectTool(editor.ToolNone)
		}
	}
	if err := ed.ToggleTool(t); err != nil {
		log.Printf("select %s: %v", t, err)
		return
	}
	mw.view.SetActive(ed)
	mw.updateToolButtons()
	if ed.Tool() == editor.ToolNone {
		mw.updateStatus("Ready")
	} else {
		mw.updateStatus(ed.Hint())
	}
}

// activeTool returns the armed tool across both kits.
func (mw *MainWindow) activeTool() editor.Tool {
	if t := mw.state.Annotations.Tool(); t != editor.ToolNone {
		return t
	}
	return mw.state.Measurements.Tool()
}

func (mw *MainWindow) updateToolButtons() {
	active := mw.activeTool()
	for t, btn := range mw.toolButtons {
		want := widget.MediumImportance
		if t == active {
			want = widget.HighImportance
		}
		if btn.Importance != want {
			btn.Importance = want
			btn.Refresh()
		}
	}
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// onTypedKey disarms the active tool on Escape.
func (mw *MainWindow) onTypedKey(ev *fyne.KeyEvent) {
	if ev.Name != fyne.KeyEscape {
		return
	}
	if t := mw.activeTool(); t != editor.ToolNone {
		mw.selectTool(t)
	}
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefKeyLastDir, filepath.Dir(filePath))
}

// RestoreLastImage reopens the radiograph from the previous session.
func (mw *MainWindow) RestoreLastImage() {
	path := mw.prefs.String(prefKeyLastImage)
	if path == "" {
		return
	}
	if err := mw.state.LoadImage(path); err != nil {
		log.Printf("Failed to restore %s: %v", path, err)
	}
}

// OpenImage loads a radiograph and remembers it for the next session.
func (mw *MainWindow) OpenImage(path string) error {
	if err := mw.state.LoadImage(path); err != nil {
		return err
	}
	mw.saveLastDir(path)
	mw.prefs.SetString(prefKeyLastImage, path)
	return nil
}

// SavePreferences writes preferences to disk.
func (mw *MainWindow) SavePreferences() {
	if err := mw.prefs.Save(); err != nil {
		log.Printf("Failed to save preferences: %v", err)
	}
}

// SavePreferencesIfChanged writes preferences only when they changed.
func (mw *MainWindow) SavePreferencesIfChanged() {
	if err := mw.prefs.SaveIfChanged(); err != nil {
		log.Printf("Failed to save preferences: %v", err)
	}
}

// applyConfig pushes cfg into the session and persists it.
func (mw *MainWindow) applyConfig(cfg config.Config) {
	if err := mw.state.ApplyConfig(cfg); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	cfg.Save(mw.prefs)
	mw.updateStatus(fmt.Sprintf("Calibration %.3f mm/px", cfg.MMPerPixel))
}

// Menu action handlers

func (mw *MainWindow) onOpenImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		if err := mw.OpenImage(reader.URI().Path()); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(image.SupportedFormats()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSave() {
	if _, err := mw.state.Save(); err != nil {
		mw.showExportError(err)
	}
}

func (mw *MainWindow) onExportReport() {
	if _, err := mw.state.ExportReport(); err != nil {
		mw.showExportError(err)
	}
}

func (mw *MainWindow) showExportError(err error) {
	if errors.Is(err, image.ErrNoImage) {
		mw.updateStatus("Nothing to export: no image loaded")
		return
	}
	log.Printf("Export failed: %v", err)
	dialog.ShowError(err, mw.Window)
}

func (mw *MainWindow) onClearAnnotations() {
	mw.state.Annotations.Clear()
	mw.updateStatus("Annotations cleared")
}

func (mw *MainWindow) onClearMeasurements() {
	mw.state.Measurements.Clear()
	mw.updateStatus("Measurements cleared")
}

func (mw *MainWindow) onPickColor() {
	picker := dialog.NewColorPicker("Annotation Color", "Ink for new strokes and labels", func(c color.Color) {
		cfg := mw.state.Config()
		cfg.Color = colorutil.Hex(c)
		mw.applyConfig(cfg)
	}, mw.Window)
	picker.Advanced = true
	picker.SetColor(mw.state.Annotations.Color())
	picker.Show()
}

func (mw *MainWindow) onPreferences() {
	dialogs.NewSettingsDialog(mw.state.Config(), mw.Window, mw.applyConfig).Show()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+appTitle,
		fmt.Sprintf("%s v%s\n\n"+
			"Freehand annotation and distance, angle and area\n"+
			"measurement over chest radiographs.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			appTitle, version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
