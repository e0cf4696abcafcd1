// Package app holds the session state shared by the window, the overlay
// widget and the headless renderer: the loaded radiograph, one editor per
// toolbar, and the event bus that ties them together.
package app

import (
	"fmt"
	goimage "image"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"xray-overlay/internal/config"
	"xray-overlay/internal/editor"
	"xray-overlay/internal/export"
	"xray-overlay/internal/image"
	"xray-overlay/internal/render"
	"xray-overlay/internal/shape"
	"xray-overlay/pkg/geometry"
)

// EventType identifies different application events.
type EventType int

const (
	EventImageLoaded EventType = iota
	// EventOverlayChanged carries the editor.Kit whose shapes or draft changed.
	EventOverlayChanged
	// EventTextRequested carries the editor.TextRequest awaiting content.
	EventTextRequested
	// EventSaved carries the []shape.Shape handed over by an editor save.
	EventSaved
	// EventExported carries the path of the written file.
	EventExported
	EventConfigChanged
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// State holds the session.
type State struct {
	mu sync.RWMutex

	Image        *image.Layer
	Annotations  *editor.Editor
	Measurements *editor.Editor

	cfg   config.Config
	style render.Style

	listeners map[EventType][]EventListener
}

// NewState creates a session with empty editors configured from cfg.
func NewState(cfg config.Config) *State {
	s := &State{
		cfg:       cfg,
		style:     render.DefaultStyle(),
		listeners: make(map[EventType][]EventListener),
	}
	s.Annotations = s.newEditor(editor.KitAnnotation)
	s.Measurements = s.newEditor(editor.KitMeasurement)
	return s
}

func (s *State) newEditor(kit editor.Kit) *editor.Editor {
	return editor.New(kit, s.cfg.Params(),
		editor.WithOnChange(func() { s.Emit(EventOverlayChanged, kit) }),
		editor.WithOnSave(func(shapes []shape.Shape) { s.Emit(EventSaved, shapes) }),
		editor.WithOnTextRequest(func(req editor.TextRequest) { s.Emit(EventTextRequested, req) }),
	)
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Config returns the active configuration.
func (s *State) Config() config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Style returns the overlay style.
func (s *State) Style() render.Style {
	return s.style
}

// Editor returns the editor of a kit.
func (s *State) Editor(kit editor.Kit) *editor.Editor {
	if kit == editor.KitMeasurement {
		return s.Measurements
	}
	return s.Annotations
}

// ApplyConfig validates cfg and pushes its thresholds into both editors.
// Committed measurements are re-derived under the new calibration.
func (s *State) ApplyConfig(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()

	params := cfg.Params()
	for _, ed := range []*editor.Editor{s.Annotations, s.Measurements} {
		if err := ed.SetParams(params); err != nil {
			return err
		}
	}
	s.Emit(EventConfigChanged, cfg)
	return nil
}

// LoadImage loads a radiograph. When the configuration asks for it, a TIFF
// resolution tag sets the calibration.
func (s *State) LoadImage(path string) error {
	layer, err := image.Load(path)
	if err != nil {
		return err
	}
	log.Printf("Loaded %s (%dx%d, %.0f dpi)", path, layer.Width(), layer.Height(), layer.DPI)
	return s.SetImage(layer)
}

// SetImage installs an already decoded radiograph.
func (s *State) SetImage(layer *image.Layer) error {
	if layer == nil || layer.Image == nil {
		return image.ErrNoImage
	}
	s.mu.Lock()
	s.Image = layer
	cfg := s.cfg
	s.mu.Unlock()

	if cal, ok := layer.Calibration(); ok && cfg.UseImageDPI {
		cfg.MMPerPixel = float64(cal)
		log.Printf("Calibration from image resolution: %.4f mm/px", cfg.MMPerPixel)
		if err := s.ApplyConfig(cfg); err != nil {
			return fmt.Errorf("apply image calibration: %w", err)
		}
	}
	s.Emit(EventImageLoaded, layer)
	return nil
}

// ImageSize returns the pixel size of the loaded radiograph, or 0, 0.
func (s *State) ImageSize() (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Image.Width(), s.Image.Height()
}

// Flatten composites the committed annotations and measurements over the
// radiograph at its native size. In-progress drafts are not included.
func (s *State) Flatten() (*goimage.RGBA, error) {
	s.mu.RLock()
	layer := s.Image
	s.mu.RUnlock()
	if layer == nil || layer.Image == nil {
		return nil, image.ErrNoImage
	}
	w, h := layer.Width(), layer.Height()

	// Layers rasterize independently; snapshots are taken before the fan-out.
	inputs := [][]shape.Shape{s.Annotations.Shapes(), s.Measurements.Shapes()}
	overlays := make([]goimage.Image, len(inputs))
	var g errgroup.Group
	for i, shapes := range inputs {
		i, shapes := i, shapes
		g.Go(func() error {
			overlays[i] = render.Render(w, h, s.style, shapes)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return image.Flatten(layer.Image, w, h, overlays...)
}

// Save hands both shape lists to the save callbacks and writes the
// flattened PNG into the export directory.
func (s *State) Save() (string, error) {
	s.Annotations.Save()
	s.Measurements.Save()

	img, err := s.Flatten()
	if err != nil {
		return "", err
	}
	path, err := export.New(s.Config().ExportDir).SavePNG(img)
	if err != nil {
		return "", err
	}
	log.Printf("Saved %s", path)
	s.Emit(EventExported, path)
	return path, nil
}

// Findings collects the committed measurements and annotations.
func (s *State) Findings() export.Findings {
	s.mu.RLock()
	source := ""
	if s.Image != nil {
		source = s.Image.Path
	}
	s.mu.RUnlock()
	return export.Findings{
		Source:       source,
		Measurements: s.Measurements.Measurements(),
		Annotations:  s.Annotations.Shapes(),
	}
}

// ExportReport writes the PDF findings sheet.
func (s *State) ExportReport() (string, error) {
	img, err := s.Flatten()
	if err != nil {
		return "", err
	}
	path, err := export.New(s.Config().ExportDir).SaveReport(img, s.Findings())
	if err != nil {
		return "", err
	}
	log.Printf("Exported report %s", path)
	s.Emit(EventExported, path)
	return path, nil
}

// Calibration returns the active mm-per-pixel ratio.
func (s *State) Calibration() geometry.Calibration {
	return geometry.Calibration(s.Config().MMPerPixel)
}
