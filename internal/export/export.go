// Package export writes the flattened annotated radiograph and a printable
// findings sheet to disk.
package export

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"
)

const filePrefix = "annotated_xray_"

// FileName returns the download name for an export made at t.
func FileName(t time.Time, ext string) string {
	return fmt.Sprintf("%s%s.%s", filePrefix, t.Format("2006-01-02"), ext)
}

// Exporter writes export artifacts into a directory.
type Exporter struct {
	dir string
	now func() time.Time
}

// New creates an exporter writing into dir. A leading "~" expands to the
// home directory.
func New(dir string) *Exporter {
	if len(dir) > 0 && dir[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, dir[1:])
		}
	}
	return &Exporter{dir: dir, now: time.Now}
}

// Dir returns the output directory.
func (e *Exporter) Dir() string { return e.dir }

func (e *Exporter) create(ext string) (*os.File, string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("create export directory: %w", err)
	}
	path := filepath.Join(e.dir, FileName(e.now(), ext))
	f, err := os.Create(path)
	if err != nil {
		return nil, "", fmt.Errorf("create %s: %w", path, err)
	}
	return f, path, nil
}

// SavePNG writes img as annotated_xray_<date>.png and returns its path.
func (e *Exporter) SavePNG(img image.Image) (string, error) {
	f, path, err := e.create("png")
	if err != nil {
		return "", err
	}
	if err := WritePNG(f, img); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

// SaveReport writes the findings sheet as annotated_xray_<date>.pdf.
func (e *Exporter) SaveReport(img image.Image, findings Findings) (string, error) {
	f, path, err := e.create("pdf")
	if err != nil {
		return "", err
	}
	if findings.Date.IsZero() {
		findings.Date = e.now()
	}
	if err := WriteReport(f, img, findings); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
