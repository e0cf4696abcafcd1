// Package image loads radiographs and flattens overlay surfaces onto them.
package image

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/tiff"

	"xray-overlay/pkg/geometry"
)

// ErrNoImage is returned when an operation needs a loaded radiograph.
var ErrNoImage = errors.New("no image loaded")

const mmPerInch = 25.4

// Layer is a loaded radiograph.
type Layer struct {
	Path  string      // Original file path
	Image image.Image // Decoded pixels
	DPI   float64     // Resolution from file metadata, 0 if absent
}

// Load decodes the image at path. TIFF resolution tags are read when present.
func Load(path string) (*Layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return Decode(path, bytes.NewReader(data))
}

// Decode builds a Layer from an in-memory image. name is used for the
// format hint and kept as the layer path.
func Decode(name string, r io.ReadSeeker) (*Layer, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	layer := &Layer{Path: name, Image: img}
	if format == "tiff" {
		if ra, ok := r.(io.ReaderAt); ok {
			if dpi, err := tiffDPI(ra); err == nil {
				layer.DPI = dpi
			}
		}
	}
	return layer, nil
}

// Width returns the image width in pixels.
func (l *Layer) Width() int {
	if l == nil || l.Image == nil {
		return 0
	}
	return l.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (l *Layer) Height() int {
	if l == nil || l.Image == nil {
		return 0
	}
	return l.Image.Bounds().Dy()
}

// Calibration derives the pixel pitch from the file resolution.
func (l *Layer) Calibration() (geometry.Calibration, bool) {
	if l == nil || l.DPI <= 0 {
		return 0, false
	}
	return geometry.Calibration(mmPerInch / l.DPI), true
}

// tiffDPI reads the XResolution/YResolution tags of the first IFD.
func tiffDPI(r io.ReaderAt) (float64, error) {
	header := make([]byte, 8)
	if _, err := r.ReadAt(header, 0); err != nil {
		return 0, err
	}

	var order binary.ByteOrder
	switch string(header[:2]) {
	case "II":
		order = binary.LittleEndian
	case "MM":
		order = binary.BigEndian
	default:
		return 0, errors.New("not a TIFF file")
	}

	ifd := int64(order.Uint32(header[4:8]))
	count := make([]byte, 2)
	if _, err := r.ReadAt(count, ifd); err != nil {
		return 0, err
	}

	var xRes, yRes float64
	unit := uint16(2) // inches
	entry := make([]byte, 12)
	for i := int64(0); i < int64(order.Uint16(count)); i++ {
		if _, err := r.ReadAt(entry, ifd+2+i*12); err != nil {
			return 0, err
		}
		tag := order.Uint16(entry[0:2])
		kind := order.Uint16(entry[2:4])
		switch {
		case tag == 282 && kind == 5:
			xRes = tiffRational(r, int64(order.Uint32(entry[8:12])), order)
		case tag == 283 && kind == 5:
			yRes = tiffRational(r, int64(order.Uint32(entry[8:12])), order)
		case tag == 296 && kind == 3:
			unit = order.Uint16(entry[8:10])
		}
	}

	dpi := xRes
	if dpi == 0 {
		dpi = yRes
	}
	if dpi == 0 {
		return 0, errors.New("no resolution tags")
	}
	if unit == 3 {
		dpi *= 2.54
	}
	return dpi, nil
}

func tiffRational(r io.ReaderAt, off int64, order binary.ByteOrder) float64 {
	buf := make([]byte, 8)
	if _, err := r.ReadAt(buf, off); err != nil {
		return 0
	}
	num, den := order.Uint32(buf[0:4]), order.Uint32(buf[4:8])
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// SupportedFormats returns the accepted file extensions.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".tiff", ".tif"}
}

// IsSupportedFormat checks the extension of path.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range SupportedFormats() {
		if ext == f {
			return true
		}
	}
	return false
}
