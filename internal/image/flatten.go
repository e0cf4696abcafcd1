package image

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Flatten paints base scaled to width x height and composites each overlay
// on top in order. Overlays are expected to share that size.
func Flatten(base image.Image, width, height int, overlays ...image.Image) (*image.RGBA, error) {
	if base == nil {
		return nil, ErrNoImage
	}
	if width <= 0 || height <= 0 {
		b := base.Bounds()
		width, height = b.Dx(), b.Dy()
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))

	if base.Bounds().Dx() == width && base.Bounds().Dy() == height {
		draw.Draw(dst, dst.Bounds(), base, base.Bounds().Min, draw.Src)
	} else {
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), base, base.Bounds(), xdraw.Src, nil)
	}

	for _, o := range overlays {
		if o == nil {
			continue
		}
		draw.Draw(dst, dst.Bounds(), o, o.Bounds().Min, draw.Over)
	}
	return dst, nil
}
