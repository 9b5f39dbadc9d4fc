package pipeline

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"github.com/bonktools/itemscan/internal/fusion"
)

// overlayStroke is the box border width in pixels.
const overlayStroke = 2

// RenderOverlay draws the positioned detections over a copy of the frame.
// Hybrid detections use hybridColor, everything else boxColor. Unpositioned
// detections are skipped.
func RenderOverlay(img image.Image, detections []fusion.Detection, boxColor, hybridColor color.Color) *image.RGBA {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Copy(dst, image.Point{}, img, b, xdraw.Src, nil)

	for _, d := range detections {
		if d.Region == nil {
			continue
		}
		c := boxColor
		if d.Method == fusion.MethodHybrid {
			c = hybridColor
		}
		rect := d.Region.ToRect(dst.Bounds())
		drawRect(dst, rect, c, overlayStroke)
	}
	return dst
}

func drawRect(dst *image.RGBA, rect image.Rectangle, c color.Color, stroke int) {
	for s := 0; s < stroke; s++ {
		r := rect.Inset(s)
		if r.Empty() {
			return
		}
		for x := r.Min.X; x < r.Max.X; x++ {
			dst.Set(x, r.Min.Y, c)
			dst.Set(x, r.Max.Y-1, c)
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			dst.Set(r.Min.X, y, c)
			dst.Set(r.Max.X-1, y, c)
		}
	}
}
