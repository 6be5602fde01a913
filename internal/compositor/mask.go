package compositor

import (
	"image"
	"math"

	"golang.org/x/image/vector"

	"vibraframe/models"
)

// kappa places cubic Bézier control points for a quarter circle.
const kappa = 0.5522847498

// shapeMask rasterizes an anti-aliased clip mask for a photo slot, covering
// only the clip rectangle. Pixels outside the shape are fully transparent.
func shapeMask(slot, clip image.Rectangle, shape models.Shape, cornerRadius float64) *image.Alpha {
	z := vector.NewRasterizer(clip.Dx(), clip.Dy())
	ox, oy := float32(slot.Min.X-clip.Min.X), float32(slot.Min.Y-clip.Min.Y)
	w, h := float32(slot.Dx()), float32(slot.Dy())
	if shape == models.ShapeSquare {
		roundedRectPath(z, ox, oy, w, h, cornerRadius)
	} else {
		ellipsePath(z, ox, oy, w, h)
	}
	mask := image.NewAlpha(clip)
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// roundedRectMask is a w×h rounded rectangle mask anchored at the origin.
func roundedRectMask(w, h int, radius float64) *image.Alpha {
	r := image.Rect(0, 0, w, h)
	return shapeMask(r, r, models.ShapeSquare, radius)
}

func ellipsePath(z *vector.Rasterizer, x, y, w, h float32) {
	rx, ry := w/2, h/2
	cx, cy := x+rx, y+ry
	kx, ky := rx*kappa, ry*kappa

	z.MoveTo(cx+rx, cy)
	z.CubeTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
	z.CubeTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
	z.CubeTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
	z.CubeTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	z.ClosePath()
}

func roundedRectPath(z *vector.Rasterizer, x, y, w, h float32, radius float64) {
	r := float32(math.Max(0, math.Min(radius, math.Min(float64(w), float64(h))/2)))
	k := r * kappa
	x1, y1 := x+w, y+h

	z.MoveTo(x+r, y)
	z.LineTo(x1-r, y)
	z.CubeTo(x1-r+k, y, x1, y+r-k, x1, y+r)
	z.LineTo(x1, y1-r)
	z.CubeTo(x1, y1-r+k, x1-r+k, y1, x1-r, y1)
	z.LineTo(x+r, y1)
	z.CubeTo(x+r-k, y1, x, y1-r+k, x, y1-r)
	z.LineTo(x, y+r)
	z.CubeTo(x, y+r-k, x+r-k, y, x+r, y)
	z.ClosePath()
}
