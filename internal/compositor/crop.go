package compositor

import (
	"image"
	"math"

	"vibraframe/internal/geometry"
)

// CoverCrop returns the region of src that, scaled uniformly, exactly covers a
// slotW×slotH box. The longer axis is trimmed; nothing is stretched. The
// region is centered on focus (a normalized point in src) when given, else on
// the image center, and always stays inside src.
func CoverCrop(src image.Rectangle, slotW, slotH float64, focus *geometry.Point) image.Rectangle {
	srcW, srcH := float64(src.Dx()), float64(src.Dy())
	if srcW <= 0 || srcH <= 0 || slotW <= 0 || slotH <= 0 {
		return src
	}

	scale := math.Max(slotW/srcW, slotH/srcH)
	cropW := math.Min(slotW/scale, srcW)
	cropH := math.Min(slotH/scale, srcH)

	fx, fy := 0.5, 0.5
	if focus != nil {
		fx, fy = geometry.Clamp01(focus.X), geometry.Clamp01(focus.Y)
	}
	x0 := clampRange(fx*srcW-cropW/2, 0, srcW-cropW)
	y0 := clampRange(fy*srcH-cropH/2, 0, srcH-cropH)

	w := int(math.Round(cropW))
	h := int(math.Round(cropH))
	x := min(int(math.Round(x0)), src.Dx()-w)
	y := min(int(math.Round(y0)), src.Dy()-h)
	return image.Rect(x, y, x+w, y+h).Add(src.Min)
}

func clampRange(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
