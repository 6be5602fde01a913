package geometry

import "vibraframe/models"

// squareCornerRadius is the corner radius of square photo slots in
// reference-canvas pixels.
const squareCornerRadius = 24.0

// Layout is a template resolved for one target canvas. It is what both the
// live preview and the compositor draw from.
type Layout struct {
	Canvas       Size         `json:"canvas"`
	Photo        Rect         `json:"photo"`
	Shape        models.Shape `json:"shape"`
	CornerRadius float64      `json:"corner_radius"`
	Text         Rect         `json:"text"`
	FontSize     float64      `json:"font_size"`
}

// Scale is the ratio of target width to the template's reference width.
func Scale(t models.Template, target Size) float64 {
	if !target.valid() {
		return 0
	}
	return target.Width / referenceOr(t.Canvas.Width)
}

// Resolve computes every slot of t for the target canvas. The photo center
// is kept inside the canvas here, at render time, so stored coordinates stay
// exactly what the organizer placed. The font size scales linearly with the
// canvas: a stored size is reference pixels, nothing more.
func Resolve(t models.Template, target Size) Layout {
	ref := t.ReferenceWidth()
	l := Layout{
		Canvas: target,
		Shape:  t.Photo.Shape,
		Photo:  ToPixel(PhotoSlot(t.Photo), target, ref),
		Text:   ToPixel(TextSlot(t.Text), target, ref),
	}
	if !target.valid() {
		return l
	}

	radius := l.Photo.Width / 2
	l.Photo.CenterX = ClampCenterToBounds(l.Photo.CenterX, radius, target.Width)
	l.Photo.CenterY = ClampCenterToBounds(l.Photo.CenterY, radius, target.Height)

	scale := Scale(t, target)
	if l.Shape == models.ShapeSquare {
		l.CornerRadius = squareCornerRadius * scale
	}
	l.FontSize = finiteNonNegative(t.Text.Size) * scale
	return l
}
