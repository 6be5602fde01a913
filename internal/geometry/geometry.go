// Package geometry maps template slots between the normalized authoring
// space, an editor viewport and the fixed output canvas.
//
// Authoring space stores positions as fractions of the canvas and photo/font
// sizes in reference-canvas pixels. Render space is whatever pixel grid the
// slot is drawn into. Every function here is pure and never fails: malformed
// input is clamped to something drawable.
package geometry

import (
	"image"
	"math"

	"vibraframe/models"
)

// SlotKind tells a photo slot (sized by diameter) from a text slot (sized by
// a fractional box).
type SlotKind int

const (
	KindPhoto SlotKind = iota
	KindText
)

func (k SlotKind) String() string {
	switch k {
	case KindPhoto:
		return "photo"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Point is a position in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a pixel extent.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Square returns an n×n size.
func Square(n float64) Size { return Size{Width: n, Height: n} }

func (s Size) valid() bool {
	return s.Width > 0 && s.Height > 0 && !math.IsInf(s.Width, 0) && !math.IsInf(s.Height, 0)
}

// Slot is the normalized description of one slot. Photo slots use Size (a
// diameter in reference pixels); text slots use W and H (fractions).
type Slot struct {
	Kind SlotKind `json:"kind"`
	X    float64  `json:"x"`
	Y    float64  `json:"y"`
	Size float64  `json:"size,omitempty"`
	W    float64  `json:"w,omitempty"`
	H    float64  `json:"h,omitempty"`
}

// PhotoSlot extracts the normalized photo slot of a template.
func PhotoSlot(p models.PhotoSlot) Slot {
	return Slot{Kind: KindPhoto, X: p.X, Y: p.Y, Size: p.Size}
}

// TextSlot extracts the normalized text slot of a template.
func TextSlot(t models.TextSlot) Slot {
	return Slot{Kind: KindText, X: t.X, Y: t.Y, W: t.W, H: t.H}
}

// Rect is a slot resolved to pixels: a center and an extent.
type Rect struct {
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// Min is the top-left corner.
func (r Rect) Min() Point {
	return Point{X: r.CenterX - r.Width/2, Y: r.CenterY - r.Height/2}
}

// Bounds rounds the rect to the integer pixel grid. The extent is rounded
// independently of the origin so that equal slots get equal pixel sizes.
func (r Rect) Bounds() image.Rectangle {
	tl := r.Min()
	x0 := int(math.Round(tl.X))
	y0 := int(math.Round(tl.Y))
	return image.Rect(x0, y0, x0+int(math.Round(r.Width)), y0+int(math.Round(r.Height)))
}

// ToPixel resolves a normalized slot against a target canvas. Positions and
// text boxes scale with the target; the photo diameter scales with the ratio
// of target width to the reference width.
func ToPixel(s Slot, target Size, reference float64) Rect {
	if !target.valid() {
		return Rect{}
	}
	reference = referenceOr(reference)

	r := Rect{
		CenterX: Clamp01(s.X) * target.Width,
		CenterY: Clamp01(s.Y) * target.Height,
	}
	switch s.Kind {
	case KindPhoto:
		d := finiteNonNegative(s.Size) * target.Width / reference
		r.Width, r.Height = d, d
	default:
		r.Width = Clamp01(s.W) * target.Width
		r.Height = Clamp01(s.H) * target.Height
	}
	return r
}

// ToNormalized is the inverse of ToPixel for a slot the user dragged or
// resized inside an editing viewport. For photo slots only box.Width is used
// since the slot is square.
func ToNormalized(kind SlotKind, center Point, box Size, viewport Size, reference float64) Slot {
	if !viewport.valid() {
		return defaultSlot(kind)
	}
	reference = referenceOr(reference)

	s := Slot{
		Kind: kind,
		X:    Clamp01(center.X / viewport.Width),
		Y:    Clamp01(center.Y / viewport.Height),
	}
	switch kind {
	case KindPhoto:
		s.Size = finiteNonNegative(box.Width / viewport.Width * reference)
		if s.Size <= 0 {
			s.Size = 1
		}
	default:
		s.W = Clamp01(box.Width / viewport.Width)
		s.H = Clamp01(box.Height / viewport.Height)
	}
	return s
}

// ClampCenterToBounds keeps a slot of the given radius fully inside
// [0, canvas] by clamping its center to [radius, canvas-radius]. A slot wider
// than the canvas is centered.
func ClampCenterToBounds(center, radius, canvas float64) float64 {
	if radius*2 >= canvas {
		return canvas / 2
	}
	return math.Min(math.Max(center, radius), canvas-radius)
}

// Clamp01 clamps v to [0,1]; NaN becomes 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func referenceOr(reference float64) float64 {
	if reference > 0 && !math.IsInf(reference, 0) {
		return reference
	}
	return models.ReferenceSize
}

func finiteNonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func defaultSlot(kind SlotKind) Slot {
	if kind == KindPhoto {
		return Slot{Kind: KindPhoto, X: models.DefaultPhotoX, Y: models.DefaultPhotoY, Size: models.DefaultPhotoSize}
	}
	return Slot{Kind: KindText, X: models.DefaultTextX, Y: models.DefaultTextY, W: models.DefaultTextW, H: models.DefaultTextH}
}
