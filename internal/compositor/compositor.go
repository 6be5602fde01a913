// Package compositor draws a personalized poster: background, a photo clipped
// to the template's slot shape, the attendee name and an optional watermark,
// in that order, then encodes the result as JPEG.
//
// Rendering is single-shot and side-effect free. A Compositor may be shared
// between goroutines; every call owns its own surface.
package compositor

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"vibraframe/internal/geometry"
	"vibraframe/models"
)

// DefaultQuality is the JPEG quality of generated posters.
const DefaultQuality = 95

// maxSlotEdge bounds the photo slot in output pixels. Stored templates stay
// well under it; the shape rasterizer loses precision far beyond it.
const maxSlotEdge = 4 * models.MaxCanvasSize

// Watermark badge metrics in output pixels. They do not scale: posters are
// always produced at the reference resolution.
const (
	watermarkMargin   = 24
	watermarkHeight   = 44
	watermarkPadding  = 18
	watermarkFontSize = 20.0
	watermarkFont     = "go-medium"
)

var (
	watermarkFill = color.RGBA{A: 140}
	watermarkInk  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Options configure a Compositor.
type Options struct {
	// Quality is the JPEG quality, 1-100. Zero means DefaultQuality.
	Quality int
	// UppercaseText renders the name upper-cased instead of as typed.
	UppercaseText bool
}

// TextStyle is the name to draw and how. Size is in output pixels.
type TextStyle struct {
	Content string
	Font    string
	Color   string
	Size    float64
}

// Scene is everything one render needs.
type Scene struct {
	Background image.Image
	Photo      image.Image
	Layout     geometry.Layout
	Text       TextStyle
	// Watermark is the badge text; empty draws no badge.
	Watermark string
	// Focus is a normalized point in Photo the crop should keep centered,
	// typically a detected face. Nil centers the crop.
	Focus *geometry.Point
}

// NewScene resolves t at the output size and pairs it with the loaded images.
// name replaces the template's placeholder content when non-empty.
func NewScene(t models.Template, out geometry.Size, background, photo image.Image, name string) Scene {
	layout := geometry.Resolve(t, out)
	content := t.Text.Content
	if name != "" {
		content = name
	}
	return Scene{
		Background: background,
		Photo:      photo,
		Layout:     layout,
		Text: TextStyle{
			Content: content,
			Font:    t.Text.Font,
			Color:   t.Text.Color,
			Size:    layout.FontSize,
		},
	}
}

// Compositor renders scenes.
type Compositor struct {
	fonts     *FontRegistry
	quality   int
	uppercase bool
}

// New returns a Compositor drawing text with fonts from reg.
func New(reg *FontRegistry, opts Options) *Compositor {
	q := opts.Quality
	if q <= 0 || q > 100 {
		q = DefaultQuality
	}
	return &Compositor{fonts: reg, quality: q, uppercase: opts.UppercaseText}
}

// Render composes the scene and encodes it as JPEG. Either all bytes are
// returned or an error: ErrMissingBackground, *ImageLoadError or
// *EncodeError.
func (c *Compositor) Render(s Scene) ([]byte, error) {
	img, err := c.Compose(s)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: c.quality}); err != nil {
		return nil, &EncodeError{Err: err}
	}
	return buf.Bytes(), nil
}

// Compose draws the scene onto a fresh RGBA surface.
func (c *Compositor) Compose(s Scene) (*image.RGBA, error) {
	if s.Background == nil {
		return nil, ErrMissingBackground
	}
	if s.Background.Bounds().Empty() {
		return nil, &ImageLoadError{Asset: AssetBackground, Err: errNoImage}
	}
	if s.Photo == nil || s.Photo.Bounds().Empty() {
		return nil, &ImageLoadError{Asset: AssetPhoto, Err: errNoImage}
	}

	w := int(math.Round(s.Layout.Canvas.Width))
	h := int(math.Round(s.Layout.Canvas.Height))
	if w <= 0 || h <= 0 || w > int(models.MaxCanvasSize) || h > int(models.MaxCanvasSize) {
		return nil, &EncodeError{Err: fmt.Errorf("invalid canvas %dx%d", w, h)}
	}
	if p := s.Layout.Photo; !(p.Width <= maxSlotEdge && p.Height <= maxSlotEdge) {
		return nil, &EncodeError{Err: fmt.Errorf("photo slot %gx%g is larger than %g", p.Width, p.Height, maxSlotEdge)}
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	// Stretched, not cropped: backgrounds are authored at the canvas aspect.
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), s.Background, s.Background.Bounds(), xdraw.Src, nil)

	c.drawPhoto(dst, s)

	if err := c.drawText(dst, s); err != nil {
		return nil, err
	}
	if s.Watermark != "" {
		if err := c.drawWatermark(dst, s.Watermark); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// drawPhoto scales the cover crop onto the slot. Only the part of the slot
// that overlaps the canvas is allocated and drawn.
func (c *Compositor) drawPhoto(dst *image.RGBA, s Scene) {
	slot := s.Layout.Photo.Bounds()
	visible := slot.Intersect(dst.Bounds())
	if slot.Empty() || visible.Empty() {
		return
	}
	crop := CoverCrop(s.Photo.Bounds(), float64(slot.Dx()), float64(slot.Dy()), s.Focus)
	if crop.Empty() {
		return
	}

	// Source to canvas: crop.Min lands on slot.Min, crop extent on slot extent.
	sx := float64(slot.Dx()) / float64(crop.Dx())
	sy := float64(slot.Dy()) / float64(crop.Dy())
	s2d := f64.Aff3{
		sx, 0, float64(slot.Min.X) - float64(crop.Min.X)*sx,
		0, sy, float64(slot.Min.Y) - float64(crop.Min.Y)*sy,
	}
	scaled := image.NewRGBA(visible)
	xdraw.CatmullRom.Transform(scaled, s2d, s.Photo, crop, xdraw.Src, nil)

	mask := shapeMask(slot, visible, s.Layout.Shape, s.Layout.CornerRadius)
	draw.DrawMask(dst, visible, scaled, visible.Min, mask, visible.Min, draw.Over)
}

func (c *Compositor) drawText(dst *image.RGBA, s Scene) error {
	content := s.Text.Content
	if c.uppercase {
		content = cases.Upper(language.Und).String(content)
	}
	col, ok := models.ParseColor(s.Text.Color)
	if !ok {
		col, _ = models.ParseColor(models.DefaultTextColor)
	}
	r := s.Layout.Text
	if err := c.drawCenteredText(dst, content, s.Text.Font, s.Text.Size, col, r.CenterX, r.CenterY, r.Width); err != nil {
		return fmt.Errorf("draw text: %w", err)
	}
	return nil
}

// drawWatermark draws a pill badge at a fixed offset from the bottom-left
// corner.
func (c *Compositor) drawWatermark(dst *image.RGBA, label string) error {
	face, err := c.fonts.Face(watermarkFont, watermarkFontSize)
	if err != nil {
		return fmt.Errorf("draw watermark: %w", err)
	}
	adv := measure(face, label)
	face.Close()

	pillW := int(math.Ceil(adv)) + 2*watermarkPadding
	b := dst.Bounds()
	pill := image.Rect(0, 0, pillW, watermarkHeight).Add(image.Pt(b.Min.X+watermarkMargin, b.Max.Y-watermarkMargin-watermarkHeight))

	mask := roundedRectMask(pill.Dx(), pill.Dy(), watermarkHeight/2)
	draw.DrawMask(dst, pill, image.NewUniform(watermarkFill), image.Point{}, mask, image.Point{}, draw.Over)

	cx := float64(pill.Min.X) + float64(pill.Dx())/2
	cy := float64(pill.Min.Y) + float64(pill.Dy())/2
	if err := c.drawCenteredText(dst, label, watermarkFont, watermarkFontSize, watermarkInk, cx, cy, 0); err != nil {
		return fmt.Errorf("draw watermark: %w", err)
	}
	return nil
}
