package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// Shape is the clip shape of the photo slot.
type Shape string

const (
	ShapeCircle Shape = "circle"
	ShapeSquare Shape = "square"
)

// Defaults applied when a template is created or when a stored document is
// missing fields.
const (
	ReferenceSize = 1080.0

	DefaultPhotoX    = 0.5
	DefaultPhotoY    = 0.5
	DefaultPhotoSize = 300.0

	DefaultTextX       = 0.5
	DefaultTextY       = 0.78
	DefaultTextW       = 0.82
	DefaultTextH       = 0.14
	DefaultTextContent = "Your Name"
	DefaultTextFont    = "Poppins"
	DefaultTextColor   = "#FFFFFF"
	DefaultTextSize    = 48.0

	// MaxCanvasSize is the largest reference canvas edge in pixels.
	MaxCanvasSize = 4096.0
	// MaxSlotScale bounds photo.size and text.size as a multiple of the
	// canvas width.
	MaxSlotScale = 2.0

	// MaxNameLength is the longest display name, in runes, a template or an
	// attendee may carry.
	MaxNameLength = 40
)

// Canvas is the reference resolution a template was authored against.
type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PhotoSlot places the attendee photo. X and Y are the center as a fraction
// of the canvas, Size is the diameter in reference-canvas pixels.
type PhotoSlot struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
	Shape Shape   `json:"shape"`
}

// TextSlot places the attendee name. X, Y, W and H are fractions of the
// canvas, Size is the font size in reference-canvas pixels.
type TextSlot struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	W       float64 `json:"w"`
	H       float64 `json:"h"`
	Content string  `json:"content"`
	Font    string  `json:"font"`
	Color   string  `json:"color"`
	Size    float64 `json:"size"`
}

// Background references the background image by storage path.
type Background struct {
	URL string `json:"url,omitempty"`
}

// Template is the organizer-authored poster description. It is a plain value:
// copies share nothing.
type Template struct {
	Canvas     Canvas     `json:"canvas"`
	Photo      PhotoSlot  `json:"photo"`
	Text       TextSlot   `json:"text"`
	Background Background `json:"background"`
}

// DefaultTemplate returns the centered template a new event draft starts with.
func DefaultTemplate() Template {
	return Template{
		Canvas: Canvas{Width: ReferenceSize, Height: ReferenceSize},
		Photo: PhotoSlot{
			X:     DefaultPhotoX,
			Y:     DefaultPhotoY,
			Size:  DefaultPhotoSize,
			Shape: ShapeCircle,
		},
		Text: TextSlot{
			X:       DefaultTextX,
			Y:       DefaultTextY,
			W:       DefaultTextW,
			H:       DefaultTextH,
			Content: DefaultTextContent,
			Font:    DefaultTextFont,
			Color:   DefaultTextColor,
			Size:    DefaultTextSize,
		},
	}
}

// HasBackground reports whether the template can be rendered.
func (t Template) HasBackground() bool {
	return strings.TrimSpace(t.Background.URL) != ""
}

// ReferenceWidth is the canvas width sizes are expressed against.
func (t Template) ReferenceWidth() float64 {
	if !positive(t.Canvas.Width) {
		return ReferenceSize
	}
	return t.Canvas.Width
}

// MaxSlotSize is the largest photo diameter or font size, in reference
// pixels, the template may carry.
func (t Template) MaxSlotSize() float64 {
	return MaxSlotScale * t.ReferenceWidth()
}

// ValidStoragePath reports whether p is a relative object path inside the
// background store: no scheme, no leading slash and no dot segments.
func ValidStoragePath(p string) bool {
	if p == "" || strings.ContainsAny(p, ":\\") || strings.HasPrefix(p, "/") {
		return false
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == "." || seg == ".." {
			return false
		}
	}
	return true
}

// Sanitize repairs a template in place of rejecting it: coordinates are
// clamped to [0,1], non-positive or non-finite sizes and unknown enum values
// fall back to defaults. Every repair is reported.
func (t Template) Sanitize() (Template, []ValidationError) {
	var issues []ValidationError
	fix := func(field, reason string) {
		issues = append(issues, ValidationError{Field: field, Reason: reason})
	}

	if !positive(t.Canvas.Width) {
		fix("canvas.width", "must be a positive number")
		t.Canvas.Width = ReferenceSize
	}
	if t.Canvas.Width > MaxCanvasSize {
		fix("canvas.width", fmt.Sprintf("larger than %g", MaxCanvasSize))
		t.Canvas.Width = MaxCanvasSize
	}
	if t.Canvas.Height != t.Canvas.Width {
		fix("canvas.height", "canvas must be square")
		t.Canvas.Height = t.Canvas.Width
	}

	t.Photo.X = clampUnit(t.Photo.X, DefaultPhotoX, "photo.x", fix)
	t.Photo.Y = clampUnit(t.Photo.Y, DefaultPhotoY, "photo.y", fix)
	if !positive(t.Photo.Size) {
		fix("photo.size", "must be a positive number")
		t.Photo.Size = DefaultPhotoSize
	}
	if limit := t.MaxSlotSize(); t.Photo.Size > limit {
		fix("photo.size", fmt.Sprintf("larger than %g", limit))
		t.Photo.Size = limit
	}
	switch t.Photo.Shape {
	case ShapeCircle, ShapeSquare:
	default:
		fix("photo.shape", fmt.Sprintf("unknown shape %q", t.Photo.Shape))
		t.Photo.Shape = ShapeCircle
	}

	t.Text.X = clampUnit(t.Text.X, DefaultTextX, "text.x", fix)
	t.Text.Y = clampUnit(t.Text.Y, DefaultTextY, "text.y", fix)
	if !positive(t.Text.W) {
		fix("text.w", "must be a positive number")
		t.Text.W = DefaultTextW
	}
	t.Text.W = clampUnit(t.Text.W, DefaultTextW, "text.w", fix)
	if !positive(t.Text.H) {
		fix("text.h", "must be a positive number")
		t.Text.H = DefaultTextH
	}
	t.Text.H = clampUnit(t.Text.H, DefaultTextH, "text.h", fix)
	if utf8.RuneCountInString(t.Text.Content) > MaxNameLength {
		fix("text.content", fmt.Sprintf("longer than %d characters", MaxNameLength))
		t.Text.Content = TruncateName(t.Text.Content)
	}
	if strings.TrimSpace(t.Text.Font) == "" {
		fix("text.font", "missing font")
		t.Text.Font = DefaultTextFont
	}
	if _, ok := ParseColor(t.Text.Color); !ok {
		fix("text.color", fmt.Sprintf("unparseable color %q", t.Text.Color))
		t.Text.Color = DefaultTextColor
	}
	if !positive(t.Text.Size) {
		fix("text.size", "must be a positive number")
		t.Text.Size = DefaultTextSize
	}
	if limit := t.MaxSlotSize(); t.Text.Size > limit {
		fix("text.size", fmt.Sprintf("larger than %g", limit))
		t.Text.Size = limit
	}

	t.Background.URL = strings.TrimSpace(t.Background.URL)
	if t.Background.URL != "" && !ValidStoragePath(t.Background.URL) {
		fix("background.url", "must be a relative storage path")
		t.Background.URL = ""
	}
	return t, issues
}

// TruncateName cuts a display name to MaxNameLength runes.
func TruncateName(name string) string {
	if utf8.RuneCountInString(name) <= MaxNameLength {
		return name
	}
	return string([]rune(name)[:MaxNameLength])
}

// rawTemplate mirrors Template with every field optional so that missing
// values can be told apart from zero values.
type rawTemplate struct {
	Canvas *struct {
		Width  *float64 `json:"width"`
		Height *float64 `json:"height"`
	} `json:"canvas"`
	Photo *struct {
		X     *float64 `json:"x"`
		Y     *float64 `json:"y"`
		Size  *float64 `json:"size"`
		Shape *string  `json:"shape"`
	} `json:"photo"`
	Text *struct {
		X       *float64 `json:"x"`
		Y       *float64 `json:"y"`
		W       *float64 `json:"w"`
		H       *float64 `json:"h"`
		Content *string  `json:"content"`
		Font    *string  `json:"font"`
		Color   *string  `json:"color"`
		Size    *float64 `json:"size"`
	} `json:"text"`
	Background *struct {
		URL *string `json:"url"`
	} `json:"background"`
}

// DecodeTemplate is the single construction step for templates coming from
// storage or clients. Missing fields take their documented defaults, then the
// result is sanitized. Only malformed JSON is an error.
func DecodeTemplate(data []byte) (Template, []ValidationError, error) {
	var raw rawTemplate
	if err := json.Unmarshal(data, &raw); err != nil {
		return Template{}, nil, fmt.Errorf("decode template: %w", err)
	}

	var issues []ValidationError
	missing := func(field string) {
		issues = append(issues, ValidationError{Field: field, Reason: "missing"})
	}
	num := func(p *float64, def float64, field string) float64 {
		if p == nil {
			missing(field)
			return def
		}
		return *p
	}
	str := func(p *string, def string, field string) string {
		if p == nil {
			missing(field)
			return def
		}
		return *p
	}

	t := DefaultTemplate()
	if raw.Canvas == nil {
		missing("canvas")
	} else {
		t.Canvas.Width = num(raw.Canvas.Width, ReferenceSize, "canvas.width")
		t.Canvas.Height = num(raw.Canvas.Height, t.Canvas.Width, "canvas.height")
	}
	if raw.Photo == nil {
		missing("photo")
	} else {
		t.Photo.X = num(raw.Photo.X, DefaultPhotoX, "photo.x")
		t.Photo.Y = num(raw.Photo.Y, DefaultPhotoY, "photo.y")
		t.Photo.Size = num(raw.Photo.Size, DefaultPhotoSize, "photo.size")
		t.Photo.Shape = Shape(str(raw.Photo.Shape, string(ShapeCircle), "photo.shape"))
	}
	if raw.Text == nil {
		missing("text")
	} else {
		t.Text.X = num(raw.Text.X, DefaultTextX, "text.x")
		t.Text.Y = num(raw.Text.Y, DefaultTextY, "text.y")
		t.Text.W = num(raw.Text.W, DefaultTextW, "text.w")
		t.Text.H = num(raw.Text.H, DefaultTextH, "text.h")
		t.Text.Content = str(raw.Text.Content, DefaultTextContent, "text.content")
		t.Text.Font = str(raw.Text.Font, DefaultTextFont, "text.font")
		t.Text.Color = str(raw.Text.Color, DefaultTextColor, "text.color")
		t.Text.Size = num(raw.Text.Size, DefaultTextSize, "text.size")
	}
	if raw.Background != nil && raw.Background.URL != nil {
		t.Background.URL = *raw.Background.URL
	}

	t, repaired := t.Sanitize()
	return t, append(issues, repaired...), nil
}

// UnmarshalJSON routes every JSON decode of a Template through
// DecodeTemplate, dropping the repair report.
func (t *Template) UnmarshalJSON(data []byte) error {
	decoded, _, err := DecodeTemplate(data)
	if err != nil {
		return err
	}
	*t = decoded
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func clampUnit(v, def float64, field string, fix func(field, reason string)) float64 {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		fix(field, "not a finite number")
		return def
	case v < 0:
		fix(field, "clamped to 0")
		return 0
	case v > 1:
		fix(field, "clamped to 1")
		return 1
	}
	return v
}
