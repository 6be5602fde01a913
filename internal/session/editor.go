package session

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"vibraframe/internal/geometry"
	"vibraframe/models"
)

// SlotID names an editable slot.
type SlotID string

const (
	SlotPhoto SlotID = "photo"
	SlotText  SlotID = "text"
)

// Editor is the organizer's template being edited. Pixel input from the
// editing viewport is converted to authoring space on every change; nothing
// is persisted until Save.
type Editor struct {
	mu       sync.Mutex
	tpl      models.Template
	viewport geometry.Size
	dirty    bool
	saver    TemplateSaver
}

// NewEditor starts editing the default template in a viewport of the given
// size.
func NewEditor(saver TemplateSaver, viewport geometry.Size) *Editor {
	return &Editor{tpl: models.DefaultTemplate(), viewport: viewport, saver: saver}
}

// Load replaces the edited template. The template is sanitized once here.
func (e *Editor) Load(t models.Template) []models.ValidationError {
	clean, issues := t.Sanitize()
	e.mu.Lock()
	e.tpl = clean
	e.dirty = false
	e.mu.Unlock()
	return issues
}

// Serialize returns a copy of the current template.
func (e *Editor) Serialize() models.Template {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tpl
}

// Dirty reports unsaved changes.
func (e *Editor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirty
}

// SetViewport records the size of the editing viewport pixel input refers to.
func (e *Editor) SetViewport(v geometry.Size) {
	e.mu.Lock()
	e.viewport = v
	e.mu.Unlock()
}

// Layout resolves the current template for the editing viewport.
func (e *Editor) Layout() geometry.Layout {
	e.mu.Lock()
	defer e.mu.Unlock()
	return geometry.Resolve(e.tpl, e.viewport)
}

// SlotRect is the stored slot in viewport pixels, without the render-time
// clamp Layout applies. Partial edits start from it.
func (e *Editor) SlotRect(id SlotID) (geometry.Rect, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.viewport.Width <= 0 || e.viewport.Height <= 0 {
		return geometry.Rect{}, ErrInvalidViewport
	}
	ref := e.tpl.ReferenceWidth()
	switch id {
	case SlotPhoto:
		return geometry.ToPixel(geometry.PhotoSlot(e.tpl.Photo), e.viewport, ref), nil
	case SlotText:
		return geometry.ToPixel(geometry.TextSlot(e.tpl.Text), e.viewport, ref), nil
	default:
		return geometry.Rect{}, fmt.Errorf("%w: %q", ErrUnknownSlot, id)
	}
}

// UpdateSlot applies a drag or resize: center and size are viewport pixels.
// For the photo slot only size.Width is used.
func (e *Editor) UpdateSlot(id SlotID, center geometry.Point, size geometry.Size) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.viewport.Width <= 0 || e.viewport.Height <= 0 {
		return ErrInvalidViewport
	}
	ref := e.tpl.ReferenceWidth()
	switch id {
	case SlotPhoto:
		s := geometry.ToNormalized(geometry.KindPhoto, center, size, e.viewport, ref)
		e.tpl.Photo.X, e.tpl.Photo.Y = s.X, s.Y
		e.tpl.Photo.Size = math.Min(s.Size, e.tpl.MaxSlotSize())
	case SlotText:
		s := geometry.ToNormalized(geometry.KindText, center, size, e.viewport, ref)
		e.tpl.Text.X, e.tpl.Text.Y, e.tpl.Text.W, e.tpl.Text.H = s.X, s.Y, s.W, s.H
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSlot, id)
	}
	e.dirty = true
	return nil
}

// SetText updates the text styling. Empty arguments leave a field unchanged.
func (e *Editor) SetText(content, font, color string) error {
	if color != "" {
		if _, ok := models.ParseColor(color); !ok {
			return models.ValidationError{Field: "text.color", Reason: fmt.Sprintf("unparseable color %q", color)}
		}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if content != "" {
		e.tpl.Text.Content = models.TruncateName(content)
	}
	if font = strings.TrimSpace(font); font != "" {
		e.tpl.Text.Font = font
	}
	if color != "" {
		e.tpl.Text.Color = color
	}
	e.dirty = true
	return nil
}

// SetTextSize sets the font size from viewport pixels.
func (e *Editor) SetTextSize(viewportPx float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.viewport.Width <= 0 {
		return ErrInvalidViewport
	}
	if viewportPx <= 0 {
		return models.ValidationError{Field: "text.size", Reason: "must be a positive number"}
	}
	e.tpl.Text.Size = math.Min(viewportPx/e.viewport.Width*e.tpl.ReferenceWidth(), e.tpl.MaxSlotSize())
	e.dirty = true
	return nil
}

// SetShape switches the photo clip shape.
func (e *Editor) SetShape(shape models.Shape) error {
	if shape != models.ShapeCircle && shape != models.ShapeSquare {
		return models.ValidationError{Field: "photo.shape", Reason: fmt.Sprintf("unknown shape %q", shape)}
	}
	e.mu.Lock()
	e.tpl.Photo.Shape = shape
	e.dirty = true
	e.mu.Unlock()
	return nil
}

// SetBackground points the template at an uploaded background.
func (e *Editor) SetBackground(storagePath string) {
	e.mu.Lock()
	e.tpl.Background.URL = strings.TrimSpace(storagePath)
	e.dirty = true
	e.mu.Unlock()
}

// Save persists a snapshot of the template as a full-document replace.
func (e *Editor) Save(ctx context.Context, eventID string) error {
	snapshot := e.Serialize()
	if err := e.saver.SaveTemplate(ctx, eventID, snapshot); err != nil {
		return &models.SaveError{EventID: eventID, Err: err}
	}
	e.mu.Lock()
	if e.tpl == snapshot {
		e.dirty = false
	}
	e.mu.Unlock()
	return nil
}
