package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"vibraframe/internal/compositor"
	"vibraframe/internal/geometry"
	"vibraframe/internal/session"
	"vibraframe/models"
	"vibraframe/utils"
)

// maxPreviewSize bounds the preview viewport edge in pixels.
const maxPreviewSize = 4096

// ErrorResponse defines a common structure for error responses.
type ErrorResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// CreateEventRequest defines the expected request body for creating an event.
type CreateEventRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

// EventSuccessResponse defines the structure for a successful response for a single event.
type EventSuccessResponse struct {
	Status string       `json:"status"`
	Data   models.Event `json:"data"`
}

// TemplateSuccessResponse wraps the template of an event code. The
// background URL is null for drafts.
type TemplateSuccessResponse struct {
	Status string                 `json:"status"`
	Data   models.FetchedTemplate `json:"data"`
}

// PreviewView is a template resolved for a square viewport.
type PreviewView struct {
	EventCode     string          `json:"event_code"`
	Layout        geometry.Layout `json:"layout"`
	BackgroundURL *string         `json:"background_resolved_url"`
}

// PreviewSuccessResponse wraps a PreviewView.
type PreviewSuccessResponse struct {
	Status string      `json:"status"`
	Data   PreviewView `json:"data"`
}

// SavedTemplateView is returned after an organizer edit.
type SavedTemplateView struct {
	EventID  string           `json:"event_id"`
	Template models.Template  `json:"template"`
	Layout   *geometry.Layout `json:"layout,omitempty"`
	// Repairs lists fields that were malformed and replaced by defaults.
	Repairs []string `json:"repairs,omitempty"`
}

// SavedTemplateSuccessResponse wraps a SavedTemplateView.
type SavedTemplateSuccessResponse struct {
	Status string            `json:"status"`
	Data   SavedTemplateView `json:"data"`
}

// BackgroundView is returned after a background upload.
type BackgroundView struct {
	EventID        string          `json:"event_id"`
	BackgroundPath string          `json:"background_path"`
	Template       models.Template `json:"template"`
}

// BackgroundSuccessResponse wraps a BackgroundView.
type BackgroundSuccessResponse struct {
	Status string         `json:"status"`
	Data   BackgroundView `json:"data"`
}

// UpdateSlotRequest is a drag, resize or restyle of one slot in the
// organizer's editing viewport. Geometry is in viewport pixels; omitted
// values keep the slot's current position and size.
type UpdateSlotRequest struct {
	ViewportWidth  float64  `json:"viewport_width" validate:"required,gt=0"`
	ViewportHeight float64  `json:"viewport_height" validate:"required,gt=0"`
	CenterX        *float64 `json:"center_x" validate:"omitempty,gte=0"`
	CenterY        *float64 `json:"center_y" validate:"omitempty,gte=0"`
	// Width is the photo diameter or the text box width.
	Width  *float64 `json:"width" validate:"omitempty,gt=0"`
	Height *float64 `json:"height" validate:"omitempty,gt=0"`
	// Photo slot only.
	Shape string `json:"shape" validate:"omitempty,oneof=circle square"`
	// Text slot only.
	Content    string   `json:"content" validate:"omitempty,max=40"`
	Font       string   `json:"font" validate:"omitempty,max=64"`
	Color      string   `json:"color" validate:"omitempty,max=32"`
	FontSizePx *float64 `json:"font_size_px" validate:"omitempty,gt=0"`
}

func (r UpdateSlotRequest) movesSlot() bool {
	return r.CenterX != nil || r.CenterY != nil || r.Width != nil || r.Height != nil
}

func (r UpdateSlotRequest) stylesText() bool {
	return r.Content != "" || r.Font != "" || r.Color != "" || r.FontSizePx != nil
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Creates a draft event with the default template and a generated attendee code.
// @Tags events
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   event body CreateEventRequest true "Event to create"
// @Success 201 {object} EventSuccessResponse "Event created successfully"
// @Failure 400 {object} ErrorResponse "Bad request if input is invalid"
// @Failure 401 {object} ErrorResponse "Missing or invalid organizer token"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /events [post]
func (h *ApplicationHandler) CreateEvent(c *fiber.Ctx) error {
	req := new(CreateEventRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Cannot parse event JSON: %v", err))
	}
	req.Name = utils.SanitizeInput(req.Name)
	if err := h.Validate.Struct(req); err != nil {
		return utils.RespondWithErrors(c, fiber.StatusBadRequest, "Invalid event", utils.FormatValidationErrors(err))
	}

	ev, err := h.Store.CreateEvent(c.UserContext(), req.Name)
	if err != nil {
		return h.respondError(c, err, "create event")
	}
	h.Logger.WithField("event_id", ev.ID).WithField("event_code", ev.Code).Info("Event created")
	return utils.RespondWithJSON(c, fiber.StatusCreated, ev)
}

// GetTemplate godoc
// @Summary Fetch an event template
// @Description Returns the template of the event with the given attendee code and a directly fetchable background URL (null for drafts).
// @Tags templates
// @Produce  json
// @Param   code path string true "Event code"
// @Success 200 {object} TemplateSuccessResponse
// @Failure 404 {object} ErrorResponse "Unknown event code"
// @Router /events/{code}/template [get]
func (h *ApplicationHandler) GetTemplate(c *fiber.Ctx) error {
	fetched, err := h.Store.FetchTemplate(c.UserContext(), c.Params("code"))
	if err != nil {
		return h.respondError(c, err, "fetch template")
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fetched)
}

// PreviewTemplate godoc
// @Summary Resolve a template for a preview
// @Description Resolves the photo and text slots of an event template to pixels for a square viewport of the given size.
// @Tags templates
// @Produce  json
// @Param   code path string true "Event code"
// @Param   size query int false "Viewport edge in pixels" default(1080)
// @Success 200 {object} PreviewSuccessResponse
// @Failure 400 {object} ErrorResponse "Invalid size"
// @Failure 404 {object} ErrorResponse "Unknown event code"
// @Router /events/{code}/preview [get]
func (h *ApplicationHandler) PreviewTemplate(c *fiber.Ctx) error {
	size := c.QueryInt("size", int(models.ReferenceSize))
	if size < 1 || size > maxPreviewSize {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("size must be between 1 and %d", maxPreviewSize))
	}

	attendee := h.newAttendee()
	if _, err := attendee.LoadTemplate(c.UserContext(), c.Params("code")); err != nil {
		return h.respondError(c, err, "preview template")
	}
	layout, err := attendee.Preview(geometry.Square(float64(size)))
	if err != nil {
		return h.respondError(c, err, "preview template")
	}
	fetched, err := attendee.Template()
	if err != nil {
		return h.respondError(c, err, "preview template")
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, PreviewView{
		EventCode:     fetched.EventCode,
		Layout:        layout,
		BackgroundURL: optional(fetched.BackgroundURL),
	})
}

// ReplaceTemplate godoc
// @Summary Replace an event template
// @Description Stores a whole template document. Malformed or missing fields are replaced by defaults and reported in repairs.
// @Tags templates
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Event ID"
// @Param   template body models.Template true "Template document"
// @Success 200 {object} SavedTemplateSuccessResponse
// @Failure 400 {object} ErrorResponse "Malformed JSON or event id"
// @Failure 404 {object} ErrorResponse "Unknown event"
// @Failure 502 {object} ErrorResponse "Template could not be saved"
// @Router /events/{id}/template [put]
func (h *ApplicationHandler) ReplaceTemplate(c *fiber.Ctx) error {
	eventID, ok := h.eventID(c)
	if !ok {
		return nil
	}
	tpl, issues, err := models.DecodeTemplate(c.Body())
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Cannot parse template JSON: %v", err))
	}

	editor := session.NewEditor(h.Store, geometry.Square(tpl.ReferenceWidth()))
	issues = append(issues, editor.Load(tpl)...)
	if err := editor.Save(c.UserContext(), eventID); err != nil {
		return h.respondError(c, err, "replace template")
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, SavedTemplateView{
		EventID:  eventID,
		Template: editor.Serialize(),
		Repairs:  repairs(issues),
	})
}

// UpdateSlot godoc
// @Summary Move, resize or restyle a slot
// @Description Applies an edit made in the organizer's viewport to the photo or text slot and saves the template. Pixel values are converted to resolution-independent coordinates.
// @Tags templates
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Event ID"
// @Param   slot path string true "Slot" Enums(photo, text)
// @Param   edit body UpdateSlotRequest true "Slot edit"
// @Success 200 {object} SavedTemplateSuccessResponse
// @Failure 400 {object} ErrorResponse "Invalid edit"
// @Failure 404 {object} ErrorResponse "Unknown event"
// @Failure 502 {object} ErrorResponse "Template could not be saved"
// @Router /events/{id}/template/slots/{slot} [patch]
func (h *ApplicationHandler) UpdateSlot(c *fiber.Ctx) error {
	eventID, ok := h.eventID(c)
	if !ok {
		return nil
	}
	slot := session.SlotID(c.Params("slot"))
	if slot != session.SlotPhoto && slot != session.SlotText {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Unknown slot %q", slot))
	}
	req := new(UpdateSlotRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Cannot parse slot edit JSON: %v", err))
	}
	if err := h.Validate.Struct(req); err != nil {
		return utils.RespondWithErrors(c, fiber.StatusBadRequest, "Invalid slot edit", utils.FormatValidationErrors(err))
	}
	if slot == session.SlotPhoto && req.stylesText() {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Text styling applies to the text slot only")
	}
	if slot == session.SlotText && req.Shape != "" {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Shape applies to the photo slot only")
	}

	ev, err := h.Store.GetEvent(c.UserContext(), eventID)
	if err != nil {
		return h.respondError(c, err, "update slot")
	}
	viewport := geometry.Size{Width: req.ViewportWidth, Height: req.ViewportHeight}
	editor := session.NewEditor(h.Store, viewport)
	editor.Load(ev.Template)

	if req.movesSlot() {
		current, err := editor.SlotRect(slot)
		if err != nil {
			return h.respondError(c, err, "update slot")
		}
		center := geometry.Point{X: current.CenterX, Y: current.CenterY}
		size := geometry.Size{Width: current.Width, Height: current.Height}
		if req.CenterX != nil {
			center.X = *req.CenterX
		}
		if req.CenterY != nil {
			center.Y = *req.CenterY
		}
		if req.Width != nil {
			size.Width = *req.Width
		}
		if req.Height != nil {
			size.Height = *req.Height
		}
		if err := editor.UpdateSlot(slot, center, size); err != nil {
			return h.respondError(c, err, "update slot")
		}
	}
	if req.Shape != "" {
		if err := editor.SetShape(models.Shape(req.Shape)); err != nil {
			return h.respondError(c, err, "update slot")
		}
	}
	if req.Content != "" || req.Font != "" || req.Color != "" {
		if err := editor.SetText(req.Content, req.Font, req.Color); err != nil {
			return h.respondError(c, err, "update slot")
		}
	}
	if req.FontSizePx != nil {
		if err := editor.SetTextSize(*req.FontSizePx); err != nil {
			return h.respondError(c, err, "update slot")
		}
	}

	if editor.Dirty() {
		if err := editor.Save(c.UserContext(), eventID); err != nil {
			return h.respondError(c, err, "update slot")
		}
	}
	layout := editor.Layout()
	return utils.RespondWithJSON(c, fiber.StatusOK, SavedTemplateView{
		EventID:  eventID,
		Template: editor.Serialize(),
		Layout:   &layout,
	})
}

// UploadBackground godoc
// @Summary Upload an event background
// @Description Uploads the background image through the API and points the event template at it.
// @Tags templates
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "Event ID"
// @Param   file formData file true "Background image"
// @Success 200 {object} BackgroundSuccessResponse
// @Failure 400 {object} ErrorResponse "Missing file"
// @Failure 404 {object} ErrorResponse "Unknown event"
// @Failure 413 {object} ErrorResponse "File too large"
// @Failure 422 {object} ErrorResponse "File is not a readable image"
// @Failure 502 {object} ErrorResponse "Template could not be saved"
// @Router /events/{id}/background [post]
func (h *ApplicationHandler) UploadBackground(c *fiber.Ctx) error {
	eventID, ok := h.eventID(c)
	if !ok {
		return nil
	}
	file, ok := h.readUpload(c, "file")
	if !ok {
		return nil
	}
	if _, err := compositor.DecodeImage(bytes.NewReader(file.Data), compositor.AssetBackground); err != nil {
		return h.respondError(c, err, "upload background")
	}

	ctx := c.UserContext()
	ev, err := h.Store.GetEvent(ctx, eventID)
	if err != nil {
		return h.respondError(c, err, "upload background")
	}
	path, err := h.Store.UploadBackground(ctx, eventID, file.Filename, file.ContentType, file.Data)
	if err != nil {
		return h.respondError(c, err, "upload background")
	}

	editor := session.NewEditor(h.Store, geometry.Square(ev.Template.ReferenceWidth()))
	editor.Load(ev.Template)
	editor.SetBackground(path)
	if err := editor.Save(ctx, eventID); err != nil {
		return h.respondError(c, err, "upload background")
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, BackgroundView{
		EventID:        eventID,
		BackgroundPath: path,
		Template:       editor.Serialize(),
	})
}

// eventID parses the :id route param. On failure the response is already
// written.
func (h *ApplicationHandler) eventID(c *fiber.Ctx) (string, bool) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		_ = utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid event id")
		return "", false
	}
	return id.String(), true
}

// upload is one multipart file read into memory.
type upload struct {
	Data        []byte
	Filename    string
	ContentType string
}

// readUpload reads one multipart file. On failure the response is already
// written.
func (h *ApplicationHandler) readUpload(c *fiber.Ctx, field string) (upload, bool) {
	file, err := c.FormFile(field)
	if err != nil {
		_ = utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Error getting %s: %v", field, err))
		return upload{}, false
	}
	if file.Size > h.MaxUploadBytes {
		_ = utils.RespondWithError(c, fiber.StatusRequestEntityTooLarge, fmt.Sprintf("%s is larger than %d bytes", field, h.MaxUploadBytes))
		return upload{}, false
	}
	fh, err := file.Open()
	if err != nil {
		_ = utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Error opening %s: %v", field, err))
		return upload{}, false
	}
	defer fh.Close()
	data, err := io.ReadAll(io.LimitReader(fh, h.MaxUploadBytes))
	if err != nil {
		_ = utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Error reading %s: %v", field, err))
		return upload{}, false
	}
	contentType := file.Header.Get(fiber.HeaderContentType)
	if contentType == "" || contentType == fiber.MIMEOctetStream {
		contentType = http.DetectContentType(data)
	}
	return upload{Data: data, Filename: file.Filename, ContentType: contentType}, true
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func repairs(issues []models.ValidationError) []string {
	out := make([]string, 0, len(issues))
	for _, issue := range issues {
		out = append(out, issue.Error())
	}
	return out
}
