package handlers

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"vibraframe/internal/jobs"
	"vibraframe/internal/session"
	"vibraframe/utils"
)

// GeneratePoster godoc
// @Summary Generate a personalized poster
// @Description Composites the attendee photo and name onto the event template and returns the JPEG at the template's reference resolution.
// @Tags posters
// @Accept  multipart/form-data
// @Produce  image/jpeg
// @Param   code path string true "Event code"
// @Param   photo formData file true "Attendee photo"
// @Param   name formData string false "Attendee name"
// @Success 200 {file} binary "Rendered poster"
// @Failure 400 {object} ErrorResponse "Missing photo"
// @Failure 404 {object} ErrorResponse "Unknown event code"
// @Failure 409 {object} ErrorResponse "Event has no background yet"
// @Failure 413 {object} ErrorResponse "Photo too large"
// @Failure 422 {object} ErrorResponse "Photo or background is not a readable image"
// @Failure 503 {object} ErrorResponse "Render queue is full"
// @Failure 504 {object} ErrorResponse "Render timed out"
// @Router /events/{code}/posters [post]
func (h *ApplicationHandler) GeneratePoster(c *fiber.Ctx) error {
	photo, ok := h.readUpload(c, "photo")
	if !ok {
		return nil
	}

	attendee := h.newAttendee()
	if _, err := attendee.LoadTemplate(c.UserContext(), c.Params("code")); err != nil {
		return h.respondError(c, err, "generate poster")
	}
	attendee.SetName(utils.SanitizeInput(c.FormValue("name")))
	attendee.SetPhoto(session.BytesSource{Data: photo.Data, Filename: photo.Filename})

	ctx, cancel := context.WithTimeout(c.UserContext(), h.RenderTimeout)
	defer cancel()

	jobID := uuid.NewString()
	job := jobs.NewRenderPosterJob(ctx, jobID, attendee.Generate)
	if err := h.Dispatcher.SubmitJob(job); err != nil {
		return h.respondError(c, err, "generate poster")
	}
	poster, err := job.Wait(ctx)
	if err != nil {
		return h.respondError(c, err, "generate poster")
	}

	fetched, err := attendee.Template()
	if err != nil {
		return h.respondError(c, err, "generate poster")
	}
	attendee.LogGeneration(fetched.EventID)
	h.Logger.WithField("event_code", fetched.EventCode).WithField("job_id", jobID).WithField("bytes", len(poster)).Info("Poster generated")

	c.Set(fiber.HeaderContentType, "image/jpeg")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="poster-%s.jpg"`, fetched.EventCode))
	return c.Status(fiber.StatusOK).Send(poster)
}
