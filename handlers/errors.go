package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"vibraframe/internal/compositor"
	"vibraframe/internal/jobs"
	"vibraframe/internal/session"
	"vibraframe/internal/worker"
	"vibraframe/models"
	"vibraframe/utils"
)

// statusFor maps domain errors to HTTP statuses and client-safe messages.
func statusFor(err error) (int, string) {
	var (
		loadErr       *compositor.ImageLoadError
		encodeErr     *compositor.EncodeError
		saveErr       *models.SaveError
		validationErr models.ValidationError
	)
	switch {
	case errors.Is(err, models.ErrEventNotFound):
		return fiber.StatusNotFound, "Event not found"
	case errors.Is(err, compositor.ErrMissingBackground):
		return fiber.StatusConflict, "This event has no background yet"
	case errors.As(err, &loadErr):
		if loadErr.Asset == compositor.AssetPhoto {
			return fiber.StatusUnprocessableEntity, "The photo is not a readable image"
		}
		return fiber.StatusUnprocessableEntity, "The background image could not be loaded"
	case errors.Is(err, jobs.ErrRenderPanic):
		return fiber.StatusInternalServerError, "Could not render the poster"
	case errors.As(err, &encodeErr):
		return fiber.StatusInternalServerError, "Could not encode the poster"
	case errors.As(err, &saveErr):
		return fiber.StatusBadGateway, "Could not save the template"
	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest, validationErr.Error()
	case errors.Is(err, session.ErrPhotoRequired),
		errors.Is(err, session.ErrUnknownSlot),
		errors.Is(err, session.ErrInvalidViewport):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, worker.ErrQueueFull), errors.Is(err, worker.ErrStopped):
		return fiber.StatusServiceUnavailable, "Too many posters are being generated, try again shortly"
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout, "Poster generation timed out"
	default:
		return fiber.StatusInternalServerError, "Internal server error"
	}
}

// respondError logs err and sends the mapped error envelope.
func (h *ApplicationHandler) respondError(c *fiber.Ctx, err error, action string) error {
	status, msg := statusFor(err)
	entry := h.Logger.WithError(err).WithField("action", action)
	if status >= fiber.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}
	return utils.RespondWithError(c, status, msg)
}
