package handlers

import (
	"github.com/gofiber/fiber/v2"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	"vibraframe/middleware"
)

// RegisterRoutes mounts the API on app. Organizer routes require a bearer
// token signed with jwtSecret; attendee routes are public.
func (h *ApplicationHandler) RegisterRoutes(app *fiber.App, jwtSecret string) {
	// Health check route
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "ok",
			"message": "VibraFrame API is healthy",
		})
	})
	app.Get("/swagger/*", fiberSwagger.WrapHandler)

	apiV1 := app.Group("/api/v1")

	// Attendee routes
	apiV1.Get("/events/:code/template", h.GetTemplate)
	apiV1.Get("/events/:code/preview", h.PreviewTemplate)
	apiV1.Post("/events/:code/posters", h.GeneratePoster)
	apiV1.Post("/detect-face", h.DetectFace)

	// Organizer routes
	auth := middleware.OrganizerAuth(jwtSecret)
	apiV1.Post("/events", auth, h.CreateEvent)
	apiV1.Put("/events/:id/template", auth, h.ReplaceTemplate)
	apiV1.Patch("/events/:id/template/slots/:slot", auth, h.UpdateSlot)
	apiV1.Post("/events/:id/background", auth, h.UploadBackground)
}
