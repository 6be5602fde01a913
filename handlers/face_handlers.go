package handlers

import (
	"github.com/gofiber/fiber/v2"

	"vibraframe/internal/faceclient"
	"vibraframe/utils"
)

// FaceView is the detection result for one photo.
type FaceView struct {
	Found bool             `json:"found"`
	Face  *faceclient.Face `json:"face"`
}

// FaceSuccessResponse wraps a FaceView.
type FaceSuccessResponse struct {
	Status string   `json:"status"`
	Data   FaceView `json:"data"`
}

// DetectFace godoc
// @Summary Detect the face in a photo
// @Description Returns the center and size of the most prominent face as fractions of the image, which the poster crop is centered on.
// @Tags posters
// @Accept  multipart/form-data
// @Produce  json
// @Param   file formData file true "Photo"
// @Success 200 {object} FaceSuccessResponse
// @Failure 400 {object} ErrorResponse "Missing file"
// @Failure 413 {object} ErrorResponse "File too large"
// @Failure 502 {object} ErrorResponse "Face service failed"
// @Failure 503 {object} ErrorResponse "Face detection is not configured"
// @Router /detect-face [post]
func (h *ApplicationHandler) DetectFace(c *fiber.Ctx) error {
	if h.Faces == nil {
		return utils.RespondWithError(c, fiber.StatusServiceUnavailable, "Face detection is not configured")
	}
	file, ok := h.readUpload(c, "file")
	if !ok {
		return nil
	}
	face, found, err := h.Faces.Detect(c.UserContext(), file.Data, file.Filename)
	if err != nil {
		h.Logger.WithError(err).WithField("action", "detect face").Warn("Face service failed")
		return utils.RespondWithError(c, fiber.StatusBadGateway, "Face detection failed")
	}
	view := FaceView{Found: found}
	if found {
		view.Face = &face
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, view)
}
