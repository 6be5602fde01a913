package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"vibraframe/internal/compositor"
	"vibraframe/internal/faceclient"
	"vibraframe/internal/geometry"
	"vibraframe/internal/jobs"
	"vibraframe/internal/session"
	"vibraframe/internal/store"
)

// FaceDetector defines the operations handlers expect from the face service
// client. *faceclient.Client satisfies it.
type FaceDetector interface {
	Detect(ctx context.Context, data []byte, filename string) (faceclient.Face, bool, error)
	FindFocus(ctx context.Context, data []byte, filename string) (*geometry.Point, error)
}

// ApplicationHandler holds shared dependencies for handlers.
type ApplicationHandler struct {
	Store      store.Store
	Compositor *compositor.Compositor
	// Dispatcher runs renders and download logging.
	Dispatcher session.Submitter
	Recorder   jobs.DownloadRecorder
	// Faces is optional; without it crops are centered.
	Faces      FaceDetector
	Logger     logrus.FieldLogger
	Validate   *validator.Validate
	HTTPClient *http.Client

	Watermark      string
	MaxUploadBytes int64
	RenderTimeout  time.Duration
}

// NewApplicationHandler creates a new ApplicationHandler with the given dependencies.
func NewApplicationHandler(st store.Store, comp *compositor.Compositor, dispatcher session.Submitter, logger logrus.FieldLogger) *ApplicationHandler {
	return &ApplicationHandler{
		Store:          st,
		Compositor:     comp,
		Dispatcher:     dispatcher,
		Logger:         logger,
		Validate:       validator.New(),
		HTTPClient:     &http.Client{Timeout: 30 * time.Second},
		MaxUploadBytes: session.DefaultMaxImageBytes,
		RenderTimeout:  60 * time.Second,
	}
}

// newAttendee builds a session for one poster request.
func (h *ApplicationHandler) newAttendee() *session.Attendee {
	cfg := session.AttendeeConfig{
		Compositor:    h.Compositor,
		Fetcher:       h.Store,
		Recorder:      h.Recorder,
		Submitter:     h.Dispatcher,
		HTTPClient:    h.HTTPClient,
		Watermark:     h.Watermark,
		MaxImageBytes: h.MaxUploadBytes,
		Logger:        h.Logger,
	}
	if h.Faces != nil {
		cfg.Focus = h.Faces
	}
	return session.NewAttendee(cfg)
}
