// Package faceclient talks to the face detection service. A detected face
// center is used as the focus of the photo cover crop.
package faceclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"vibraframe/internal/geometry"
)

const detectPath = "/detect-face"

// ErrDetection is returned when the service answered but could not process
// the image.
var ErrDetection = errors.New("face detection failed")

// Face is a detected face box. All values are fractions of the image size;
// X and Y are the face center.
type Face struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

type detectResponse struct {
	OK    bool   `json:"ok"`
	Found bool   `json:"found"`
	Face  *Face  `json:"face,omitempty"`
	Error string `json:"error,omitempty"`
}

// Client calls the face detection service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     logrus.FieldLogger
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, log logrus.FieldLogger) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Logger:     log,
	}
}

// Detect uploads an image and returns the most prominent face, if any.
func (c *Client) Detect(ctx context.Context, data []byte, filename string) (Face, bool, error) {
	body, contentType, err := multipartImage(data, filename)
	if err != nil {
		return Face{}, false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+detectPath, body)
	if err != nil {
		return Face{}, false, fmt.Errorf("create detect request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Face{}, false, fmt.Errorf("call face service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Face{}, false, fmt.Errorf("face service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Face{}, false, fmt.Errorf("decode face response: %w", err)
	}
	if !out.OK {
		return Face{}, false, fmt.Errorf("%w: %s", ErrDetection, out.Error)
	}
	if !out.Found || out.Face == nil {
		return Face{}, false, nil
	}
	return *out.Face, true, nil
}

// FindFocus returns the face center as a normalized point, or nil when no
// face was found.
func (c *Client) FindFocus(ctx context.Context, data []byte, filename string) (*geometry.Point, error) {
	face, found, err := c.Detect(ctx, data, filename)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	if c.Logger != nil {
		c.Logger.WithFields(logrus.Fields{"x": face.X, "y": face.Y}).Debug("Face found")
	}
	return &geometry.Point{X: geometry.Clamp01(face.X), Y: geometry.Clamp01(face.Y)}, nil
}

// multipartImage builds a form with a single "file" part. The part carries
// the sniffed image type since the service rejects non-image parts.
func multipartImage(data []byte, filename string) (io.Reader, string, error) {
	if filename == "" {
		filename = "photo"
	}
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", http.DetectContentType(data))
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create form part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("write form part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
