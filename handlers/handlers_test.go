package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/sirupsen/logrus"

	"vibraframe/internal/compositor"
	"vibraframe/internal/faceclient"
	"vibraframe/internal/geometry"
	"vibraframe/internal/jobs"
	"vibraframe/internal/store/sqlite"
	"vibraframe/internal/worker"
	"vibraframe/models"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Errors  []string        `json:"errors"`
	Data    json.RawMessage `json:"data"`
}

type fakeFaces struct {
	face  faceclient.Face
	found bool
	err   error
}

func (f fakeFaces) Detect(context.Context, []byte, string) (faceclient.Face, bool, error) {
	return f.face, f.found, f.err
}

func (f fakeFaces) FindFocus(context.Context, []byte, string) (*geometry.Point, error) {
	if f.err != nil || !f.found {
		return nil, f.err
	}
	return &geometry.Point{X: f.face.X, Y: f.face.Y}, nil
}

type testServer struct {
	app     *fiber.App
	store   *sqlite.Store
	handler *ApplicationHandler
}

func newTestServer(t *testing.T, secret string) *testServer {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	dir := t.TempDir()
	st, err := sqlite.Open(context.Background(), filepath.Join(dir, "test.db"), filepath.Join(dir, "assets"), log)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	reg, err := compositor.NewFontRegistry()
	if err != nil {
		t.Fatalf("fonts: %v", err)
	}
	dispatcher := worker.NewDispatcher(2, 4, log)
	dispatcher.Run()
	t.Cleanup(dispatcher.Stop)

	h := NewApplicationHandler(st, compositor.New(reg, compositor.Options{}), dispatcher, log)
	app := fiber.New()
	h.RegisterRoutes(app, secret)
	return &testServer{app: app, store: st, handler: h}
}

func (s *testServer) do(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func (s *testServer) doJSON(t *testing.T, method, path string, payload interface{}) (int, envelope) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, raw := s.do(t, req)
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("%s %s: decode %q: %v", method, path, raw, err)
	}
	return resp.StatusCode, env
}

func (s *testServer) createEvent(t *testing.T) models.Event {
	t.Helper()
	status, env := s.doJSON(t, http.MethodPost, "/api/v1/events", CreateEventRequest{Name: "Launch Night"})
	if status != fiber.StatusCreated {
		t.Fatalf("create event status = %d (%s)", status, env.Message)
	}
	var ev models.Event
	if err := json.Unmarshal(env.Data, &ev); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	return ev
}

func multipartRequest(t *testing.T, path, field, filename string, data []byte, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(fiber.HeaderContentType, mw.FormDataContentType())
	return req
}

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestHealth(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, "")
	status, env := s.doJSON(t, http.MethodGet, "/health", nil)
	if status != fiber.StatusOK || env.Status != "ok" {
		t.Fatalf("health = %d %+v", status, env)
	}
}

func TestCreateEventValidation(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, "")
	status, env := s.doJSON(t, http.MethodPost, "/api/v1/events", CreateEventRequest{Name: "   "})
	if status != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
	if env.Status != "error" || len(env.Errors) == 0 {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestOrganizerRoutesRequireToken(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, "jwt-secret")
	status, _ := s.doJSON(t, http.MethodPost, "/api/v1/events", CreateEventRequest{Name: "Gala"})
	if status != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", status)
	}
	// Attendee routes stay public.
	status, _ = s.doJSON(t, http.MethodGet, "/api/v1/events/NOPE99/template", nil)
	if status != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
}

func TestGetTemplateOfDraft(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, "")
	ev := s.createEvent(t)

	status, env := s.doJSON(t, http.MethodGet, "/api/v1/events/"+strings.ToLower(ev.Code)+"/template", nil)
	if status != fiber.StatusOK {
		t.Fatalf("status = %d (%s)", status, env.Message)
	}
	var view struct {
		EventID       string          `json:"event_id"`
		EventCode     string          `json:"event_code"`
		Template      models.Template `json:"template"`
		BackgroundURL *string         `json:"background_resolved_url"`
	}
	if err := json.Unmarshal(env.Data, &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.EventID != ev.ID.String() || view.EventCode != ev.Code {
		t.Fatalf("identity = (%q, %q)", view.EventID, view.EventCode)
	}
	if view.BackgroundURL != nil {
		t.Fatalf("background url = %q, want null", *view.BackgroundURL)
	}
	if diff := cmp.Diff(models.DefaultTemplate(), view.Template); diff != "" {
		t.Fatalf("template mismatch (-want +got):\n%s", diff)
	}
}

func TestPreviewTemplate(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, "")
	ev := s.createEvent(t)

	status, env := s.doJSON(t, http.MethodGet, "/api/v1/events/"+ev.Code+"/preview?size=540", nil)
	if status != fiber.StatusOK {
		t.Fatalf("status = %d (%s)", status, env.Message)
	}
	var view PreviewView
	if err := json.Unmarshal(env.Data, &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := geometry.Resolve(models.DefaultTemplate(), geometry.Square(540))
	if diff := cmp.Diff(want, view.Layout, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("layout mismatch (-want +got):\n%s", diff)
	}
	if view.Layout.Photo.CenterX != 270 || view.Layout.Photo.Width != 150 {
		t.Fatalf("photo rect = %+v", view.Layout.Photo)
	}

	for _, size := range []string{"0", "5000"} {
		status, _ := s.doJSON(t, http.MethodGet, "/api/v1/events/"+ev.Code+"/preview?size="+size, nil)
		if status != fiber.StatusBadRequest {
			t.Fatalf("size %s: status = %d, want 400", size, status)
		}
	}
}

func TestUpdateSlot(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, "")
	ev := s.createEvent(t)
	path := "/api/v1/events/" + ev.ID.String() + "/template/slots/"

	cx := 135.0
	status, env := s.doJSON(t, http.MethodPatch, path+"photo", UpdateSlotRequest{
		ViewportWidth: 540, ViewportHeight: 540, CenterX: &cx, Shape: "square",
	})
	if status != fiber.StatusOK {
		t.Fatalf("status = %d (%s %v)", status, env.Message, env.Errors)
	}
	var view SavedTemplateView
	if err := json.Unmarshal(env.Data, &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.Template.Photo.X != 0.25 || view.Template.Photo.Y != models.DefaultPhotoY {
		t.Fatalf("photo center = (%v, %v)", view.Template.Photo.X, view.Template.Photo.Y)
	}
	if view.Template.Photo.Shape != models.ShapeSquare {
		t.Fatalf("shape = %q", view.Template.Photo.Shape)
	}
	if view.Layout == nil || view.Layout.Photo.CenterX != 135 {
		t.Fatalf("layout = %+v", view.Layout)
	}

	size := 24.0
	status, env = s.doJSON(t, http.MethodPatch, path+"text", UpdateSlotRequest{
		ViewportWidth: 540, ViewportHeight: 540, Content: "Guest", Color: "#112233", FontSizePx: &size,
	})
	if status != fiber.StatusOK {
		t.Fatalf("text status = %d (%s %v)", status, env.Message, env.Errors)
	}

	stored, err := s.store.GetEvent(context.Background(), ev.ID.String())
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if stored.Template.Photo.X != 0.25 || stored.Template.Text.Content != "Guest" || stored.Template.Text.Size != 48 {
		t.Fatalf("stored template = %+v", stored.Template)
	}
}

func TestUpdateSlotKeepsStoredCenterOnResize(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, "")
	ev := s.createEvent(t)
	tpl := ev.Template
	tpl.Photo.X, tpl.Photo.Y, tpl.Photo.Size = 0.02, 0.5, 300
	if err := s.store.SaveTemplate(context.Background(), ev.ID.String(), tpl); err != nil {
		t.Fatalf("save template: %v", err)
	}

	width := 200.0
	status, env := s.doJSON(t, http.MethodPatch, "/api/v1/events/"+ev.ID.String()+"/template/slots/photo", UpdateSlotRequest{
		ViewportWidth: 1080, ViewportHeight: 1080, Width: &width,
	})
	if status != fiber.StatusOK {
		t.Fatalf("status = %d (%s %v)", status, env.Message, env.Errors)
	}

	stored, err := s.store.GetEvent(context.Background(), ev.ID.String())
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	photo := stored.Template.Photo
	if math.Abs(photo.X-0.02) > 1e-9 || math.Abs(photo.Y-0.5) > 1e-9 {
		t.Fatalf("photo center = (%v, %v), want stored (0.02, 0.5)", photo.X, photo.Y)
	}
	if math.Abs(photo.Size-200) > 1e-9 {
		t.Fatalf("photo size = %v, want 200", photo.Size)
	}
}

func TestUpdateSlotRejectsBadRequests(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, "")
	ev := s.createEvent(t)
	base := "/api/v1/events/" + ev.ID.String() + "/template/slots/"

	cases := []struct {
		name string
		path string
		req  UpdateSlotRequest
		want int
	}{
		{"bad id", "/api/v1/events/not-a-uuid/template/slots/photo", UpdateSlotRequest{ViewportWidth: 1, ViewportHeight: 1}, fiber.StatusBadRequest},
		{"unknown slot", base + "sticker", UpdateSlotRequest{ViewportWidth: 1, ViewportHeight: 1}, fiber.StatusBadRequest},
		{"missing viewport", base + "photo", UpdateSlotRequest{}, fiber.StatusBadRequest},
		{"text style on photo", base + "photo", UpdateSlotRequest{ViewportWidth: 1, ViewportHeight: 1, Content: "x"}, fiber.StatusBadRequest},
		{"shape on text", base + "text", UpdateSlotRequest{ViewportWidth: 1, ViewportHeight: 1, Shape: "circle"}, fiber.StatusBadRequest},
		{"bad color", base + "text", UpdateSlotRequest{ViewportWidth: 1, ViewportHeight: 1, Color: "blurple"}, fiber.StatusBadRequest},
		{"unknown event", "/api/v1/events/00000000-0000-0000-0000-000000000000/template/slots/photo", UpdateSlotRequest{ViewportWidth: 1, ViewportHeight: 1}, fiber.StatusNotFound},
	}
	for _, tc := range cases {
		status, env := s.doJSON(t, http.MethodPatch, tc.path, tc.req)
		if status != tc.want {
			t.Errorf("%s: status = %d (%s), want %d", tc.name, status, env.Message, tc.want)
		}
	}
}

func TestReplaceTemplateReportsRepairs(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, "")
	ev := s.createEvent(t)

	raw := `{"photo":{"x":2,"y":0.5,"size":300,"shape":"circle"},"text":{"x":0.5,"y":0.9,"w":0.8,"h":0.1,"content":"Hi","font":"Poppins","color":"#000000","size":40}}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/events/"+ev.ID.String()+"/template", strings.NewReader(raw))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, body := s.do(t, req)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var view SavedTemplateView
	if err := json.Unmarshal(env.Data, &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.Template.Photo.X != 1 || view.Template.Text.Y != 0.9 {
		t.Fatalf("template = %+v", view.Template)
	}
	if len(view.Repairs) == 0 {
		t.Fatal("expected repairs for out-of-range photo.x")
	}

	req = httptest.NewRequest(http.MethodPut, "/api/v1/events/"+ev.ID.String()+"/template", strings.NewReader("{"))
	if resp, _ := s.do(t, req); resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("malformed status = %d, want 400", resp.StatusCode)
	}
}

func TestPosterFlow(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, "")
	ev := s.createEvent(t)
	photo := encodeJPEG(t, solid(64, 48, color.RGBA{R: 255, A: 255}))

	// Drafts cannot render.
	req := multipartRequest(t, "/api/v1/events/"+ev.Code+"/posters", "photo", "me.jpg", photo, map[string]string{"name": "Ada"})
	if resp, body := s.do(t, req); resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("draft status = %d: %s", resp.StatusCode, body)
	}

	// Not an image.
	req = multipartRequest(t, "/api/v1/events/"+ev.ID.String()+"/background", "file", "bg.png", []byte("nope"), nil)
	if resp, body := s.do(t, req); resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("bad background status = %d: %s", resp.StatusCode, body)
	}

	bg := encodePNG(t, solid(200, 200, color.RGBA{B: 255, A: 255}))
	req = multipartRequest(t, "/api/v1/events/"+ev.ID.String()+"/background", "file", "bg.png", bg, nil)
	resp, body := s.do(t, req)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("upload status = %d: %s", resp.StatusCode, body)
	}

	// Missing photo.
	req = multipartRequest(t, "/api/v1/events/"+ev.Code+"/posters", "", "", nil, map[string]string{"name": "Ada"})
	if resp, body := s.do(t, req); resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("missing photo status = %d: %s", resp.StatusCode, body)
	}

	req = multipartRequest(t, "/api/v1/events/"+ev.Code+"/posters", "photo", "me.jpg", photo, map[string]string{"name": "Ada"})
	resp, body = s.do(t, req)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("poster status = %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get(fiber.HeaderContentType); ct != "image/jpeg" {
		t.Fatalf("content type = %q", ct)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("decode poster: %v", err)
	}
	if cfg.Width != int(models.ReferenceSize) || cfg.Height != int(models.ReferenceSize) {
		t.Fatalf("poster size = %dx%d", cfg.Width, cfg.Height)
	}
}

func TestOversizedTemplateIsCappedAndRenders(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, "")
	ev := s.createEvent(t)
	base := "/api/v1/events/" + ev.ID.String()

	raw := `{"canvas":{"width":100000,"height":100000},"photo":{"x":0.5,"y":0.5,"size":10000000,"shape":"circle"}}`
	req := httptest.NewRequest(http.MethodPut, base+"/template", strings.NewReader(raw))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, body := s.do(t, req)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var view SavedTemplateView
	if err := json.Unmarshal(env.Data, &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.Template.Canvas.Width != models.MaxCanvasSize {
		t.Fatalf("canvas = %+v, want %v", view.Template.Canvas, models.MaxCanvasSize)
	}
	if view.Template.Photo.Size > view.Template.MaxSlotSize() {
		t.Fatalf("photo size = %v, over %v", view.Template.Photo.Size, view.Template.MaxSlotSize())
	}

	// A huge slot on the default canvas still renders.
	tpl := models.DefaultTemplate()
	tpl.Photo.Size = 1e7
	tpl, _ = tpl.Sanitize()
	if err := s.store.SaveTemplate(context.Background(), ev.ID.String(), tpl); err != nil {
		t.Fatalf("save template: %v", err)
	}
	bg := encodePNG(t, solid(64, 64, color.RGBA{B: 255, A: 255}))
	req = multipartRequest(t, base+"/background", "file", "bg.png", bg, nil)
	if resp, body := s.do(t, req); resp.StatusCode != fiber.StatusOK {
		t.Fatalf("upload status = %d: %s", resp.StatusCode, body)
	}
	photo := encodeJPEG(t, solid(32, 32, color.RGBA{R: 255, A: 255}))
	req = multipartRequest(t, "/api/v1/events/"+ev.Code+"/posters", "photo", "me.jpg", photo, map[string]string{"name": "Ada"})
	resp, body = s.do(t, req)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("poster status = %d: %s", resp.StatusCode, body)
	}
}

func TestBackgroundLoadErrorIsNotEchoed(t *testing.T) {
	t.Parallel()

	status, msg := statusFor(&compositor.ImageLoadError{
		Asset: compositor.AssetBackground,
		Err:   errors.New(`open /srv/assets/events/x/bg.png: no such file or directory`),
	})
	if status != fiber.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", status)
	}
	if strings.Contains(msg, "/srv/assets") {
		t.Fatalf("message %q leaks the load error", msg)
	}
}

func TestPosterPhotoTooLarge(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, "")
	s.handler.MaxUploadBytes = 16
	ev := s.createEvent(t)
	req := multipartRequest(t, "/api/v1/events/"+ev.Code+"/posters", "photo", "me.jpg", bytes.Repeat([]byte{1}, 64), nil)
	if resp, body := s.do(t, req); resp.StatusCode != fiber.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
}

func TestDetectFace(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, "")
	photo := encodePNG(t, solid(8, 8, color.White))

	req := multipartRequest(t, "/api/v1/detect-face", "file", "me.png", photo, nil)
	if resp, _ := s.do(t, req); resp.StatusCode != fiber.StatusServiceUnavailable {
		t.Fatalf("unconfigured status = %d, want 503", resp.StatusCode)
	}

	s.handler.Faces = fakeFaces{face: faceclient.Face{X: 0.4, Y: 0.3, W: 0.2, H: 0.25}, found: true}
	req = multipartRequest(t, "/api/v1/detect-face", "file", "me.png", photo, nil)
	resp, body := s.do(t, req)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var view FaceView
	if err := json.Unmarshal(env.Data, &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	want := FaceView{Found: true, Face: &faceclient.Face{X: 0.4, Y: 0.3, W: 0.2, H: 0.25}}
	if diff := cmp.Diff(want, view); diff != "" {
		t.Fatalf("face mismatch (-want +got):\n%s", diff)
	}

	s.handler.Faces = fakeFaces{err: errors.New("boom")}
	req = multipartRequest(t, "/api/v1/detect-face", "file", "me.png", photo, nil)
	if resp, _ := s.do(t, req); resp.StatusCode != fiber.StatusBadGateway {
		t.Fatalf("failing service status = %d, want 502", resp.StatusCode)
	}
}

func TestStatusFor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want int
	}{
		{models.ErrEventNotFound, fiber.StatusNotFound},
		{compositor.ErrMissingBackground, fiber.StatusConflict},
		{&compositor.ImageLoadError{Asset: compositor.AssetPhoto, Err: errors.New("bad")}, fiber.StatusUnprocessableEntity},
		{&models.SaveError{EventID: "e", Err: errors.New("down")}, fiber.StatusBadGateway},
		{worker.ErrQueueFull, fiber.StatusServiceUnavailable},
		{fmt.Errorf("RenderPosterJob r1: %w: nil map", jobs.ErrRenderPanic), fiber.StatusInternalServerError},
		{context.DeadlineExceeded, fiber.StatusGatewayTimeout},
		{errors.New("other"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got, _ := statusFor(tc.err); got != tc.want {
			t.Errorf("statusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
