package session

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"vibraframe/internal/compositor"
	"vibraframe/internal/geometry"
	"vibraframe/internal/jobs"
	"vibraframe/models"
)

// DefaultMaxImageBytes caps how much of one input image is read.
const DefaultMaxImageBytes = 20 << 20

// AttendeeConfig holds the collaborators of an Attendee session.
type AttendeeConfig struct {
	Compositor *compositor.Compositor
	Fetcher    TemplateFetcher
	// Recorder receives download telemetry; nil disables it.
	Recorder jobs.DownloadRecorder
	// Focus locates faces for the crop; nil always centers.
	Focus FocusFinder
	// Submitter runs telemetry jobs; nil spawns a goroutine per job.
	Submitter     Submitter
	HTTPClient    *http.Client
	Watermark     string
	MaxImageBytes int64
	Logger        logrus.FieldLogger
}

// Attendee is one attendee personalizing one event's poster. It never
// mutates the template. Generate follows last-request-wins: a call that has
// been overtaken by a newer call returns ErrSuperseded instead of its image.
type Attendee struct {
	cfg AttendeeConfig

	mu         sync.Mutex
	fetched    models.FetchedTemplate
	loaded     bool
	name       string
	photo      ImageSource
	generation uint64

	bgMu  sync.Mutex
	bgURL string
	bg    image.Image
}

// NewAttendee creates an empty session.
func NewAttendee(cfg AttendeeConfig) *Attendee {
	if cfg.Submitter == nil {
		cfg.Submitter = goSubmitter{}
	}
	if cfg.MaxImageBytes <= 0 {
		cfg.MaxImageBytes = DefaultMaxImageBytes
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	return &Attendee{cfg: cfg}
}

// LoadTemplate fetches the template for an event code.
func (a *Attendee) LoadTemplate(ctx context.Context, eventCode string) (models.Template, error) {
	fetched, err := a.cfg.Fetcher.FetchTemplate(ctx, eventCode)
	if err != nil {
		return models.Template{}, err
	}
	a.mu.Lock()
	a.fetched = fetched
	a.loaded = true
	a.mu.Unlock()
	return fetched.Template, nil
}

// Template returns the loaded template and its event identity.
func (a *Attendee) Template() (models.FetchedTemplate, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.loaded {
		return models.FetchedTemplate{}, ErrNoTemplate
	}
	return a.fetched, nil
}

// SetName sets the display name, trimmed and cut to the allowed length.
func (a *Attendee) SetName(name string) {
	a.mu.Lock()
	a.name = models.TruncateName(strings.TrimSpace(name))
	a.mu.Unlock()
}

// SetPhoto sets the attendee photo.
func (a *Attendee) SetPhoto(src ImageSource) {
	a.mu.Lock()
	a.photo = src
	a.mu.Unlock()
}

// Preview resolves the template for a live preview of the given size.
func (a *Attendee) Preview(viewport geometry.Size) (geometry.Layout, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.loaded {
		return geometry.Layout{}, ErrNoTemplate
	}
	return geometry.Resolve(a.fetched.Template, viewport), nil
}

// Generate renders the poster at the template's reference resolution.
func (a *Attendee) Generate(ctx context.Context) ([]byte, error) {
	a.mu.Lock()
	a.generation++
	token := a.generation
	loaded, fetched, name, photoSrc := a.loaded, a.fetched, a.name, a.photo
	a.mu.Unlock()

	if !loaded {
		return nil, ErrNoTemplate
	}
	tpl := fetched.Template
	if !tpl.HasBackground() || fetched.BackgroundURL == "" {
		return nil, compositor.ErrMissingBackground
	}
	if photoSrc == nil {
		return nil, ErrPhotoRequired
	}

	var (
		bg    image.Image
		photo image.Image
		focus *geometry.Point
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bg, err = a.background(gctx, fetched.BackgroundURL)
		return err
	})
	g.Go(func() error {
		data, err := a.readAll(gctx, photoSrc, compositor.AssetPhoto)
		if err != nil {
			return err
		}
		if photo, err = compositor.DecodeImage(bytes.NewReader(data), compositor.AssetPhoto); err != nil {
			return err
		}
		focus = a.findFocus(gctx, data, photoSrc.Name())
		return nil
	})
	if err := g.Wait(); err != nil {
		if !a.isCurrent(token) {
			return nil, ErrSuperseded
		}
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ref := tpl.ReferenceWidth()
	scene := compositor.NewScene(tpl, geometry.Square(ref), bg, photo, name)
	scene.Watermark = a.cfg.Watermark
	scene.Focus = focus
	data, err := a.cfg.Compositor.Render(scene)

	if !a.isCurrent(token) {
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// LogGeneration reports a successful generation. It never blocks and never
// fails: telemetry problems are logged and dropped.
func (a *Attendee) LogGeneration(eventID string) {
	if a.cfg.Recorder == nil {
		return
	}
	a.mu.Lock()
	code := a.fetched.EventCode
	a.mu.Unlock()

	job := jobs.NewLogDownloadJob(uuid.NewString(), a.cfg.Recorder, models.DownloadEvent{
		EventID:   eventID,
		EventCode: code,
	}, a.cfg.Logger)
	if err := a.cfg.Submitter.SubmitJob(job); err != nil {
		a.cfg.Logger.WithError(err).WithField("event_id", eventID).Debug("Download log not queued")
	}
}

func (a *Attendee) isCurrent(token uint64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.generation == token
}

// background loads and caches the decoded background for a resolved URL.
func (a *Attendee) background(ctx context.Context, url string) (image.Image, error) {
	a.bgMu.Lock()
	if a.bgURL == url && a.bg != nil {
		img := a.bg
		a.bgMu.Unlock()
		return img, nil
	}
	a.bgMu.Unlock()

	data, err := a.readAll(ctx, SourceForURL(url, a.cfg.HTTPClient), compositor.AssetBackground)
	if err != nil {
		return nil, err
	}
	img, err := compositor.DecodeImage(bytes.NewReader(data), compositor.AssetBackground)
	if err != nil {
		return nil, err
	}

	a.bgMu.Lock()
	a.bgURL, a.bg = url, img
	a.bgMu.Unlock()
	return img, nil
}

func (a *Attendee) readAll(ctx context.Context, src ImageSource, asset compositor.Asset) ([]byte, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, &compositor.ImageLoadError{Asset: asset, Err: err}
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, a.cfg.MaxImageBytes+1))
	if err != nil {
		return nil, &compositor.ImageLoadError{Asset: asset, Err: err}
	}
	if int64(len(data)) > a.cfg.MaxImageBytes {
		return nil, &compositor.ImageLoadError{Asset: asset, Err: fmt.Errorf("image larger than %d bytes", a.cfg.MaxImageBytes)}
	}
	return data, nil
}

func (a *Attendee) findFocus(ctx context.Context, data []byte, filename string) *geometry.Point {
	if a.cfg.Focus == nil {
		return nil
	}
	p, err := a.cfg.Focus.FindFocus(ctx, data, filename)
	if err != nil {
		a.cfg.Logger.WithError(err).Debug("Face focus unavailable, centering crop")
		return nil
	}
	return p
}
