// Command render composes a poster from a template file without a server.
//
//	render -template t.json -background bg.png -photo me.jpg -name "Ada" -out poster.jpg
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"vibraframe/config"
	"vibraframe/internal/compositor"
	"vibraframe/internal/faceclient"
	"vibraframe/internal/geometry"
	"vibraframe/internal/session"
	"vibraframe/models"
)

const localCode = "LOCAL"

// fileFetcher serves one template read from disk.
type fileFetcher struct {
	fetched models.FetchedTemplate
}

func (f fileFetcher) FetchTemplate(context.Context, string) (models.FetchedTemplate, error) {
	return f.fetched, nil
}

func main() {
	var (
		templatePath = flag.String("template", "", "template JSON file (defaults when empty)")
		background   = flag.String("background", "", "background image path or URL (overrides the template)")
		photo        = flag.String("photo", "", "attendee photo path")
		name         = flag.String("name", "", "attendee name")
		out          = flag.String("out", "poster.jpg", "output JPEG path")
		fontDir      = flag.String("fonts", "", "directory of extra .ttf/.otf fonts")
		faceURL      = flag.String("face-url", "", "face detection service base URL")
		quality      = flag.Int("quality", compositor.DefaultQuality, "JPEG quality")
		uppercase    = flag.Bool("uppercase", false, "render the name in upper case")
		watermark    = flag.String("watermark", "", "watermark badge text")
		preview      = flag.Int("preview", 0, "print the layout for a square viewport of this size instead of rendering")
		logLevel     = flag.String("log-level", "info", "log level")
	)
	flag.Parse()
	log := config.NewLogger(*logLevel)

	if err := run(log, options{
		templatePath: *templatePath,
		background:   *background,
		photo:        *photo,
		name:         *name,
		out:          *out,
		fontDir:      *fontDir,
		faceURL:      *faceURL,
		quality:      *quality,
		uppercase:    *uppercase,
		watermark:    *watermark,
		preview:      *preview,
	}); err != nil {
		log.WithError(err).Fatal("Render failed")
	}
}

type options struct {
	templatePath, background, photo, name, out string
	fontDir, faceURL, watermark                string
	quality, preview                           int
	uppercase                                  bool
}

func run(log *logrus.Logger, opts options) error {
	tpl := models.DefaultTemplate()
	if opts.templatePath != "" {
		data, err := os.ReadFile(opts.templatePath)
		if err != nil {
			return fmt.Errorf("read template: %w", err)
		}
		var issues []models.ValidationError
		tpl, issues, err = models.DecodeTemplate(data)
		if err != nil {
			return fmt.Errorf("decode template: %w", err)
		}
		for _, issue := range issues {
			log.WithError(issue).Warn("Template repaired")
		}
	}
	if opts.background != "" {
		tpl.Background.URL = opts.background
	}

	fonts, err := compositor.NewFontRegistry()
	if err != nil {
		return err
	}
	if opts.fontDir != "" {
		if _, err := fonts.LoadDir(opts.fontDir); err != nil {
			return err
		}
	}
	cfg := session.AttendeeConfig{
		Compositor: compositor.New(fonts, compositor.Options{Quality: opts.quality, UppercaseText: opts.uppercase}),
		Fetcher: fileFetcher{fetched: models.FetchedTemplate{
			EventCode:     localCode,
			Template:      tpl,
			BackgroundURL: tpl.Background.URL,
		}},
		Watermark: opts.watermark,
		Logger:    log,
	}
	if opts.faceURL != "" {
		cfg.Focus = faceclient.NewClient(opts.faceURL, log)
	}
	attendee := session.NewAttendee(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if _, err := attendee.LoadTemplate(ctx, localCode); err != nil {
		return err
	}

	if opts.preview > 0 {
		layout, err := attendee.Preview(geometry.Square(float64(opts.preview)))
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(layout)
	}

	if opts.photo == "" {
		return session.ErrPhotoRequired
	}
	attendee.SetName(opts.name)
	attendee.SetPhoto(session.FileSource{Path: opts.photo})
	poster, err := attendee.Generate(ctx)
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.out, poster, 0o644); err != nil {
		return fmt.Errorf("write poster: %w", err)
	}
	log.WithFields(logrus.Fields{"out": opts.out, "bytes": len(poster)}).Info("Poster written")
	return nil
}
