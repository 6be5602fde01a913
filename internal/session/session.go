// Package session holds the two thin orchestrators around the coordinate
// model and the compositor: the organizer's Editor and the Attendee.
package session

import (
	"context"
	"errors"

	"vibraframe/internal/geometry"
	"vibraframe/internal/worker"
	"vibraframe/models"
)

var (
	// ErrNoTemplate is returned when an attendee acts before LoadTemplate.
	ErrNoTemplate = errors.New("no template loaded")
	// ErrPhotoRequired is returned by Generate when no photo was set.
	ErrPhotoRequired = errors.New("a photo is required")
	// ErrSuperseded is returned by a Generate call whose result was
	// overtaken by a newer Generate on the same session.
	ErrSuperseded = errors.New("generation superseded by a newer request")
	// ErrUnknownSlot is returned for a slot id other than photo or text.
	ErrUnknownSlot = errors.New("unknown slot")
	// ErrInvalidViewport is returned when pixel input arrives without a
	// usable viewport size.
	ErrInvalidViewport = errors.New("viewport size must be positive")
)

// TemplateFetcher resolves an event code to its template and a fetchable
// background URL.
type TemplateFetcher interface {
	FetchTemplate(ctx context.Context, eventCode string) (models.FetchedTemplate, error)
}

// TemplateSaver replaces the stored template of an event.
type TemplateSaver interface {
	SaveTemplate(ctx context.Context, eventID string, t models.Template) error
}

// FocusFinder locates the point of a photo the crop should keep, usually a
// face. A nil point means nothing was found.
type FocusFinder interface {
	FindFocus(ctx context.Context, data []byte, filename string) (*geometry.Point, error)
}

// Submitter runs fire-and-forget jobs. *worker.Dispatcher satisfies it.
type Submitter interface {
	SubmitJob(job worker.Job) error
}

type goSubmitter struct{}

func (goSubmitter) SubmitJob(job worker.Job) error {
	go job.Execute()
	return nil
}
