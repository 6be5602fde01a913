// Package store defines event persistence. Implementations live in the
// sqlite and supastore subpackages.
package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"vibraframe/models"
)

// Store persists events, their templates and their background images.
type Store interface {
	// FetchTemplate resolves an event code. The background URL of the
	// result is directly fetchable, or empty for drafts.
	FetchTemplate(ctx context.Context, eventCode string) (models.FetchedTemplate, error)
	// SaveTemplate replaces the whole template document of an event.
	SaveTemplate(ctx context.Context, eventID string, t models.Template) error
	// CreateEvent stores a draft event with the default template.
	CreateEvent(ctx context.Context, name string) (models.Event, error)
	GetEvent(ctx context.Context, eventID string) (models.Event, error)
	// UploadBackground stores an image and returns the storage path to put
	// in the template.
	UploadBackground(ctx context.Context, eventID, filename, contentType string, data []byte) (string, error)
}

// codeAlphabet leaves out characters that are easy to confuse when read
// from a printed poster.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CodeLength is the length of generated event codes.
const CodeLength = 6

// NewEventCode returns a random short code attendees type in.
func NewEventCode() string {
	id := uuid.New()
	code := make([]byte, CodeLength)
	for i := range code {
		code[i] = codeAlphabet[int(id[i])%len(codeAlphabet)]
	}
	return string(code)
}

// NormalizeCode canonicalizes user-typed codes.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// BackgroundPath is the storage path of a newly uploaded background.
func BackgroundPath(eventID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif", ".bmp", ".tif", ".tiff":
	default:
		ext = ".jpg"
	}
	return fmt.Sprintf("events/%s/background-%s%s", eventID, uuid.NewString()[:8], ext)
}

// ErrInvalidBackgroundPath is returned when a stored background is not a
// relative path inside the store's own storage.
var ErrInvalidBackgroundPath = errors.New("invalid background storage path")
