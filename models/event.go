package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event represents an event row. The template is stored as a JSON document.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Template  Template  `json:"template"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FetchedTemplate is what attendees receive for an event code. BackgroundURL
// is a time-limited, directly fetchable URL, empty for drafts. In JSON a
// draft's background_resolved_url is null.
type FetchedTemplate struct {
	EventID       string
	EventCode     string
	Template      Template
	BackgroundURL string
}

type fetchedTemplateJSON struct {
	EventID       string   `json:"event_id"`
	EventCode     string   `json:"event_code"`
	Template      Template `json:"template"`
	BackgroundURL *string  `json:"background_resolved_url"`
}

// MarshalJSON implements json.Marshaler.
func (f FetchedTemplate) MarshalJSON() ([]byte, error) {
	out := fetchedTemplateJSON{EventID: f.EventID, EventCode: f.EventCode, Template: f.Template}
	if f.BackgroundURL != "" {
		url := f.BackgroundURL
		out.BackgroundURL = &url
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *FetchedTemplate) UnmarshalJSON(data []byte) error {
	var in fetchedTemplateJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*f = FetchedTemplate{EventID: in.EventID, EventCode: in.EventCode, Template: in.Template}
	if in.BackgroundURL != nil {
		f.BackgroundURL = *in.BackgroundURL
	}
	return nil
}

// DownloadEvent is the telemetry record sent once per generated poster.
type DownloadEvent struct {
	EventID   string    `json:"event_id"`
	EventCode string    `json:"event_code"`
	CreatedAt time.Time `json:"created_at"`
}
