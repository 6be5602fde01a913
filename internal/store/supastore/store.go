// Package supastore keeps events in a Supabase project: templates in the
// events table, backgrounds in a storage bucket served through signed URLs.
package supastore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	storage_go "github.com/supabase-community/storage-go"
	supa "github.com/supabase-community/supabase-go"

	"vibraframe/internal/store"
	"vibraframe/models"
)

const (
	eventsTable   = "events"
	eventColumns  = "id,code,name,template,created_at,updated_at"
	maxCodeTries  = 5
	defaultBucket = "backgrounds"
)

// eventRow maps to the events table. The template column is JSONB.
type eventRow struct {
	ID        string          `json:"id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Template  json.RawMessage `json:"template"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// newEventRow is the insert payload; timestamps are set by the database.
type newEventRow struct {
	ID       string          `json:"id"`
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Template json.RawMessage `json:"template"`
}

// Config configures a Store.
type Config struct {
	URL        string
	ServiceKey string
	Bucket     string
	// SignedURLTTL is how long resolved background URLs stay valid.
	SignedURLTTL time.Duration
}

// Store is a store.Store backed by Supabase.
type Store struct {
	client *supa.Client
	// uploads is a dedicated storage client: upload options are applied as
	// headers on the client itself, so uploads are serialized on uploadMu.
	uploads  *storage_go.Client
	uploadMu sync.Mutex
	bucket   string
	ttl      time.Duration
	log      logrus.FieldLogger
}

var _ store.Store = (*Store)(nil)

// New creates a Store with the service key.
func New(cfg Config, log logrus.FieldLogger) (*Store, error) {
	client, err := supa.NewClient(cfg.URL, cfg.ServiceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("initialize supabase client: %w", err)
	}
	if cfg.Bucket == "" {
		cfg.Bucket = defaultBucket
	}
	if cfg.SignedURLTTL <= 0 {
		cfg.SignedURLTTL = time.Hour
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	uploads := storage_go.NewClient(cfg.URL+supa.STORGAGE_URL, cfg.ServiceKey, map[string]string{
		"apikey": cfg.ServiceKey,
	})
	return &Store{
		client:  client,
		uploads: uploads,
		bucket:  cfg.Bucket,
		ttl:     cfg.SignedURLTTL,
		log:     log,
	}, nil
}

// CreateEvent inserts a draft event with the default template.
func (s *Store) CreateEvent(ctx context.Context, name string) (models.Event, error) {
	tpl, err := json.Marshal(models.DefaultTemplate())
	if err != nil {
		return models.Event{}, fmt.Errorf("marshal template: %w", err)
	}
	row := newEventRow{ID: uuid.NewString(), Name: strings.TrimSpace(name), Template: tpl}

	for attempt := 0; attempt < maxCodeTries; attempt++ {
		if err := ctx.Err(); err != nil {
			return models.Event{}, err
		}
		row.Code = store.NewEventCode()
		var created []eventRow
		_, err = s.client.From(eventsTable).Insert(row, false, "", "representation", "").ExecuteTo(&created)
		if err == nil {
			if len(created) == 0 {
				return models.Event{}, fmt.Errorf("no record returned after insert, event_id: %s", row.ID)
			}
			return s.toEvent(created[0])
		}
		// PostgREST reports unique violations with SQLSTATE 23505.
		if !strings.Contains(err.Error(), "23505") {
			return models.Event{}, fmt.Errorf("failed to insert event: %w", err)
		}
	}
	return models.Event{}, fmt.Errorf("failed to insert event: no free code after %d attempts: %w", maxCodeTries, err)
}

// GetEvent returns one event by id.
func (s *Store) GetEvent(ctx context.Context, eventID string) (models.Event, error) {
	row, err := s.selectOne(ctx, "id", eventID)
	if err != nil {
		return models.Event{}, err
	}
	return s.toEvent(row)
}

// FetchTemplate resolves an event code and signs the background URL.
func (s *Store) FetchTemplate(ctx context.Context, eventCode string) (models.FetchedTemplate, error) {
	row, err := s.selectOne(ctx, "code", store.NormalizeCode(eventCode))
	if err != nil {
		return models.FetchedTemplate{}, err
	}
	ev, err := s.toEvent(row)
	if err != nil {
		return models.FetchedTemplate{}, err
	}
	out := models.FetchedTemplate{
		EventID:   ev.ID.String(),
		EventCode: ev.Code,
		Template:  ev.Template,
	}
	if !ev.Template.HasBackground() {
		return out, nil
	}
	if !models.ValidStoragePath(ev.Template.Background.URL) {
		return models.FetchedTemplate{}, fmt.Errorf("%w: %q", store.ErrInvalidBackgroundPath, ev.Template.Background.URL)
	}
	signed, err := s.client.Storage.CreateSignedUrl(s.bucket, ev.Template.Background.URL, int(s.ttl.Seconds()))
	if err != nil {
		return models.FetchedTemplate{}, fmt.Errorf("sign background url: %w", err)
	}
	out.BackgroundURL = signed.SignedURL
	return out, nil
}

// SaveTemplate replaces the template document of an event.
func (s *Store) SaveTemplate(ctx context.Context, eventID string, t models.Template) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	update := map[string]interface{}{
		"template":   t,
		"updated_at": time.Now().UTC(),
	}
	var updated []eventRow
	_, err := s.client.From(eventsTable).Update(update, "representation", "").Eq("id", eventID).ExecuteTo(&updated)
	if err != nil {
		return fmt.Errorf("failed to update template for event %s: %w", eventID, err)
	}
	if len(updated) == 0 {
		return models.ErrEventNotFound
	}
	return nil
}

// UploadBackground pushes the image into the backgrounds bucket.
func (s *Store) UploadBackground(ctx context.Context, eventID, filename, contentType string, data []byte) (string, error) {
	if _, err := s.GetEvent(ctx, eventID); err != nil {
		return "", err
	}
	path := store.BackgroundPath(eventID, filename)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	upsert := true

	s.uploadMu.Lock()
	defer s.uploadMu.Unlock()
	_, err := s.uploads.UploadFile(s.bucket, path, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("upload background: %w", err)
	}
	s.log.WithFields(logrus.Fields{"event_id": eventID, "path": path, "bytes": len(data)}).Info("Background uploaded")
	return path, nil
}

func (s *Store) selectOne(ctx context.Context, column, value string) (eventRow, error) {
	if err := ctx.Err(); err != nil {
		return eventRow{}, err
	}
	var rows []eventRow
	_, err := s.client.From(eventsTable).Select(eventColumns, "", false).Eq(column, value).ExecuteTo(&rows)
	if err != nil {
		return eventRow{}, fmt.Errorf("fetch event by %s: %w", column, err)
	}
	if len(rows) == 0 {
		return eventRow{}, models.ErrEventNotFound
	}
	return rows[0], nil
}

func (s *Store) toEvent(row eventRow) (models.Event, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return models.Event{}, fmt.Errorf("parse event id %q: %w", row.ID, err)
	}
	t := models.DefaultTemplate()
	if len(row.Template) > 0 {
		var issues []models.ValidationError
		t, issues, err = models.DecodeTemplate(row.Template)
		if err != nil {
			return models.Event{}, fmt.Errorf("decode template of event %s: %w", row.ID, err)
		}
		for _, issue := range issues {
			s.log.WithField("event_id", row.ID).WithError(issue).Warn("Stored template repaired")
		}
	}
	return models.Event{
		ID:        id,
		Code:      row.Code,
		Name:      row.Name,
		Template:  t,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}
