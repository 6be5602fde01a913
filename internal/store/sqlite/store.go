// Package sqlite provides a self-contained event store: templates in a
// SQLite file, backgrounds in a local asset directory.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"vibraframe/internal/store"
	"vibraframe/internal/store/sqlite/migrations"
	"vibraframe/models"
)

// maxCodeAttempts bounds retries on event code collisions.
const maxCodeAttempts = 5

// Store persists events in SQLite.
type Store struct {
	sqlDB    *sql.DB
	assetDir string
	log      logrus.FieldLogger
}

var _ store.Store = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the database at path, applies migrations and stores uploaded
// backgrounds under assetDir.
func Open(ctx context.Context, path, assetDir string, log logrus.FieldLogger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if strings.TrimSpace(assetDir) == "" {
		return nil, fmt.Errorf("asset dir is required")
	}
	assetDir, err := filepath.Abs(assetDir)
	if err != nil {
		return nil, fmt.Errorf("resolve asset dir: %w", err)
	}
	if err := os.MkdirAll(assetDir, 0o755); err != nil {
		return nil, fmt.Errorf("create asset dir: %w", err)
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store{sqlDB: sqlDB, assetDir: assetDir, log: log}, nil
}

// DB exposes the handle so download analytics can share the database.
func (s *Store) DB() *sql.DB {
	return s.sqlDB
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// CreateEvent inserts a draft event with the default template.
func (s *Store) CreateEvent(ctx context.Context, name string) (models.Event, error) {
	tpl, err := json.Marshal(models.DefaultTemplate())
	if err != nil {
		return models.Event{}, fmt.Errorf("marshal template: %w", err)
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	ev := models.Event{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Template:  models.DefaultTemplate(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		ev.Code = store.NewEventCode()
		_, err = s.sqlDB.ExecContext(ctx,
			`INSERT INTO events (id, code, name, template, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
			ev.ID.String(), ev.Code, ev.Name, string(tpl), toMillis(now), toMillis(now),
		)
		if err == nil {
			return ev, nil
		}
		if !isUniqueViolation(err) {
			return models.Event{}, fmt.Errorf("create event: %w", err)
		}
	}
	return models.Event{}, fmt.Errorf("create event: no free event code after %d attempts: %w", maxCodeAttempts, err)
}

// GetEvent returns one event by id.
func (s *Store) GetEvent(ctx context.Context, eventID string) (models.Event, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, code, name, template, created_at, updated_at FROM events WHERE id = ?`, eventID)
	return s.scanEvent(row)
}

// FetchTemplate resolves an event code to its template.
func (s *Store) FetchTemplate(ctx context.Context, eventCode string) (models.FetchedTemplate, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, code, name, template, created_at, updated_at FROM events WHERE code = ?`, store.NormalizeCode(eventCode))
	ev, err := s.scanEvent(row)
	if err != nil {
		return models.FetchedTemplate{}, err
	}
	out := models.FetchedTemplate{
		EventID:   ev.ID.String(),
		EventCode: ev.Code,
		Template:  ev.Template,
	}
	if ev.Template.HasBackground() {
		u, err := s.resolve(ev.Template.Background.URL)
		if err != nil {
			return models.FetchedTemplate{}, err
		}
		out.BackgroundURL = u
	}
	return out, nil
}

// SaveTemplate replaces the stored template.
func (s *Store) SaveTemplate(ctx context.Context, eventID string, t models.Template) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal template: %w", err)
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE events SET template = ?, updated_at = ? WHERE id = ?`,
		string(data), toMillis(time.Now()), eventID,
	)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	if n == 0 {
		return models.ErrEventNotFound
	}
	return nil
}

// UploadBackground writes the image under the asset directory.
func (s *Store) UploadBackground(ctx context.Context, eventID, filename, _ string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := s.GetEvent(ctx, eventID); err != nil {
		return "", err
	}
	rel := store.BackgroundPath(eventID, filename)
	full := filepath.Join(s.assetDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create background dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write background: %w", err)
	}
	return rel, nil
}

// resolve turns a storage path into a file URL inside the asset directory.
func (s *Store) resolve(background string) (string, error) {
	if !models.ValidStoragePath(background) {
		return "", fmt.Errorf("%w: %q", store.ErrInvalidBackgroundPath, background)
	}
	full := filepath.Join(s.assetDir, filepath.FromSlash(background))
	rel, err := filepath.Rel(s.assetDir, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", store.ErrInvalidBackgroundPath, background)
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(full)}).String(), nil
}

func (s *Store) scanEvent(row *sql.Row) (models.Event, error) {
	var (
		id, code, name, tpl  string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&id, &code, &name, &tpl, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Event{}, models.ErrEventNotFound
		}
		return models.Event{}, fmt.Errorf("scan event: %w", err)
	}
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return models.Event{}, fmt.Errorf("parse event id %q: %w", id, err)
	}
	t, issues, err := models.DecodeTemplate([]byte(tpl))
	if err != nil {
		return models.Event{}, fmt.Errorf("decode template of event %s: %w", id, err)
	}
	for _, issue := range issues {
		s.log.WithField("event_id", id).WithError(issue).Warn("Stored template repaired")
	}
	return models.Event{
		ID:        parsedID,
		Code:      code,
		Name:      name,
		Template:  t,
		CreatedAt: fromMillis(createdAt),
		UpdatedAt: fromMillis(updatedAt),
	}, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
