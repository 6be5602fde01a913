// Package analytics records which posters were generated. Every recorder is
// best effort: callers log failures and move on.
package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	postgrest "github.com/supabase-community/postgrest-go"

	"vibraframe/models"
)

const downloadsTable = "downloads"

// downloadRow maps to the downloads table.
type downloadRow struct {
	EventID   string    `json:"event_id"`
	EventCode string    `json:"event_code"`
	CreatedAt time.Time `json:"created_at"`
}

func rowFor(ev models.DownloadEvent) downloadRow {
	createdAt := ev.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return downloadRow{EventID: ev.EventID, EventCode: ev.EventCode, CreatedAt: createdAt}
}

// PostgRESTRecorder inserts download rows through a PostgREST endpoint.
type PostgRESTRecorder struct {
	client *postgrest.Client
}

// NewPostgRESTRecorder creates a recorder for a Supabase project.
func NewPostgRESTRecorder(supabaseURL, serviceKey string) (*PostgRESTRecorder, error) {
	if supabaseURL == "" || serviceKey == "" {
		return nil, fmt.Errorf("supabase url and service key are required")
	}
	client := postgrest.NewClient(supabaseURL+"/rest/v1", "", map[string]string{
		"apikey":        serviceKey,
		"Authorization": fmt.Sprintf("Bearer %s", serviceKey),
	})
	if client.ClientError != nil {
		return nil, fmt.Errorf("failed to initialize postgrest client: %w", client.ClientError)
	}
	return &PostgRESTRecorder{client: client}, nil
}

// RecordDownload inserts one download row.
func (r *PostgRESTRecorder) RecordDownload(ctx context.Context, ev models.DownloadEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, _, err := r.client.From(downloadsTable).Insert(rowFor(ev), false, "", "minimal", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to insert download record: %w", err)
	}
	return nil
}

// SQLiteRecorder writes download rows to the local database. The downloads
// table is created by the sqlite store migrations.
type SQLiteRecorder struct {
	db *sql.DB
}

// NewSQLiteRecorder creates a recorder on an open database handle.
func NewSQLiteRecorder(db *sql.DB) *SQLiteRecorder {
	return &SQLiteRecorder{db: db}
}

// RecordDownload inserts one download row.
func (r *SQLiteRecorder) RecordDownload(ctx context.Context, ev models.DownloadEvent) error {
	row := rowFor(ev)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO downloads (event_id, event_code, created_at) VALUES (?, ?, ?)`,
		row.EventID, row.EventCode, row.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert download: %w", err)
	}
	return nil
}

// Noop discards every record.
type Noop struct{}

func (Noop) RecordDownload(context.Context, models.DownloadEvent) error { return nil }
