package analytics

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"vibraframe/models"
)

func TestPostgRESTRecorderInsertsRow(t *testing.T) {
	t.Parallel()

	got := make(chan downloadRow, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/rest/v1/downloads" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("apikey") != "service-key" || r.Header.Get("Authorization") != "Bearer service-key" {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"code":"401","message":"bad key"}`)
			return
		}
		var row downloadRow
		if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"code":"400","message":"bad body"}`)
			return
		}
		got <- row
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	rec, err := NewPostgRESTRecorder(srv.URL, "service-key")
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	at := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	if err := rec.RecordDownload(context.Background(), models.DownloadEvent{EventID: "e1", EventCode: "ABC123", CreatedAt: at}); err != nil {
		t.Fatalf("record: %v", err)
	}

	row := <-got
	if row.EventID != "e1" || row.EventCode != "ABC123" || !row.CreatedAt.Equal(at) {
		t.Fatalf("row = %+v", row)
	}
}

func TestPostgRESTRecorderSurfacesErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"code":"23503","message":"event does not exist"}`)
	}))
	defer srv.Close()

	rec, err := NewPostgRESTRecorder(srv.URL, "k")
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	if err := rec.RecordDownload(context.Background(), models.DownloadEvent{EventID: "missing"}); err == nil {
		t.Fatal("expected error from rejected insert")
	}
}

func TestNewPostgRESTRecorderRequiresCredentials(t *testing.T) {
	t.Parallel()

	if _, err := NewPostgRESTRecorder("", ""); err == nil {
		t.Fatal("expected error without credentials")
	}
}

func TestSQLiteRecorder(t *testing.T) {
	t.Parallel()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "analytics.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if _, err := db.Exec(`CREATE TABLE downloads (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_id TEXT NOT NULL,
		event_code TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`); err != nil {
		t.Fatalf("create table: %v", err)
	}

	rec := NewSQLiteRecorder(db)
	for i := 0; i < 2; i++ {
		if err := rec.RecordDownload(context.Background(), models.DownloadEvent{EventID: "e1", EventCode: "ABC123"}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM downloads WHERE event_code = ?`, "ABC123").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("downloads = %d, want 2", n)
	}
}

func TestNoop(t *testing.T) {
	t.Parallel()

	if err := (Noop{}).RecordDownload(context.Background(), models.DownloadEvent{}); err != nil {
		t.Fatalf("noop: %v", err)
	}
}
