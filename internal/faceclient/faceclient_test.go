package faceclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/detect-face" {
			http.NotFound(w, r)
			return
		}
		file, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		if ct := hdr.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
			http.Error(w, "File must be an image", http.StatusBadRequest)
			return
		}
		if hdr.Filename != "me.png" {
			http.Error(w, "unexpected filename "+hdr.Filename, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func quiet() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestDetectFound(t *testing.T) {
	t.Parallel()

	srv := newServer(t, http.StatusOK, `{"ok":true,"found":true,"face":{"x":0.3,"y":0.25,"w":0.2,"h":0.3}}`)
	c := NewClient(srv.URL+"/", quiet())

	face, found, err := c.Detect(context.Background(), pngHeader, "me.png")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if !found {
		t.Fatal("found = false, want true")
	}
	if diff := cmp.Diff(Face{X: 0.3, Y: 0.25, W: 0.2, H: 0.3}, face); diff != "" {
		t.Fatalf("face mismatch (-want +got):\n%s", diff)
	}
}

func TestDetectNotFound(t *testing.T) {
	t.Parallel()

	srv := newServer(t, http.StatusOK, `{"ok":true,"found":false}`)
	c := NewClient(srv.URL, quiet())

	p, err := c.FindFocus(context.Background(), pngHeader, "me.png")
	if err != nil {
		t.Fatalf("find focus: %v", err)
	}
	if p != nil {
		t.Fatalf("focus = %v, want nil", p)
	}
}

func TestDetectServiceError(t *testing.T) {
	t.Parallel()

	srv := newServer(t, http.StatusOK, `{"ok":false,"error":"cannot identify image file"}`)
	c := NewClient(srv.URL, quiet())

	_, _, err := c.Detect(context.Background(), pngHeader, "me.png")
	if !errors.Is(err, ErrDetection) {
		t.Fatalf("err = %v, want ErrDetection", err)
	}
}

func TestDetectHTTPError(t *testing.T) {
	t.Parallel()

	srv := newServer(t, http.StatusInternalServerError, `boom`)
	c := NewClient(srv.URL, quiet())

	if _, _, err := c.Detect(context.Background(), pngHeader, "me.png"); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestFindFocusClampsCenter(t *testing.T) {
	t.Parallel()

	srv := newServer(t, http.StatusOK, `{"ok":true,"found":true,"face":{"x":1.2,"y":0.4,"w":0.5,"h":0.5}}`)
	c := NewClient(srv.URL, quiet())

	p, err := c.FindFocus(context.Background(), pngHeader, "me.png")
	if err != nil {
		t.Fatalf("find focus: %v", err)
	}
	if p == nil || p.X != 1 || p.Y != 0.4 {
		t.Fatalf("focus = %+v, want (1, 0.4)", p)
	}
}
