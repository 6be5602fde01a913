package jobs

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"vibraframe/models"
)

type recorderFunc func(context.Context, models.DownloadEvent) error

func (f recorderFunc) RecordDownload(ctx context.Context, ev models.DownloadEvent) error {
	return f(ctx, ev)
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestRenderPosterJobDeliversResult(t *testing.T) {
	t.Parallel()

	job := NewRenderPosterJob(context.Background(), "r1", func(context.Context) ([]byte, error) {
		return []byte("jpeg"), nil
	})
	if job.ID() != "r1" {
		t.Fatalf("id = %q", job.ID())
	}
	if err := job.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	data, err := job.Wait(context.Background())
	if err != nil || string(data) != "jpeg" {
		t.Fatalf("wait = (%q, %v)", data, err)
	}
}

func TestRenderPosterJobSkipsCanceledRequest(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	job := NewRenderPosterJob(ctx, "r2", func(context.Context) ([]byte, error) {
		called = true
		return nil, nil
	})
	if err := job.Execute(); !errors.Is(err, context.Canceled) {
		t.Fatalf("execute err = %v, want context.Canceled", err)
	}
	if called {
		t.Fatal("render ran for a canceled request")
	}
	if _, err := job.Wait(context.Background()); !errors.Is(err, context.Canceled) {
		t.Fatalf("wait err = %v, want context.Canceled", err)
	}
}

func TestRenderPosterJobWaitHonorsContext(t *testing.T) {
	t.Parallel()

	job := NewRenderPosterJob(context.Background(), "r3", func(context.Context) ([]byte, error) {
		return nil, nil
	})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := job.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("wait err = %v, want DeadlineExceeded", err)
	}
}

func TestLogDownloadJob(t *testing.T) {
	t.Parallel()

	ev := models.DownloadEvent{EventID: "e1", EventCode: "ABC234"}
	var got models.DownloadEvent
	job := NewLogDownloadJob("l1", recorderFunc(func(ctx context.Context, e models.DownloadEvent) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Error("record context has no deadline")
		}
		got = e
		return nil
	}), ev, quietLogger())
	if err := job.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got != ev {
		t.Fatalf("recorded %+v, want %+v", got, ev)
	}

	boom := errors.New("insert failed")
	job = NewLogDownloadJob("l2", recorderFunc(func(context.Context, models.DownloadEvent) error {
		return boom
	}), ev, quietLogger())
	if err := job.Execute(); !errors.Is(err, boom) {
		t.Fatalf("execute err = %v, want wrapped insert error", err)
	}
}

func TestRenderPosterJobRecoversPanic(t *testing.T) {
	t.Parallel()

	job := NewRenderPosterJob(context.Background(), "r4", func(context.Context) ([]byte, error) {
		var m map[string]int
		m["boom"]++
		return nil, nil
	})
	if err := job.Execute(); !errors.Is(err, ErrRenderPanic) {
		t.Fatalf("execute err = %v, want ErrRenderPanic", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := job.Wait(ctx); !errors.Is(err, ErrRenderPanic) {
		t.Fatalf("wait err = %v, want ErrRenderPanic", err)
	}
}
