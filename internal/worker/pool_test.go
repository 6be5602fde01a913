package worker

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type countingJob struct {
	id   string
	n    *atomic.Int32
	done *sync.WaitGroup
	err  error
}

func (j countingJob) Execute() error {
	defer j.done.Done()
	j.n.Add(1)
	return j.err
}

func (j countingJob) ID() string { return j.id }

type blockingJob struct {
	release chan struct{}
	started chan struct{}
}

func (j blockingJob) Execute() error {
	close(j.started)
	<-j.release
	return nil
}

func (j blockingJob) ID() string { return "blocking" }

func TestDispatcherRunsEveryJob(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(3, 20, quietLogger())
	d.Run()
	defer d.Stop()

	var n atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		var err error
		if i%5 == 0 {
			err = errors.New("boom")
		}
		if err := d.SubmitJob(countingJob{id: fmt.Sprint(i), n: &n, done: &wg, err: err}); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}

	waitOrFail(t, &wg)
	if got := n.Load(); got != 20 {
		t.Fatalf("executed %d jobs, want 20", got)
	}
}

func TestSubmitJobReportsFullQueue(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(1, 0, quietLogger())
	d.Run()
	defer d.Stop()

	job := blockingJob{release: make(chan struct{}), started: make(chan struct{})}
	// An unbuffered queue accepts a job only while the dispatch loop is
	// waiting for one.
	deadline := time.Now().Add(2 * time.Second)
	for d.SubmitJob(job) != nil {
		if time.Now().After(deadline) {
			t.Fatal("dispatcher never accepted the first job")
		}
		time.Sleep(time.Millisecond)
	}
	<-job.started

	// The only worker is busy and the dispatch loop will hold the next job
	// waiting for it, so the one after that cannot be queued.
	second := blockingJob{release: job.release, started: make(chan struct{})}
	for d.SubmitJob(second) != nil {
		if time.Now().After(deadline) {
			t.Fatal("dispatcher never accepted the second job")
		}
		time.Sleep(time.Millisecond)
	}
	var wg sync.WaitGroup
	var n atomic.Int32
	wg.Add(1)
	if err := d.SubmitJob(countingJob{id: "x", n: &n, done: &wg}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("err = %v, want ErrQueueFull", err)
	}
	close(job.release)
}

func TestSubmitAfterStop(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(1, 1, quietLogger())
	d.Run()
	d.Stop()
	d.Stop()

	var wg sync.WaitGroup
	var n atomic.Int32
	if err := d.SubmitJob(countingJob{id: "late", n: &n, done: &wg}); !errors.Is(err, ErrStopped) {
		t.Fatalf("err = %v, want ErrStopped", err)
	}
}

func waitOrFail(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for jobs")
	}
}
