package jobs

import (
	"context"
	"errors"
	"fmt"
)

// ErrRenderPanic is delivered when the render function panics.
var ErrRenderPanic = errors.New("render panicked")

// RenderFunc produces an encoded poster.
type RenderFunc func(ctx context.Context) ([]byte, error)

// RenderResult is delivered once per RenderPosterJob.
type RenderResult struct {
	Data []byte
	Err  error
}

// RenderPosterJob runs one poster render on a worker. The caller waits on
// Done; the channel is buffered so a worker never blocks on a caller that
// has gone away.
type RenderPosterJob struct {
	JobID  string
	ctx    context.Context
	render RenderFunc
	done   chan RenderResult
}

// NewRenderPosterJob creates a job that calls render with ctx.
func NewRenderPosterJob(ctx context.Context, jobID string, render RenderFunc) *RenderPosterJob {
	return &RenderPosterJob{
		JobID:  jobID,
		ctx:    ctx,
		render: render,
		done:   make(chan RenderResult, 1),
	}
}

// ID returns the unique identifier of the job.
func (j *RenderPosterJob) ID() string {
	return j.JobID
}

// Execute renders unless the requester already gave up. A panicking render
// still delivers a result so Wait does not block until its deadline.
func (j *RenderPosterJob) Execute() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("RenderPosterJob %s: %w: %v", j.JobID, ErrRenderPanic, r)
			j.done <- RenderResult{Err: err}
		}
	}()
	if err := j.ctx.Err(); err != nil {
		j.done <- RenderResult{Err: err}
		return err
	}
	data, err := j.render(j.ctx)
	j.done <- RenderResult{Data: data, Err: err}
	if err != nil {
		return fmt.Errorf("RenderPosterJob %s failed: %w", j.JobID, err)
	}
	return nil
}

// Wait blocks until the job has run or ctx is done.
func (j *RenderPosterJob) Wait(ctx context.Context) ([]byte, error) {
	select {
	case res := <-j.done:
		return res.Data, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
