package worker

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrQueueFull is returned by SubmitJob when the job queue has no room.
var ErrQueueFull = errors.New("job queue full")

// ErrStopped is returned by SubmitJob after Stop.
var ErrStopped = errors.New("dispatcher stopped")

// Job represents a unit of work to be executed, e.g. rendering one poster.
type Job interface {
	Execute() error // The method that performs the actual work
	ID() string     // A unique identifier for the job
}

// Worker pulls jobs from its own channel after registering that channel in
// the shared worker pool.
type Worker struct {
	ID         int
	WorkerPool chan chan Job
	JobChannel chan Job
	quit       <-chan struct{}
	wg         *sync.WaitGroup
	log        logrus.FieldLogger
}

// NewWorker creates a new Worker.
func NewWorker(id int, workerPool chan chan Job, quit <-chan struct{}, wg *sync.WaitGroup, log logrus.FieldLogger) Worker {
	return Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan Job),
		quit:       quit,
		wg:         wg,
		log:        log.WithField("worker", id),
	}
}

// Start makes the Worker listen for jobs on its JobChannel.
func (w Worker) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			// Register the current worker's JobChannel to the worker pool.
			select {
			case w.WorkerPool <- w.JobChannel:
			case <-w.quit:
				return
			}

			select {
			case job := <-w.JobChannel:
				w.run(job)
			case <-w.quit:
				return
			}
		}
	}()
}

func (w Worker) run(job Job) {
	entry := w.log.WithField("job_id", job.ID())
	defer func() {
		if r := recover(); r != nil {
			entry.WithField("panic", r).Error("Job panicked")
		}
	}()
	entry.Debug("Started job")
	if err := job.Execute(); err != nil {
		entry.WithError(err).Warn("Job failed")
		return
	}
	entry.Debug("Finished job")
}

// Dispatcher manages a pool of workers and dispatches jobs to them.
type Dispatcher struct {
	MaxWorkers int
	WorkerPool chan chan Job
	JobQueue   chan Job
	Workers    []Worker

	wg       sync.WaitGroup
	quit     chan struct{}
	stopOnce sync.Once
	mu       sync.RWMutex
	stopped  bool
	log      logrus.FieldLogger
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(maxWorkers int, jobQueueSize int, log logrus.FieldLogger) *Dispatcher {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if jobQueueSize < 0 {
		jobQueueSize = 0
	}
	return &Dispatcher{
		MaxWorkers: maxWorkers,
		WorkerPool: make(chan chan Job, maxWorkers),
		JobQueue:   make(chan Job, jobQueueSize),
		Workers:    make([]Worker, 0, maxWorkers),
		quit:       make(chan struct{}),
		log:        log.WithField("component", "dispatcher"),
	}
}

// Run starts the dispatcher and its workers.
func (d *Dispatcher) Run() {
	for i := 1; i <= d.MaxWorkers; i++ {
		worker := NewWorker(i, d.WorkerPool, d.quit, &d.wg, d.log)
		d.Workers = append(d.Workers, worker)
		worker.Start()
	}

	d.wg.Add(1)
	go d.dispatch()
	d.log.WithField("workers", d.MaxWorkers).Info("Dispatcher is running")
}

// dispatch listens to the JobQueue and hands jobs to available workers.
func (d *Dispatcher) dispatch() {
	defer d.wg.Done()
	for {
		select {
		case job := <-d.JobQueue:
			select {
			case jobChannel := <-d.WorkerPool:
				select {
				case jobChannel <- job:
				case <-d.quit:
					return
				}
			case <-d.quit:
				return
			}
		case <-d.quit:
			return
		}
	}
}

// SubmitJob queues a job without blocking.
func (d *Dispatcher) SubmitJob(job Job) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrStopped
	}
	select {
	case d.JobQueue <- job:
		return nil
	default:
		d.log.WithField("job_id", job.ID()).Warn("Job queue full")
		return ErrQueueFull
	}
}

// Stop shuts down the dispatcher and all its workers. Jobs already running
// finish; queued jobs that were not picked up are dropped.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		d.stopped = true
		d.mu.Unlock()

		close(d.quit)
		d.wg.Wait()
		d.log.Info("Dispatcher: shutdown complete")
	})
}
