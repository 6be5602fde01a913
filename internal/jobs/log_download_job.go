package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"vibraframe/models"
)

// recordTimeout bounds a single download-log write.
const recordTimeout = 10 * time.Second

// DownloadRecorder persists download telemetry.
type DownloadRecorder interface {
	RecordDownload(ctx context.Context, ev models.DownloadEvent) error
}

// LogDownloadJob records one generated poster. Failures are logged and
// otherwise ignored: the telemetry is not worth failing a download over.
type LogDownloadJob struct {
	JobID    string
	Event    models.DownloadEvent
	recorder DownloadRecorder
	log      logrus.FieldLogger
}

// NewLogDownloadJob creates a new LogDownloadJob.
func NewLogDownloadJob(jobID string, recorder DownloadRecorder, ev models.DownloadEvent, log logrus.FieldLogger) *LogDownloadJob {
	return &LogDownloadJob{JobID: jobID, Event: ev, recorder: recorder, log: log}
}

// ID returns the unique identifier of the job.
func (j *LogDownloadJob) ID() string {
	return j.JobID
}

// Execute writes the record with its own deadline.
func (j *LogDownloadJob) Execute() error {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if err := j.recorder.RecordDownload(ctx, j.Event); err != nil {
		j.log.WithFields(logrus.Fields{
			"event_id":   j.Event.EventID,
			"event_code": j.Event.EventCode,
		}).WithError(err).Debug("Download log dropped")
		return fmt.Errorf("LogDownloadJob %s failed: %w", j.JobID, err)
	}
	return nil
}
