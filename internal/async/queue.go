package async

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	processor "github.com/joseph-ayodele/soilreport/internal/pipeline"
)

// ErrQueueClosed is returned by Enqueue after Shutdown.
var ErrQueueClosed = errors.New("queue is shutting down")

// Job is one report file waiting to be extracted.
type Job struct {
	ID          uuid.UUID
	Path        string
	SubmittedAt time.Time
}

func NewJob(path string) Job {
	return Job{ID: uuid.New(), Path: path, SubmittedAt: time.Now()}
}

// Outcome is delivered once per job, success or not.
type Outcome struct {
	Job    Job
	Result processor.Result
	Err    error
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}

// DocumentProcessor is satisfied by *processor.Processor.
type DocumentProcessor interface {
	Process(ctx context.Context, doc []byte) (processor.Result, error)
}
