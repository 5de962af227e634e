package async

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/joseph-ayodele/soilreport/constants"
	"github.com/joseph-ayodele/soilreport/internal/common"
	"github.com/joseph-ayodele/soilreport/internal/nutrient"
	processor "github.com/joseph-ayodele/soilreport/internal/pipeline"
)

type procFunc func(ctx context.Context, doc []byte) (processor.Result, error)

func (f procFunc) Process(ctx context.Context, doc []byte) (processor.Result, error) { return f(ctx, doc) }

func writeDoc(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestProcessorQueue_ProcessesEveryJob(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var (
		mu       sync.Mutex
		outcomes = map[string]Outcome{}
	)
	proc := procFunc(func(ctx context.Context, doc []byte) (processor.Result, error) {
		if common.RequestIDFromContext(ctx) == "" {
			return processor.Result{}, errors.New("missing request id")
		}
		if string(doc) == "bad" {
			return processor.Result{}, common.ExtractionFailed("nothing found", nil)
		}
		return processor.Result{Method: constants.MethodTable, Records: []nutrient.Record{{Name: string(doc)}}}, nil
	})
	q := NewProcessorQueue(proc, nil, WithWorkers(3), WithQueueSize(1), WithOutcome(func(o Outcome) {
		mu.Lock()
		defer mu.Unlock()
		outcomes[filepath.Base(o.Job.Path)] = o
	}))

	paths := []string{
		writeDoc(t, dir, "a.pdf", "Zinc"),
		writeDoc(t, dir, "b.pdf", "Iron"),
		writeDoc(t, dir, "c.pdf", "bad"),
		filepath.Join(dir, "missing.pdf"),
	}
	for _, p := range paths {
		if err := q.Enqueue(context.Background(), NewJob(p)); err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	if len(outcomes) != 4 {
		t.Fatalf("outcomes = %d, want 4", len(outcomes))
	}
	if o := outcomes["a.pdf"]; o.Err != nil || o.Result.Records[0].Name != "Zinc" {
		t.Errorf("a.pdf: %+v", o)
	}
	if k := common.KindOf(outcomes["c.pdf"].Err); k != common.KindExtractionFailed {
		t.Errorf("c.pdf kind = %q", k)
	}
	if k := common.KindOf(outcomes["missing.pdf"].Err); k != common.KindCollaboratorFailure {
		t.Errorf("missing.pdf kind = %q", k)
	}
}

func TestProcessorQueue_Timeout(t *testing.T) {
	t.Parallel()

	path := writeDoc(t, t.TempDir(), "slow.pdf", "x")
	var got Outcome
	proc := procFunc(func(ctx context.Context, _ []byte) (processor.Result, error) {
		<-ctx.Done()
		return processor.Result{}, ctx.Err()
	})
	q := NewProcessorQueue(proc, nil, WithWorkers(1), WithProcessTimeout(10*time.Millisecond),
		WithOutcome(func(o Outcome) { got = o }))
	if err := q.Enqueue(context.Background(), NewJob(path)); err != nil {
		t.Fatal(err)
	}
	q.Shutdown(context.Background())

	if !errors.Is(got.Err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", got.Err)
	}
}

func TestProcessorQueue_EnqueueAfterShutdown(t *testing.T) {
	t.Parallel()

	q := NewProcessorQueue(procFunc(func(context.Context, []byte) (processor.Result, error) {
		return processor.Result{}, nil
	}), nil)
	q.Shutdown(context.Background())
	q.Shutdown(context.Background()) // idempotent

	if err := q.Enqueue(context.Background(), NewJob("x.pdf")); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("err = %v, want ErrQueueClosed", err)
	}
}
