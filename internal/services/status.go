package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/atomic"
)

type IngestionState string

const (
	StateIdle      IngestionState = "idle"
	StateRunning   IngestionState = "running"
	StateCompleted IngestionState = "completed"
	StateFailed    IngestionState = "failed"
)

var ErrIngestionRunning = errors.New("ingestion already running")

// Point-in-time view of the ingestion status.
type IngestionStatus struct {
	State      IngestionState
	StartedAt  *time.Time
	FinishedAt *time.Time
	Rows       int
	Error      string
}

// IngestFunc performs one complete ingestion and reports the number of stored rows.
type IngestFunc func(ctx context.Context) (int, error)

// IngestionRunner owns the ingestion status and serializes runs.
//
// Transitions are idle -> running -> completed|failed -> idle. Only the goroutine
// executing a run writes the status for that run; the trailing reset to idle is
// skipped if another run has started in the meantime. Runs are never cancelled
// once started.
type IngestionRunner struct {
	ingest     IngestFunc
	resetAfter time.Duration
	now        func() time.Time

	busy *atomic.Bool
	wg   sync.WaitGroup

	mu     sync.RWMutex
	status IngestionStatus
	gen    uint64
}

func NewIngestionRunner(ingest IngestFunc, resetAfter time.Duration) *IngestionRunner {
	return &IngestionRunner{
		ingest:     ingest,
		resetAfter: resetAfter,
		now:        time.Now,
		busy:       atomic.NewBool(false),
		status:     IngestionStatus{State: StateIdle},
	}
}

// Status returns a copy of the current status.
func (r *IngestionRunner) Status() IngestionStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

// Start launches a run in the background and returns immediately.
func (r *IngestionRunner) Start(ctx context.Context) error {
	gen, err := r.begin()
	if err != nil {
		return err
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		_, _ = r.execute(context.WithoutCancel(ctx), gen)
	}()

	return nil
}

// Run performs a run on the caller's goroutine and returns its result.
func (r *IngestionRunner) Run(ctx context.Context) (int, error) {
	gen, err := r.begin()
	if err != nil {
		return 0, err
	}
	return r.execute(context.WithoutCancel(ctx), gen)
}

// Wait blocks until background runs started with Start have finished.
func (r *IngestionRunner) Wait() {
	r.wg.Wait()
}

func (r *IngestionRunner) begin() (uint64, error) {
	if !r.busy.CompareAndSwap(false, true) {
		return 0, ErrIngestionRunning
	}

	started := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	r.status = IngestionStatus{State: StateRunning, StartedAt: &started}
	return r.gen, nil
}

func (r *IngestionRunner) execute(ctx context.Context, gen uint64) (int, error) {
	n, err := r.ingest(ctx)
	finished := r.now()

	r.mu.Lock()
	st := IngestionStatus{
		State:      StateCompleted,
		StartedAt:  r.status.StartedAt,
		FinishedAt: &finished,
		Rows:       n,
	}
	if err != nil {
		st.State = StateFailed
		st.Rows = 0
		st.Error = err.Error()
	}
	r.status = st
	r.mu.Unlock()

	r.busy.Store(false)

	if r.resetAfter > 0 {
		time.AfterFunc(r.resetAfter, func() { r.resetIdle(gen) })
	}

	return n, err
}

func (r *IngestionRunner) resetIdle(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.gen != gen || r.status.State == StateRunning {
		return
	}
	r.status = IngestionStatus{State: StateIdle}
}
