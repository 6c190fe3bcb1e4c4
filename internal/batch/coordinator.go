package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/batch-image-processor/internal/model"
)

// executor defines the interface for running a single job.
type executor interface {
	Execute(ctx context.Context, job model.Job) model.Outcome
}

// Coordinator fans a job list out across a bounded worker pool and
// folds the outcomes into a batch report. Jobs are independent; the
// only shared state is the report accumulator, owned by a single
// collector goroutine.
type Coordinator struct {
	executor executor
	workers  int
}

// NewCoordinator creates a Coordinator running at most workers jobs at
// once. A worker count below 1 is treated as 1; with one worker, jobs
// run strictly sequentially through the same pooled path.
func NewCoordinator(e executor, workers int) *Coordinator {
	if workers < 1 {
		workers = 1
	}
	return &Coordinator{executor: e, workers: workers}
}

// Run executes every job and returns the aggregate report. It returns
// only after each submitted job has produced exactly one outcome, so
// Processed+Errors in the report always equals len(jobs). Outcomes are
// folded in completion order; callers must not rely on that order.
//
// Per-image failures never abort the batch. Run itself fails only on a
// contract violation: transform parameters that should have been
// rejected by upstream validation.
func (c *Coordinator) Run(ctx context.Context, jobs []model.Job) (model.Report, error) {
	for _, job := range jobs {
		if err := job.Params.Validate(); err != nil {
			return model.Report{}, fmt.Errorf("invalid transform parameters: %w", err)
		}
	}

	start := time.Now()
	report := model.Report{BatchID: uuid.New()}

	outcomes := make(chan model.Outcome, len(jobs))

	// Fold outcomes as they arrive. A single collector owns the
	// report, so workers never touch shared state.
	var elapsedSum time.Duration
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for o := range outcomes {
			elapsedSum += o.Elapsed
			if o.Completed() {
				report.Processed++
				continue
			}
			report.Errors++
			report.Failures = append(report.Failures, *o.Failure)
			zlog.Logger.Warn().
				Str("path", o.Failure.Path).
				Str("kind", string(o.Failure.Kind)).
				Msg(o.Failure.Message)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for _, job := range jobs {
		g.Go(func() error {
			outcomes <- c.executor.Execute(gctx, job)
			return nil
		})
	}

	// Workers never return errors; Wait only provides the barrier.
	_ = g.Wait()
	close(outcomes)
	<-collected

	report.TotalTime = time.Since(start)
	if n := len(jobs); n > 0 {
		report.AveragePerImage = elapsedSum / time.Duration(n)
	}

	return report, nil
}
