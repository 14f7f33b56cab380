// Package solver schedules batches of instances concurrently and checks every
// computed schedule before handing it to the reporting layer.
package solver

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wmbr/proc-opt/internal/adapter/instance"
	"github.com/wmbr/proc-opt/internal/shared"
	"github.com/wmbr/proc-opt/pkg/jobs"
	"github.com/wmbr/proc-opt/pkg/schrage"
)

// Algorithm selects which schedulers run on every instance.
type Algorithm string

const (
	Schrage    Algorithm = "schrage"
	Preemptive Algorithm = "preemptive"
	All        Algorithm = "all"
)

func (a Algorithm) runsSchrage() bool    { return a == Schrage || a == All }
func (a Algorithm) runsPreemptive() bool { return a == Preemptive || a == All }

// SequenceResult is the outcome of the non-preemptive scheduler.
type SequenceResult struct {
	Order    jobs.JobList
	Makespan uint64
}

// ScheduleResult is the outcome of the preemptive scheduler.
type ScheduleResult struct {
	Schedule jobs.JobSchedule
	Makespan uint64
}

// Result holds everything computed for one instance. Schrage and Preemptive
// are nil when the algorithm was not selected.
type Result struct {
	Instance instance.Instance
	// Natural is the makespan of the jobs run in input order.
	Natural    uint64
	Schrage    *SequenceResult
	Preemptive *ScheduleResult
	Elapsed    time.Duration
}

// Pool solves batches of instances on a fixed number of goroutines.
type Pool struct {
	workers   int
	algorithm Algorithm
	log       *slog.Logger
}

// New creates a pool with the given worker count.
func New(workers int, algorithm Algorithm, log *slog.Logger) (*Pool, error) {
	if workers < 1 {
		return nil, shared.Validationf("workers must be positive, got %d", workers)
	}
	if !algorithm.runsSchrage() && !algorithm.runsPreemptive() {
		return nil, shared.Validationf("unknown algorithm %q", algorithm)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Pool{workers: workers, algorithm: algorithm, log: log}, nil
}

// Solve schedules every instance and returns the results in input order.
// The first failing instance or a canceled ctx aborts the batch.
func (p *Pool) Solve(ctx context.Context, insts []instance.Instance) ([]Result, error) {
	results := make([]Result, len(insts))
	g, ctx := errgroup.WithContext(ctx)

	tasks := make(chan int)
	g.Go(func() error {
		defer close(tasks)
		for i := range insts {
			select {
			case tasks <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < min(p.workers, max(len(insts), 1)); w++ {
		g.Go(func() error {
			for i := range tasks {
				if err := ctx.Err(); err != nil {
					return err
				}
				res, err := p.solve(insts[i])
				if err != nil {
					return shared.Wrapf(err, "solve %s", insts[i].Name)
				}
				results[i] = res
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if shared.IsInvariantViolated(err) {
			p.log.Error("schedule check failed", slog.Any("err", err))
		} else {
			p.log.Warn("batch aborted", slog.Any("err", err))
		}
		return nil, err
	}
	return results, nil
}

func (p *Pool) solve(inst instance.Instance) (Result, error) {
	start := time.Now()
	res := Result{
		Instance: inst,
		Natural:  inst.Jobs.Makespan(),
	}

	if p.algorithm.runsSchrage() {
		order := schrage.Schrage(inst.Jobs)
		if err := shared.InvariantF(len(order) == len(inst.Jobs),
			"schrage returned %d of %d jobs", len(order), len(inst.Jobs)); err != nil {
			return Result{}, err
		}
		res.Schrage = &SequenceResult{Order: order, Makespan: order.Makespan()}
	}

	if p.algorithm.runsPreemptive() {
		sched := schrage.SchragePreemptive(inst.Jobs)
		if err := sched.Validate(); err != nil {
			return Result{}, shared.MarkKind(err, shared.KindInvariantViolated)
		}
		res.Preemptive = &ScheduleResult{Schedule: sched, Makespan: sched.Makespan()}
	}

	if res.Schrage != nil && res.Preemptive != nil {
		if err := shared.InvariantF(res.Preemptive.Makespan <= res.Schrage.Makespan,
			"preemptive makespan %d exceeds schrage makespan %d",
			res.Preemptive.Makespan, res.Schrage.Makespan); err != nil {
			return Result{}, err
		}
	}

	res.Elapsed = time.Since(start)
	p.log.Debug("instance solved",
		slog.String("instance", inst.Name),
		slog.Int("jobs", len(inst.Jobs)),
		slog.Uint64("natural", res.Natural),
		slog.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}
