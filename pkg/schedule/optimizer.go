package schedule

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/limaJavier/lessonplanner/pkg/model"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Optimizer repeats independent assigner runs and keeps the one with the smallest workload spread
type Optimizer struct {
	params   Parameters
	seed     uint64
	logger   *zap.Logger
	parallel bool
	metrics  *Metrics
}

// NewOptimizer validates the parameters. Every run i draws its randomness from (seed, i), so equal seeds give
// equal results whether runs execute sequentially or in parallel
func NewOptimizer(params Parameters, seed uint64, logger *zap.Logger) (*Optimizer, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Optimizer{
		params: params,
		seed:   seed,
		logger: logger,
	}, nil
}

func (o *Optimizer) SetParallel(parallel bool) {
	o.parallel = parallel
}

func (o *Optimizer) SetMetrics(metrics *Metrics) {
	o.metrics = metrics
}

// Run executes the assigner once with the randomness of the given run index
func (o *Optimizer) Run(students []model.Student, teachers []model.Teacher, run int) Run {
	rng := rand.New(rand.NewPCG(o.seed, uint64(run)))
	logger := o.logger.With(zap.Int("run", run))

	start := time.Now()
	result := newAssigner(o.params, students, teachers, rng, logger).Run()
	o.metrics.observeRun(result, time.Since(start))

	return result
}

// GenerateWeek is a single run, without optimization info
func (o *Optimizer) GenerateWeek(students []model.Student, teachers []model.Teacher) Result {
	return newResult(o.Run(students, teachers, 0), students)
}

func (o *Optimizer) Optimize(students []model.Student, teachers []model.Teacher, iterations int) (Result, error) {
	if iterations < 1 {
		return Result{}, fmt.Errorf("%w: iterations must be at least 1: %v", ErrInvalidParameters, iterations)
	}

	runs := o.runAll(students, teachers, iterations)

	// Strict comparison keeps the earliest run among equal spreads
	best := 0
	for i, run := range runs {
		if run.Summary.Spread < runs[best].Summary.Spread {
			o.logger.Info("found better run", zap.Int("run", i), zap.Int("spread", run.Summary.Spread))
			best = i
		}
	}

	o.logger.Info("optimization finished",
		zap.Int("iterations", iterations),
		zap.Int("bestRun", best),
		zap.Int("bestSpread", runs[best].Summary.Spread),
	)
	o.metrics.observeBest(runs[best].Summary.Spread)

	result := newResult(runs[best], students)
	result.OptimizationInfo = &OptimizationInfo{
		Iterations: iterations,
		BestRun:    runs[best].Id,
		BestSpread: runs[best].Summary.Spread,
		Spreads:    lo.Map(runs, func(run Run, _ int) int { return run.Summary.Spread }),
	}
	return result, nil
}

// runAll returns the runs ordered by run index
func (o *Optimizer) runAll(students []model.Student, teachers []model.Teacher, iterations int) []Run {
	runs := make([]Run, iterations)
	if !o.parallel {
		for i := range iterations {
			runs[i] = o.Run(students, teachers, i)
		}
		return runs
	}

	type indexedRun struct {
		index int
		run   Run
	}
	runsChannel := make(chan indexedRun) // Channel to collect runs

	// Runs share nothing but the read-only input, so each one gets its own goroutine
	for i := range iterations {
		go func(index int) {
			runsChannel <- indexedRun{index: index, run: o.Run(students, teachers, index)}
		}(i)
	}

	collectedRuns := 0
	for indexed := range runsChannel {
		runs[indexed.index] = indexed.run

		if collectedRuns++; collectedRuns == iterations {
			close(runsChannel)
		}
	}
	return runs
}

func newResult(run Run, students []model.Student) Result {
	return Result{
		Schedule:                  run.Schedule,
		AssignmentStats:           run.Stats,
		TeacherWorkloads:          run.Workloads,
		FailedStudents:            FailedStudentDetails(run.FailedAssignments, students),
		StudentTeacherAssignments: run.StudentTeacherAssignments,
		FailedAssignments:         run.FailedAssignments,
	}
}
