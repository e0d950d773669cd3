package schedule

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments optimizer runs. A nil *Metrics is valid and records nothing
type Metrics struct {
	registry     *prometheus.Registry
	runs         prometheus.Counter
	runDuration  prometheus.Histogram
	spread       prometheus.Histogram
	failedDays   prometheus.Counter
	placedUnits  prometheus.Counter
	bestSpread   prometheus.Gauge
	optimizeRuns prometheus.Counter
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	runs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lessonplanner_runs_total",
		Help: "Total number of scheduling runs",
	})

	runDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "lessonplanner_run_duration_seconds",
		Help:    "Duration of a single scheduling run in seconds",
		Buckets: prometheus.DefBuckets,
	})

	spread := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "lessonplanner_run_workload_spread_units",
		Help:    "Difference between the highest and lowest teacher workload of a run",
		Buckets: prometheus.LinearBuckets(0, 5, 13),
	})

	failedDays := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lessonplanner_failed_student_days_total",
		Help: "Total number of student-days left below demand",
	})

	placedUnits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lessonplanner_placed_units_total",
		Help: "Total number of lesson-units placed",
	})

	bestSpread := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lessonplanner_best_workload_spread_units",
		Help: "Workload spread of the run selected by the last optimization",
	})

	optimizeRuns := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lessonplanner_optimizations_total",
		Help: "Total number of optimizations",
	})

	registry.MustRegister(runs, runDuration, spread, failedDays, placedUnits, bestSpread, optimizeRuns)

	return &Metrics{
		registry:     registry,
		runs:         runs,
		runDuration:  runDuration,
		spread:       spread,
		failedDays:   failedDays,
		placedUnits:  placedUnits,
		bestSpread:   bestSpread,
		optimizeRuns: optimizeRuns,
	}
}

// Gatherer exposes the collected metrics, e.g. for prometheus.WriteToTextfile
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m == nil {
		return prometheus.NewRegistry()
	}
	return m.registry
}

func (m *Metrics) observeRun(run Run, duration time.Duration) {
	if m == nil {
		return
	}
	m.runs.Inc()
	m.runDuration.Observe(duration.Seconds())
	m.spread.Observe(float64(run.Summary.Spread))
	m.failedDays.Add(float64(len(run.FailedAssignments)))
	m.placedUnits.Add(float64(len(run.Schedule)))
}

func (m *Metrics) observeBest(spread int) {
	if m == nil {
		return
	}
	m.optimizeRuns.Inc()
	m.bestSpread.Set(float64(spread))
}
