package schedule

import (
	"math"
	"slices"

	"github.com/limaJavier/lessonplanner/pkg/model"
	"github.com/samber/lo"
)

// WorkloadMap maps a teacher id to the lesson-units assigned to them
type WorkloadMap map[string]int

type WorkloadSummary struct {
	Total   int     `json:"totalWorkload"`
	Average float64 `json:"avgWorkload"`
	Max     int     `json:"maxWorkload"`
	Min     int     `json:"minWorkload"`
	Spread  int     `json:"workloadDifference"`
}

type TeacherWorkload struct {
	Id       string `json:"id"`
	Name     string `json:"name"`
	Workload int    `json:"workload"`
}

type WorkloadReport struct {
	Teachers []TeacherWorkload `json:"sortedTeachers"`
	Summary  WorkloadSummary   `json:"stats"`
}

// WorkloadTracker keeps the lesson-units of every teacher of a run, addressed by the teacher's position in the
// input slice
type WorkloadTracker struct {
	teachers []model.Teacher
	units    []int
}

func NewWorkloadTracker(teachers []model.Teacher) *WorkloadTracker {
	return &WorkloadTracker{
		teachers: teachers,
		units:    make([]int, len(teachers)),
	}
}

func (tracker *WorkloadTracker) Units(teacher int) int {
	return tracker.units[teacher]
}

func (tracker *WorkloadTracker) Add(teacher, units int) {
	tracker.units[teacher] += units
}

// Ascending returns the given teacher indices ordered by workload; equal workloads keep their relative order
func (tracker *WorkloadTracker) Ascending(teachers []int) []int {
	sorted := slices.Clone(teachers)
	slices.SortStableFunc(sorted, func(a, b int) int {
		return tracker.units[a] - tracker.units[b]
	})
	return sorted
}

func (tracker *WorkloadTracker) Map() WorkloadMap {
	workloads := make(WorkloadMap, len(tracker.teachers))
	for i, teacher := range tracker.teachers {
		workloads[teacher.Id] = tracker.units[i]
	}
	return workloads
}

func (tracker *WorkloadTracker) Summary() WorkloadSummary {
	return summarize(tracker.units)
}

func (tracker *WorkloadTracker) Report() WorkloadReport {
	return NewWorkloadReport(tracker.Map(), tracker.teachers)
}

// NewWorkloadReport sorts teachers ascending by workload (teachers absent from the map count as zero)
func NewWorkloadReport(workloads WorkloadMap, teachers []model.Teacher) WorkloadReport {
	sorted := lo.Map(teachers, func(teacher model.Teacher, _ int) TeacherWorkload {
		return TeacherWorkload{Id: teacher.Id, Name: teacher.Name, Workload: workloads[teacher.Id]}
	})
	slices.SortStableFunc(sorted, func(a, b TeacherWorkload) int {
		return a.Workload - b.Workload
	})

	return WorkloadReport{
		Teachers: sorted,
		Summary:  summarize(lo.Map(sorted, func(teacher TeacherWorkload, _ int) int { return teacher.Workload })),
	}
}

func summarize(units []int) WorkloadSummary {
	if len(units) == 0 {
		return WorkloadSummary{}
	}

	total := lo.Sum(units)
	highest, lowest := lo.Max(units), lo.Min(units)
	return WorkloadSummary{
		Total:   total,
		Average: math.Round(float64(total)/float64(len(units))*10) / 10,
		Max:     highest,
		Min:     lowest,
		Spread:  highest - lowest,
	}
}
