package schedule

import (
	"testing"

	"github.com/limaJavier/lessonplanner/pkg/model"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
)

func newTeachers(names ...string) []model.Teacher {
	teachers := make([]model.Teacher, 0, len(names))
	for _, name := range names {
		teachers = append(teachers, model.Teacher{Id: "id-" + name, Name: name, Gender: "female"})
	}
	return teachers
}

func TestWorkloadTracker(t *testing.T) {
	g := NewWithT(t)

	//** Arrange
	tracker := NewWorkloadTracker(newTeachers("Ann", "Ben", "Cid", "Dot"))

	//** Act
	tracker.Add(0, 6)
	tracker.Add(1, 2)
	tracker.Add(3, 2)
	tracker.Add(0, 1)

	//** Assert
	g.Expect(tracker.Units(0)).To(Equal(7))
	g.Expect(tracker.Ascending([]int{0, 1, 2, 3})).To(Equal([]int{2, 1, 3, 0}))
	g.Expect(tracker.Ascending([]int{3, 1})).To(Equal([]int{3, 1}))
	g.Expect(tracker.Map()).To(Equal(WorkloadMap{"id-Ann": 7, "id-Ben": 2, "id-Cid": 0, "id-Dot": 2}))
	g.Expect(tracker.Summary()).To(Equal(WorkloadSummary{Total: 11, Average: 2.8, Max: 7, Min: 0, Spread: 7}))
}

func TestWorkloadReport(t *testing.T) {
	//** Arrange
	teachers := newTeachers("Ann", "Ben", "Cid")
	workloads := WorkloadMap{"id-Ann": 10, "id-Ben": 3}

	//** Act
	report := NewWorkloadReport(workloads, teachers)

	//** Assert
	assert.Equal(t, []TeacherWorkload{
		{Id: "id-Cid", Name: "Cid", Workload: 0},
		{Id: "id-Ben", Name: "Ben", Workload: 3},
		{Id: "id-Ann", Name: "Ann", Workload: 10},
	}, report.Teachers)
	assert.Equal(t, WorkloadSummary{Total: 13, Average: 4.3, Max: 10, Min: 0, Spread: 10}, report.Summary)
}

func TestWorkloadTrackerReport(t *testing.T) {
	tracker := NewWorkloadTracker(newTeachers("Ann", "Ben"))
	tracker.Add(1, 4)

	report := tracker.Report()

	assert.Equal(t, "Ann", report.Teachers[0].Name)
	assert.Equal(t, 4, report.Summary.Spread)
}

func TestWorkloadSummaryWithoutTeachers(t *testing.T) {
	tracker := NewWorkloadTracker(nil)
	assert.Equal(t, WorkloadSummary{}, tracker.Summary())
	assert.Empty(t, tracker.Report().Teachers)
}
