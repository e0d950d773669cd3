package schedule

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/limaJavier/lessonplanner/pkg/model"
	. "github.com/onsi/gomega"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newStudent(id string, dailyClasses, classDuration int) model.Student {
	return model.Student{Id: id, Name: "Student " + id, Gender: "male", DailyClasses: dailyClasses, ClassDuration: classDuration}
}

func runOnce(students []model.Student, teachers []model.Teacher, seed uint64) Run {
	rng := rand.New(rand.NewPCG(seed, 0))
	return newAssigner(DefaultParameters(), students, teachers, rng, zap.NewNop()).Run()
}

// randomPopulation avoids two-per-day students above the long part, whose shortfall check is knowingly lenient
func randomPopulation(rng *rand.Rand, students, teachers int) ([]model.Student, []model.Teacher) {
	durations := []int{30, 60, 90, 120, 150, 180, 210, 240, 300, 360}
	population := lo.Times(students, func(i int) model.Student {
		dailyClasses := 1
		duration := durations[rng.IntN(len(durations))]
		if duration <= 180 && rng.IntN(4) == 0 {
			dailyClasses = 2
		}
		return newStudent(fmt.Sprintf("s%d", i), dailyClasses, duration)
	})
	staff := lo.Times(teachers, func(i int) model.Teacher {
		return model.Teacher{Id: fmt.Sprintf("t%d", i), Name: fmt.Sprintf("Teacher %d", i), Gender: "female"}
	})
	return population, staff
}

func TestSingleUnitStudentWithTwoTeachers(t *testing.T) {
	g := NewWithT(t)

	for seed := range uint64(20) {
		//** Arrange
		students := []model.Student{newStudent("s1", 1, 30)}
		teachers := newTeachers("Ann", "Ben")

		//** Act
		run := runOnce(students, teachers, seed)

		//** Assert
		g.Expect(run.Schedule).To(HaveLen(5))
		g.Expect(run.FailedAssignments).To(BeEmpty())
		g.Expect(run.Stats.AssignedTotal).To(Equal(5))
		g.Expect(run.Stats.ExpectedTotal).To(BeNumerically("==", 5))
		g.Expect(run.Stats.Failures).To(BeEmpty())

		byDay := lo.KeyBy(run.Schedule, func(lesson Lesson) int { return lesson.Day })
		g.Expect(byDay).To(HaveLen(5))
		g.Expect(byDay[1].TeacherId).To(Equal(byDay[3].TeacherId))
		g.Expect(byDay[3].TeacherId).To(Equal(byDay[5].TeacherId))
		g.Expect(byDay[2].TeacherId).To(Equal(byDay[4].TeacherId))
		g.Expect(byDay[1].TeacherId).NotTo(Equal(byDay[2].TeacherId))

		assigned := run.StudentTeacherAssignments["s1"]
		g.Expect(assigned.Primary).To(Equal(byDay[1].TeacherId))
		g.Expect(assigned.Secondary).To(Equal(byDay[2].TeacherId))
		g.Expect(Verify(run.Schedule, teachers, DefaultParameters())).To(Succeed())
	}
}

func TestSingleTeacherForcesShortfall(t *testing.T) {
	g := NewWithT(t)

	//** Arrange
	students := []model.Student{newStudent("s1", 1, 60), newStudent("s2", 1, 60)}
	teachers := newTeachers("Ann")

	//** Act
	run := runOnce(students, teachers, 7)

	//** Assert
	g.Expect(run.Schedule).To(HaveLen(12))
	g.Expect(run.FailedAssignments).To(HaveLen(4))
	for _, failure := range run.FailedAssignments {
		g.Expect(failure.Day).To(BeElementOf(2, 4))
		g.Expect(failure.ActualLessons).To(BeNumerically("<", failure.ExpectedLessons))
		g.Expect(failure.TeacherId).To(Equal("id-Ann"))
	}
	g.Expect(run.StudentTeacherAssignments).To(HaveKeyWithValue("s1", TeacherPair{Primary: "id-Ann"}))

	details := FailedStudentDetails(run.FailedAssignments, students)
	g.Expect(details).To(ConsistOf(
		FailedStudent{StudentId: "s1", StudentName: "Student s1", DailyClasses: 1, ClassDuration: 60, TotalFailures: 2},
		FailedStudent{StudentId: "s2", StudentName: "Student s2", DailyClasses: 1, ClassDuration: 60, TotalFailures: 2},
	))
	g.Expect(Verify(run.Schedule, teachers, DefaultParameters())).To(Succeed())
}

func TestSplitDurationStudent(t *testing.T) {
	g := NewWithT(t)

	for seed := range uint64(20) {
		//** Arrange
		students := []model.Student{newStudent("s1", 1, 240)}
		teachers := newTeachers("Ann", "Ben")

		//** Act
		run := runOnce(students, teachers, seed)

		//** Assert
		g.Expect(run.FailedAssignments).To(BeEmpty())
		for day, lessons := range lo.GroupBy(run.Schedule, func(lesson Lesson) int { return lesson.Day }) {
			minutes := lo.CountValuesBy(lessons, func(lesson Lesson) Period { return lesson.Period })
			split := [2]int{minutes[Morning] * 30, minutes[Afternoon] * 30}
			g.Expect(split).To(BeElementOf([2]int{180, 60}, [2]int{60, 180}), "day %v", day)
			g.Expect(lo.Uniq(lo.Map(lessons, func(lesson Lesson, _ int) string { return lesson.TeacherId }))).To(HaveLen(1))
		}
		g.Expect(Verify(run.Schedule, teachers, DefaultParameters())).To(Succeed())
	}
}

func TestLongStudentInOneHalfDay(t *testing.T) {
	//** Arrange
	students := []model.Student{newStudent("s1", 1, 300)}
	teachers := newTeachers("Ann", "Ben")

	//** Act
	run := runOnce(students, teachers, 3)

	//** Assert
	// 300 minutes is ten units while a half-day has six slots, so no day can be met
	assert.Empty(t, run.Schedule)
	assert.Len(t, run.FailedAssignments, Days)
	assert.Len(t, run.Stats.Failures, Days)
}

func TestTwoClassesADay(t *testing.T) {
	g := NewWithT(t)

	//** Arrange
	students := []model.Student{newStudent("s1", 2, 60)}
	teachers := newTeachers("Ann", "Ben")

	//** Act
	run := runOnce(students, teachers, 11)

	//** Assert
	g.Expect(run.Schedule).To(HaveLen(4 * Days))
	g.Expect(run.FailedAssignments).To(BeEmpty())
	for _, lessons := range lo.GroupBy(run.Schedule, func(lesson Lesson) int { return lesson.Day }) {
		periods := lo.CountValuesBy(lessons, func(lesson Lesson) Period { return lesson.Period })
		g.Expect(periods).To(Equal(map[Period]int{Morning: 2, Afternoon: 2}))
		g.Expect(lo.Uniq(lo.Map(lessons, func(lesson Lesson, _ int) string { return lesson.TeacherId }))).To(HaveLen(1))
	}
}

func TestZeroTeachers(t *testing.T) {
	g := NewWithT(t)

	//** Arrange
	students := []model.Student{newStudent("s1", 1, 30), newStudent("s2", 2, 90)}

	//** Act
	run := runOnce(students, nil, 1)

	//** Assert
	g.Expect(run.Schedule).To(BeEmpty())
	g.Expect(run.FailedAssignments).To(HaveLen(len(students) * Days))
	g.Expect(run.Summary).To(Equal(WorkloadSummary{}))
	g.Expect(run.StudentTeacherAssignments).To(HaveKeyWithValue("s2", TeacherPair{}))
	for _, failure := range run.FailedAssignments {
		g.Expect(failure.TeacherId).To(BeEmpty())
		g.Expect(failure.ActualLessons).To(BeZero())
	}
}

func TestCapacityIsNeverExceeded(t *testing.T) {
	//** Arrange
	params := DefaultParameters()
	params.MaxUnitsPerTeacher = 10
	students := lo.Times(6, func(i int) model.Student { return newStudent(fmt.Sprintf("s%d", i), 1, 60) })
	teachers := newTeachers("Ann", "Ben")

	//** Act
	run := newAssigner(params, students, teachers, rand.New(rand.NewPCG(5, 0)), zap.NewNop()).Run()

	//** Assert
	require.NoError(t, Verify(run.Schedule, teachers, params))
	for _, units := range run.Workloads {
		assert.LessOrEqual(t, units, 10)
	}
	assert.NotEmpty(t, run.FailedAssignments)
}

func TestConstraintsHoldOverRandomPopulations(t *testing.T) {
	g := NewWithT(t)
	params := DefaultParameters()

	for seed := range uint64(50) {
		//** Arrange
		rng := rand.New(rand.NewPCG(seed, 99))
		students, teachers := randomPopulation(rng, rng.IntN(30)+1, rng.IntN(6)+1)

		//** Act
		run := runOnce(students, teachers, seed)

		//** Assert
		g.Expect(Verify(run.Schedule, teachers, params)).To(Succeed(), "seed %v", seed)
		g.Expect(lo.Sum(lo.Values(run.Workloads))).To(Equal(len(run.Schedule)))
		g.Expect(run.Summary.Spread).To(Equal(run.Summary.Max - run.Summary.Min))

		// Both failure lists name the same student-days
		key := func(failure FailedAssignment, _ int) string { return fmt.Sprintf("%v/%v", failure.StudentId, failure.Day) }
		g.Expect(lo.Map(run.Stats.Failures, key)).To(ConsistOf(lo.Map(run.FailedAssignments, key)), "seed %v", seed)
	}
}

func TestRunIsReproducible(t *testing.T) {
	//** Arrange
	rng := rand.New(rand.NewPCG(42, 42))
	students, teachers := randomPopulation(rng, 20, 4)

	//** Act
	first := runOnce(students, teachers, 42)
	second := runOnce(students, teachers, 42)

	//** Assert
	assert.Equal(t, first.Schedule, second.Schedule)
	assert.Equal(t, first.StudentTeacherAssignments, second.StudentTeacherAssignments)
	assert.Equal(t, first.FailedAssignments, second.FailedAssignments)
	assert.Equal(t, first.Id, second.Id)
	assert.NotEqual(t, first.Id, runOnce(students, teachers, 43).Id)
}

func TestShortfallIsLogged(t *testing.T) {
	//** Arrange
	core, logs := observer.New(zapcore.WarnLevel)
	students := []model.Student{newStudent("s1", 1, 30)}

	//** Act
	newAssigner(DefaultParameters(), students, nil, rand.New(rand.NewPCG(1, 0)), zap.New(core)).Run()

	//** Assert
	assert.Equal(t, Days, logs.FilterMessage("student day not fully scheduled").Len())
}

func TestWorkloadWarningIsLogged(t *testing.T) {
	//** Arrange
	params := DefaultParameters()
	params.WorkloadWarningThreshold = 2
	core, logs := observer.New(zapcore.WarnLevel)
	students := []model.Student{newStudent("s1", 1, 60), newStudent("s2", 1, 60)}

	//** Act
	newAssigner(params, students, newTeachers("Ann", "Ben"), rand.New(rand.NewPCG(1, 0)), zap.New(core)).Run()

	//** Assert
	assert.Positive(t, logs.FilterMessage("teacher workload is high").Len())
}

func TestChoosePairWithinThreshold(t *testing.T) {
	//** Arrange
	a := newAssigner(DefaultParameters(), nil, newTeachers("Ann", "Ben", "Cid"), rand.New(rand.NewPCG(1, 0)), zap.NewNop())
	a.workload.Add(0, 30)
	a.workload.Add(1, 20)

	//** Act
	sorted := a.sortForPairing(make([]int, 3))
	chosen := a.choosePair(sorted)

	//** Assert
	assert.Equal(t, []int{2, 1, 0}, sorted)
	// Cid is 20 and 30 units away from the others, Ben and Ann only 10
	assert.Equal(t, pair{first: 1, second: 0}, chosen)
}

func TestChoosePairFallsBackToFirstPair(t *testing.T) {
	//** Arrange
	a := newAssigner(DefaultParameters(), nil, newTeachers("Ann", "Ben", "Cid"), rand.New(rand.NewPCG(1, 0)), zap.NewNop())
	a.workload.Add(0, 40)
	a.workload.Add(1, 20)

	//** Act
	chosen := a.choosePair(a.sortForPairing(make([]int, 3)))

	//** Assert
	assert.Equal(t, pair{first: 2, second: 1}, chosen)
}

func TestTwoClassesADayMoveToBackupWhenHalfFails(t *testing.T) {
	g := NewWithT(t)

	//** Arrange
	core, logs := observer.New(zapcore.DebugLevel)
	students := []model.Student{newStudent("s1", 2, 60)}
	a := newAssigner(DefaultParameters(), students, newTeachers("Ann", "Ben"), rand.New(rand.NewPCG(1, 0)), zap.New(core))
	a.pairs[0] = pair{first: 0, second: 1}

	// Ann teaches on odd days but has no free afternoon on day 1
	for _, slot := range a.periodSlots[Afternoon] {
		a.busy[a.indexer.Index(0, 1, slot)] = true
	}

	//** Act
	a.scheduleDay(0, 1, a.splitCourse(60))

	//** Assert
	g.Expect(a.failures).To(BeEmpty())
	g.Expect(a.schedule).To(HaveLen(4))
	g.Expect(a.schedule).To(HaveEach(HaveField("TeacherId", "id-Ben")))
	g.Expect(lo.CountValuesBy(a.schedule, func(lesson Lesson) Period { return lesson.Period })).
		To(Equal(map[Period]int{Morning: 2, Afternoon: 2}))

	// The morning Ann could have taught is left untouched
	g.Expect(a.workload.Units(0)).To(BeZero())
	g.Expect(a.workload.Units(1)).To(Equal(4))
	g.Expect(a.continuity).NotTo(HaveKey([2]int{0, 0}))
	g.Expect(a.continuity).To(HaveKeyWithValue([2]int{1, 0}, uint8(1<<1)))
	g.Expect(lo.NoneBy(a.periodSlots[Morning], func(slot int) bool { return a.busy[a.indexer.Index(0, 1, slot)] })).To(BeTrue())

	committed := logs.FilterMessage("lessons committed").All()
	g.Expect(committed).To(HaveLen(1))
	g.Expect(committed[0].ContextMap()).To(HaveKeyWithValue("teacher", "Ben"))
	g.Expect(committed[0].ContextMap()).To(HaveKeyWithValue("slots", []any{0, 1, 6, 7}))
}
