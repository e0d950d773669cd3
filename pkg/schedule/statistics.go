package schedule

import (
	"github.com/limaJavier/lessonplanner/pkg/model"
	"github.com/samber/lo"
)

// StudentWeeklyUnits is the demand of a student: dailyClasses x classDuration x days / unit
func StudentWeeklyUnits(student model.Student, params Parameters) float64 {
	return float64(student.DailyClasses*student.ClassDuration*Days) / float64(params.UnitMinutes)
}

func StudentDailyUnits(student model.Student, params Parameters) float64 {
	return float64(student.DailyClasses*student.ClassDuration) / float64(params.UnitMinutes)
}

// CalculateStats audits a finished schedule against the demand of every student. The failures it reports are
// derived from the lessons alone, independently of what the assigner recorded
func CalculateStats(lessons []Lesson, students []model.Student, params Parameters) AssignmentStats {
	type studentDay struct {
		student string
		day     int
	}
	placed := lo.CountValuesBy(lessons, func(lesson Lesson) studentDay {
		return studentDay{student: lesson.StudentId, day: lesson.Day}
	})

	failures := make([]FailedAssignment, 0)
	for _, student := range students {
		expected := StudentDailyUnits(student, params)
		for day := 1; day <= Days; day++ {
			actual := float64(placed[studentDay{student: student.Id, day: day}])
			if actual < expected {
				failures = append(failures, FailedAssignment{
					StudentId:       student.Id,
					StudentName:     student.Name,
					Day:             day,
					ExpectedLessons: expected,
					ActualLessons:   actual,
				})
			}
		}
	}

	return AssignmentStats{
		ExpectedTotal: lo.SumBy(students, func(student model.Student) float64 { return StudentWeeklyUnits(student, params) }),
		AssignedTotal: len(lessons),
		Failures:      failures,
	}
}

// FailedStudentDetails aggregates failures per student, in order of first failure
func FailedStudentDetails(failures []FailedAssignment, students []model.Student) []FailedStudent {
	studentsById := lo.KeyBy(students, func(student model.Student) string { return student.Id })
	counts := lo.CountValuesBy(failures, func(failure FailedAssignment) string { return failure.StudentId })
	ids := lo.Uniq(lo.Map(failures, func(failure FailedAssignment, _ int) string { return failure.StudentId }))

	return lo.Map(ids, func(id string, _ int) FailedStudent {
		student := studentsById[id]
		return FailedStudent{
			StudentId:     id,
			StudentName:   student.Name,
			DailyClasses:  student.DailyClasses,
			ClassDuration: student.ClassDuration,
			TotalFailures: counts[id],
		}
	})
}
