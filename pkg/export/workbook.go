package export

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/limaJavier/lessonplanner/pkg/model"
	"github.com/limaJavier/lessonplanner/pkg/schedule"
	"github.com/samber/lo"
)

const (
	StatusNone   = "none"
	StatusLow    = "low"
	StatusHigh   = "high"
	StatusNormal = "normal"
)

var dayLabels = []string{"Mon", "Tue", "Wed", "Thu", "Fri"}

type Workbook struct {
	Sheets []*Sheet
}

// NewWorkbook projects a result into the teacher grid, the student detail and the statistics sheets
func NewWorkbook(result schedule.Result, students []model.Student, teachers []model.Teacher, params schedule.Parameters) Workbook {
	return Workbook{
		Sheets: []*Sheet{
			TeacherSheet(result.Schedule, students, teachers, params),
			StudentSheet(result.Schedule, students, teachers),
			StatisticsSheet(NewStatistics(result, teachers, params)),
		},
	}
}

// TeacherSheet has one row per (teacher, day) and one column per slot. Consecutive slots of the same student
// within a half-day are merged, and the teacher name spans the teacher's day rows
func TeacherSheet(lessons []schedule.Lesson, students []model.Student, teachers []model.Teacher, params schedule.Parameters) *Sheet {
	slots := schedule.GenerateDaySlots(params)
	headers := append([]string{"Teacher", "Day"}, lo.Map(slots, func(slot schedule.TimeSlot, _ int) string {
		return fmt.Sprintf("%v - %v", schedule.FormatClock(slot.Start), schedule.FormatClock(slot.End))
	})...)
	sheet := newSheet("schedule", "Schedule", headers)

	studentNames := lo.SliceToMap(students, func(student model.Student) (string, string) { return student.Id, student.Name })
	type booking struct {
		teacher string
		day     int
		start   int
	}
	booked := lo.SliceToMap(lessons, func(lesson schedule.Lesson) (booking, string) {
		return booking{lesson.TeacherId, lesson.Day, lesson.Start}, lesson.StudentId
	})

	for _, teacher := range teachers {
		first := len(sheet.Rows)
		for day := 1; day <= schedule.Days; day++ {
			row := sheet.appendRow(teacher.Name, dayLabels[day-1])

			//** Fill slots and merge runs of the same student
			runStart, runStudent := -1, ""
			closeRun := func(end int) {
				if runStart >= 0 {
					sheet.merge(row, runStart+2, 1, end-runStart)
				}
				runStart, runStudent = -1, ""
			}
			for i, slot := range slots {
				student, ok := booked[booking{teacher.Id, day, slot.Start}]
				if !ok || (i > 0 && slots[i-1].Period != slot.Period) || student != runStudent {
					closeRun(i)
				}
				if !ok {
					continue
				}
				sheet.Rows[row][i+2] = studentNames[student]
				if runStart < 0 {
					runStart, runStudent = i, student
				}
			}
			closeRun(len(slots))
		}
		sheet.merge(first, 0, schedule.Days, 1)
	}
	return sheet
}

// StudentSheet lists each student's lessons by day, morning first, then start. Consecutive rows with the same
// teacher and day merge the student and teacher columns; a blank row separates students
func StudentSheet(lessons []schedule.Lesson, students []model.Student, teachers []model.Teacher) *Sheet {
	sheet := newSheet("students", "Student lessons", []string{"Student", "Teacher", "Day", "Period", "Start", "End"})

	teacherNames := lo.SliceToMap(teachers, func(teacher model.Teacher) (string, string) { return teacher.Id, teacher.Name })
	lessonsByStudent := lo.GroupBy(lessons, func(lesson schedule.Lesson) string { return lesson.StudentId })

	for _, student := range students {
		studentLessons := slices.Clone(lessonsByStudent[student.Id])
		if len(studentLessons) == 0 {
			sheet.appendRow(student.Name, "No lessons")
			sheet.appendRow()
			continue
		}

		slices.SortStableFunc(studentLessons, func(a, b schedule.Lesson) int {
			if a.Day != b.Day {
				return a.Day - b.Day
			}
			if a.Period != b.Period {
				if a.Period == schedule.Morning {
					return -1
				}
				return 1
			}
			return cmp.Compare(a.Start, b.Start)
		})

		runStart := len(sheet.Rows)
		for i, lesson := range studentLessons {
			teacherName, ok := teacherNames[lesson.TeacherId]
			if !ok {
				teacherName = "Unknown teacher"
			}
			row := sheet.appendRow(
				student.Name,
				teacherName,
				dayLabels[lesson.Day-1],
				string(lesson.Period),
				schedule.FormatClock(lesson.Start),
				schedule.FormatClock(lesson.End),
			)

			last := i == len(studentLessons)-1
			if last || studentLessons[i+1].TeacherId != lesson.TeacherId || studentLessons[i+1].Day != lesson.Day {
				sheet.merge(runStart, 0, row-runStart+1, 1)
				sheet.merge(runStart, 1, row-runStart+1, 1)
				runStart = row + 1
			}
		}
		sheet.appendRow()
	}
	return sheet
}

type TeacherStatus struct {
	Name    string
	Lessons int
	Status  string
}

type Statistics struct {
	Capacity int // Lessons all teachers could give in the week
	Expected float64
	Assigned int
	Average  int // Assigned lessons per teacher, rounded
	Teachers []TeacherStatus
}

func NewStatistics(result schedule.Result, teachers []model.Teacher, params schedule.Parameters) Statistics {
	lessonCount := lo.CountValuesBy(result.Schedule, func(lesson schedule.Lesson) string { return lesson.TeacherId })

	average := 0
	if len(teachers) > 0 {
		average = int(math.Round(float64(result.AssignmentStats.AssignedTotal) / float64(len(teachers))))
	}

	return Statistics{
		Capacity: len(teachers) * len(schedule.GenerateDaySlots(params)) * schedule.Days,
		Expected: result.AssignmentStats.ExpectedTotal,
		Assigned: result.AssignmentStats.AssignedTotal,
		Average:  average,
		Teachers: lo.Map(teachers, func(teacher model.Teacher, _ int) TeacherStatus {
			lessons := lessonCount[teacher.Id]
			return TeacherStatus{Name: teacher.Name, Lessons: lessons, Status: status(lessons, average)}
		}),
	}
}

func status(lessons, average int) string {
	switch {
	case lessons == 0:
		return StatusNone
	case float64(lessons) < float64(average)*0.5:
		return StatusLow
	case float64(lessons) > float64(average)*1.5:
		return StatusHigh
	default:
		return StatusNormal
	}
}

func StatisticsSheet(stats Statistics) *Sheet {
	sheet := newSheet("statistics", "Scheduling statistics", []string{"Item", "Value", "Unit"})

	sheet.appendRow("Teacher capacity", strconv.Itoa(stats.Capacity), "lessons")
	sheet.appendRow("Student demand", strconv.FormatFloat(stats.Expected, 'f', -1, 64), "lessons")
	sheet.appendRow("Assigned", strconv.Itoa(stats.Assigned), "lessons")
	sheet.appendRow("Average", strconv.Itoa(stats.Average), "lessons/teacher")
	sheet.appendRow()

	sheet.appendRow("Teacher", "Assigned lessons", "Status")
	for _, teacher := range stats.Teachers {
		sheet.appendRow(teacher.Name, strconv.Itoa(teacher.Lessons), teacher.Status)
	}
	return sheet
}
