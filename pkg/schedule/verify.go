package schedule

import (
	"fmt"

	"github.com/limaJavier/lessonplanner/pkg/model"
	"github.com/samber/lo"
)

// Verify checks a schedule against the hard constraints and returns the first violation found
func Verify(lessons []Lesson, teachers []model.Teacher, params Parameters) error {
	teacherIds := lo.SliceToMap(teachers, func(teacher model.Teacher) (string, bool) { return teacher.Id, true })

	booked := make(map[string]map[[2]int]bool) // Teacher -> (day, start)
	workloads := make(map[string]int)
	days := make(map[[2]string]uint8) // (teacher, student) -> one bit per day

	for _, lesson := range lessons {
		if !teacherIds[lesson.TeacherId] {
			return fmt.Errorf("%w: teacher %v", ErrUnknownRecord, lesson.TeacherId)
		}
		if lesson.Day < 1 || lesson.Day > Days {
			return fmt.Errorf("%w: day %v", ErrOutsideWindow, lesson.Day)
		}

		//** Daily windows
		start, end := params.window(lesson.Period)
		if lesson.Period != Morning && lesson.Period != Afternoon || lesson.Start < start || lesson.End > end || lesson.Start >= lesson.End {
			return fmt.Errorf("%w: %v %v-%v", ErrOutsideWindow, lesson.Period, FormatClock(lesson.Start), FormatClock(lesson.End))
		}
		if params.overlapsLunch(lesson.Start, lesson.End) {
			return fmt.Errorf("%w: %v-%v", ErrLunchOverlap, FormatClock(lesson.Start), FormatClock(lesson.End))
		}

		//** Double booking
		if booked[lesson.TeacherId] == nil {
			booked[lesson.TeacherId] = make(map[[2]int]bool)
		}
		key := [2]int{lesson.Day, lesson.Start}
		if booked[lesson.TeacherId][key] {
			return fmt.Errorf("%w: teacher %v on day %v at %v", ErrDoubleBooking, lesson.TeacherId, lesson.Day, FormatClock(lesson.Start))
		}
		booked[lesson.TeacherId][key] = true

		//** Capacity
		if workloads[lesson.TeacherId]++; workloads[lesson.TeacherId] > params.MaxUnitsPerTeacher {
			return fmt.Errorf("%w: teacher %v", ErrCapacityExceeded, lesson.TeacherId)
		}

		days[[2]string{lesson.TeacherId, lesson.StudentId}] |= 1 << lesson.Day
	}

	//** Continuity
	for couple, mask := range days {
		if mask&(mask<<1) != 0 {
			return fmt.Errorf("%w: teacher %v and student %v", ErrContinuity, couple[0], couple[1])
		}
	}
	return nil
}
