package schedule

import (
	"slices"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// request asks for a block of the given duration inside one half-day
type request struct {
	period   Period
	duration int
}

// attempt buffers the lessons of one (teacher, student, day) placement. The run state is only touched by commit,
// so a failed attempt is dropped without any rollback
type attempt struct {
	assigner *assigner
	teacher  int
	student  int
	day      int
	claimed  []int // Busy-index offsets reserved by this attempt
	lessons  []Lesson
}

func (a *assigner) begin(teacher, student, day int) *attempt {
	return &attempt{
		assigner: a,
		teacher:  teacher,
		student:  student,
		day:      day,
	}
}

// placeAll succeeds only if every request of the plan lands with this attempt's teacher
func (t *attempt) placeAll(plan []request) bool {
	for _, r := range plan {
		if !t.place(r.period, r.duration) {
			return false
		}
	}
	return true
}

// place reserves the first run of consecutive free slots of the period covering the duration
func (t *attempt) place(period Period, duration int) bool {
	a := t.assigner
	teacher := a.teachers[t.teacher]

	if a.continuityViolated(t.teacher, t.student, t.day) {
		a.logger.Debug("teacher taught the student on an adjacent day",
			zap.String("teacher", teacher.Name),
			zap.String("student", a.students[t.student].Name),
			zap.Int("day", t.day),
		)
		return false
	}

	units := a.params.Units(duration)
	current := a.workload.Units(t.teacher) + len(t.claimed)
	if current >= a.params.WorkloadWarningThreshold {
		a.logger.Warn("teacher workload is high", zap.String("teacher", teacher.Name), zap.Int("units", current))
	}
	if current+units > a.params.MaxUnitsPerTeacher {
		a.logger.Debug("teacher reached the maximum workload", zap.String("teacher", teacher.Name), zap.Int("units", current))
		return false
	}

	slots := a.periodSlots[period]
	for i := 0; i+units <= len(slots); i++ {
		run := slots[i : i+units]
		first, last := a.slots[run[0]], a.slots[run[len(run)-1]]

		if a.params.overlapsLunch(first.Start, last.End) {
			continue
		}
		if lo.SomeBy(run, t.busy) {
			continue
		}

		for _, slot := range run {
			t.claimed = append(t.claimed, a.indexer.Index(t.teacher, t.day, slot))
			t.lessons = append(t.lessons, Lesson{
				StudentId: a.students[t.student].Id,
				TeacherId: teacher.Id,
				Day:       t.day,
				Start:     a.slots[slot].Start,
				End:       a.slots[slot].End,
				Period:    period,
				Duration:  a.params.UnitMinutes,
			})
		}
		return true
	}

	a.logger.Debug("no consecutive free slots",
		zap.String("teacher", teacher.Name),
		zap.Int("day", t.day),
		zap.String("period", string(period)),
		zap.Int("duration", duration),
	)
	return false
}

func (t *attempt) busy(slot int) bool {
	index := t.assigner.indexer.Index(t.teacher, t.day, slot)
	return t.assigner.busy[index] || slices.Contains(t.claimed, index)
}

func (t *attempt) commit() {
	a := t.assigner
	for _, index := range t.claimed {
		a.busy[index] = true
	}
	a.schedule = append(a.schedule, t.lessons...)
	a.workload.Add(t.teacher, len(t.claimed))
	a.continuity[[2]int{t.teacher, t.student}] |= 1 << t.day
	a.placed[[2]int{t.student, t.day}] += len(t.lessons)

	a.logger.Debug("lessons committed",
		zap.String("teacher", a.teachers[t.teacher].Name),
		zap.String("student", a.students[t.student].Name),
		zap.Int("day", t.day),
		zap.Ints("slots", lo.Map(t.claimed, func(index int, _ int) int {
			_, _, slot := a.indexer.Attributes(index)
			return slot
		})),
	)
}
