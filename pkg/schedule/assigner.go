package schedule

import (
	"cmp"
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"
	"github.com/limaJavier/lessonplanner/pkg/model"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// pair holds the indices of a student's two candidate teachers; second is -1 when only one teacher exists and
// both are -1 when there are no teachers at all
type pair struct {
	first  int
	second int
}

// forDay picks the day's primary teacher by parity (odd days go to the first teacher) and the other as backup
func (p pair) forDay(day int) (primary, backup int) {
	if p.second < 0 {
		return p.first, -1
	}
	if day%2 == 1 {
		return p.first, p.second
	}
	return p.second, p.first
}

// assigner performs a single randomized run. All of its state is private to the run
type assigner struct {
	params   Parameters
	students []model.Student
	teachers []model.Teacher
	rng      *rand.Rand
	logger   *zap.Logger

	slots       []TimeSlot
	periodSlots map[Period][]int // Indices into slots, in time order

	indexer    busyIndexer
	busy       []bool
	workload   *WorkloadTracker
	continuity map[[2]int]uint8 // (teacher, student) -> one bit per assigned day
	placed     map[[2]int]int   // (student, day) -> lessons placed

	pairs    []pair
	schedule []Lesson
	failures []FailedAssignment
}

func newAssigner(params Parameters, students []model.Student, teachers []model.Teacher, rng *rand.Rand, logger *zap.Logger) *assigner {
	slots := GenerateDaySlots(params)
	periodSlots := make(map[Period][]int)
	for i, slot := range slots {
		periodSlots[slot.Period] = append(periodSlots[slot.Period], i)
	}
	indexer := newBusyIndexer(len(teachers), Days, len(slots))

	return &assigner{
		params:      params,
		students:    students,
		teachers:    teachers,
		rng:         rng,
		logger:      logger,
		slots:       slots,
		periodSlots: periodSlots,
		indexer:     indexer,
		busy:        make([]bool, indexer.Size()),
		workload:    NewWorkloadTracker(teachers),
		continuity:  make(map[[2]int]uint8),
		placed:      make(map[[2]int]int),
		pairs:       make([]pair, len(students)),
		schedule:    make([]Lesson, 0),
		failures:    make([]FailedAssignment, 0),
	}
}

func (a *assigner) Run() Run {
	a.logger.Info("week scheduling started", zap.Int("students", len(a.students)), zap.Int("teachers", len(a.teachers)))

	//** Pair every student with two candidate teachers
	a.pairTeachers()

	//** Place the longest classes first
	order := lo.Range(len(a.students))
	slices.SortStableFunc(order, func(x, y int) int {
		return a.students[y].ClassDuration - a.students[x].ClassDuration
	})

	for _, student := range order {
		parts := a.splitCourse(a.students[student].ClassDuration)
		for day := 1; day <= Days; day++ {
			a.scheduleDay(student, day, parts)
		}
	}

	//** Collect the run's output
	assignments := make(map[string]TeacherPair, len(a.students))
	for i, student := range a.students {
		assignments[student.Id] = a.teacherPair(a.pairs[i])
	}
	summary := a.workload.Summary()

	a.logger.Info("week scheduling finished",
		zap.Int("lessons", len(a.schedule)),
		zap.Int("failures", len(a.failures)),
		zap.Int("spread", summary.Spread),
	)

	return Run{
		Id:                        a.runId(),
		Schedule:                  a.schedule,
		Workloads:                 a.workload.Map(),
		Summary:                   summary,
		StudentTeacherAssignments: assignments,
		FailedAssignments:         a.failures,
		Stats:                     CalculateStats(a.schedule, a.students, a.params),
	}
}

func (a *assigner) pairTeachers() {
	studentCount := make([]int, len(a.teachers))

	for i, student := range a.students {
		p := a.choosePair(a.sortForPairing(studentCount))
		a.pairs[i] = p

		if p.first >= 0 {
			studentCount[p.first]++
		}
		if p.second >= 0 {
			studentCount[p.second]++
		}

		names := a.teacherPair(p)
		a.logger.Debug("student paired",
			zap.String("student", student.Name),
			zap.String("primary", names.Primary),
			zap.String("secondary", names.Secondary),
		)
	}
}

// sortForPairing orders teachers by workload, then by assigned students, then by a random key
func (a *assigner) sortForPairing(studentCount []int) []int {
	tieBreak := lo.Times(len(a.teachers), func(_ int) float64 { return a.rng.Float64() })

	sorted := lo.Range(len(a.teachers))
	slices.SortFunc(sorted, func(x, y int) int {
		if diff := a.workload.Units(x) - a.workload.Units(y); diff != 0 {
			return diff
		}
		if diff := studentCount[x] - studentCount[y]; diff != 0 {
			return diff
		}
		return cmp.Compare(tieBreak[x], tieBreak[y])
	})
	return sorted
}

// choosePair takes the first pair within the fairness threshold, falling back to the first pair overall
func (a *assigner) choosePair(sorted []int) pair {
	switch len(sorted) {
	case 0:
		return pair{first: -1, second: -1}
	case 1:
		return pair{first: sorted[0], second: -1}
	}

	for i := range len(sorted) - 1 {
		for j := i + 1; j < len(sorted); j++ {
			difference := a.workload.Units(sorted[i]) - a.workload.Units(sorted[j])
			if difference < 0 {
				difference = -difference
			}
			if difference <= a.params.MaxWorkloadDifference {
				return pair{first: sorted[i], second: sorted[j]}
			}
		}
	}
	return pair{first: sorted[0], second: sorted[1]}
}

// splitCourse decomposes durations above the long-part length into the long part and a remainder
func (a *assigner) splitCourse(duration int) []int {
	if duration > a.params.LongPartMinutes {
		return []int{a.params.LongPartMinutes, duration - a.params.LongPartMinutes}
	}
	return []int{duration}
}

// plans lists, in order of preference, the alternative ways of meeting one student-day with a single teacher
func (a *assigner) plans(student int, parts []int) [][]request {
	s := a.students[student]

	// Morning and afternoon, same teacher; each half receives the first part
	if s.DailyClasses >= 2 {
		return [][]request{{
			{period: Morning, duration: parts[0]},
			{period: Afternoon, duration: parts[0]},
		}}
	}

	if s.ClassDuration == a.params.SplitDuration {
		morning, afternoon := a.params.LongPartMinutes, s.ClassDuration-a.params.LongPartMinutes
		if a.rng.IntN(2) == 0 {
			morning, afternoon = afternoon, morning
		}
		return [][]request{{
			{period: Morning, duration: morning},
			{period: Afternoon, duration: afternoon},
		}}
	}

	periods := []Period{Morning, Afternoon}
	if a.rng.IntN(2) == 0 {
		periods = []Period{Afternoon, Morning}
	}
	return lo.Map(periods, func(period Period, _ int) []request {
		return lo.Map(parts, func(part int, _ int) request {
			return request{period: period, duration: part}
		})
	})
}

func (a *assigner) scheduleDay(student, day int, parts []int) {
	s := a.students[student]
	primary, backup := a.pairs[student].forDay(day)
	plans := a.plans(student, parts)

	if primary >= 0 {
		candidates := []int{primary}
		if backup >= 0 {
			candidates = append(candidates, backup)
		}

		if !a.tryTeachers(student, day, candidates, plans) {
			others := a.workload.Ascending(lo.Filter(lo.Range(len(a.teachers)), func(teacher int, _ int) bool {
				return teacher != primary && teacher != backup
			}))
			a.tryTeachers(student, day, others, plans)
		}
	}

	// Placed atomic lessons divided by course parts, compared against the daily classes
	expected := float64(s.DailyClasses)
	actual := float64(a.placed[[2]int{student, day}]) / float64(len(parts))
	if actual < expected {
		failure := FailedAssignment{
			StudentId:       s.Id,
			StudentName:     s.Name,
			Day:             day,
			ExpectedLessons: expected,
			ActualLessons:   actual,
		}
		if primary >= 0 {
			failure.TeacherId = a.teachers[primary].Id
		}
		a.failures = append(a.failures, failure)

		a.logger.Warn("student day not fully scheduled",
			zap.String("student", s.Name),
			zap.Int("day", day),
			zap.Float64("expected", expected),
			zap.Float64("actual", actual),
		)
	}
}

// tryTeachers commits the first (teacher, plan) combination that lands completely
func (a *assigner) tryTeachers(student, day int, teachers []int, plans [][]request) bool {
	for _, teacher := range teachers {
		for _, plan := range plans {
			tx := a.begin(teacher, student, day)
			if tx.placeAll(plan) {
				tx.commit()
				return true
			}
		}
	}
	return false
}

// continuityViolated reports whether the teacher already teaches the student on the previous or next day
func (a *assigner) continuityViolated(teacher, student, day int) bool {
	days := a.continuity[[2]int{teacher, student}]
	adjacent := uint8(1)<<(day-1) | uint8(1)<<(day+1)
	return days&adjacent != 0
}

// runId draws the id from the run's own randomness, so equal seeds name equal runs
func (a *assigner) runId() string {
	return uuid.Must(uuid.NewRandomFromReader(rngReader{a.rng})).String()
}

type rngReader struct {
	rng *rand.Rand
}

func (r rngReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.rng.Uint32())
	}
	return len(p), nil
}

func (a *assigner) teacherPair(p pair) TeacherPair {
	var teacherPair TeacherPair
	if p.first >= 0 {
		teacherPair.Primary = a.teachers[p.first].Id
	}
	if p.second >= 0 {
		teacherPair.Secondary = a.teachers[p.second].Id
	}
	return teacherPair
}
