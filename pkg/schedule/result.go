package schedule

// Lesson is one lesson-unit taught by a teacher to a student. A longer class is a run of consecutive lessons
type Lesson struct {
	StudentId string `json:"studentId"`
	TeacherId string `json:"teacherId"`
	Day       int    `json:"day"`
	Start     int    `json:"start"`
	End       int    `json:"end"`
	Period    Period `json:"period"`
	Duration  int    `json:"duration"`
}

// FailedAssignment records unmet demand of a student on a day. It is data, not an error
type FailedAssignment struct {
	StudentId       string  `json:"studentId"`
	StudentName     string  `json:"studentName"`
	Day             int     `json:"day"`
	TeacherId       string  `json:"teacherId,omitempty"`
	ExpectedLessons float64 `json:"expectedLessons"`
	ActualLessons   float64 `json:"actualLessons"`
}

type FailedStudent struct {
	StudentId     string `json:"studentId"`
	StudentName   string `json:"studentName"`
	DailyClasses  int    `json:"dailyClasses"`
	ClassDuration int    `json:"classDuration"`
	TotalFailures int    `json:"totalFailures"`
}

// TeacherPair is the ordered couple of candidate teachers of a student. Secondary is empty when fewer than two
// teachers exist
type TeacherPair struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary,omitempty"`
}

type AssignmentStats struct {
	ExpectedTotal float64            `json:"totalExpectedLessons"`
	AssignedTotal int                `json:"totalAssignedLessons"`
	Failures      []FailedAssignment `json:"assignmentFailures"`
}

type OptimizationInfo struct {
	Iterations int    `json:"iterations"`
	BestRun    string `json:"bestRun"`
	BestSpread int    `json:"bestWorkloadDifference"`
	Spreads    []int  `json:"allDifferences"`
}

// Run is the complete output of one independent assigner execution
type Run struct {
	Id                        string
	Schedule                  []Lesson
	Workloads                 WorkloadMap
	Summary                   WorkloadSummary
	StudentTeacherAssignments map[string]TeacherPair
	FailedAssignments         []FailedAssignment
	Stats                     AssignmentStats
}

// Result is the shape consumed by presentation and export layers
type Result struct {
	Schedule                  []Lesson               `json:"schedule"`
	AssignmentStats           AssignmentStats        `json:"assignmentStats"`
	TeacherWorkloads          WorkloadMap            `json:"teacherWorkloads"`
	FailedStudents            []FailedStudent        `json:"failedStudents"`
	StudentTeacherAssignments map[string]TeacherPair `json:"studentTeacherAssignments"`
	FailedAssignments         []FailedAssignment     `json:"failedAssignments"`
	OptimizationInfo          *OptimizationInfo      `json:"optimizationInfo,omitempty"`
}
