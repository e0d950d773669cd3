package schedule

import "fmt"

// Days is the number of schooldays of the single planned week (Monday is day 1)
const Days = 5

// Parameters holds every grid, capacity and fairness constant of the engine. Times are minutes from midnight
type Parameters struct {
	UnitMinutes  int // Length of a lesson-unit, the atomic block
	BreakMinutes int // Gap between two consecutive slots

	MorningStart   int
	MorningEnd     int
	AfternoonStart int
	AfternoonEnd   int
	LunchStart     int
	LunchEnd       int

	MaxUnitsPerTeacher       int // Hard cap on lesson-units per teacher and week
	MaxWorkloadDifference    int // Fairness threshold when pairing two teachers with a student
	WorkloadWarningThreshold int // Placements for teachers at or above this workload get logged
	LongPartMinutes          int // Durations above this are split in two parts
	SplitDuration            int // Duration whose morning/afternoon ratio is drawn at random
}

func DefaultParameters() Parameters {
	return Parameters{
		UnitMinutes:              30,
		BreakMinutes:             5,
		MorningStart:             8*60 + 30,
		MorningEnd:               12 * 60,
		AfternoonStart:           14 * 60,
		AfternoonEnd:             17*60 + 30,
		LunchStart:               12 * 60,
		LunchEnd:                 14 * 60,
		MaxUnitsPerTeacher:       60,
		MaxWorkloadDifference:    15,
		WorkloadWarningThreshold: 40,
		LongPartMinutes:          180,
		SplitDuration:            240,
	}
}

func (p Parameters) Validate() error {
	switch {
	case p.UnitMinutes <= 0:
		return fmt.Errorf("%w: unit length must be positive: %v", ErrInvalidParameters, p.UnitMinutes)
	case p.BreakMinutes < 0:
		return fmt.Errorf("%w: break length must not be negative: %v", ErrInvalidParameters, p.BreakMinutes)
	case p.MorningStart+p.UnitMinutes > p.MorningEnd:
		return fmt.Errorf("%w: morning window %v-%v does not fit a unit", ErrInvalidParameters, FormatClock(p.MorningStart), FormatClock(p.MorningEnd))
	case p.AfternoonStart+p.UnitMinutes > p.AfternoonEnd:
		return fmt.Errorf("%w: afternoon window %v-%v does not fit a unit", ErrInvalidParameters, FormatClock(p.AfternoonStart), FormatClock(p.AfternoonEnd))
	case p.MorningEnd > p.AfternoonStart:
		return fmt.Errorf("%w: morning must end before the afternoon starts", ErrInvalidParameters)
	case p.LunchStart > p.LunchEnd:
		return fmt.Errorf("%w: lunch window %v-%v is inverted", ErrInvalidParameters, FormatClock(p.LunchStart), FormatClock(p.LunchEnd))
	case p.MaxUnitsPerTeacher <= 0:
		return fmt.Errorf("%w: per-teacher maximum must be positive: %v", ErrInvalidParameters, p.MaxUnitsPerTeacher)
	case p.MaxWorkloadDifference < 0:
		return fmt.Errorf("%w: fairness threshold must not be negative: %v", ErrInvalidParameters, p.MaxWorkloadDifference)
	case p.LongPartMinutes < p.UnitMinutes:
		return fmt.Errorf("%w: long part %v is shorter than a unit", ErrInvalidParameters, p.LongPartMinutes)
	case p.SplitDuration <= p.LongPartMinutes:
		return fmt.Errorf("%w: split duration %v must exceed the long part %v", ErrInvalidParameters, p.SplitDuration, p.LongPartMinutes)
	}
	return nil
}

// Units returns how many lesson-units cover the given minutes
func (p Parameters) Units(minutes int) int {
	return (minutes + p.UnitMinutes - 1) / p.UnitMinutes
}
