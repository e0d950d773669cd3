package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

type Period string

const (
	Morning   Period = "morning"
	Afternoon Period = "afternoon"
)

var Periods = []Period{Morning, Afternoon}

type TimeSlot struct {
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Period Period `json:"period"`
}

// GenerateDaySlots walks each half-day window in steps of unit+break while a whole unit still fits
func GenerateDaySlots(params Parameters) []TimeSlot {
	slots := make([]TimeSlot, 0)
	windows := []struct {
		start, end int
		period     Period
	}{
		{params.MorningStart, params.MorningEnd, Morning},
		{params.AfternoonStart, params.AfternoonEnd, Afternoon},
	}

	for _, window := range windows {
		for t := window.start; t+params.UnitMinutes <= window.end; t += params.UnitMinutes + params.BreakMinutes {
			slots = append(slots, TimeSlot{Start: t, End: t + params.UnitMinutes, Period: window.period})
		}
	}
	return slots
}

// ParseClock converts "HH:MM" into minutes from midnight
func ParseClock(clock string) (int, error) {
	hours, minutes, ok := strings.Cut(clock, ":")
	if !ok {
		return 0, fmt.Errorf("invalid clock %q: expected HH:MM", clock)
	}
	h, err := strconv.Atoi(hours)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid clock %q: bad hours", clock)
	}
	m, err := strconv.Atoi(minutes)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock %q: bad minutes", clock)
	}
	return h*60 + m, nil
}

func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// overlapsLunch reports whether [start, end) intersects the lunch window
func (p Parameters) overlapsLunch(start, end int) bool {
	return start < p.LunchEnd && end > p.LunchStart
}

// window returns the bounds of the half-day a period names
func (p Parameters) window(period Period) (start, end int) {
	if period == Morning {
		return p.MorningStart, p.MorningEnd
	}
	return p.AfternoonStart, p.AfternoonEnd
}
