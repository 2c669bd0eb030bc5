package domain

import (
	"errors"
	"fmt"
	"strconv"
)

var ErrInvalidClock = errors.New("time must be HH:MM")

// MinuteOfDay parses an HH:MM clock value into minutes since midnight.
func MinuteOfDay(clock string) (int, error) {
	if len(clock) != 5 || clock[2] != ':' {
		return 0, ErrInvalidClock
	}
	hour, err := strconv.Atoi(clock[:2])
	if err != nil || hour < 0 || hour > 23 {
		return 0, ErrInvalidClock
	}
	minute, err := strconv.Atoi(clock[3:])
	if err != nil || minute < 0 || minute > 59 {
		return 0, ErrInvalidClock
	}
	return hour*60 + minute, nil
}

// Overlaps reports whether the half-open ranges [start1,end1) and
// [start2,end2) share any instant. Clock values are fixed-width HH:MM, so
// lexical comparison is chronological. A range ending exactly where another
// starts does not overlap it.
func Overlaps(start1, end1, start2, end2 string) bool {
	return start1 < end2 && start2 < end1
}

// RangeRules are the configurable booking time rules: both ends of a range
// must sit on a StepMinutes grid measured from midnight, and the range must
// last at least MinDurationMinutes.
type RangeRules struct {
	StepMinutes        int
	MinDurationMinutes int
}

func DefaultRangeRules() RangeRules {
	return RangeRules{StepMinutes: 30, MinDurationMinutes: 60}
}

// InvalidRangeError names the specific rule a proposed time range broke.
type InvalidRangeError struct {
	Reason string
}

func (e *InvalidRangeError) Error() string {
	return e.Reason
}

func invalidRange(format string, args ...any) error {
	return &InvalidRangeError{Reason: fmt.Sprintf(format, args...)}
}

// ValidateRange applies the step and minimum-duration rules to a proposed
// [startTime,endTime) range. It runs before any availability check or write.
func (r RangeRules) ValidateRange(startTime, endTime string) error {
	start, err := MinuteOfDay(startTime)
	if err != nil {
		return invalidRange("start time %q is not a valid HH:MM value", startTime)
	}
	end, err := MinuteOfDay(endTime)
	if err != nil {
		return invalidRange("end time %q is not a valid HH:MM value", endTime)
	}
	if r.StepMinutes > 0 && (start%r.StepMinutes != 0 || end%r.StepMinutes != 0) {
		return invalidRange("times must fall on %d-minute steps", r.StepMinutes)
	}
	if end <= start {
		return invalidRange("end time must be after start time")
	}
	if end-start < r.MinDurationMinutes {
		return invalidRange("appointment must last at least %d minutes", r.MinDurationMinutes)
	}
	return nil
}
