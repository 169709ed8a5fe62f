package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Weekday is the two-letter day code used by the course catalogue.
type Weekday string

const (
	Monday    Weekday = "MO"
	Tuesday   Weekday = "DI"
	Wednesday Weekday = "MI"
	Thursday  Weekday = "DO"
	Friday    Weekday = "FR"
	Saturday  Weekday = "SA"
	Sunday    Weekday = "SO"
)

const MinutesPerDay = 24 * 60

var weekdayOrder = map[Weekday]int{
	Monday:    0,
	Tuesday:   1,
	Wednesday: 2,
	Thursday:  3,
	Friday:    4,
	Saturday:  5,
	Sunday:    6,
}

func (day Weekday) Valid() bool {
	_, ok := weekdayOrder[day]
	return ok
}

// TimeSlot is one weekly occurrence of a course: a weekday plus a
// minute-of-day start time. TimeSlots are values; two slots are equal iff
// both fields are equal.
type TimeSlot struct {
	Day         Weekday `json:"day" mapstructure:"day"`
	MinuteOfDay int     `json:"minuteOfDay" mapstructure:"minuteOfDay"`
}

func NewTimeSlot(day Weekday, minuteOfDay int) (TimeSlot, error) {
	if !day.Valid() {
		return TimeSlot{}, fmt.Errorf("unknown weekday code %q", day)
	}
	if minuteOfDay < 0 || minuteOfDay >= MinutesPerDay {
		return TimeSlot{}, fmt.Errorf("minute-of-day %v out of range [0, %v)", minuteOfDay, MinutesPerDay)
	}
	return TimeSlot{Day: day, MinuteOfDay: minuteOfDay}, nil
}

func (slot TimeSlot) String() string {
	return fmt.Sprintf("%v %02d:%02d", slot.Day, slot.MinuteOfDay/60, slot.MinuteOfDay%60)
}

// ParseTimeSlot parses the "MO 18:00" notation used in request documents.
func ParseTimeSlot(raw string) (TimeSlot, error) {
	fields := strings.Fields(strings.TrimSpace(raw))
	if len(fields) != 2 {
		return TimeSlot{}, fmt.Errorf("cannot parse time slot %q: expected \"<day> <hh:mm>\"", raw)
	}

	day := Weekday(strings.ToUpper(fields[0]))

	hourStr, minuteStr, found := strings.Cut(fields[1], ":")
	if !found {
		return TimeSlot{}, fmt.Errorf("cannot parse time slot %q: missing \":\" in time", raw)
	}
	hour, err := strconv.Atoi(hourStr)
	if err != nil {
		return TimeSlot{}, fmt.Errorf("cannot parse time slot %q: %v", raw, err)
	}
	minute, err := strconv.Atoi(minuteStr)
	if err != nil {
		return TimeSlot{}, fmt.Errorf("cannot parse time slot %q: %v", raw, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeSlot{}, fmt.Errorf("cannot parse time slot %q: time out of range", raw)
	}

	return NewTimeSlot(day, hour*60+minute)
}

// compareSlots orders slots by weekday first, then by start time.
func compareSlots(a, b TimeSlot) int {
	if dayComparison := weekdayOrder[a.Day] - weekdayOrder[b.Day]; dayComparison != 0 {
		return dayComparison
	}
	return a.MinuteOfDay - b.MinuteOfDay
}
