package model

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

type ConstraintType string

const (
	ConstraintNoOverlap    ConstraintType = "no_overlap"
	ConstraintMaxPerDay    ConstraintType = "max_courses_per_day"
	ConstraintMaxGap       ConstraintType = "max_gap_between_courses"
	ConstraintMultiplicity ConstraintType = "exact_multiplicity"
)

// Constraint is a stateless predicate over schedules. SatisfiedPartial is
// the lenient check used to prune partial assignments during search: it must
// never reject a partial schedule merely because a not-yet-visited course
// has no slots so far. SatisfiedComplete is the strict check applied to a
// fully assigned schedule, given the complete course-name list.
type Constraint interface {
	SatisfiedPartial(schedule Schedule) bool
	SatisfiedComplete(schedule Schedule, courses []string) bool
	Description() string
	Type() ConstraintType
}

//** No-overlap

type noOverlapConstraint struct{}

func NewNoOverlapConstraint() Constraint {
	return noOverlapConstraint{}
}

func (constraint noOverlapConstraint) SatisfiedPartial(schedule Schedule) bool {
	seen := make(map[TimeSlot]bool)
	for _, slot := range schedule.AllSlots() {
		if seen[slot] {
			return false
		}
		seen[slot] = true
	}
	return true
}

func (constraint noOverlapConstraint) SatisfiedComplete(schedule Schedule, _ []string) bool {
	return constraint.SatisfiedPartial(schedule)
}

func (constraint noOverlapConstraint) Description() string {
	return "no two assigned slots may share the same day and start time"
}

func (constraint noOverlapConstraint) Type() ConstraintType {
	return ConstraintNoOverlap
}

//** Max courses per day

type maxPerDayConstraint struct {
	limit int
}

func NewMaxPerDayConstraint(limit int) Constraint {
	return maxPerDayConstraint{limit: limit}
}

func (constraint maxPerDayConstraint) SatisfiedPartial(schedule Schedule) bool {
	return !lo.SomeBy(lo.Values(schedule.SlotsByDay()), func(slots []TimeSlot) bool {
		return len(slots) > constraint.limit
	})
}

func (constraint maxPerDayConstraint) SatisfiedComplete(schedule Schedule, _ []string) bool {
	return constraint.SatisfiedPartial(schedule)
}

func (constraint maxPerDayConstraint) Description() string {
	return fmt.Sprintf("at most %v courses on any single day", constraint.limit)
}

func (constraint maxPerDayConstraint) Type() ConstraintType {
	return ConstraintMaxPerDay
}

//** Max gap between courses

type maxGapConstraint struct {
	limitHours      float64
	durationMinutes int
}

func NewMaxGapConstraint(limitHours float64, courseDurationMinutes int) Constraint {
	return maxGapConstraint{limitHours: limitHours, durationMinutes: courseDurationMinutes}
}

func (constraint maxGapConstraint) SatisfiedPartial(schedule Schedule) bool {
	for _, slots := range schedule.SlotsByDay() {
		sorted := slices.Clone(slots)
		slices.SortFunc(sorted, compareSlots)
		for i := 1; i < len(sorted); i++ {
			gap := quantizeGap(sorted[i].MinuteOfDay-sorted[i-1].MinuteOfDay, constraint.durationMinutes)
			if gap > constraint.limitHours {
				return false
			}
		}
	}
	return true
}

func (constraint maxGapConstraint) SatisfiedComplete(schedule Schedule, _ []string) bool {
	return constraint.SatisfiedPartial(schedule)
}

func (constraint maxGapConstraint) Description() string {
	return fmt.Sprintf("at most %v free hours between consecutive courses on the same day", constraint.limitHours)
}

func (constraint maxGapConstraint) Type() ConstraintType {
	return ConstraintMaxGap
}

// quantizeGap rounds a same-day gap down to whole multiples of the course
// duration and expresses it in hours.
func quantizeGap(gapMinutes, courseDurationMinutes int) float64 {
	return float64(gapMinutes/courseDurationMinutes*courseDurationMinutes) / 60
}

//** Exact multiplicity

type multiplicityConstraint struct {
	required map[string]int
}

// NewMultiplicityConstraint builds the exact-count constraint: every course
// must be assigned exactly the number of slots the map requires, defaulting
// to 1 for courses the map does not mention.
func NewMultiplicityConstraint(required map[string]int) Constraint {
	return multiplicityConstraint{required: required}
}

func (constraint multiplicityConstraint) requiredSlots(course string) int {
	if count, ok := constraint.required[course]; ok {
		return count
	}
	return 1
}

// SatisfiedPartial only checks courses that already carry an assignment, so
// partial schedules are never rejected on behalf of unvisited courses.
func (constraint multiplicityConstraint) SatisfiedPartial(schedule Schedule) bool {
	for _, course := range schedule.Courses() {
		slots, _ := schedule.Assigned(course)
		if len(slots) != constraint.requiredSlots(course) {
			return false
		}
	}
	return true
}

// SatisfiedComplete checks every course in the full course-name list,
// counting missing assignments as zero slots.
func (constraint multiplicityConstraint) SatisfiedComplete(schedule Schedule, courses []string) bool {
	return !lo.SomeBy(courses, func(course string) bool {
		slots, _ := schedule.Assigned(course)
		return len(slots) != constraint.requiredSlots(course)
	})
}

func (constraint multiplicityConstraint) Description() string {
	return fmt.Sprintf("exact slot counts per course: %v", constraint.required)
}

func (constraint multiplicityConstraint) Type() ConstraintType {
	return ConstraintMultiplicity
}
