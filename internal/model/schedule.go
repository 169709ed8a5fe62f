package model

import (
	"encoding/json"
	"slices"

	"github.com/samber/lo"
)

// Schedule maps course names to the slots assigned to them. During search a
// Schedule may be partial (not every course assigned yet). Schedules are
// immutable by convention: Assign returns a new value and never touches the
// receiver's assignments, so every branch of the backtracking search sees a
// consistent snapshot.
type Schedule struct {
	assignments map[string][]TimeSlot
}

func NewSchedule() Schedule {
	return Schedule{assignments: map[string][]TimeSlot{}}
}

// Assign returns a copy of the schedule with the given slots assigned to the
// course, replacing any previous assignment for it.
func (schedule Schedule) Assign(course string, slots []TimeSlot) Schedule {
	assignments := make(map[string][]TimeSlot, len(schedule.assignments)+1)
	for name, assigned := range schedule.assignments {
		assignments[name] = assigned
	}
	assignments[course] = slices.Clone(slots)
	return Schedule{assignments: assignments}
}

func (schedule Schedule) Assigned(course string) ([]TimeSlot, bool) {
	slots, ok := schedule.assignments[course]
	return slots, ok
}

func (schedule Schedule) Courses() []string {
	courses := lo.Keys(schedule.assignments)
	slices.Sort(courses)
	return courses
}

// Assignments returns a deep copy of the assignment map.
func (schedule Schedule) Assignments() map[string][]TimeSlot {
	return lo.MapValues(schedule.assignments, func(slots []TimeSlot, _ string) []TimeSlot {
		return slices.Clone(slots)
	})
}

// AllSlots returns every assigned slot across all courses.
func (schedule Schedule) AllSlots() []TimeSlot {
	return lo.Flatten(lo.Values(schedule.assignments))
}

// SlotsByDay groups every assigned slot by weekday.
func (schedule Schedule) SlotsByDay() map[Weekday][]TimeSlot {
	return lo.GroupBy(schedule.AllSlots(), func(slot TimeSlot) Weekday {
		return slot.Day
	})
}

func (schedule Schedule) MarshalJSON() ([]byte, error) {
	return json.Marshal(schedule.assignments)
}

// ScheduleStats are the derived quality figures used to rank complete
// schedules.
type ScheduleStats struct {
	Days                 int     `json:"days"`
	MaxGapBetweenCourses float64 `json:"maxGapBetweenCourses"`
	CoursesOnBusiestDay  int     `json:"coursesOnBusiestDay"`
	Score                float64 `json:"score"`
}

// Stats computes the derived quality figures of the schedule. Gaps between
// adjacent slots on the same day are quantized down to whole multiples of
// the course duration before being expressed in hours; gaps across different
// days do not exist.
func (schedule Schedule) Stats(courseDurationMinutes int) ScheduleStats {
	slotsByDay := schedule.SlotsByDay()

	maxGap := 0.0
	busiest := 0
	for _, slots := range slotsByDay {
		if len(slots) > busiest {
			busiest = len(slots)
		}

		sorted := slices.Clone(slots)
		slices.SortFunc(sorted, compareSlots)
		for i := 1; i < len(sorted); i++ {
			quantized := quantizeGap(sorted[i].MinuteOfDay-sorted[i-1].MinuteOfDay, courseDurationMinutes)
			if quantized > maxGap {
				maxGap = quantized
			}
		}
	}

	stats := ScheduleStats{
		Days:                 len(slotsByDay),
		MaxGapBetweenCourses: maxGap,
		CoursesOnBusiestDay:  busiest,
	}
	// Rewards spreading sessions across days and larger gaps, penalizes a
	// packed single day.
	stats.Score = float64(stats.Days*2) + stats.MaxGapBetweenCourses - float64(stats.CoursesOnBusiestDay*2)
	return stats
}
