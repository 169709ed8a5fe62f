package model

import (
	"slices"

	"github.com/samber/lo"
)

// analyzeFailure explains an infeasible request structurally: courses
// without slots, courses with a single slot, slots several courses compete
// for, and the active constraint set.
func analyzeFailure(request SolveRequest, constraints []Constraint) *FailureDetails {
	details := &FailureDetails{
		TotalCourses:       len(request.Courses),
		CoursesWithNoSlots: []string{},
		PotentialConflicts: []SlotConflict{},
	}

	details.CoursesWithNoSlots = lo.FilterMap(request.Courses, func(course Course, _ int) (string, bool) {
		return course.Name, len(course.AvailableSlots) == 0
	})

	details.CoursesWithLimitedSlots = lo.FilterMap(request.Courses, func(course Course, _ int) (LimitedSlotCourse, bool) {
		return LimitedSlotCourse{Course: course.Name, AvailableSlots: len(course.AvailableSlots)},
			len(course.AvailableSlots) == 1
	})

	//** Group every (course, slot) pair by identical slot; a slot claimed by
	//** two or more distinct courses is a potential conflict
	coursesBySlot := make(map[TimeSlot][]string)
	for _, course := range request.Courses {
		for _, slot := range course.AvailableSlots {
			if !slices.Contains(coursesBySlot[slot], course.Name) {
				coursesBySlot[slot] = append(coursesBySlot[slot], course.Name)
			}
		}
	}

	conflictSlots := lo.Filter(lo.Keys(coursesBySlot), func(slot TimeSlot, _ int) bool {
		return len(coursesBySlot[slot]) >= 2
	})
	slices.SortFunc(conflictSlots, compareSlots)

	details.PotentialConflicts = lo.Map(conflictSlots, func(slot TimeSlot, _ int) SlotConflict {
		return SlotConflict{Slot: slot, Courses: coursesBySlot[slot]}
	})

	details.ConstraintAnalysis = lo.Map(constraints, func(constraint Constraint, _ int) ConstraintInfo {
		return ConstraintInfo{Type: constraint.Type(), Description: constraint.Description()}
	})

	return details
}
