package model

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hintTypes(hints []Hint) []HintType {
	return lo.Map(hints, func(hint Hint, _ int) HintType {
		return hint.Type
	})
}

func TestHintingSolverDelegatesOnSuccess(t *testing.T) {
	// Arrange
	request := HintRequest{
		SolveRequest: SolveRequest{
			Courses: []Course{
				course("A", slotAt(Monday, 18, 0)),
				course("B", slotAt(Tuesday, 18, 0)),
			},
		},
	}
	hinting := NewHintingSolver(NewSolver())

	// Act
	result, err := hinting.Solve(request, 10)

	// Assert
	require.Nil(t, err)
	assert.True(t, result.Success)
	assert.Len(t, result.Schedules, 1)
	assert.Empty(t, result.Hints)
	assert.Empty(t, result.Alternatives)
}

func TestHintingSolverSlotConflict(t *testing.T) {
	// Arrange: A and B fight over MO 18:00; the catalogue still has a free
	// Tuesday slot for B
	request := HintRequest{
		SolveRequest: SolveRequest{
			Courses: []Course{
				course("A", slotAt(Monday, 18, 0)),
				course("B", slotAt(Monday, 18, 0)),
			},
		},
		ExistingCourses: map[string][]TimeSlot{
			"B": {slotAt(Monday, 18, 0), slotAt(Tuesday, 18, 0)},
		},
	}
	hinting := NewHintingSolver(NewSolver())

	// Act
	result, err := hinting.Solve(request, 10)

	// Assert
	require.Nil(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "No feasible solution with current constraints", result.Reason)

	// One add_slots hint for B, one remove_course hint per course, sorted by
	// priority
	assert.Equal(t, []HintType{HintAddSlots, HintRemoveCourse, HintRemoveCourse}, hintTypes(result.Hints))
	assert.Contains(t, result.Hints[0].Modification, "B")
	assert.Contains(t, result.Hints[0].Modification, "DI 18:00")

	// The slot expansion for B is a verified alternative
	require.Len(t, result.Alternatives, 1)
	assert.NotEmpty(t, result.Alternatives[0].Schedules)
	assert.Equal(t, "selectedCourses[B]=all", result.Alternatives[0].RelaxedConstraint)
}

func TestHintingSolverConstraintRelaxation(t *testing.T) {
	// Arrange: both courses sit on Monday but only one per day is allowed
	request := HintRequest{
		SolveRequest: SolveRequest{
			Courses: []Course{
				course("A", slotAt(Monday, 18, 0)),
				course("B", slotAt(Monday, 19, 0)),
			},
			MaxCoursesPerDay: intPtr(1),
		},
	}
	hinting := NewHintingSolver(NewSolver())

	// Act
	result, err := hinting.Solve(request, 10)

	// Assert
	require.Nil(t, err)
	assert.False(t, result.Success)

	relaxations := lo.Filter(result.Hints, func(hint Hint, _ int) bool {
		return hint.Type == HintRelaxConstraint
	})
	require.Len(t, relaxations, 1)
	assert.Contains(t, relaxations[0].Modification, "2")

	perDay := lo.Filter(result.Alternatives, func(alternative Alternative, _ int) bool {
		return alternative.RelaxedConstraint == "maxCoursesPerDay=2"
	})
	require.Len(t, perDay, 1)
	assert.NotEmpty(t, perDay[0].Schedules)
}

func TestHintingSolverMultiplicityReduction(t *testing.T) {
	// Arrange: 3 sessions required, 2 slots available
	request := HintRequest{
		SolveRequest: SolveRequest{
			Courses:            []Course{course("A", slotAt(Monday, 18, 0), slotAt(Tuesday, 18, 0))},
			CourseMultiplicity: map[string]int{"A": 3},
		},
	}
	hinting := NewHintingSolver(NewSolver())

	// Act
	result, err := hinting.Solve(request, 10)

	// Assert
	require.Nil(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, []HintType{HintReduceMultiplicity}, hintTypes(result.Hints))

	require.Len(t, result.Alternatives, 1)
	assert.Equal(t, "courseMultiplicity[A]=2", result.Alternatives[0].RelaxedConstraint)
	require.NotEmpty(t, result.Alternatives[0].Schedules)

	slots, _ := result.Alternatives[0].Schedules[0].Schedule.Assigned("A")
	assert.Len(t, slots, 2)
}

func TestHintingSolverNoSuggestions(t *testing.T) {
	// Arrange: a single course without any slot cannot be helped
	request := HintRequest{
		SolveRequest: SolveRequest{
			Courses: []Course{course("A")},
		},
	}
	hinting := NewHintingSolver(NewSolver())

	// Act
	result, err := hinting.Solve(request, 10)

	// Assert
	require.Nil(t, err)
	assert.False(t, result.Success)
	assert.Empty(t, result.Hints)
	assert.Empty(t, result.Alternatives)
}

func TestHintingSolverIsIdempotent(t *testing.T) {
	// Arrange
	request := HintRequest{
		SolveRequest: SolveRequest{
			Courses: []Course{
				course("A", slotAt(Monday, 18, 0)),
				course("B", slotAt(Monday, 18, 0)),
			},
			MaxCoursesPerDay: intPtr(2),
		},
		ExistingCourses: map[string][]TimeSlot{
			"A": {slotAt(Monday, 18, 0), slotAt(Wednesday, 18, 0)},
			"B": {slotAt(Monday, 18, 0), slotAt(Tuesday, 18, 0)},
		},
	}
	hinting := NewHintingSolver(NewSolver())

	// Act
	first, err := hinting.Solve(request, 10)
	require.Nil(t, err)
	second, err := hinting.Solve(request, 10)
	require.Nil(t, err)

	// Assert: no hidden randomness across calls
	assert.Equal(t, first, second)
}

func TestHintingSolverPropagatesValidationErrors(t *testing.T) {
	hinting := NewHintingSolver(NewSolver())

	_, err := hinting.Solve(HintRequest{}, 10)

	assert.NotNil(t, err)
}
