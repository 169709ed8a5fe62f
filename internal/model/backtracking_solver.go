package model

import (
	"slices"

	"github.com/samber/lo"
	"go.uber.org/zap"

	apperrors "github.com/kursplaner/kursplaner/pkg/errors"
)

type backtrackingSolver struct {
	debug      *zap.Logger
	nodeBudget int
}

func (solver *backtrackingSolver) Solve(request SolveRequest) (SolveResult, error) {
	request = request.withDefaults()
	if err := request.Validate(); err != nil {
		return SolveResult{}, err
	}

	//** Rebuild constraints and search state from scratch; nothing survives
	//** across calls
	constraints := buildConstraints(request)
	search := solver.newSearch(request, constraints)

	leaves := make([]Schedule, 0, 1)
	if err := search.explore(0, NewSchedule(), 1, &leaves); err != nil {
		return SolveResult{}, err
	}

	if len(leaves) == 0 {
		solver.debugLog("no feasible schedule", zap.Int("courses", len(request.Courses)), zap.Int("visited", search.visited))
		return SolveResult{Details: analyzeFailure(request, constraints)}, nil
	}

	ranked := RankedSchedule{
		Schedule: leaves[0],
		Stats:    leaves[0].Stats(request.CourseDurationMinutes),
	}
	solver.debugLog("first schedule found", zap.Float64("score", ranked.Stats.Score), zap.Int("visited", search.visited))
	return SolveResult{Success: true, Schedule: &ranked}, nil
}

func (solver *backtrackingSolver) FindAllSolutions(request SolveRequest, maxSolutions int) (EnumerationResult, error) {
	request = request.withDefaults()
	if err := request.Validate(); err != nil {
		return EnumerationResult{}, err
	}
	if maxSolutions <= 0 {
		maxSolutions = DefaultMaxSolutions
	}

	constraints := buildConstraints(request)
	search := solver.newSearch(request, constraints)

	leaves := make([]Schedule, 0, maxSolutions)
	if err := search.explore(0, NewSchedule(), maxSolutions, &leaves); err != nil {
		return EnumerationResult{}, err
	}

	//** Defensive re-verification: every collected leaf passes the strict
	//** check again before it is ranked
	names := request.courseNames()
	verified := lo.Filter(leaves, func(leaf Schedule, _ int) bool {
		return satisfiedComplete(constraints, leaf, names)
	})

	if len(verified) == 0 {
		solver.debugLog("no feasible schedule", zap.Int("courses", len(request.Courses)), zap.Int("visited", search.visited))
		return EnumerationResult{Details: analyzeFailure(request, constraints)}, nil
	}

	ranked := lo.Map(verified, func(leaf Schedule, _ int) RankedSchedule {
		return RankedSchedule{Schedule: leaf, Stats: leaf.Stats(request.CourseDurationMinutes)}
	})

	// Score descending, discovery order on ties
	slices.SortStableFunc(ranked, func(a, b RankedSchedule) int {
		switch {
		case a.Stats.Score > b.Stats.Score:
			return -1
		case a.Stats.Score < b.Stats.Score:
			return 1
		default:
			return 0
		}
	})

	solver.debugLog("enumeration finished", zap.Int("schedules", len(ranked)), zap.Int("visited", search.visited))
	return EnumerationResult{Success: true, Schedules: ranked}, nil
}

func (solver *backtrackingSolver) debugLog(message string, fields ...zap.Field) {
	if solver.debug != nil {
		solver.debug.Debug(message, fields...)
	}
}

// buildConstraints assembles a fresh constraint list for one call. Keeping
// the list per-call rather than on the solver instance rules out cross-call
// leakage when the instance is shared.
func buildConstraints(request SolveRequest) []Constraint {
	constraints := []Constraint{NewNoOverlapConstraint()}
	if request.MaxCoursesPerDay != nil {
		constraints = append(constraints, NewMaxPerDayConstraint(*request.MaxCoursesPerDay))
	}
	if request.MaxEmptySlotsBetweenCourses != nil {
		constraints = append(constraints, NewMaxGapConstraint(*request.MaxEmptySlotsBetweenCourses, request.CourseDurationMinutes))
	}
	if len(request.CourseMultiplicity) > 0 {
		constraints = append(constraints, NewMultiplicityConstraint(request.CourseMultiplicity))
	}
	return constraints
}

func satisfiedPartial(constraints []Constraint, schedule Schedule) bool {
	return !lo.SomeBy(constraints, func(constraint Constraint) bool {
		return !constraint.SatisfiedPartial(schedule)
	})
}

func satisfiedComplete(constraints []Constraint, schedule Schedule, courses []string) bool {
	return !lo.SomeBy(constraints, func(constraint Constraint) bool {
		return !constraint.SatisfiedComplete(schedule, courses)
	})
}

// searchState carries one call's search through the combination tree.
type searchState struct {
	request     SolveRequest
	constraints []Constraint
	names       []string
	budget      int
	visited     int
}

func (solver *backtrackingSolver) newSearch(request SolveRequest, constraints []Constraint) *searchState {
	return &searchState{
		request:     request,
		constraints: constraints,
		names:       request.courseNames(),
		budget:      solver.nodeBudget,
	}
}

// explore extends the partial schedule course by course in request order.
// Each course contributes every combination of requiredSlots slots chosen
// without replacement from its available slots; combinations that fail the
// lenient constraint check are pruned. Collection stops once limit leaves
// are found.
func (search *searchState) explore(depth int, schedule Schedule, limit int, leaves *[]Schedule) error {
	if depth == len(search.request.Courses) {
		// Strict leaf verification, including strict multiplicity over the
		// full course list
		if satisfiedComplete(search.constraints, schedule, search.names) {
			*leaves = append(*leaves, schedule)
		}
		return nil
	}

	course := search.request.Courses[depth]
	required := search.request.requiredSlots(course.Name)

	for _, combination := range slotCombinations(course.AvailableSlots, required) {
		search.visited++
		if search.budget > 0 && search.visited > search.budget {
			return apperrors.Wrap(nil, apperrors.ErrBudgetExceeded.Code, apperrors.ErrBudgetExceeded.Status, "search aborted after visiting the configured node budget")
		}

		extended := schedule.Assign(course.Name, combination)
		if !satisfiedPartial(search.constraints, extended) {
			continue
		}

		if err := search.explore(depth+1, extended, limit, leaves); err != nil {
			return err
		}
		if limit > 0 && len(*leaves) >= limit {
			return nil
		}
	}

	return nil
}
