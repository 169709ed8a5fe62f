package model

import "go.uber.org/zap"

// Solver performs an exhaustive backtracking search over all ways to pick
// slots for the requested courses. Infeasibility is a structured result,
// never an error; errors are reserved for malformed requests and an
// exceeded search budget.
type Solver interface {
	// Solve returns the first valid schedule found in combination order, or
	// a failure diagnosis when no valid schedule exists.
	Solve(request SolveRequest) (SolveResult, error)

	// FindAllSolutions enumerates up to maxSolutions valid schedules sorted
	// by score descending. maxSolutions <= 0 falls back to
	// DefaultMaxSolutions.
	FindAllSolutions(request SolveRequest, maxSolutions int) (EnumerationResult, error)
}

// DefaultMaxSolutions caps enumeration when the caller does not.
const DefaultMaxSolutions = 10

type SolverOption func(*backtrackingSolver)

// WithDebugLogger enables debug logging of the search. It has no effect on
// results.
func WithDebugLogger(logger *zap.Logger) SolverOption {
	return func(solver *backtrackingSolver) {
		solver.debug = logger
	}
}

// WithNodeBudget bounds the number of partial assignments the search may
// visit per call; exceeding it aborts with a BUDGET_EXCEEDED error. Zero
// means unlimited.
func WithNodeBudget(nodes int) SolverOption {
	return func(solver *backtrackingSolver) {
		solver.nodeBudget = nodes
	}
}

// NewSolver builds a Solver. The instance holds no per-call state and may be
// reused across calls.
func NewSolver(options ...SolverOption) Solver {
	solver := &backtrackingSolver{}
	for _, option := range options {
		option(solver)
	}
	return solver
}

// RankedSchedule is a complete, constraint-valid schedule together with its
// quality figures.
type RankedSchedule struct {
	Schedule Schedule      `json:"assignments"`
	Stats    ScheduleStats `json:"stats"`
}

type SolveResult struct {
	Success  bool            `json:"success"`
	Schedule *RankedSchedule `json:"schedule,omitempty"`
	Details  *FailureDetails `json:"details,omitempty"`
}

type EnumerationResult struct {
	Success   bool             `json:"success"`
	Schedules []RankedSchedule `json:"schedules,omitempty"`
	Details   *FailureDetails  `json:"details,omitempty"`
}

// FailureDetails is the structural diagnosis attached to an infeasible
// result.
type FailureDetails struct {
	TotalCourses            int                 `json:"totalCourses"`
	CoursesWithNoSlots      []string            `json:"coursesWithNoSlots"`
	CoursesWithLimitedSlots []LimitedSlotCourse `json:"coursesWithLimitedSlots"`
	PotentialConflicts      []SlotConflict      `json:"potentialConflicts"`
	ConstraintAnalysis      []ConstraintInfo    `json:"constraintAnalysis"`
}

// LimitedSlotCourse names a course with a single available slot, the usual
// suspect in an over-constrained request.
type LimitedSlotCourse struct {
	Course         string `json:"course"`
	AvailableSlots int    `json:"availableSlots"`
}

// SlotConflict lists the courses competing for one identical slot.
type SlotConflict struct {
	Slot    TimeSlot `json:"slot"`
	Courses []string `json:"courses"`
}

type ConstraintInfo struct {
	Type        ConstraintType `json:"type"`
	Description string         `json:"description"`
}
