package model

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"
)

type HintType string

const (
	HintAddSlots           HintType = "add_slots"
	HintReduceMultiplicity HintType = "reduce_multiplicity"
	HintRelaxConstraint    HintType = "relax_constraint"
	HintRemoveCourse       HintType = "remove_course"
)

var hintPriority = map[HintType]int{
	HintAddSlots:           1,
	HintReduceMultiplicity: 2,
	HintRelaxConstraint:    3,
	HintRemoveCourse:       4,
}

func priority(hintType HintType) int {
	if rank, ok := hintPriority[hintType]; ok {
		return rank
	}
	return 5
}

// Hint is an unverified suggestion for making an infeasible request
// solvable.
type Hint struct {
	Type         HintType `json:"type"`
	Description  string   `json:"description"`
	Modification string   `json:"modification"`
	Impact       string   `json:"impact"`
}

// Alternative is a verified suggestion: a relaxed variant of the request
// together with at least one schedule that satisfies it.
type Alternative struct {
	Schedules         []RankedSchedule `json:"schedules"`
	RelaxedConstraint string           `json:"relaxedConstraint"`
	Description       string           `json:"description"`
}

type HintResult struct {
	Success      bool             `json:"success"`
	Schedules    []RankedSchedule `json:"schedules,omitempty"`
	Reason       string           `json:"reason,omitempty"`
	Details      *FailureDetails  `json:"details,omitempty"`
	Hints        []Hint           `json:"hints"`
	Alternatives []Alternative    `json:"alternatives"`
}

// HintingSolver wraps the declarative solver: on success it simply passes
// the ranked schedules through, on failure it probes relaxed variants of the
// request to produce hints and fully computed alternatives.
type HintingSolver interface {
	Solve(request HintRequest, maxSolutions int) (HintResult, error)
}

func NewHintingSolver(solver Solver) HintingSolver {
	return &hintingSolver{solver: solver}
}

// Bounds on probe enumeration: hint probes only need to witness
// solvability, alternative probes carry their schedules into the result.
const (
	hintProbeSolutions        = 1
	alternativeProbeSolutions = 5
	addSlotsCandidates        = 3
)

type hintingSolver struct {
	solver Solver
}

func (hinting *hintingSolver) Solve(request HintRequest, maxSolutions int) (HintResult, error) {
	result, err := hinting.solver.FindAllSolutions(request.SolveRequest, maxSolutions)
	if err != nil {
		return HintResult{}, err
	}
	if result.Success {
		return HintResult{Success: true, Schedules: result.Schedules, Hints: []Hint{}, Alternatives: []Alternative{}}, nil
	}

	//** The analyzers are independent one-shot solves on copies of the
	//** request; run them on separate goroutines and collect positionally
	//** so the output stays deterministic
	analyzers := []func() []Hint{
		func() []Hint { return hinting.slotConflictHints(request) },
		func() []Hint { return hinting.relaxationHints(request) },
		func() []Hint { return hinting.multiplicityHints(request) },
		func() []Hint { return hinting.removalHints(request) },
	}

	collected := make([][]Hint, len(analyzers))
	var wg sync.WaitGroup
	for i, analyzer := range analyzers {
		wg.Add(1)
		go func(i int, analyzer func() []Hint) {
			defer wg.Done()
			collected[i] = analyzer()
		}(i, analyzer)
	}
	wg.Wait()

	hints := lo.Flatten(collected)
	slices.SortStableFunc(hints, func(a, b Hint) int {
		return priority(a.Type) - priority(b.Type)
	})

	return HintResult{
		Reason:       "No feasible solution with current constraints",
		Details:      result.Details,
		Hints:        hints,
		Alternatives: hinting.alternatives(request),
	}, nil
}

// probe re-runs the declarative solver on a modified request. Probe errors
// (including an exceeded budget) count as a failed probe.
func (hinting *hintingSolver) probe(request SolveRequest, maxSolutions int) ([]RankedSchedule, bool) {
	result, err := hinting.solver.FindAllSolutions(request, maxSolutions)
	if err != nil || !result.Success {
		return nil, false
	}
	return result.Schedules, true
}

//** Slot-conflict analysis: courses competing for an identical slot, where
//** the full course catalogue still holds unselected slots to dodge into

func (hinting *hintingSolver) slotConflictHints(request HintRequest) []Hint {
	coursesBySlot := make(map[TimeSlot][]string)
	for _, course := range request.Courses {
		for _, slot := range course.AvailableSlots {
			if !slices.Contains(coursesBySlot[slot], course.Name) {
				coursesBySlot[slot] = append(coursesBySlot[slot], course.Name)
			}
		}
	}

	selectedByName := make(map[string][]TimeSlot, len(request.Courses))
	for _, course := range request.Courses {
		selectedByName[course.Name] = course.AvailableSlots
	}

	hints := make([]Hint, 0)
	suggested := make(map[string]bool)
	for _, course := range request.Courses {
		inConflict := lo.SomeBy(course.AvailableSlots, func(slot TimeSlot) bool {
			return len(coursesBySlot[slot]) >= 2
		})
		if !inConflict || suggested[course.Name] {
			continue
		}
		suggested[course.Name] = true

		unselected := lo.Filter(request.ExistingCourses[course.Name], func(slot TimeSlot, _ int) bool {
			return !slices.Contains(selectedByName[course.Name], slot)
		})
		if len(unselected) == 0 {
			continue
		}
		if len(unselected) > addSlotsCandidates {
			unselected = unselected[:addSlotsCandidates]
		}

		candidates := strings.Join(lo.Map(unselected, func(slot TimeSlot, _ int) string {
			return slot.String()
		}), ", ")

		hints = append(hints, Hint{
			Type:         HintAddSlots,
			Description:  fmt.Sprintf("course %q competes with another course for the same slot", course.Name),
			Modification: fmt.Sprintf("additionally select for %q: %v", course.Name, candidates),
			Impact:       "more slots to choose from can resolve the direct conflict",
		})
	}

	return hints
}

//** Constraint relaxation: one-shot probes with slightly loosened limits

func (hinting *hintingSolver) relaxationHints(request HintRequest) []Hint {
	hints := make([]Hint, 0)

	if request.MaxCoursesPerDay != nil {
		relaxed := request.cloneSolveRequest()
		limit := *request.MaxCoursesPerDay + 1
		relaxed.MaxCoursesPerDay = &limit
		if _, ok := hinting.probe(relaxed, hintProbeSolutions); ok {
			hints = append(hints, Hint{
				Type:         HintRelaxConstraint,
				Description:  fmt.Sprintf("the limit of %v courses per day is too tight", *request.MaxCoursesPerDay),
				Modification: fmt.Sprintf("allow %v courses per day", limit),
				Impact:       "a solution exists with the relaxed limit",
			})
		}
	}

	if request.MaxEmptySlotsBetweenCourses != nil {
		relaxed := request.cloneSolveRequest()
		limit := *request.MaxEmptySlotsBetweenCourses + 2
		relaxed.MaxEmptySlotsBetweenCourses = &limit
		if _, ok := hinting.probe(relaxed, hintProbeSolutions); ok {
			hints = append(hints, Hint{
				Type:         HintRelaxConstraint,
				Description:  fmt.Sprintf("the gap limit of %v hours is too tight", *request.MaxEmptySlotsBetweenCourses),
				Modification: fmt.Sprintf("allow gaps of up to %v hours", limit),
				Impact:       "a solution exists with the relaxed limit",
			})
		}
	}

	return hints
}

//** Multiplicity reduction: one session less per over-required course

func (hinting *hintingSolver) multiplicityHints(request HintRequest) []Hint {
	hints := make([]Hint, 0)
	for _, course := range request.Courses {
		required := request.requiredSlots(course.Name)
		if required <= 1 {
			continue
		}

		reduced := request.cloneSolveRequest()
		reduced.CourseMultiplicity[course.Name] = required - 1
		if _, ok := hinting.probe(reduced, hintProbeSolutions); ok {
			hints = append(hints, Hint{
				Type:         HintReduceMultiplicity,
				Description:  fmt.Sprintf("%v sessions of %q cannot all be placed", required, course.Name),
				Modification: fmt.Sprintf("require only %v sessions of %q", required-1, course.Name),
				Impact:       "a solution exists with one session less",
			})
		}
	}
	return hints
}

//** Course removal: does dropping a single course make the rest solvable

func (hinting *hintingSolver) removalHints(request HintRequest) []Hint {
	hints := make([]Hint, 0)
	for i, course := range request.Courses {
		reduced := request.cloneSolveRequest()
		reduced.Courses = slices.Delete(slices.Clone(request.Courses), i, i+1)
		delete(reduced.CourseMultiplicity, course.Name)

		if _, ok := hinting.probe(reduced, hintProbeSolutions); ok {
			hints = append(hints, Hint{
				Type:         HintRemoveCourse,
				Description:  fmt.Sprintf("course %q blocks every remaining combination", course.Name),
				Modification: fmt.Sprintf("deselect course %q", course.Name),
				Impact:       "the remaining courses are solvable without it",
			})
		}
	}
	return hints
}

// alternatives probes progressively larger relaxations and keeps every
// variant that produced at least one verified schedule.
func (hinting *hintingSolver) alternatives(request HintRequest) []Alternative {
	alternatives := make([]Alternative, 0)

	if request.MaxCoursesPerDay != nil {
		for _, step := range []int{1, 2} {
			relaxed := request.cloneSolveRequest()
			limit := *request.MaxCoursesPerDay + step
			relaxed.MaxCoursesPerDay = &limit
			if schedules, ok := hinting.probe(relaxed, alternativeProbeSolutions); ok {
				alternatives = append(alternatives, Alternative{
					Schedules:         schedules,
					RelaxedConstraint: fmt.Sprintf("maxCoursesPerDay=%v", limit),
					Description:       fmt.Sprintf("allow %v courses per day", limit),
				})
				break
			}
		}
	}

	if request.MaxEmptySlotsBetweenCourses != nil {
		for _, step := range []float64{2, 4, 6} {
			relaxed := request.cloneSolveRequest()
			limit := *request.MaxEmptySlotsBetweenCourses + step
			relaxed.MaxEmptySlotsBetweenCourses = &limit
			if schedules, ok := hinting.probe(relaxed, alternativeProbeSolutions); ok {
				alternatives = append(alternatives, Alternative{
					Schedules:         schedules,
					RelaxedConstraint: fmt.Sprintf("maxEmptySlotsBetweenCourses=%v", limit),
					Description:       fmt.Sprintf("allow gaps of up to %v hours", limit),
				})
				break
			}
		}
	}

	for _, course := range request.Courses {
		required := request.requiredSlots(course.Name)
		if required <= 1 {
			continue
		}
		reduced := request.cloneSolveRequest()
		reduced.CourseMultiplicity[course.Name] = required - 1
		if schedules, ok := hinting.probe(reduced, alternativeProbeSolutions); ok {
			alternatives = append(alternatives, Alternative{
				Schedules:         schedules,
				RelaxedConstraint: fmt.Sprintf("courseMultiplicity[%v]=%v", course.Name, required-1),
				Description:       fmt.Sprintf("require only %v sessions of %q", required-1, course.Name),
			})
		}
	}

	for i, course := range request.Courses {
		existing := request.ExistingCourses[course.Name]
		if len(existing) <= len(course.AvailableSlots) {
			continue
		}
		expanded := request.cloneSolveRequest()
		expanded.Courses = slices.Clone(request.Courses)
		expanded.Courses[i] = Course{Name: course.Name, AvailableSlots: slices.Clone(existing)}
		if schedules, ok := hinting.probe(expanded, alternativeProbeSolutions); ok {
			alternatives = append(alternatives, Alternative{
				Schedules:         schedules,
				RelaxedConstraint: fmt.Sprintf("selectedCourses[%v]=all", course.Name),
				Description:       fmt.Sprintf("select every available slot of %q", course.Name),
			})
		}
	}

	return alternatives
}

// cloneSolveRequest copies the request deeply enough that a probe can modify
// courses and multiplicities without touching the original.
func (request HintRequest) cloneSolveRequest() SolveRequest {
	clone := request.SolveRequest
	clone.Courses = slices.Clone(request.Courses)
	clone.CourseMultiplicity = make(map[string]int, len(request.CourseMultiplicity))
	for course, count := range request.CourseMultiplicity {
		clone.CourseMultiplicity[course] = count
	}
	if len(clone.CourseMultiplicity) == 0 {
		clone.CourseMultiplicity = nil
	}
	return clone
}
