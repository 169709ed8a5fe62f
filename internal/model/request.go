package model

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"

	apperrors "github.com/kursplaner/kursplaner/pkg/errors"
)

// DefaultCourseDurationMinutes is assumed when a request does not state how
// long one course session lasts.
const DefaultCourseDurationMinutes = 90

var validate = validator.New()

// SolveRequest describes one planning problem: the courses to place (in a
// fixed order, which determines the search's course iteration order) and the
// optional constraint parameters. A request is consumed read-only; the
// solver rebuilds all derived state from it on every call.
type SolveRequest struct {
	Courses                     []Course       `json:"courses" validate:"min=1,dive"`
	MaxCoursesPerDay            *int           `json:"maxCoursesPerDay,omitempty" validate:"omitempty,min=1"`
	MaxEmptySlotsBetweenCourses *float64       `json:"maxEmptySlotsBetweenCourses,omitempty" validate:"omitempty,min=0"`
	CourseMultiplicity          map[string]int `json:"courseMultiplicity,omitempty" validate:"omitempty,dive,min=1"`
	CourseDurationMinutes       int            `json:"courseDurationMinutes,omitempty" validate:"omitempty,min=1"`
}

// HintRequest extends SolveRequest with the full slot universe per course,
// including slots the user has currently deselected. ExistingCourses is used
// only to generate hints, never for the primary search.
type HintRequest struct {
	SolveRequest
	ExistingCourses map[string][]TimeSlot `json:"existingCourses,omitempty"`
}

func (request SolveRequest) withDefaults() SolveRequest {
	if request.CourseDurationMinutes == 0 {
		request.CourseDurationMinutes = DefaultCourseDurationMinutes
	}
	return request
}

// requiredSlots is the multiplicity-map value for the course, defaulting
// to 1.
func (request SolveRequest) requiredSlots(course string) int {
	if count, ok := request.CourseMultiplicity[course]; ok {
		return count
	}
	return 1
}

func (request SolveRequest) courseNames() []string {
	return lo.Map(request.Courses, func(course Course, _ int) string {
		return course.Name
	})
}

// Validate rejects malformed requests before any search begins. Infeasible
// but well-formed requests are not an error.
func (request SolveRequest) Validate() error {
	if err := validate.Struct(request); err != nil {
		return apperrors.Wrap(err, apperrors.ErrValidation.Code, apperrors.ErrValidation.Status, "invalid request")
	}

	// validator skips pointers to zero values under omitempty, so the
	// optional limits are checked explicitly
	if request.MaxCoursesPerDay != nil && *request.MaxCoursesPerDay < 1 {
		return apperrors.Validationf("maxCoursesPerDay must be at least 1, got %v", *request.MaxCoursesPerDay)
	}
	if request.MaxEmptySlotsBetweenCourses != nil && *request.MaxEmptySlotsBetweenCourses < 0 {
		return apperrors.Validationf("maxEmptySlotsBetweenCourses must not be negative, got %v", *request.MaxEmptySlotsBetweenCourses)
	}
	if request.CourseDurationMinutes < 1 {
		return apperrors.Validationf("courseDurationMinutes must be positive, got %v", request.CourseDurationMinutes)
	}

	seen := make(map[string]bool, len(request.Courses))
	for _, course := range request.Courses {
		if course.Name == "" {
			return apperrors.Validationf("course with empty name")
		}
		if seen[course.Name] {
			return apperrors.Validationf("duplicate course %q", course.Name)
		}
		seen[course.Name] = true

		for _, slot := range course.AvailableSlots {
			if _, err := NewTimeSlot(slot.Day, slot.MinuteOfDay); err != nil {
				return apperrors.Validationf("course %q: %v", course.Name, err)
			}
		}
	}

	for course := range request.CourseMultiplicity {
		if !seen[course] {
			return apperrors.Validationf("multiplicity for unknown course %q", course)
		}
	}

	return nil
}

// requestDocument is the raw JSON shape produced by the integration layer:
// courses as an object keyed by name, slots either as "MO 18:00" strings or
// as {"day": ..., "minuteOfDay": ...} objects.
type requestDocument struct {
	SelectedCourses             map[string][]any `mapstructure:"selectedCourses"`
	ExistingCourses             map[string][]any `mapstructure:"existingCourses"`
	MaxCoursesPerDay            *int             `mapstructure:"maxCoursesPerDay"`
	MaxEmptySlotsBetweenCourses *float64         `mapstructure:"maxEmptySlotsBetweenCourses"`
	CourseMultiplicity          map[string]int   `mapstructure:"courseMultiplicity"`
	CourseDurationMinutes       int              `mapstructure:"courseDurationMinutes"`
}

// RequestFromDocument decodes a request document into a typed HintRequest.
// Course order in a JSON object is not meaningful, so courses are taken in
// sorted-name order; a given document therefore always yields the same
// search order.
func RequestFromDocument(document map[string]any) (HintRequest, error) {
	var raw requestDocument
	if err := mapstructure.Decode(document, &raw); err != nil {
		return HintRequest{}, apperrors.Wrap(err, apperrors.ErrValidation.Code, apperrors.ErrValidation.Status, "invalid request document")
	}

	courses, err := decodeCourses(raw.SelectedCourses)
	if err != nil {
		return HintRequest{}, err
	}

	request := HintRequest{
		SolveRequest: SolveRequest{
			Courses:                     courses,
			MaxCoursesPerDay:            raw.MaxCoursesPerDay,
			MaxEmptySlotsBetweenCourses: raw.MaxEmptySlotsBetweenCourses,
			CourseMultiplicity:          raw.CourseMultiplicity,
			CourseDurationMinutes:       raw.CourseDurationMinutes,
		},
	}

	if raw.ExistingCourses != nil {
		existing, err := decodeCourses(raw.ExistingCourses)
		if err != nil {
			return HintRequest{}, err
		}
		request.ExistingCourses = make(map[string][]TimeSlot, len(existing))
		for _, course := range existing {
			request.ExistingCourses[course.Name] = course.AvailableSlots
		}
	}

	return request, nil
}

// RequestFromJSON reads a request document from a JSON file.
func RequestFromJSON(file string) (HintRequest, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return HintRequest{}, err
	}

	var document map[string]any
	if err := json.Unmarshal(bytes, &document); err != nil {
		return HintRequest{}, apperrors.Wrap(err, apperrors.ErrValidation.Code, apperrors.ErrValidation.Status, "cannot parse request file")
	}

	return RequestFromDocument(document)
}

func decodeCourses(raw map[string][]any) ([]Course, error) {
	names := lo.Keys(raw)
	slices.Sort(names)

	courses := make([]Course, 0, len(names))
	for _, name := range names {
		slots := make([]TimeSlot, 0, len(raw[name]))
		for _, value := range raw[name] {
			slot, err := decodeSlot(value)
			if err != nil {
				return nil, apperrors.Validationf("course %q: %v", name, err)
			}
			slots = append(slots, slot)
		}
		courses = append(courses, Course{Name: name, AvailableSlots: slots})
	}

	return courses, nil
}

func decodeSlot(value any) (TimeSlot, error) {
	switch typed := value.(type) {
	case string:
		return ParseTimeSlot(typed)
	case map[string]any:
		var slot TimeSlot
		if err := mapstructure.Decode(typed, &slot); err != nil {
			return TimeSlot{}, err
		}
		return NewTimeSlot(slot.Day, slot.MinuteOfDay)
	default:
		return TimeSlot{}, fmt.Errorf("cannot decode time slot from %T", value)
	}
}
