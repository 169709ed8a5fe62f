package model

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestFromDocument(t *testing.T) {
	t.Run("courses in sorted name order, both slot notations", func(t *testing.T) {
		// Arrange
		document := map[string]any{
			"selectedCourses": map[string]any{
				"Zumba": []any{"MO 18:00", "DI 19:30"},
				"Aikido": []any{
					map[string]any{"day": "MI", "minuteOfDay": 1080},
				},
			},
			"maxCoursesPerDay":            2,
			"maxEmptySlotsBetweenCourses": 1.5,
			"courseMultiplicity":          map[string]any{"Zumba": 2},
			"courseDurationMinutes":       70,
		}

		// Act
		request, err := RequestFromDocument(document)

		// Assert
		require.Nil(t, err)
		require.Len(t, request.Courses, 2)
		assert.Equal(t, "Aikido", request.Courses[0].Name)
		assert.Equal(t, []TimeSlot{slotAt(Wednesday, 18, 0)}, request.Courses[0].AvailableSlots)
		assert.Equal(t, "Zumba", request.Courses[1].Name)
		assert.Equal(t, []TimeSlot{slotAt(Monday, 18, 0), slotAt(Tuesday, 19, 30)}, request.Courses[1].AvailableSlots)

		require.NotNil(t, request.MaxCoursesPerDay)
		assert.Equal(t, 2, *request.MaxCoursesPerDay)
		require.NotNil(t, request.MaxEmptySlotsBetweenCourses)
		assert.Equal(t, 1.5, *request.MaxEmptySlotsBetweenCourses)
		assert.Equal(t, map[string]int{"Zumba": 2}, request.CourseMultiplicity)
		assert.Equal(t, 70, request.CourseDurationMinutes)
	})

	t.Run("existing courses decode separately", func(t *testing.T) {
		document := map[string]any{
			"selectedCourses": map[string]any{
				"Yoga": []any{"MO 18:00"},
			},
			"existingCourses": map[string]any{
				"Yoga": []any{"MO 18:00", "DO 18:00"},
			},
		}

		request, err := RequestFromDocument(document)

		require.Nil(t, err)
		assert.Equal(t, []TimeSlot{slotAt(Monday, 18, 0), slotAt(Thursday, 18, 0)}, request.ExistingCourses["Yoga"])
	})

	t.Run("invalid slot notation is rejected with the course named", func(t *testing.T) {
		document := map[string]any{
			"selectedCourses": map[string]any{
				"Yoga": []any{"MO 25:00"},
			},
		}

		_, err := RequestFromDocument(document)

		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "Yoga")
	})
}

func TestRequestFromJSON(t *testing.T) {
	// Arrange
	document := map[string]any{
		"selectedCourses": map[string]any{
			"Yoga":    []any{"MO 18:00", "MO 19:00"},
			"Pilates": []any{"DI 18:00", "DI 19:00"},
		},
	}
	bytes, err := json.Marshal(document)
	require.Nil(t, err)

	file := filepath.Join(t.TempDir(), "request.json")
	require.Nil(t, os.WriteFile(file, bytes, 0666))

	// Act
	request, err := RequestFromJSON(file)

	// Assert
	require.Nil(t, err)
	require.Len(t, request.Courses, 2)

	// End to end through the solver: 2x2 independent slots
	result, solveErr := NewSolver().FindAllSolutions(request.SolveRequest, 100)
	require.Nil(t, solveErr)
	assert.Len(t, result.Schedules, 4)
}

func TestRequestFromJSONMissingFile(t *testing.T) {
	_, err := RequestFromJSON(filepath.Join(t.TempDir(), "absent.json"))
	assert.NotNil(t, err)
}
