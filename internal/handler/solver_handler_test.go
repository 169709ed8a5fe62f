package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/kursplaner/kursplaner/internal/model"
	"github.com/kursplaner/kursplaner/pkg/config"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	solver := model.NewSolver()
	h := NewSolverHandler(solver, model.NewHintingSolver(solver), config.SolverConfig{MaxSolutions: 10})
	router := gin.New()
	h.Register(router.Group("/api/v1"))
	return router
}

func performRequest(t *testing.T, router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.Nil(t, err)

	req, err := http.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	require.Nil(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func feasiblePayload() map[string]any {
	return map[string]any{
		"selectedCourses": map[string]any{
			"Yoga":    []any{"MO 18:00", "MO 19:00"},
			"Pilates": []any{"DI 18:00", "DI 19:00"},
		},
	}
}

func infeasiblePayload() map[string]any {
	return map[string]any{
		"selectedCourses": map[string]any{
			"Yoga":    []any{"MO 18:00"},
			"Pilates": []any{"MO 18:00"},
		},
		"existingCourses": map[string]any{
			"Pilates": []any{"MO 18:00", "DI 18:00"},
		},
	}
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.Nil(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestSolveEndpoint(t *testing.T) {
	router := newTestRouter()

	w := performRequest(t, router, "/api/v1/solve", feasiblePayload())

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	require.Equal(t, true, data["success"])
	require.NotNil(t, data["schedule"])
}

func TestSolutionsEndpoint(t *testing.T) {
	router := newTestRouter()

	w := performRequest(t, router, "/api/v1/solutions", feasiblePayload())

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	require.Equal(t, true, data["success"])
	require.Len(t, data["schedules"], 4)
}

func TestSolutionsEndpointRespectsCap(t *testing.T) {
	router := newTestRouter()

	w := performRequest(t, router, "/api/v1/solutions?max=2", feasiblePayload())

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decodeData(t, w)["schedules"], 2)
}

func TestSolutionsEndpointInfeasibleIsNotAnError(t *testing.T) {
	router := newTestRouter()

	w := performRequest(t, router, "/api/v1/solutions", infeasiblePayload())

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	require.Equal(t, false, data["success"])
	require.NotNil(t, data["details"])
}

func TestHintsEndpoint(t *testing.T) {
	router := newTestRouter()

	w := performRequest(t, router, "/api/v1/hints", infeasiblePayload())

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	require.Equal(t, false, data["success"])
	require.NotEmpty(t, data["hints"])
	require.NotEmpty(t, data["alternatives"])
}

func TestSolveEndpointValidation(t *testing.T) {
	router := newTestRouter()

	// Empty course set
	w := performRequest(t, router, "/api/v1/solve", map[string]any{"selectedCourses": map[string]any{}})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Malformed JSON
	req, err := http.NewRequest(http.MethodPost, "/api/v1/solve", bytes.NewReader([]byte(`{"selectedCourses":`)))
	require.Nil(t, err)
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
