package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kursplaner/kursplaner/internal/model"
	"github.com/kursplaner/kursplaner/pkg/config"
	apperrors "github.com/kursplaner/kursplaner/pkg/errors"
	"github.com/kursplaner/kursplaner/pkg/response"
)

type planningSolver interface {
	Solve(request model.SolveRequest) (model.SolveResult, error)
	FindAllSolutions(request model.SolveRequest, maxSolutions int) (model.EnumerationResult, error)
}

type hintingSolver interface {
	Solve(request model.HintRequest, maxSolutions int) (model.HintResult, error)
}

// SolverHandler exposes the planning engine over HTTP. Infeasibility is a
// 200 with success=false; only malformed requests and exceeded budgets map
// to error statuses.
type SolverHandler struct {
	solver       planningSolver
	hinting      hintingSolver
	maxSolutions int
}

func NewSolverHandler(solver model.Solver, hinting model.HintingSolver, cfg config.SolverConfig) *SolverHandler {
	maxSolutions := cfg.MaxSolutions
	if maxSolutions <= 0 {
		maxSolutions = model.DefaultMaxSolutions
	}
	return &SolverHandler{solver: solver, hinting: hinting, maxSolutions: maxSolutions}
}

func (h *SolverHandler) Register(r gin.IRouter) {
	r.POST("/solve", h.Solve)
	r.POST("/solutions", h.Solutions)
	r.POST("/hints", h.Hints)
}

// Solve returns the first valid schedule, or the failure diagnosis.
func (h *SolverHandler) Solve(c *gin.Context) {
	request, ok := h.bindRequest(c)
	if !ok {
		return
	}

	result, err := h.solver.Solve(request.SolveRequest)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Solutions enumerates valid schedules ranked by score. The max query
// parameter can lower, but not raise, the configured enumeration cap.
func (h *SolverHandler) Solutions(c *gin.Context) {
	request, ok := h.bindRequest(c)
	if !ok {
		return
	}

	result, err := h.solver.FindAllSolutions(request.SolveRequest, h.solutionCap(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Hints runs the hinting solver: schedules on success, hints and
// alternatives on failure.
func (h *SolverHandler) Hints(c *gin.Context) {
	request, ok := h.bindRequest(c)
	if !ok {
		return
	}

	result, err := h.hinting.Solve(request, h.solutionCap(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

func (h *SolverHandler) bindRequest(c *gin.Context) (model.HintRequest, bool) {
	var document map[string]any
	if err := c.ShouldBindJSON(&document); err != nil {
		response.Error(c, apperrors.Wrap(err, apperrors.ErrValidation.Code, http.StatusBadRequest, "invalid request payload"))
		return model.HintRequest{}, false
	}

	request, err := model.RequestFromDocument(document)
	if err != nil {
		response.Error(c, err)
		return model.HintRequest{}, false
	}
	return request, true
}

func (h *SolverHandler) solutionCap(c *gin.Context) int {
	raw := c.Query("max")
	if raw == "" {
		return h.maxSolutions
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 || limit > h.maxSolutions {
		return h.maxSolutions
	}
	return limit
}
