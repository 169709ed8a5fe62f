package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kursplaner/kursplaner/internal/handler"
	"github.com/kursplaner/kursplaner/internal/model"
	"github.com/kursplaner/kursplaner/pkg/config"
	"github.com/kursplaner/kursplaner/pkg/logger"
	reqidmiddleware "github.com/kursplaner/kursplaner/pkg/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	solverOptions := []model.SolverOption{}
	if cfg.Solver.NodeBudget > 0 {
		solverOptions = append(solverOptions, model.WithNodeBudget(cfg.Solver.NodeBudget))
	}
	if cfg.Env != config.EnvProduction {
		solverOptions = append(solverOptions, model.WithDebugLogger(logr))
	}

	solver := model.NewSolver(solverOptions...)
	hinting := model.NewHintingSolver(solver)
	solverHandler := handler.NewSolverHandler(solver, hinting, cfg.Solver)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	solverHandler.Register(r.Group("/api/v1"))

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
