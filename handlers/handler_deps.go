package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"tunereel/internal/pipeline"
	"tunereel/internal/store"
)

// ApplicationHandler holds the shared dependencies every route handler
// needs: the stage orchestrator, the artifact store, a logger and the
// payload validator.
type ApplicationHandler struct {
	Logger   *logrus.Logger
	Store    *store.Store
	Pipeline *pipeline.Orchestrator
	Validate *validator.Validate
}

// NewApplicationHandler wires the handler dependencies together.
func NewApplicationHandler(logger *logrus.Logger, st *store.Store, orc *pipeline.Orchestrator) *ApplicationHandler {
	return &ApplicationHandler{
		Logger:   logger,
		Store:    st,
		Pipeline: orc,
		Validate: validator.New(),
	}
}
