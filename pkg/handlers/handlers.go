package handlers

import (
	"github.com/draftie/storyboard-api/pkg/config"
	"github.com/draftie/storyboard-api/pkg/pipeline"
	"github.com/draftie/storyboard-api/pkg/services"
)

// Handlers holds the request handlers' shared dependencies: process-wide
// immutable configuration and the long-lived pipeline, injected once at
// startup.
type Handlers struct {
	Config       *config.Config
	Tokens       *services.TokenService
	Orchestrator *pipeline.Orchestrator
}

func NewHandlers(cfg *config.Config, tokens *services.TokenService, orch *pipeline.Orchestrator) *Handlers {
	return &Handlers{
		Config:       cfg,
		Tokens:       tokens,
		Orchestrator: orch,
	}
}
