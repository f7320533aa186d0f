package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/draftie/storyboard-api/pkg/db/queries"
	"github.com/draftie/storyboard-api/pkg/llm"
	"github.com/draftie/storyboard-api/pkg/middleware"
	"github.com/draftie/storyboard-api/pkg/pipeline"
	"github.com/draftie/storyboard-api/pkg/storyboard"
	"github.com/draftie/storyboard-api/pkg/utils"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Generate runs the full pipeline for an authenticated user. Credit check
// happens before anything else: at zero credits the text backend is never
// called and the balance stays untouched.
func (h *Handlers) Generate(c *gin.Context) {
	claims, exists := middleware.GetUserClaimsFromContext(c)
	if !exists {
		log.Error("Generate: User claims not found in context.")
		utils.ResponseWithError(c, http.StatusInternalServerError, "Authentication error", nil)
		return
	}

	var req storyboard.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debugf("Generate: Invalid request body: %v", err)
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if err := req.Normalize(); err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	user, err := queries.FindUserByID(claims.UserID)
	if err != nil || user == nil {
		log.Errorf("Generate: Failed to load user '%s': %v", claims.UserID.String(), err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to load account", nil)
		return
	}
	if user.Credits <= 0 {
		log.Debugf("Generate: User '%s' has no credits.", user.Username)
		utils.ResponseWithError(c, http.StatusPaymentRequired, "Not enough credits", nil)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Config.GenerateTimeout)
	defer cancel()

	persister := &pipeline.ProjectPersister{UserID: user.ID}
	data, err := h.Orchestrator.Run(ctx, req, persister)
	if err != nil {
		h.respondGenerationError(c, err)
		return
	}

	log.Infof("Generate: Project %s created for user %s.", persister.ProjectID.String(), user.Username)
	utils.ResponseWithSuccess(c, http.StatusOK, "Storyboard generated", gin.H{
		"project_id": persister.ProjectID,
		"storyboard": data,
		"credits":    persister.RemainingCredits,
	})
}

// respondGenerationError maps pipeline failures to user-facing responses.
// Backend and parse failures are deliberately indistinguishable to the user.
func (h *Handlers) respondGenerationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, queries.ErrInsufficientCredits):
		utils.ResponseWithError(c, http.StatusPaymentRequired, "Not enough credits", nil)
	case errors.Is(err, llm.ErrBackend), errors.Is(err, llm.ErrBadResponse):
		log.Errorf("Generation failed: %v", err)
		utils.ResponseWithError(c, http.StatusBadGateway, "Generation failed, please try again", nil)
	case errors.Is(err, context.DeadlineExceeded):
		log.Errorf("Generation timed out: %v", err)
		utils.ResponseWithError(c, http.StatusGatewayTimeout, "Generation timed out, please try again", nil)
	default:
		log.Errorf("Generation failed: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Generation failed, please try again", nil)
	}
}
