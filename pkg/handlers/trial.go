package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/draftie/storyboard-api/pkg/db/queries"
	"github.com/draftie/storyboard-api/pkg/pipeline"
	"github.com/draftie/storyboard-api/pkg/storyboard"
	"github.com/draftie/storyboard-api/pkg/utils"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// TrialCookieName marks a browser that has used its anonymous trial. The
// server-side TrialLog row is the authoritative lock; the cookie just
// deflects repeat visits before they reach the pipeline.
const TrialCookieName = "trial_used"

// TrialStatus reports whether the caller can still run the anonymous trial.
func (h *Handlers) TrialStatus(c *gin.Context) {
	if cookie, err := c.Cookie(TrialCookieName); err == nil && cookie != "" {
		utils.ResponseWithSuccess(c, http.StatusOK, "Trial status", gin.H{"available": false})
		return
	}

	used, err := queries.HasTrial(c.ClientIP())
	if err != nil {
		log.Errorf("TrialStatus: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to check trial status", nil)
		return
	}

	utils.ResponseWithSuccess(c, http.StatusOK, "Trial status", gin.H{"available": !used})
}

// TrialGenerate runs one anonymous pipeline pass, gated by the trial cookie
// and the TrialLog row for the caller's address. A repeat attempt is
// deflected before the text backend is ever called.
func (h *Handlers) TrialGenerate(c *gin.Context) {
	if cookie, err := c.Cookie(TrialCookieName); err == nil && cookie != "" {
		h.respondTrialUsed(c)
		return
	}

	clientIP := c.ClientIP()
	used, err := queries.HasTrial(clientIP)
	if err != nil {
		log.Errorf("TrialGenerate: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Trial check failed", nil)
		return
	}
	if used {
		h.respondTrialUsed(c)
		return
	}

	var req storyboard.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debugf("TrialGenerate: Invalid request body: %v", err)
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if err := req.Normalize(); err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Config.GenerateTimeout)
	defer cancel()

	data, err := h.Orchestrator.Run(ctx, req, &pipeline.TrialPersister{IPAddress: clientIP})
	if err != nil {
		if errors.Is(err, queries.ErrTrialExists) {
			// A concurrent request from the same address won the insert race.
			h.respondTrialUsed(c)
			return
		}
		h.respondGenerationError(c, err)
		return
	}

	c.SetCookie(TrialCookieName, "1", int(h.Config.TrialCookieMaxAge.Seconds()), "/", "", false, true)

	log.Infof("TrialGenerate: Trial completed for address %s.", clientIP)
	utils.ResponseWithSuccess(c, http.StatusOK, "Trial storyboard generated", gin.H{
		"storyboard": data,
	})
}

func (h *Handlers) respondTrialUsed(c *gin.Context) {
	utils.ResponseWithError(c, http.StatusForbidden, "Free trial already used. Sign up to keep creating storyboards.", gin.H{
		"redirect": "/signup",
	})
}
