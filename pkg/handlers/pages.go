package handlers

import (
	"net/http"

	"github.com/draftie/storyboard-api/pkg/db/queries"
	"github.com/draftie/storyboard-api/pkg/middleware"
	"github.com/draftie/storyboard-api/pkg/utils"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Home serves the landing payload for anonymous visitors and the dashboard
// payload for authenticated ones. It never rejects: a missing or stale
// session just falls back to the landing view.
func (h *Handlers) Home(c *gin.Context) {
	tokenString, err := c.Cookie(middleware.SessionCookieName)
	if err != nil || tokenString == "" {
		h.landing(c)
		return
	}

	claims, err := h.Tokens.ValidateToken(tokenString)
	if err != nil {
		h.landing(c)
		return
	}

	user, err := queries.FindUserByID(claims.UserID)
	if err != nil || user == nil {
		log.Debugf("Home: Session user '%s' not found, serving landing.", claims.UserID.String())
		h.landing(c)
		return
	}

	projects, err := queries.FindProjectsByUserID(user.ID)
	if err != nil {
		log.Errorf("Home: Failed to load projects for user '%s': %v", user.Username, err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to load dashboard", nil)
		return
	}

	summaries := make([]ProjectSummary, 0, len(projects))
	for _, p := range projects {
		summaries = append(summaries, ProjectSummary{
			ID:        p.ID,
			Title:     p.Title,
			Platform:  p.Platform,
			Duration:  p.Duration,
			Style:     p.Style,
			CreatedAt: p.CreatedAt,
		})
	}

	utils.ResponseWithSuccess(c, http.StatusOK, "Dashboard", gin.H{
		"view":     "dashboard",
		"username": user.Username,
		"credits":  user.Credits,
		"projects": summaries,
	})
}

func (h *Handlers) landing(c *gin.Context) {
	utils.ResponseWithSuccess(c, http.StatusOK, "Welcome", gin.H{
		"view":    "landing",
		"message": "Describe a product, get a ready-to-shoot short-video storyboard.",
		"trial":   "/try",
	})
}

// Terms and Privacy serve the static legal copy as JSON payloads for the
// front end to render.
func (h *Handlers) Terms(c *gin.Context) {
	utils.ResponseWithSuccess(c, http.StatusOK, "Terms of Service", gin.H{
		"title": "Terms of Service",
		"body":  "Generated storyboards are provided as-is. One credit is consumed per successful generation. Credits are not refundable once a storyboard has been produced.",
	})
}

func (h *Handlers) Privacy(c *gin.Context) {
	utils.ResponseWithSuccess(c, http.StatusOK, "Privacy Policy", gin.H{
		"title": "Privacy Policy",
		"body":  "We store your username, a salted hash of your password, your generated storyboards, and the network address of anonymous trial runs. We do not share this data with third parties.",
	})
}
