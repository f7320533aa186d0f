package handlers

import (
	"net/http"
	"time"

	"github.com/draftie/storyboard-api/pkg/db/queries"
	"github.com/draftie/storyboard-api/pkg/middleware"
	"github.com/draftie/storyboard-api/pkg/storyboard"
	"github.com/draftie/storyboard-api/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// ProjectSummary is the list-view shape, without the storyboard blob.
type ProjectSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Platform  string    `json:"platform"`
	Duration  string    `json:"duration"`
	Style     string    `json:"style"`
	CreatedAt time.Time `json:"created_at"`
}

// ListProjects returns the caller's projects, newest first.
func (h *Handlers) ListProjects(c *gin.Context) {
	claims, exists := middleware.GetUserClaimsFromContext(c)
	if !exists {
		utils.ResponseWithError(c, http.StatusInternalServerError, "Authentication error", nil)
		return
	}

	projects, err := queries.FindProjectsByUserID(claims.UserID)
	if err != nil {
		log.Errorf("ListProjects: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to load projects", nil)
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

	utils.ResponseWithSuccess(c, http.StatusOK, "Projects retrieved", gin.H{"projects": summaries})
}

// GetProject returns one project with its decoded storyboard. Owner-only:
// any other authenticated user gets 403, never the content.
func (h *Handlers) GetProject(c *gin.Context) {
	claims, exists := middleware.GetUserClaimsFromContext(c)
	if !exists {
		utils.ResponseWithError(c, http.StatusInternalServerError, "Authentication error", nil)
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid project ID", nil)
		return
	}

	project, err := queries.FindProjectByID(projectID)
	if err != nil {
		log.Errorf("GetProject: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to load project", nil)
		return
	}
	if project == nil {
		utils.ResponseWithError(c, http.StatusNotFound, "Project not found", nil)
		return
	}
	if project.UserID != claims.UserID {
		log.Warnf("GetProject: User '%s' denied access to project '%s' owned by '%s'.",
			claims.UserID.String(), project.ID.String(), project.UserID.String())
		utils.ResponseWithError(c, http.StatusForbidden, "You do not have access to this project", nil)
		return
	}

	data, err := storyboard.Decode(project.ScenesJSON)
	if err != nil {
		log.Errorf("GetProject: Failed to decode stored storyboard for project '%s': %v", project.ID.String(), err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Stored project data is unreadable", nil)
		return
	}

	utils.ResponseWithSuccess(c, http.StatusOK, "Project retrieved", gin.H{
		"project": ProjectSummary{
			ID:        project.ID,
			Title:     project.Title,
			Platform:  project.Platform,
			Duration:  project.Duration,
			Style:     project.Style,
			CreatedAt: project.CreatedAt,
		},
		"storyboard": data,
	})
}
