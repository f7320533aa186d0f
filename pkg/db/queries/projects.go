package queries

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/draftie/storyboard-api/pkg/db"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// ErrInsufficientCredits is returned when a credit spend finds the balance
// already at zero.
var ErrInsufficientCredits = errors.New("insufficient credits")

// CreateProjectAndSpendCredit persists a finished storyboard and decrements
// the owner's credit balance in one transaction. Either both happen or
// neither does; the UPDATE's credits > 0 guard makes concurrent double-spends
// lose the race instead of driving the balance negative. Returns the balance
// left after the spend, as seen by this transaction.
func CreateProjectAndSpendCredit(project *db.Project) (*db.Project, int, error) {
	tx, err := db.DB.Beginx()
	if err != nil {
		log.Errorf("Error starting transaction for project creation: %v", err)
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var remaining int
	err = tx.Get(&remaining, `UPDATE users SET credits = credits - 1 WHERE id = $1 AND credits > 0 RETURNING credits`, project.UserID)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Warnf("User '%s' has no credits left, refusing to persist project.", project.UserID.String())
			return nil, 0, ErrInsufficientCredits
		}
		log.Errorf("Error decrementing credits for user '%s': %v", project.UserID.String(), err)
		return nil, 0, fmt.Errorf("failed to spend credit: %w", err)
	}

	rows, err := tx.NamedQuery(`
		INSERT INTO projects (user_id, title, platform, duration, style, scenes_json)
		VALUES (:user_id, :title, :platform, :duration, :style, :scenes_json)
		RETURNING id, created_at`, project)
	if err != nil {
		log.Errorf("Error creating project: %v", err)
		return nil, 0, fmt.Errorf("failed to create project: %w", err)
	}

	if rows.Next() {
		if err := rows.StructScan(project); err != nil {
			rows.Close()
			log.Errorf("Error scanning project data after creation: %v", err)
			return nil, 0, fmt.Errorf("error scanning project after creation: %w", err)
		}
	} else {
		rows.Close()
		log.Error("No rows returned after project creation.")
		return nil, 0, fmt.Errorf("no rows returned after project creation")
	}
	rows.Close()

	if err := tx.Commit(); err != nil {
		log.Errorf("Error committing project creation: %v", err)
		return nil, 0, fmt.Errorf("failed to commit project: %w", err)
	}

	log.Infof("Project '%s' created for user ID: %s (ID: %s)", project.Title, project.UserID.String(), project.ID.String())
	return project, remaining, nil
}

// FindProjectByID retrieves a project by its ID. Returns (nil, nil) when not
// found; the ownership check is the caller's job.
func FindProjectByID(projectID uuid.UUID) (*db.Project, error) {
	project := &db.Project{}
	query := `SELECT id, user_id, title, platform, duration, style, scenes_json, created_at FROM projects WHERE id = $1`
	err := db.DB.Get(project, query, projectID)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Debugf("Project with ID '%s' not found.", projectID.String())
			return nil, nil
		}
		log.Errorf("Error finding project by ID '%s': %v", projectID.String(), err)
		return nil, fmt.Errorf("error finding project by ID: %w", err)
	}
	return project, nil
}

// FindProjectsByUserID retrieves all projects for a user, newest first.
func FindProjectsByUserID(userID uuid.UUID) ([]db.Project, error) {
	var projects []db.Project
	query := `SELECT id, user_id, title, platform, duration, style, scenes_json, created_at FROM projects WHERE user_id = $1 ORDER BY created_at DESC`
	err := db.DB.Select(&projects, query, userID)
	if err != nil {
		log.Errorf("Error finding projects for user ID '%s': %v", userID.String(), err)
		return nil, fmt.Errorf("error finding projects by user ID: %w", err)
	}
	return projects, nil
}
