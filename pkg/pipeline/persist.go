package pipeline

import (
	"context"
	"fmt"

	"github.com/draftie/storyboard-api/pkg/db"
	"github.com/draftie/storyboard-api/pkg/db/queries"
	"github.com/draftie/storyboard-api/pkg/storyboard"
	"github.com/google/uuid"
)

// ProjectPersister stores the result as a project row owned by the user and
// spends one credit, both in a single transaction.
type ProjectPersister struct {
	UserID uuid.UUID

	// Filled in after a successful persist.
	ProjectID        uuid.UUID
	RemainingCredits int
}

func (p *ProjectPersister) Persist(ctx context.Context, req storyboard.GenerationRequest, data *storyboard.ScriptData) error {
	blob, err := storyboard.Encode(data)
	if err != nil {
		return err
	}

	title := data.Title
	if title == "" {
		title = req.Topic
	}

	project := &db.Project{
		UserID:     p.UserID,
		Title:      title,
		Platform:   req.Platform,
		Duration:   req.Duration,
		Style:      req.Style,
		ScenesJSON: blob,
	}

	created, remaining, err := queries.CreateProjectAndSpendCredit(project)
	if err != nil {
		return fmt.Errorf("persist project: %w", err)
	}
	p.ProjectID = created.ID
	p.RemainingCredits = remaining
	return nil
}

// TrialPersister records the anonymous address in the trial ledger. No
// project row is written; the result only lives in the response.
type TrialPersister struct {
	IPAddress string
}

func (p *TrialPersister) Persist(ctx context.Context, req storyboard.GenerationRequest, data *storyboard.ScriptData) error {
	if err := queries.RecordTrial(p.IPAddress); err != nil {
		return fmt.Errorf("persist trial: %w", err)
	}
	return nil
}
