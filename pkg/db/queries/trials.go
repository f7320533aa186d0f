package queries

import (
	"errors"
	"fmt"

	"github.com/draftie/storyboard-api/pkg/db"
	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

// ErrTrialExists is returned when an address has already consumed its trial.
var ErrTrialExists = errors.New("trial already used for this address")

// uniqueViolation is the PostgreSQL error code for unique_violation.
const uniqueViolation = "23505"

// HasTrial reports whether a trial row exists for the given address.
func HasTrial(ipAddress string) (bool, error) {
	var count int
	err := db.DB.Get(&count, `SELECT COUNT(1) FROM trial_logs WHERE ip_address = $1`, ipAddress)
	if err != nil {
		log.Errorf("Error checking trial log for address '%s': %v", ipAddress, err)
		return false, fmt.Errorf("error checking trial log: %w", err)
	}
	return count > 0, nil
}

// RecordTrial inserts the trial row for an address. The unique constraint on
// ip_address closes the check-then-act race: the loser of a concurrent
// insert gets ErrTrialExists instead of a second row.
func RecordTrial(ipAddress string) error {
	_, err := db.DB.Exec(`INSERT INTO trial_logs (ip_address) VALUES ($1)`, ipAddress)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			log.Debugf("Trial already recorded for address '%s'.", ipAddress)
			return ErrTrialExists
		}
		log.Errorf("Error recording trial for address '%s': %v", ipAddress, err)
		return fmt.Errorf("error recording trial: %w", err)
	}
	log.Infof("Trial recorded for address '%s'.", ipAddress)
	return nil
}
