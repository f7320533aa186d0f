package db

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `db:"id"`            // primary key, auto-generated UUID
	Username     string    `db:"username"`      // unique username
	PasswordHash string    `db:"password_hash"` // bcrypt hash
	Credits      int       `db:"credits"`       // remaining generation runs, never negative
	CreatedAt    time.Time `db:"created_at"`
}

// Project is one persisted storyboard run. ScenesJSON holds the serialized
// generation result (script, scenes, marketing kit); projects are immutable
// once written.
type Project struct {
	ID         uuid.UUID `db:"id"`
	UserID     uuid.UUID `db:"user_id"`
	Title      string    `db:"title"`
	Platform   string    `db:"platform"`
	Duration   string    `db:"duration"`
	Style      string    `db:"style"`
	ScenesJSON string    `db:"scenes_json"`
	CreatedAt  time.Time `db:"created_at"`
}

// TrialLog marks an anonymous address that has consumed its free run. The
// unique constraint on ip_address is the usage lock.
type TrialLog struct {
	ID        uuid.UUID `db:"id"`
	IPAddress string    `db:"ip_address"`
	CreatedAt time.Time `db:"created_at"`
}
