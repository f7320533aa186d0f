package queries

import (
	"database/sql"

	"github.com/draftie/storyboard-api/pkg/db"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// CreateUser inserts a new user and fills in the generated fields.
func CreateUser(user *db.User) (*db.User, error) {
	query := `
		INSERT INTO users (username, password_hash, credits)
		VALUES (:username, :password_hash, :credits)
		RETURNING id, created_at`

	rows, err := db.DB.NamedQuery(query, user)
	if err != nil {
		log.Errorf("Error creating user: %v", err)
		return nil, err
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.StructScan(user); err != nil {
			log.Errorf("Error scanning user data after creation: %v", err)
			return nil, err
		}
	} else {
		log.Error("No rows returned after user creation.")
		return nil, sql.ErrNoRows
	}

	log.Infof("User %s created with ID: %s", user.Username, user.ID.String())
	return user, nil
}

// FindUserByUsername retrieves a user by username. Returns (nil, nil) when no
// such user exists.
func FindUserByUsername(username string) (*db.User, error) {
	user := &db.User{}
	query := `SELECT id, username, password_hash, credits, created_at FROM users WHERE username = $1`
	err := db.DB.Get(user, query, username)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Debugf("User with username '%s' not found.", username)
			return nil, nil
		}
		log.Errorf("Error finding user by username '%s': %v", username, err)
		return nil, err
	}
	return user, nil
}

// FindUserByID retrieves a user by ID. Returns (nil, nil) when not found.
func FindUserByID(id uuid.UUID) (*db.User, error) {
	user := &db.User{}
	query := `SELECT id, username, password_hash, credits, created_at FROM users WHERE id = $1`
	err := db.DB.Get(user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Debugf("User with ID '%s' not found.", id.String())
			return nil, nil
		}
		log.Errorf("Error finding user by ID '%s': %v", id.String(), err)
		return nil, err
	}
	return user, nil
}
