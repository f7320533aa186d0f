package queries

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/draftie/storyboard-api/pkg/db"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// newMockDB swaps the shared pool for a sqlmock-backed one for the duration
// of a test.
func newMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	db.DB = sqlx.NewDb(mockDB, "postgres")
	t.Cleanup(func() {
		db.DB.Close()
		db.DB = nil
	})
	return mock
}

// The credits > 0 guard means a zero-balance spend updates no row; the whole
// transaction rolls back and no project is written.
func TestCreateProjectAndSpendCreditRefusesEmptyBalance(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE users SET credits = credits - 1`).
		WillReturnRows(sqlmock.NewRows([]string{"credits"}))
	mock.ExpectRollback()

	project := &db.Project{UserID: uuid.New(), Title: "Bottle Launch", ScenesJSON: "{}"}
	_, _, err := CreateProjectAndSpendCredit(project)
	if !errors.Is(err, ErrInsufficientCredits) {
		t.Fatalf("error = %v, want ErrInsufficientCredits", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected database activity: %v", err)
	}
}

func TestCreateProjectAndSpendCreditReturnsBalance(t *testing.T) {
	mock := newMockDB(t)
	userID := uuid.New()
	projectID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE users SET credits = credits - 1`).WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"credits"}).AddRow(2))
	mock.ExpectQuery(`INSERT INTO projects`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(projectID.String(), time.Now()))
	mock.ExpectCommit()

	project := &db.Project{
		UserID:     userID,
		Title:      "Bottle Launch",
		Platform:   "YouTube Shorts",
		Duration:   "Short",
		Style:      "Trendy",
		ScenesJSON: "{}",
	}
	created, remaining, err := CreateProjectAndSpendCredit(project)
	if err != nil {
		t.Fatalf("CreateProjectAndSpendCredit() error = %v", err)
	}
	if remaining != 2 {
		t.Errorf("remaining = %d, want 2", remaining)
	}
	if created.ID != projectID {
		t.Errorf("ID = %s, want %s", created.ID, projectID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected database activity: %v", err)
	}
}
