package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/draftie/storyboard-api/pkg/config"
	"github.com/draftie/storyboard-api/pkg/db"
	"github.com/draftie/storyboard-api/pkg/images"
	"github.com/draftie/storyboard-api/pkg/llm"
	"github.com/draftie/storyboard-api/pkg/middleware"
	"github.com/draftie/storyboard-api/pkg/pipeline"
	"github.com/draftie/storyboard-api/pkg/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const scriptJSON = `{
	"title": "Bottle Launch",
	"opening": "Meet the bottle.",
	"scenes": [
		{"scene_number": 1, "description": "Bottle on a desk", "script": "Hook line", "image_prompt": "bottle on desk"},
		{"scene_number": 2, "description": "Bottle in hand", "script": "Feature line", "image_prompt": "bottle in hand"},
		{"scene_number": 3, "description": "Bottle outdoors", "script": "Call to action", "image_prompt": "bottle outdoors"}
	],
	"marketing_title": "The Bottle",
	"hashtags": ["#bottle"],
	"youtube_desc": "A bottle video.",
	"thumbnail_text": "BOTTLE",
	"prep_list": ["bottle"]
}`

// countingTextBackend records how often the text backend was hit.
type countingTextBackend struct {
	calls    int32
	response string
}

func (b *countingTextBackend) GenerateText(ctx context.Context, prompt string) (string, error) {
	atomic.AddInt32(&b.calls, 1)
	return b.response, nil
}

type hostedImageBackend struct{}

func (hostedImageBackend) GenerateImage(ctx context.Context, prompt string) (*images.ImageResult, error) {
	return &images.ImageResult{URL: "https://img.example.com/scene.png"}, nil
}

func newPipelineHandlers(t *testing.T, text llm.TextBackend) *Handlers {
	t.Helper()
	cfg := &config.Config{
		TrialCookieMaxAge: 365 * 24 * time.Hour,
		GenerateTimeout:   time.Minute,
		SignupCredits:     3,
	}
	orch := pipeline.NewOrchestrator(
		llm.NewScriptGenerator(text),
		images.NewSynthesizer(hostedImageBackend{}, t.TempDir()),
		pipeline.Options{Workers: 1},
	)
	return NewHandlers(cfg, services.NewTokenService("test-secret"), orch)
}

// mockDatabase swaps the shared pool for a sqlmock-backed one for the
// duration of a test.
func mockDatabase(t *testing.T) sqlmock.Sqlmock {
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

func userRows(id uuid.UUID, credits int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "password_hash", "credits", "created_at"}).
		AddRow(id.String(), "alice", "x", credits, time.Now())
}

func authedGenerateRouter(h *Handlers, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/generate", func(c *gin.Context) {
		c.Set(middleware.UserClaimsContextKey, &services.Claims{UserID: userID, Username: "alice"})
	}, h.Generate)
	return router
}

func postGenerate(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"topic":"water bottle"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// At zero credits the request is refused up front: no text backend call, no
// credit spend, no project row.
func TestGenerateRefusesAtZeroCredits(t *testing.T) {
	mock := mockDatabase(t)
	userID := uuid.New()
	mock.ExpectQuery(`FROM users WHERE id`).WithArgs(userID).
		WillReturnRows(userRows(userID, 0))

	text := &countingTextBackend{response: scriptJSON}
	router := authedGenerateRouter(newPipelineHandlers(t, text), userID)

	w := postGenerate(router, "/generate")

	if w.Code != http.StatusPaymentRequired {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusPaymentRequired)
	}
	if got := atomic.LoadInt32(&text.calls); got != 0 {
		t.Errorf("text backend called %d times, want 0", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected database activity: %v", err)
	}
}

// The credits in the response come from the spend transaction itself, not
// from arithmetic on the balance read before the pipeline ran.
func TestGenerateReportsTransactionBalance(t *testing.T) {
	mock := mockDatabase(t)
	userID := uuid.New()
	projectID := uuid.New()

	mock.ExpectQuery(`FROM users WHERE id`).WithArgs(userID).
		WillReturnRows(userRows(userID, 3))
	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE users SET credits = credits - 1`).WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"credits"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO projects`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(projectID.String(), time.Now()))
	mock.ExpectCommit()

	text := &countingTextBackend{response: scriptJSON}
	router := authedGenerateRouter(newPipelineHandlers(t, text), userID)

	w := postGenerate(router, "/generate")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var body struct {
		Data struct {
			ProjectID string `json:"project_id"`
			Credits   int    `json:"credits"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body.Data.Credits != 1 {
		t.Errorf("credits = %d, want 1 (the balance returned by the spend)", body.Data.Credits)
	}
	if body.Data.ProjectID != projectID.String() {
		t.Errorf("project_id = %q, want %q", body.Data.ProjectID, projectID)
	}
	if got := atomic.LoadInt32(&text.calls); got != 1 {
		t.Errorf("text backend called %d times, want 1", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected database activity: %v", err)
	}
}
