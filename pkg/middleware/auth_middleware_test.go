package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/draftie/storyboard-api/pkg/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func newAuthRouter(tokens *services.TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", AuthMiddleware(tokens), func(c *gin.Context) {
		claims, ok := GetUserClaimsFromContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"username": claims.Username})
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	tokens := services.NewTokenService("test-secret")
	userID := uuid.New()
	token, err := tokens.GenerateToken(userID, "alice")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	router := newAuthRouter(tokens)

	tests := []struct {
		name       string
		cookie     string
		authHeader string
		wantStatus int
	}{
		{name: "sessionCookie", cookie: token, wantStatus: http.StatusOK},
		{name: "bearerHeader", authHeader: "Bearer " + token, wantStatus: http.StatusOK},
		{name: "noCredentials", wantStatus: http.StatusUnauthorized},
		{name: "badToken", cookie: "garbage", wantStatus: http.StatusUnauthorized},
		{name: "malformedHeader", authHeader: "Token " + token, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tt.cookie})
			}
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}
