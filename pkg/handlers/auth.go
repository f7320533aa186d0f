package handlers

import (
	"net/http"
	"strings"

	"github.com/draftie/storyboard-api/pkg/db"
	"github.com/draftie/storyboard-api/pkg/db/queries"
	"github.com/draftie/storyboard-api/pkg/middleware"
	"github.com/draftie/storyboard-api/pkg/utils"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type SignupRequest struct {
	Username string `json:"username" binding:"required,min=3,max=150"`
	Password string `json:"password" binding:"required,min=8,max=100"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup creates a new account with the starting credit balance and logs the
// user straight in.
func (h *Handlers) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debugf("Signup: Invalid request body: %v", err)
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))

	existingUser, err := queries.FindUserByUsername(req.Username)
	if err != nil {
		log.Errorf("Signup: Error finding user '%s': %v", req.Username, err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Signup failed", nil)
		return
	}
	if existingUser != nil {
		log.Debugf("Signup: Username '%s' already taken.", req.Username)
		utils.ResponseWithError(c, http.StatusConflict, "Username already exists", nil)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Errorf("Signup: Error hashing password: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Signup failed", nil)
		return
	}

	user := &db.User{
		Username:     req.Username,
		PasswordHash: string(hashedPassword),
		Credits:      h.Config.SignupCredits,
	}

	createdUser, err := queries.CreateUser(user)
	if err != nil {
		log.Errorf("Signup: Error creating user: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Signup failed", nil)
		return
	}

	token, err := h.Tokens.GenerateToken(createdUser.ID, createdUser.Username)
	if err != nil {
		log.Errorf("Signup: Failed to generate token for user %s: %v", createdUser.Username, err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to create session", nil)
		return
	}
	h.setSessionCookie(c, token)

	log.Infof("User %s signed up with %d credits.", createdUser.Username, createdUser.Credits)
	utils.ResponseWithSuccess(c, http.StatusCreated, "Account created", gin.H{
		"token":    token,
		"username": createdUser.Username,
		"credits":  createdUser.Credits,
	})
}

// Login verifies credentials and issues a session.
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debugf("Login: Invalid request body: %v", err)
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))

	user, err := queries.FindUserByUsername(req.Username)
	if err != nil {
		log.Errorf("Login: Error finding user '%s': %v", req.Username, err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Login failed", nil)
		return
	}
	if user == nil {
		log.Debugf("Login: User '%s' not found.", req.Username)
		utils.ResponseWithError(c, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		log.Debugf("Login: Invalid password for user '%s'.", req.Username)
		utils.ResponseWithError(c, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	token, err := h.Tokens.GenerateToken(user.ID, user.Username)
	if err != nil {
		log.Errorf("Login: Failed to generate token for user %s: %v", user.Username, err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to create session", nil)
		return
	}
	h.setSessionCookie(c, token)

	log.Infof("User %s logged in successfully.", user.Username)
	utils.ResponseWithSuccess(c, http.StatusOK, "Login successful", gin.H{
		"token":    token,
		"username": user.Username,
		"credits":  user.Credits,
	})
}

// Logout clears the session cookie.
func (h *Handlers) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	utils.ResponseWithSuccess(c, http.StatusOK, "Logged out", nil)
}

func (h *Handlers) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(middleware.SessionCookieName, token, 24*60*60, "/", "", false, true)
}
