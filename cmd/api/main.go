package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/draftie/storyboard-api/pkg/config"
	"github.com/draftie/storyboard-api/pkg/db"
	"github.com/draftie/storyboard-api/pkg/db/queries"
	"github.com/draftie/storyboard-api/pkg/handlers"
	"github.com/draftie/storyboard-api/pkg/images"
	"github.com/draftie/storyboard-api/pkg/llm"
	"github.com/draftie/storyboard-api/pkg/middleware"
	"github.com/draftie/storyboard-api/pkg/pipeline"
	"github.com/draftie/storyboard-api/pkg/services"
	cors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	log.SetOutput(gin.DefaultWriter)
	log.SetFormatter(&log.JSONFormatter{})
	log.Info("Starting Storyboard API...")

	cfg := config.LoadConfig()

	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.SetLevel(log.InfoLevel)
	}

	if err := db.InitDB(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB()

	if err := db.EnsureSchema(); err != nil {
		log.Fatalf("Failed to ensure database schema: %v", err)
	}
	seedAdminUser(cfg)

	gemini, err := llm.NewGemini(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("Failed to initialize text backend: %v", err)
	}
	defer gemini.Close()

	if err := images.EnsurePlaceholder(filepath.Dir(cfg.StaticDir)); err != nil {
		log.Fatalf("Failed to write placeholder image: %v", err)
	}

	imageBackend := newImageBackend(cfg)
	synthesizer := images.NewSynthesizer(imageBackend, cfg.StaticDir)
	generator := llm.NewScriptGenerator(gemini)
	orchestrator := pipeline.NewOrchestrator(generator, synthesizer, pipeline.Options{
		Delay:   cfg.ImageDelay,
		Workers: cfg.ImageWorkers,
	})

	tokens := services.NewTokenService(cfg.JwtSecret)
	apiHandlers := handlers.NewHandlers(cfg, tokens, orchestrator)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Generated scene images and the placeholder are served from here.
	router.Static("/static", "static")

	router.GET("/health", handlers.HealthCheck)
	router.GET("/", apiHandlers.Home)
	router.GET("/legal/terms", apiHandlers.Terms)
	router.GET("/legal/privacy", apiHandlers.Privacy)

	router.POST("/signup", apiHandlers.Signup)
	router.POST("/login", apiHandlers.Login)
	router.GET("/logout", apiHandlers.Logout)

	router.GET("/try", apiHandlers.TrialStatus)
	router.POST("/try/generate", apiHandlers.TrialGenerate)

	authed := router.Group("/")
	authed.Use(middleware.AuthMiddleware(tokens))
	{
		authed.POST("/generate", apiHandlers.Generate)
		authed.GET("/projects", apiHandlers.ListProjects)
		authed.GET("/project/:id", apiHandlers.GetProject)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Infof("Server listening on %s:%s", cfg.Host, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited gracefully.")
}

func newImageBackend(cfg *config.Config) images.ImageBackend {
	switch cfg.ImageBackend {
	case "openai":
		log.Info("Using OpenAI image backend.")
		return images.NewOpenAIBackend(cfg.OpenAIAPIKey)
	default:
		log.Info("Using Pollinations image backend.")
		return images.NewPollinationsBackend()
	}
}

// seedAdminUser creates the bootstrap admin account on first start when
// ADMIN_USERNAME/ADMIN_PASSWORD are configured.
func seedAdminUser(cfg *config.Config) {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return
	}

	existing, err := queries.FindUserByUsername(cfg.AdminUsername)
	if err != nil {
		log.Fatalf("Failed to check for admin account: %v", err)
	}
	if existing != nil {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	admin := &db.User{
		Username:     cfg.AdminUsername,
		PasswordHash: string(hashed),
		Credits:      999,
	}
	if _, err := queries.CreateUser(admin); err != nil {
		log.Fatalf("Failed to create admin account: %v", err)
	}
	log.Infof("Admin account '%s' created.", cfg.AdminUsername)
}
