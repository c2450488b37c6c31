package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"

	"github.com/campusportal/portal-api/internal/config"
	"github.com/campusportal/portal-api/internal/constants"
	"github.com/campusportal/portal-api/internal/database"
	"github.com/campusportal/portal-api/internal/github"
	"github.com/campusportal/portal-api/internal/handlers"
	"github.com/campusportal/portal-api/internal/mailer"
	"github.com/campusportal/portal-api/internal/middleware"
	"github.com/campusportal/portal-api/internal/repository"
	"github.com/campusportal/portal-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	db := database.GetDB()
	if err := database.AddIndexes(db); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}

	// Outbound email and the GitHub identity provider
	notifier := &mailer.SMTPNotifier{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.FromEmail,
	}
	m := mailer.NewMailer(notifier, cfg.ActivationURLTemplate, cfg.ResetPasswordURLTemplate)
	githubClient := github.NewClient(cfg.GithubClientID, cfg.GithubClientSecret)

	// Services
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewClientOrgRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	tagRepo := repository.NewTagRepository(db)
	proposalRepo := repository.NewProposalRepository(db)

	authService := services.NewAuthService(db, m, githubClient)
	userService := services.NewUserService(userRepo, projectRepo)
	orgService := services.NewClientOrgService(orgRepo, projectRepo)
	projectService := services.NewProjectService(projectRepo, tagRepo)
	proposalService := services.NewProposalService(proposalRepo, m)
	importService := services.NewImportService(db, m)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	orgHandler := handlers.NewClientOrgHandler(orgService)
	projectHandler := handlers.NewProjectHandler(projectService)
	proposalHandler := handlers.NewProposalHandler(proposalService)
	importHandler := handlers.NewImportHandler(importService)

	// Initialize Gin router
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,
		"tcp",
		redisAddr,
		"",
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.Use(middleware.Authenticate(authService))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Portal API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		login := api.Group("/login")
		{
			login.POST("/email", authHandler.LoginWithEmail)
			login.POST("/oauth2", authHandler.LoginWithGithub)
		}
		api.POST("/activate", authHandler.Activate)
		api.POST("/reset-password", authHandler.ResetPassword)
		api.POST("/request-password-reset", authHandler.RequestPasswordReset)
		api.POST("/logout-all", middleware.RequireAuth(), authHandler.LogoutAll)

		users := api.Group("/users")
		{
			users.GET("/me", userHandler.GetCurrentUser)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", middleware.RequireAuth(), userHandler.UpdateUser)
			users.PATCH("/:id", middleware.RequireAuth(), userHandler.UpdateUser)
		}

		orgs := api.Group("/orgs")
		{
			orgs.GET("", orgHandler.ListOrgs)
			orgs.GET("/:id", orgHandler.GetOrg)
			orgs.PUT("/:id", middleware.RequireAuth(), orgHandler.UpdateOrg)
			orgs.PATCH("/:id", middleware.RequireAuth(), orgHandler.UpdateOrg)
		}

		projects := api.Group("/projects")
		{
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PUT("/:id", middleware.RequireAuth(), projectHandler.UpdateProject)
			projects.PATCH("/:id", middleware.RequireAuth(), projectHandler.UpdateProject)
		}

		api.POST("/proposals", proposalHandler.CreateProposal)

		csv := api.Group("/csv")
		csv.Use(middleware.RequireOperator())
		{
			csv.POST("/validate", importHandler.Validate)
			csv.POST("/import", importHandler.Import)
		}
	}

	// Expired reset requests are swept periodically. Advisory only:
	// usability is recomputed from timestamps on every redemption.
	go func() {
		ticker := time.NewTicker(constants.ResetRequestPruneInterval)
		defer ticker.Stop()
		for range ticker.C {
			if err := authService.PruneResetRequests(); err != nil {
				log.Printf("Failed to prune reset requests: %v", err)
			}
		}
	}()

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
