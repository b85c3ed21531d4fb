package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/ayatoki/contact-tracker-api/internal/config"
	"github.com/ayatoki/contact-tracker-api/internal/constants"
	"github.com/ayatoki/contact-tracker-api/internal/database"
	"github.com/ayatoki/contact-tracker-api/internal/handlers"
	"github.com/ayatoki/contact-tracker-api/internal/middleware"
	"github.com/ayatoki/contact-tracker-api/internal/repository"
	"github.com/ayatoki/contact-tracker-api/internal/services"
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

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	contactRepo := repository.NewContactRepository(db)
	conversationRepo := repository.NewConversationRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo)
	workspaceService := services.NewWorkspaceService(workspaceRepo, membershipRepo)
	membershipService := services.NewMembershipService(membershipRepo, workspaceRepo)
	contactService := services.NewContactService(contactRepo, conversationRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	workspaceHandler := handlers.NewWorkspaceHandler(authService, workspaceService, membershipService)
	contactHandler := handlers.NewContactHandler(contactService)
	conversationHandler := handlers.NewConversationHandler(contactService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Contact Tracker API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Pending invites addressed to the caller
		invites := api.Group("/invites")
		invites.Use(middleware.RequireAuth())
		{
			invites.GET("", workspaceHandler.ListMyInvites)
			invites.POST("/accept", workspaceHandler.AcceptInvite)
		}

		// Workspace registry and membership ledger (protected)
		workspaces := api.Group("/workspaces")
		workspaces.Use(middleware.RequireAuth())
		{
			workspaces.POST("", workspaceHandler.CreateWorkspace)
			workspaces.GET("", workspaceHandler.ListWorkspaces)
			workspaces.GET("/current", workspaceHandler.GetCurrent)

			scoped := workspaces.Group("/:id")
			scoped.Use(middleware.RequireWorkspaceAccess())
			{
				scoped.GET("", workspaceHandler.GetWorkspace)
				scoped.PUT("/select", workspaceHandler.SelectCurrent)

				scoped.GET("/members", workspaceHandler.ListMembers)
				scoped.POST("/members/invite", workspaceHandler.InviteMember)
				scoped.DELETE("/invites", workspaceHandler.CancelInvite)
				scoped.DELETE("/members/:membership_id", middleware.RequireWorkspaceOwner(), workspaceHandler.RemoveMember)
				scoped.POST("/leave", workspaceHandler.LeaveWorkspace)
				scoped.POST("/transfer-ownership", middleware.RequireWorkspaceOwner(), workspaceHandler.TransferOwnership)

				scoped.POST("/companies", contactHandler.CreateCompany)
				scoped.GET("/companies", contactHandler.ListCompanies)
				scoped.GET("/companies/:company_id", contactHandler.GetCompany)
				scoped.PUT("/companies/:company_id", contactHandler.UpdateCompany)
				scoped.DELETE("/companies/:company_id", contactHandler.DeleteCompany)

				scoped.POST("/people", contactHandler.CreatePerson)
				scoped.GET("/people", contactHandler.ListPeople)
				scoped.GET("/people/:person_id", contactHandler.GetPerson)
				scoped.PUT("/people/:person_id", contactHandler.UpdatePerson)
				scoped.DELETE("/people/:person_id", contactHandler.DeletePerson)
				scoped.POST("/people/:person_id/tags", contactHandler.TagPerson)

				scoped.POST("/conversations", conversationHandler.CreateConversation)
				scoped.GET("/conversations", conversationHandler.ListConversations)
				scoped.GET("/conversations/:conversation_id", conversationHandler.GetConversation)
				scoped.DELETE("/conversations/:conversation_id", conversationHandler.DeleteConversation)

				scoped.POST("/tags", contactHandler.CreateTag)
				scoped.GET("/tags", contactHandler.ListTags)
				scoped.DELETE("/tags/:tag_id", contactHandler.DeleteTag)

				scoped.POST("/reminders", contactHandler.CreateReminder)
				scoped.GET("/reminders", contactHandler.ListReminders)
				scoped.POST("/reminders/:reminder_id/complete", contactHandler.CompleteReminder)
				scoped.DELETE("/reminders/:reminder_id", contactHandler.DeleteReminder)
			}
		}
	}

	// Start server
	log.Printf("Server starting on %s", cfg.ServerAddr)
	if err := r.Run(cfg.ServerAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
