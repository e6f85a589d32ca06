package routes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"eventloop-api/config"
	"eventloop-api/controllers"
	"eventloop-api/middleware"
)

func SetupCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	// Controllers
	authController := controllers.NewAuthController(db, cfg.JWTSecret)
	userController := controllers.NewUserController(db)
	eventController := controllers.NewEventController(db)
	speakerController := controllers.NewSpeakerController(db)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	r.Static("/static", "./static")

	api := r.Group("/api")
	api.Use(middleware.RateLimit(120, 20))

	// Auth routes (public)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// Public event read path
	events := api.Group("/events")
	{
		events.GET("", eventController.GetEvents)
		events.GET("/popular-tags", eventController.PopularTags)
		events.GET("/all-tags", eventController.AllTags)
		events.GET("/:id", eventController.GetEvent)
	}

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		protected.POST("/events", middleware.RequireOrganizer(), eventController.CreateEvent)
		protected.PUT("/events/:id", middleware.RequireOrganizer(), eventController.UpdateEvent)
		protected.DELETE("/events/:id", middleware.RequireOrganizer(), eventController.DeleteEvent)

		protected.POST("/events/:id/save", eventController.SaveEvent)
		protected.DELETE("/events/:id/save", eventController.UnsaveEvent)

		users := protected.Group("/users")
		{
			users.GET("/profile", userController.GetProfile)
			users.PUT("/profile", userController.UpdateProfile)
			users.GET("/saved-events", userController.GetSavedEvents)
		}

		speakers := protected.Group("/speaker-applications")
		{
			speakers.POST("", speakerController.Apply)
			speakers.GET("", speakerController.GetApplications)
			speakers.POST("/:id/approve", middleware.RequireAdmin(), speakerController.Approve)
			speakers.POST("/:id/reject", middleware.RequireAdmin(), speakerController.Reject)
		}
	}

	// All remaining routes serve the client application shell; the client
	// handles its own routing.
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.File("./static/index.html")
	})
}
