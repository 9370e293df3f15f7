package router

import (
	"github.com/gin-gonic/gin"
	"github.com/triorate/triorate-backend/config"
	"github.com/triorate/triorate-backend/internal/app/controller"
	"github.com/triorate/triorate-backend/internal/app/model"
	"github.com/triorate/triorate-backend/internal/middleware"
)

type Router struct {
	authController   *controller.AuthController
	entityController *controller.EntityController
	reviewController *controller.ReviewController
	feedController   *controller.FeedController
	uploadController *controller.UploadController
	exportController *controller.ExportController
	authMiddleware   *middleware.AuthMiddleware
	config           *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	entityController *controller.EntityController,
	reviewController *controller.ReviewController,
	feedController *controller.FeedController,
	uploadController *controller.UploadController,
	exportController *controller.ExportController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:   authController,
		entityController: entityController,
		reviewController: reviewController,
		feedController:   feedController,
		uploadController: uploadController,
		exportController: exportController,
		authMiddleware:   authMiddleware,
		config:           cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "TRIORATE API is running",
		})
	})

	// Legacy review endpoint, kept at its original path for the frontend
	api := router.Group("/api")
	api.Use(r.authMiddleware.Authenticate())
	{
		api.POST("/review", r.reviewController.UpsertReview)
		api.DELETE("/review", r.reviewController.DeleteReview)
	}

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.Refresh)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
		}

		r.entityRoutes(v1, "/movies", model.KindMovie, r.entityController.CreateMovie)
		r.entityRoutes(v1, "/restaurants", model.KindRestaurant, r.entityController.CreateRestaurant)
		r.entityRoutes(v1, "/books", model.KindBook, r.entityController.CreateBook)

		v1.GET("/ws", r.authMiddleware.Authenticate(), r.feedController.Connect)

		upload := v1.Group("/upload")
		upload.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
		{
			upload.POST("/presigned-url", r.uploadController.GeneratePresignedURL)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
		{
			admin.GET("/reviews/export", r.exportController.ExportReviews)
		}
	}

	return router
}

// entityRoutes binds the shared catalog handlers for one kind. Reads are
// public but carry the caller's identity when a token is present; curation
// is admin only.
func (r *Router) entityRoutes(v1 *gin.RouterGroup, path string, kind model.Kind, create gin.HandlerFunc) {
	group := v1.Group(path)
	{
		group.GET("", r.authMiddleware.OptionalAuthenticate(), r.entityController.List(kind))
		group.GET("/:id", r.authMiddleware.OptionalAuthenticate(), r.entityController.Get(kind))
		group.POST("",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole("admin"),
			create,
		)
		group.DELETE("/:id",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole("admin"),
			r.entityController.Delete(kind),
		)
	}
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
