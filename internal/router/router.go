package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/tubemark-backend/config"
	"github.com/ikkim/tubemark-backend/internal/app/controller"
	"github.com/ikkim/tubemark-backend/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	authController          *controller.AuthController
	passwordResetController *controller.PasswordResetController
	favoriteController      *controller.FavoriteController
	searchController        *controller.SearchController
	authMiddleware          *middleware.AuthMiddleware
	config                  *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	passwordResetController *controller.PasswordResetController,
	favoriteController *controller.FavoriteController,
	searchController *controller.SearchController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:          authController,
		passwordResetController: passwordResetController,
		favoriteController:      favoriteController,
		searchController:        searchController,
		authMiddleware:          authMiddleware,
		config:                  cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Tubemark API is running",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/register", r.authController.Register)
	router.POST("/login", r.authController.Login)

	router.POST("/forgot-password", r.passwordResetController.ForgotPassword)
	router.GET("/verify-token/:token", r.passwordResetController.VerifyToken)
	router.POST("/reset-password/:token", r.passwordResetController.ResetPassword)

	router.GET("/search", r.searchController.Search)

	protected := router.Group("")
	protected.Use(r.authMiddleware.Authenticate())
	{
		protected.GET("/me", r.authController.GetMe)
		if r.config.Redis.Enabled {
			protected.POST("/logout", r.authController.Logout)
		}

		protected.POST("/mark-favorite", r.favoriteController.MarkFavorite)
		protected.POST("/unmark-favorite", r.favoriteController.UnmarkFavorite)
		protected.GET("/favorite-videos", r.favoriteController.ListFavorites)
	}

	return router
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
			c.Writer.Header().Set("Vary", "Origin")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
