package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/macrosnap/backend/internal/api"
	"github.com/macrosnap/backend/internal/database"
	"github.com/macrosnap/backend/internal/middleware"
	"github.com/macrosnap/backend/internal/service"
)

// SetupRouter configures the application routes
func SetupRouter(
	db *gorm.DB,
	authHandler *api.AuthHandler,
	mealHandler *api.MealHandler,
	summaryHandler *api.SummaryHandler,
	authService service.IAuthService,
	analysisLimiter *middleware.RateLimiter,
) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")

	// Gateway credential exchange
	v1.POST("/auth/token", authHandler.Token)

	// Everything else requires a gateway token
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authService))
	{
		meals := protected.Group("/meals")
		{
			if analysisLimiter != nil {
				meals.POST("", analysisLimiter.RateLimitMiddleware(), mealHandler.Analyze)
			} else {
				meals.POST("", mealHandler.Analyze)
			}
			meals.GET("", mealHandler.History)
		}

		summary := protected.Group("/summary")
		{
			summary.GET("/today", summaryHandler.Today)
			summary.GET("/week", summaryHandler.Week)
			summary.GET("/stats", summaryHandler.Stats)
		}
	}

	return router
}
