package main

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/PrayInVerses/controllers"
	"github.com/PrayInVerses/initializers"
	"github.com/PrayInVerses/metrics"
	"github.com/PrayInVerses/middlewares"
	"github.com/PrayInVerses/services"
	"github.com/PrayInVerses/workflow"
)

func init() {
	initializers.LoadEnv()
	initializers.InitLogger()
	initializers.ConnectDB()
	services.InitPushNotificationService()
	services.InitEmailService()
}

func main() {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middlewares.RequestLogger())
	router.Use(metrics.Middleware())

	getKey := func(c *gin.Context) string {
		if gin.Mode() == gin.DebugMode {
			return c.FullPath()
		}
		return c.ClientIP()
	}

	router.POST("/login", middlewares.RateLimitMiddleware(2, 2, getKey), controllers.UserLogin)
	router.POST("/signup", middlewares.RateLimitMiddleware(2, 2, getKey), controllers.PublicUserSignup)
	router.GET("/ping", middlewares.RateLimitMiddleware(2, 2, getKey), controllers.Ping)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	auth := router.Group("/")
	auth.Use(middlewares.CheckAuth)
	auth.Use(middlewares.RateLimitMiddleware(10, 10, getKey))
	{
		// user routes
		auth.GET("/users/me", controllers.GetUserProfile)
		auth.GET("/users/me/saved", controllers.GetSavedPrayers)
		auth.POST("/users/push-token", controllers.StorePushToken)

		// library routes
		auth.GET("/library", controllers.GetLibrary)
		auth.GET("/library/:curated_prayer_id", controllers.GetLibraryPrayer)
		auth.POST("/library/:curated_prayer_id/save", controllers.SaveCuratedPrayer)
		auth.DELETE("/library/:curated_prayer_id/save", controllers.UnsaveCuratedPrayer)

		// content staff routes
		curated := auth.Group("/admin/curated")
		curated.Use(middlewares.RequireRole(workflow.RoleEditor))
		{
			curated.GET("", controllers.ListCuratedPrayers)
			curated.POST("", controllers.CreateCuratedPrayer)
			curated.GET("/:curated_prayer_id", controllers.GetCuratedPrayer)
			curated.PATCH("/:curated_prayer_id", controllers.UpdateCuratedPrayer)
			curated.DELETE("/:curated_prayer_id", controllers.DeleteCuratedPrayer)
			curated.POST("/:curated_prayer_id/transition", controllers.TransitionCuratedPrayer)
			curated.GET("/:curated_prayer_id/history", controllers.GetCuratedPrayerHistory)
		}

		// super admin only routes
		admin := auth.Group("/admin/users")
		admin.Use(middlewares.RequireRole(workflow.RoleSuperAdmin))
		admin.Use(middlewares.RateLimitMiddleware(5, 5, getKey))
		{
			admin.PATCH("/:user_profile_id/role", controllers.UpdateUserRole)
		}
	}

	if err := router.Run(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
