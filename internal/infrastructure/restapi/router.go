package restapi

import (
	"net/http"
	"net/http/pprof"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SetupRouter wires middleware and all dashboard routes onto a Gin engine.
func SetupRouter(dashboard *DashboardHandler, profiles *ProfileHandler, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.Use(ZapLoggerMiddleware(logger))
	router.Use(MetricsMiddleware())
	router.Use(gin.Recovery())

	router.GET("/health", dashboard.HealthHandler)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/wallets/:identifier", dashboard.GetWalletHandler)
		v1.GET("/leaderboard/:type", dashboard.GetLeaderboardHandler)
		v1.GET("/report", dashboard.GetReportHandler)

		v1.GET("/tags", profiles.GetAllTagsHandler)
		v1.GET("/feed", profiles.GetFeedHandler)

		profileRoutes := v1.Group("/profiles/:wallet")
		{
			profileRoutes.GET("", profiles.GetProfileHandler)
			profileRoutes.GET("/tags", profiles.GetTagsHandler)
			profileRoutes.POST("/tags", profiles.AddTagHandler)
			profileRoutes.DELETE("/tags/:tag", profiles.RemoveTagHandler)
			profileRoutes.GET("/comments", profiles.GetCommentsHandler)
			profileRoutes.POST("/comments", profiles.AddCommentHandler)
			profileRoutes.DELETE("/comments/:id", profiles.DeleteCommentHandler)
		}
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	pprofRouter := router.Group("/debug/pprof")
	{
		pprofRouter.GET("/", gin.WrapF(pprof.Index))
		pprofRouter.GET("/cmdline", gin.WrapF(pprof.Cmdline))
		pprofRouter.GET("/profile", gin.WrapF(pprof.Profile))
		pprofRouter.POST("/symbol", gin.WrapF(pprof.Symbol))
		pprofRouter.GET("/symbol", gin.WrapF(pprof.Symbol))
		pprofRouter.GET("/trace", gin.WrapF(pprof.Trace))
		pprofRouter.GET("/allocs", gin.WrapH(pprof.Handler("allocs")))
		pprofRouter.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
		pprofRouter.GET("/heap", gin.WrapH(pprof.Handler("heap")))
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, APIErrorResponse{Error: "not found"})
	})

	return router
}
