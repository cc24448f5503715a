package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(handler *Handler, authMiddleware gin.HandlerFunc, env string) *gin.Engine {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"*"},
		ExposeHeaders:   []string{"Content-Type"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	protected := router.Group("/api/v1")
	protected.Use(authMiddleware)
	{
		protected.GET("/schedules", handler.listSchedules)
		protected.POST("/schedules", handler.createSchedule)
		protected.GET("/schedules/:id", handler.getSchedule)
		protected.PATCH("/schedules/:id", handler.updateSchedule)
		protected.PUT("/schedules/:id/status", handler.updateScheduleStatus)

		protected.GET("/route-details", handler.listSegments)
		protected.POST("/route-details/:id/status", handler.advanceSegment)
		protected.POST("/route-details/:id/viewed", handler.markSegmentViewed)

		protected.POST("/reschedule", handler.reschedule)
		protected.GET("/reschedules", handler.listReschedules)
		protected.GET("/reschedules/:id", handler.getReschedule)

		protected.POST("/waste-collections", handler.createWasteCollection)
		protected.GET("/waste-collections/summary", handler.wasteSummary)

		protected.GET("/drivers/stats", handler.driverStats)
		protected.GET("/route-summary/:schedule_id", handler.routeSummary)
	}

	return router
}
