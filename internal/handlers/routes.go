package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/roomcare/housekeeping-backend/internal/middleware"
	"github.com/roomcare/housekeeping-backend/internal/models"
	"github.com/roomcare/housekeeping-backend/pkg/jwt"
	"github.com/sirupsen/logrus"
)

// Handlers groups every HTTP handler mounted under /api/v1
type Handlers struct {
	Requests   *HousekeepingRequestHandler
	Tasks      *HousekeeperTaskHandler
	Schedules  *ScheduleHandler
	Deliveries *DeliveryHandler
	Cron       *AdminCronHandler
	Realtime   *RealtimeHandler
}

// RegisterRoutes mounts the API on router. Every route requires a token.
func RegisterRoutes(router *gin.Engine, h Handlers, jwtService *jwt.Service, logger *logrus.Logger) {
	staffAdmins := middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin)

	if h.Realtime != nil {
		router.GET("/ws", middleware.QueryTokenAuth(jwtService, logger), h.Realtime.Connect)
	}

	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(jwtService, logger))
	{
		requests := v1.Group("/housekeeping-requests")
		{
			requests.POST("", middleware.RequireRole(models.RoleGuest, models.RoleAdmin, models.RoleSuperAdmin), h.Requests.CreateRequest)
			requests.GET("", staffAdmins, h.Requests.ListRequests)
			requests.GET("/availability", h.Requests.GetAvailability)
			requests.PUT("/:id/assign", staffAdmins, h.Requests.AssignHousekeeper)

			guest := requests.Group("/user")
			guest.Use(middleware.RequireRole(models.RoleGuest))
			{
				guest.GET("/today", h.Requests.GetTodayCount)
				guest.GET("/total", h.Requests.GetTotalCount)
			}
		}

		v1.GET("/service-types", h.Requests.ListServiceTypes)

		housekeepers := v1.Group("/housekeepers")
		{
			tasks := housekeepers.Group("/tasks")
			tasks.Use(middleware.RequireRole(models.RoleHousekeeper))
			{
				tasks.GET("", h.Tasks.ListTasks)
				tasks.PUT("/:id/acknowledge", h.Tasks.Acknowledge)
				tasks.PUT("/:id/complete", h.Tasks.Complete)
			}

			housekeepers.GET("/:id/schedule", staffAdmins, h.Schedules.GetSchedule)
			housekeepers.POST("/:id/schedule", staffAdmins, h.Schedules.SaveSchedule)
		}

		v1.PUT("/borrowed-items/:id/assign-delivery", staffAdmins, h.Deliveries.AssignDelivery)

		admin := v1.Group("/admin")
		admin.Use(middleware.RequireRole(models.RoleSuperAdmin))
		{
			admin.POST("/cron/checkout-sweep", h.Cron.RunCheckoutSweep)
			admin.GET("/cron/status", h.Cron.GetStatus)
		}
	}
}
