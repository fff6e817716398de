package schedule

import (
	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/middleware"
	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service, rdb *redis.Client) {
	schedules := r.Group("/schedules")
	schedules.Use(middleware.AuthMiddleware())
	{
		schedules.GET("", h.GetAll)
		schedules.GET("/:id", h.GetByID)

		schedules.POST("",
			middleware.RBACAuthorize(rbacService, "schedule", "create"),
			middleware.Idempotency(rdb),
			h.Create,
		)
		schedules.PUT("/:id", middleware.RBACAuthorize(rbacService, "schedule", "update"), h.Update)
		schedules.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "schedule", "cancel"), h.Cancel)
		schedules.DELETE("/:id", middleware.RBACAuthorize(rbacService, "schedule", "delete"), h.Delete)
	}
}
