package presence

import (
	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/middleware"
	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	presences := r.Group("/presences")
	presences.Use(middleware.AuthMiddleware())
	presences.Use(middleware.ExtractUserID())
	{
		presences.POST("/schedules/:schedule_id", middleware.RateLimitByUser(1, 3), h.Submit)
		presences.GET("/history", h.History)
		presences.GET("/schedules/:schedule_id", middleware.RBACAuthorize(rbacService, "presence", "read"), h.GetBySchedule)
	}
}
