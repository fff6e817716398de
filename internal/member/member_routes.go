package member

import (
	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/middleware"
	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	members := r.Group("/members")
	members.Use(middleware.AuthMiddleware())
	{
		members.GET("", h.GetAll)
		members.GET("/options", h.GetOptions)
		members.GET("/:id", h.GetByID)

		members.POST("", middleware.RBACAuthorize(rbacService, "member", "create"), h.Create)
		members.PUT("/:id", middleware.RBACAuthorize(rbacService, "member", "update"), h.Update)
		members.DELETE("/:id", middleware.RBACAuthorize(rbacService, "member", "delete"), h.Delete)
	}
}
