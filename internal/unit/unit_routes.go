package unit

import (
	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/middleware"
	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	units := r.Group("/units")
	units.Use(middleware.AuthMiddleware())
	{
		units.GET("/me",
			middleware.RateLimitByUser(2, 10),
			handler.GetMe,
		)

		units.PUT("/me",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, "unit", "update"),
			handler.UpdateMe,
		)

		units.GET("",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "unit", "read"),
			handler.GetAll,
		)

		units.POST("",
			middleware.RateLimitByUser(0.5, 1),
			middleware.RBACAuthorize(rbacService, "unit", "create"),
			handler.Create,
		)
	}
}
