package middleware

import (
	"net/http"

	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/domain"

	"github.com/gin-gonic/gin"
)

type ContextKey string

const (
	ContextMemberID ContextKey = "member_id"
	ContextUnitID   ContextKey = "unit_id"
)

// RBACService adalah interface lokal; package apapun yang punya
// Enforce(domain.EnforceRequest) bisa dipakai.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		memberID, ok1 := c.Get(string(ContextMemberID))
		unitID, ok2 := c.Get(string(ContextUnitID))

		if !ok1 || !ok2 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			c.Abort()
			return
		}

		req := domain.EnforceRequest{
			MemberID: memberID.(string),
			UnitID:   unitID.(string),
			Resource: resource,
			Action:   action,
		}

		allowed, err := service.Enforce(req)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{
				"error":    "forbidden",
				"message":  "You do not have permission to access this resource",
				"required": resource + ":" + action,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
