package middlewares

import (
	"github.com/PrayInVerses/apperrors"
	"github.com/PrayInVerses/workflow"
	"github.com/gin-gonic/gin"
)

// RequireRole aborts with 403 unless the authenticated caller holds min or
// a higher role. It must run after CheckAuth.
func RequireRole(min workflow.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		r, _ := role.(workflow.Role)

		if !r.AtLeast(min) {
			apperrors.Respond(c, apperrors.NewForbidden(apperrors.ErrCodeInsufficientPermission, "This action requires the "+string(min)+" role"))
			return
		}

		c.Next()
	}
}
