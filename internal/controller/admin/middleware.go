package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mkaneko/traintrack/internal/dto"
)

// RequireAdmin gates the destructive maintenance surface. The deployment sits
// behind an internal proxy that sets the role header; credential hardening is
// out of scope here.
func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.GetHeader("X-User-Role") != "admin" {
			ctx.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Error: "Admin role required"})
			return
		}
		ctx.Next()
	}
}
