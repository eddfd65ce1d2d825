package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"harvest/internal/api/handler/v1/response"
	"harvest/internal/domain"
	"harvest/internal/service"
)

// MaintenanceGate returns 503 to non-admins while the flag is on.
// Admins pass through so they can keep working and turn it back off.
// It must run after VerifyJWT.
func MaintenanceGate(store service.MaintenanceStore) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		enabled, err := store.Get()
		if err != nil {
			// Fail open; an unreadable flag must not take the API down.
			zap.L().Warn("maintenance flag unreadable", zap.Error(err))
			ctx.Next()

			return
		}

		if !enabled {
			ctx.Next()

			return
		}

		if principal, ok := UserFromContext(ctx); ok && principal.Role == domain.RoleAdmin {
			ctx.Next()

			return
		}

		response.RenderErr(ctx, response.ErrServiceUnavailable("service under maintenance"))
	}
}
