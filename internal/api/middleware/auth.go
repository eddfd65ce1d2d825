package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"harvest/internal/api/handler/v1/response"
	"harvest/internal/domain"
	"harvest/internal/pkg/jwthelper"
)

const principalKey = "principal"

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

// VerifyJWT accepts the token from the Authorization header or, for
// browser-initiated downloads that cannot set headers, from the
// ?token= query parameter.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := extractToken(ctx)
		if tokenString == "" {
			response.RenderErr(ctx, response.ErrUnauthorized("missing token"))

			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, tokenString)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized("invalid or expired token"))

			return
		}

		role, err := domain.ParseRole(claims.Role)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized("invalid or expired token"))

			return
		}

		ctx.Set(principalKey, domain.User{
			ID:      claims.UserID,
			Role:    role,
			Country: claims.Country,
		})
		ctx.Next()
	}
}

func extractToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	return ctx.Query("token")
}

// RequireRoles gates a route group to the given roles. It must run
// after VerifyJWT.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		principal, ok := UserFromContext(ctx)
		if !ok {
			response.RenderErr(ctx, response.ErrUnauthorized("missing token"))

			return
		}

		for _, role := range roles {
			if principal.Role == role {
				ctx.Next()

				return
			}
		}

		response.RenderErr(ctx, response.ErrForbidden(errors.New("insufficient role")))
	}
}

// UserFromContext returns the authenticated principal set by
// VerifyJWT. Only ID, Role and Country are populated.
func UserFromContext(ctx *gin.Context) (domain.User, bool) {
	value, exists := ctx.Get(principalKey)
	if !exists {
		return domain.User{}, false
	}

	user, ok := value.(domain.User)

	return user, ok
}
