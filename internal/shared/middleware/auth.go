package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"yamdb-backend/internal/authz"
	"yamdb-backend/internal/shared/apperr"
	"yamdb-backend/internal/shared/response"
	"yamdb-backend/pkg/jwt"
)

const ContextKeyActor = "actor"

// IdentityLoader resolves a token subject to the current stored identity.
type IdentityLoader interface {
	Identify(ctx context.Context, userID int64) (authz.Actor, error)
}

// Authenticate parses an optional bearer token. Requests without an
// Authorization header continue as anonymous; a header that does not carry a
// valid token for an existing user is rejected with 401.
func Authenticate(jwtManager *jwt.Manager, identities IdentityLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Set(ContextKeyActor, authz.Anonymous())
			c.Next()
			return
		}

		// "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		// Role có thể đã đổi từ lúc cấp token nên luôn đọc lại từ DB.
		actor, err := identities.Identify(c.Request.Context(), claims.UserID)
		if err != nil {
			if apperr.KindOf(err) != apperr.KindNotFound {
				log.Error().Err(err).Int64("user_id", claims.UserID).Msg("identity lookup failed")
				response.InternalServerError(c, "Internal server error")
				c.Abort()
				return
			}
			abortUnauthorized(c, "user not found")
			return
		}

		c.Set(ContextKeyActor, actor)
		c.Next()
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ActorFrom(c).Authenticated {
			abortUnauthorized(c, apperr.ErrUnauthorized.Message)
			return
		}
		c.Next()
	}
}

// ActorFrom returns the caller set by Authenticate, anonymous if none.
func ActorFrom(c *gin.Context) authz.Actor {
	if v, ok := c.Get(ContextKeyActor); ok {
		if actor, ok := v.(authz.Actor); ok {
			return actor
		}
	}
	return authz.Anonymous()
}

func abortUnauthorized(c *gin.Context, message string) {
	response.Unauthorized(c, message)
	c.Abort()
}
