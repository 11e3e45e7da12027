package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/greenplate/mealsub/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

// AdminAuthMiddleware validates a Bearer token and exposes its subject as
// the acting identity ("actor"), which becomes changed_by on transitions.
// An empty secret disables the check for local development and uses a fixed
// actor.
func AdminAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			setActor(c, "admin")
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		raw := strings.TrimPrefix(header, "Bearer ")
		if raw == "" || raw == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthed, "missing bearer token"))
			return
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthed, "invalid token"))
			return
		}

		actor := ""
		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if sub, ok := claims["sub"].(string); ok {
				actor = sub
			}
		}
		if actor == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthed, "token has no subject"))
			return
		}
		setActor(c, actor)
		c.Next()
	}
}

func setActor(c *gin.Context, actor string) {
	c.Set("actor", actor)
	ctx := context.WithValue(c.Request.Context(), "user_id", actor)
	c.Request = c.Request.WithContext(ctx)
}
