package httpserver

import (
	"context"
	"net/http"
	"strings"

	"cafe-backoffice/internal/domain"
	"github.com/gin-gonic/gin"
)

const (
	userCtxKey  = "user"
	tokenCtxKey = "token"
)

type tokenLookup interface {
	LookupByToken(ctx context.Context, token string) (*domain.User, error)
}

// authMiddleware resolves the bearer token to a user and stores both on the context.
func authMiddleware(users tokenLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{StatusCode: http.StatusUnauthorized, Message: "missing bearer token", Code: "Unauthorized"})
			return
		}
		u, err := users.LookupByToken(c.Request.Context(), token)
		if err != nil {
			writeError(c, err)
			return
		}
		c.Set(userCtxKey, u)
		c.Set(tokenCtxKey, token)
		c.Next()
	}
}

func requireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		if u == nil || !u.HasRole(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, errorResponse{StatusCode: http.StatusForbidden, Message: "requires role " + string(role), Code: "Forbidden"})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(userCtxKey)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
