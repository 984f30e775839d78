package httpserver

import (
	"net/http"
	"strings"

	"cafe-backoffice/internal/domain"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int          `json:"expires_in"`
	User        *domain.User `json:"user"`
}

func loginHandler(users userService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "email and password required")
			return
		}
		sess, err := users.Login(c.Request.Context(), strings.TrimSpace(req.Email), req.Password)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, loginResponse{
			AccessToken: sess.Token,
			TokenType:   "Bearer",
			ExpiresIn:   users.TokenTTLSeconds(),
			User:        sess.User,
		})
	}
}

func logoutHandler(users userService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := users.Logout(c.Request.Context(), c.GetString(tokenCtxKey)); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func meHandler(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}
