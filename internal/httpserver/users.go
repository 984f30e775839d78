package httpserver

import (
	"net/http"

	usersvc "cafe-backoffice/internal/service/user"
	"github.com/gin-gonic/gin"
)

func listUsersHandler(users userService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := users.List(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, newList(items))
	}
}

func getUserHandler(users userService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := users.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

func createUserHandler(users userService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in usersvc.CreateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid user payload")
			return
		}
		u, err := users.Create(c.Request.Context(), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, u)
	}
}

func updateUserHandler(users userService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in usersvc.UpdateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid user payload")
			return
		}
		u, err := users.Update(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

// deleteUserHandler refuses to let an admin delete their own account.
func deleteUserHandler(users userService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if me := currentUser(c); me != nil && me.ID == id {
			c.AbortWithStatusJSON(http.StatusForbidden, errorResponse{StatusCode: http.StatusForbidden, Message: "cannot delete your own account", Code: "Forbidden"})
			return
		}
		if err := users.Delete(c.Request.Context(), id); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
