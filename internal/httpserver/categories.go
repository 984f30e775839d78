package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type categoryRequest struct {
	Name string `json:"name" binding:"required"`
}

func listCategoriesHandler(categories categoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := categories.List(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, newList(items))
	}
}

func createCategoryHandler(categories categoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "name required")
			return
		}
		cat, err := categories.Create(c.Request.Context(), req.Name)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, cat)
	}
}

// renameCategoryHandler renames the category in the path to the body's name.
func renameCategoryHandler(categories categoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "name required")
			return
		}
		cat, err := categories.Rename(c.Request.Context(), c.Param("name"), req.Name)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, cat)
	}
}

func deleteCategoryHandler(categories categoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := categories.Delete(c.Request.Context(), c.Param("name")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
