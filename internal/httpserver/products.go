package httpserver

import (
	"net/http"
	"strings"

	productsvc "cafe-backoffice/internal/service/product"
	"github.com/gin-gonic/gin"
)

type listResponse[T any] struct {
	Count   int `json:"count"`
	Results []T `json:"results"`
}

func newList[T any](items []T) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Count: len(items), Results: items}
}

func listProductsHandler(products productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := productsvc.ListFilter{
			Category: strings.TrimSpace(c.Query("category")),
			Query:    strings.TrimSpace(c.Query("q")),
		}
		items, err := products.List(c.Request.Context(), filter)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, newList(items))
	}
}

func productCategoriesHandler(products productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		names, err := products.Categories(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, newList(names))
	}
}

func getProductHandler(products productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := products.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func createProductHandler(products productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in productsvc.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid product payload")
			return
		}
		p, err := products.Create(c.Request.Context(), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func updateProductHandler(products productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in productsvc.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid product payload")
			return
		}
		p, err := products.Update(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func deleteProductHandler(products productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := products.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
