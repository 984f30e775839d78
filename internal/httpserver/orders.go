package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func listOrdersHandler(orders orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := orders.List(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, newList(items))
	}
}

func getOrderHandler(orders orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := orders.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}
