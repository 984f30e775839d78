package httpserver

import (
	"net/http"
	"strings"

	"cafe-backoffice/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type cartItemRequest struct {
	ProductID string      `json:"productId" binding:"required"`
	Size      domain.Size `json:"size"`
	Delta     int         `json:"delta"`
}

type cartResponse struct {
	*domain.Cart
	Total decimal.Decimal `json:"total"`
}

func toCartResponse(cart *domain.Cart) cartResponse {
	return cartResponse{Cart: cart, Total: cart.Total()}
}

func createCartHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := carts.Create(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, toCartResponse(cart))
	}
}

func getCartHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := carts.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartResponse(cart))
	}
}

func discardCartHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := carts.Discard(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func addCartItemHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "productId required")
			return
		}
		cart, err := carts.AddItem(c.Request.Context(), c.Param("id"), req.ProductID, req.Size)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartResponse(cart))
	}
}

func updateCartItemHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "productId required")
			return
		}
		cart, err := carts.UpdateQuantity(c.Request.Context(), c.Param("id"), req.ProductID, req.Size, req.Delta)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartResponse(cart))
	}
}

func removeCartItemHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		size := domain.Size(strings.TrimSpace(c.Query("size")))
		cart, err := carts.RemoveItem(c.Request.Context(), c.Param("id"), c.Param("productId"), size)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartResponse(cart))
	}
}

// checkoutHandler confirms the cart while holding its lock so no item can be
// added between the order snapshot and the clear.
func checkoutHandler(carts cartService, orders orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var order *domain.Order
		err := carts.With(ctx, c.Param("id"), func(cart *domain.Cart) error {
			o, err := orders.Confirm(ctx, cart)
			order = o
			return err
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}
