package httpserver

import (
	"net/http"
	"strconv"

	cartsvc "food-ordering/internal/service/cart"
	"github.com/gin-gonic/gin"
)

type addCartItemRequest struct {
	ShopID    string `json:"shopId" binding:"required"`
	MenuID    string `json:"menuId" binding:"required"`
	OptionIDs []int  `json:"optionIds"`
	Quantity  int    `json:"quantity" binding:"required"`
}

func addCartItemHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
			return
		}

		cart, err := carts.AddItem(c.Request.Context(), cartsvc.AddItemInput{
			UserID:    c.Param("userID"),
			ShopID:    req.ShopID,
			MenuID:    req.MenuID,
			OptionIDs: req.OptionIDs,
			Quantity:  req.Quantity,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartResponse(cart))
	}
}

type removeCartItemRequest struct {
	MenuID    string `json:"menuId" binding:"required"`
	OptionIDs []int  `json:"optionIds"`
}

func removeCartItemHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req removeCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
			return
		}

		cart, err := carts.RemoveItem(c.Request.Context(), c.Param("userID"), req.MenuID, req.OptionIDs)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartResponse(cart))
	}
}

type changeQuantityRequest struct {
	MenuID    string `json:"menuId" binding:"required"`
	OptionIDs []int  `json:"optionIds"`
	Quantity  int    `json:"quantity" binding:"required"`
}

func changeCartItemQuantityHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req changeQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
			return
		}

		cart, err := carts.ChangeQuantity(c.Request.Context(), c.Param("userID"), req.MenuID, req.OptionIDs, req.Quantity)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartResponse(cart))
	}
}

func getCartHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := carts.Get(c.Request.Context(), c.Param("userID"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartResponse(cart))
	}
}

func placeOrderHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ord, err := carts.PlaceOrder(c.Request.Context(), c.Param("userID"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, toOrderResponse(ord))
	}
}

func listOrdersHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := queryInt(c, "limit", 20)
		offset := queryInt(c, "offset", 0)

		orders, total, err := carts.ListOrders(c.Request.Context(), c.Param("userID"), limit, offset)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toOrderListResponse(orders, limit, offset, total))
	}
}

func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
