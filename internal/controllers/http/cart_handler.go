package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.svc.Cart.GetCart(c.Request.Context(), caller(c).UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *Handler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	qty := int64(1)
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	line, created, err := h.svc.Cart.AddItem(c.Request.Context(), caller(c).UserID, req.ProductID, qty)
	if err != nil {
		h.fail(c, err)
		return
	}
	if created {
		c.JSON(http.StatusCreated, CartItemResponse{CartItem: line, Message: "Item added to cart"})
		return
	}
	c.JSON(http.StatusOK, CartItemResponse{CartItem: line, Message: "Cart updated"})
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	line, err := h.svc.Cart.UpdateItem(c.Request.Context(), caller(c).UserID, id, *req.Quantity)
	if err != nil {
		h.fail(c, err)
		return
	}
	if line == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
		return
	}
	c.JSON(http.StatusOK, CartItemResponse{CartItem: line, Message: "Cart updated"})
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Cart.RemoveItem(c.Request.Context(), caller(c).UserID, id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
}

func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.svc.Cart.Clear(c.Request.Context(), caller(c).UserID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
