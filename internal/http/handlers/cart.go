package handlers

import (
	"github.com/freshcart/internal/http/response"
	"github.com/freshcart/internal/models"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加购请求
type AddCartItemRequest struct {
	Product  models.CatalogSnapshot `json:"product" binding:"required"`
	Quantity int                    `json:"quantity" binding:"required"`
}

// UpdateCartItemRequest 数量更新请求
// Quantity 允许为 0 或负数（表示删除该行），因此用指针区分"缺失"。
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// CartItemStateResponse 单个商品在购物车中的状态
type CartItemStateResponse struct {
	InCart   bool `json:"in_cart"`
	Quantity int  `json:"quantity"`
}

// GetCart 获取购物车内容
func (h *Handler) GetCart(c *gin.Context) {
	cart := h.Carts.Cart(c.Param("cart_id"))
	response.Success(c, cart.GetItems(c.Request.Context()))
}

// AddCartItem 加入商品
func (h *Handler) AddCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}
	cart := h.Carts.Cart(c.Param("cart_id"))
	items, err := cart.AddItem(c.Request.Context(), req.Product, req.Quantity)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, items)
}

// UpdateCartItem 更新商品数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}
	cart := h.Carts.Cart(c.Param("cart_id"))
	items, err := cart.UpdateQuantity(c.Request.Context(), c.Param("product_id"), *req.Quantity)
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, items)
}

// DeleteCartItem 删除商品行
func (h *Handler) DeleteCartItem(c *gin.Context) {
	cart := h.Carts.Cart(c.Param("cart_id"))
	items, err := cart.RemoveItem(c.Request.Context(), c.Param("product_id"))
	if err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, items)
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	cart := h.Carts.Cart(c.Param("cart_id"))
	if err := cart.Clear(c.Request.Context()); err != nil {
		respondWithMappedError(c, err)
		return
	}
	response.Success(c, nil)
}

// GetCartTotal 获取购物车汇总
func (h *Handler) GetCartTotal(c *gin.Context) {
	cart := h.Carts.Cart(c.Param("cart_id"))
	response.Success(c, cart.Total(c.Request.Context()))
}

// GetCartItemState 查询单个商品状态
func (h *Handler) GetCartItemState(c *gin.Context) {
	cart := h.Carts.Cart(c.Param("cart_id"))
	quantity := cart.Quantity(c.Request.Context(), c.Param("product_id"))
	response.Success(c, CartItemStateResponse{
		InCart:   quantity > 0,
		Quantity: quantity,
	})
}
