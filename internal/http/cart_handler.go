package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Callmeduobgne/Luong-ban-hoa/internal/domain"
	"github.com/Callmeduobgne/Luong-ban-hoa/internal/repository"
)

// CartHandler mantiene dependencias para los endpoints del carrito.
type CartHandler struct {
	logger *zap.Logger
	carts  repository.CartRepository
}

func NewCartHandler(logger *zap.Logger, carts repository.CartRepository) *CartHandler {
	return &CartHandler{
		logger: logger,
		carts:  carts,
	}
}

// GetCart maneja GET /api/cart.
func (h *CartHandler) GetCart(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Token không được cung cấp"})
		return
	}
	cart, err := h.carts.Get(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("get cart failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Có lỗi xảy ra"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "items": cart.Items})
}

// AddToCart maneja POST /api/cart: agrega el item o acumula cantidad.
func (h *CartHandler) AddToCart(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Token không được cung cấp"})
		return
	}

	var item domain.CartItem
	if err := c.ShouldBindJSON(&item); err != nil || item.ProductID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Không có dữ liệu được gửi"})
		return
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	cart, err := h.carts.Get(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("get cart failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Có lỗi xảy ra"})
		return
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == item.ProductID {
			cart.Items[i].Quantity += item.Quantity
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, item)
	}

	if err := h.carts.Put(c.Request.Context(), user.ID, cart.Items); err != nil {
		h.logger.Error("update cart failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Có lỗi xảy ra"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "items": cart.Items})
}

// UpdateCartItem maneja PUT /api/cart/:product_id.
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Token không được cung cấp"})
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Không có dữ liệu được gửi"})
		return
	}

	cart, err := h.carts.Get(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("get cart failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Có lỗi xảy ra"})
		return
	}

	productID := c.Param("product_id")
	items := cart.Items[:0]
	for _, it := range cart.Items {
		if it.ProductID == productID {
			if req.Quantity < 1 {
				continue // cantidad cero elimina el item
			}
			it.Quantity = req.Quantity
		}
		items = append(items, it)
	}

	if err := h.carts.Put(c.Request.Context(), user.ID, items); err != nil {
		h.logger.Error("update cart failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Có lỗi xảy ra"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "items": items})
}

// RemoveCartItem maneja DELETE /api/cart/:product_id.
func (h *CartHandler) RemoveCartItem(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Token không được cung cấp"})
		return
	}

	cart, err := h.carts.Get(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("get cart failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Có lỗi xảy ra"})
		return
	}

	productID := c.Param("product_id")
	items := cart.Items[:0]
	for _, it := range cart.Items {
		if it.ProductID != productID {
			items = append(items, it)
		}
	}

	if err := h.carts.Put(c.Request.Context(), user.ID, items); err != nil {
		h.logger.Error("update cart failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Có lỗi xảy ra"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "items": items})
}
